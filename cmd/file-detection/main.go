package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"sample-pipeline/file-detection/internal/bus"
	"sample-pipeline/file-detection/internal/classify"
	"sample-pipeline/file-detection/internal/config"
	"sample-pipeline/file-detection/internal/metrics"
	"sample-pipeline/file-detection/internal/storage"
	"sample-pipeline/file-detection/internal/store"
	"sample-pipeline/file-detection/internal/tags"
	"sample-pipeline/file-detection/internal/worker"
)

// Version is set at build time via -ldflags "-X main.Version=..."
var Version = "dev"

func main() {
	var (
		cfgPath = flag.String("config", "/config.yml", "path to YAML config")
		poll    = flag.Duration("poll", 5*time.Second, "queue poll interval when idle")
		once    = flag.Bool("once", false, "drain pending tasks once then exit")
		verbose = flag.Bool("verbose", false, "enable verbose logging")
	)
	flag.Parse()

	log.Printf("file-detection %s starting...", Version)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	rules, err := tags.Load(cfg.Tags.RulesPath)
	if err != nil {
		log.Fatalf("load tag rules: %v", err)
	}
	log.Printf("loaded %d tag rules from %s", rules.Len(), cfg.Tags.RulesPath)

	samples, err := storage.NewS3(cfg.S3)
	if err != nil {
		log.Fatalf("init sample store: %v", err)
	}

	b := bus.NewHTTP(cfg.Bus)

	mkInvoker := func(name string, cc config.ClassifierConfig) classify.Invoker {
		if cc.Disable {
			log.Printf("classifier %s disabled", name)
			return classify.Disabled(name)
		}
		log.Printf("classifier %s: %s", name, cc.Bin)
		return classify.NewExec(name, cc)
	}
	cls := worker.Classifiers{
		Die:    mkInvoker("die", cfg.Classifiers.Die),
		Trid:   mkInvoker("trid", cfg.Classifiers.Trid),
		Magika: mkInvoker("magika", cfg.Classifiers.Magika),
	}

	var seen *store.Dedup
	if cfg.Dedup.Enable {
		seen = store.NewDedup(cfg.Dedup.MaxKeys, cfg.Dedup.TTL)
		log.Printf("dedup enabled: max=%d ttl=%s", cfg.Dedup.MaxKeys, cfg.Dedup.TTL)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Metrics.Enable {
		go metrics.Serve(ctx, cfg.Metrics.Addr)
	}

	w := worker.New(b, samples, cls, rules, seen, *verbose)

	runOnce := func() {
		start := time.Now()
		n, err := w.Drain(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("drain: %v", err)
		}
		if *verbose || n > 0 {
			log.Printf("cycle finished in %s, samples analyzed=%d",
				time.Since(start).Truncate(time.Millisecond), n)
		}
	}

	log.Printf("file-detection started, polling %s every %s", cfg.Bus.URL, poll.String())
	runOnce()
	if *once {
		return
	}

	ticker := time.NewTicker(*poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("stopping: %v", ctx.Err())
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
