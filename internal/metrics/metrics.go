package metrics

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SamplesProcessed counts finished samples by result: analyzed,
	// skipped (dedup), or failed (invalid reference / publish error).
	SamplesProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "file_detection",
		Name:      "samples_processed_total",
		Help:      "Samples processed by final result",
	}, []string{"result"})

	// ClassifierResults counts per-classifier outcomes: ok or absent.
	ClassifierResults = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "file_detection",
		Name:      "classifier_results_total",
		Help:      "Classifier outcomes by tool",
	}, []string{"classifier", "outcome"})

	TagsEmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "file_detection",
		Name:      "tags_emitted_total",
		Help:      "Packer tags attached to samples, by key",
	}, []string{"key"})

	ProcessDuration = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace: "file_detection",
		Name:      "process_duration_seconds",
		Help:      "Time spent processing one sample end to end",
	})
)

func init() {
	prometheus.MustRegister(SamplesProcessed, ClassifierResults, TagsEmitted, ProcessDuration)
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	log.Printf("metrics listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("metrics server: %v", err)
	}
}
