// Package worker wires the pipeline together: consume a recognized-stage
// task, run the three classifiers over the sample, normalize, derive tags,
// compose, publish the analyzed-stage task.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"sample-pipeline/file-detection/internal/bus"
	"sample-pipeline/file-detection/internal/classify"
	"sample-pipeline/file-detection/internal/compose"
	"sample-pipeline/file-detection/internal/metrics"
	"sample-pipeline/file-detection/internal/model"
	"sample-pipeline/file-detection/internal/normalize"
	"sample-pipeline/file-detection/internal/storage"
	"sample-pipeline/file-detection/internal/store"
	"sample-pipeline/file-detection/internal/tags"
)

// Classifiers groups the three tool invokers. Any of them may be a
// classify.Disabled placeholder.
type Classifiers struct {
	Die    classify.Invoker
	Trid   classify.Invoker
	Magika classify.Invoker
}

type Worker struct {
	bus     bus.Bus
	samples storage.Store
	cls     Classifiers
	rules   *tags.Table
	seen    *store.Dedup // nil when dedup is disabled
	verbose bool
}

func New(b bus.Bus, samples storage.Store, cls Classifiers, rules *tags.Table, seen *store.Dedup, verbose bool) *Worker {
	return &Worker{bus: b, samples: samples, cls: cls, rules: rules, seen: seen, verbose: verbose}
}

// Drain consumes pending tasks until the queue is empty or ctx is
// cancelled. Returns how many samples were advanced. Per-task failures are
// logged and skipped (the broker will redeliver); only transport errors on
// Next stop the drain.
func (w *Worker) Drain(ctx context.Context) (int, error) {
	done := 0
	for {
		if ctx.Err() != nil {
			return done, ctx.Err()
		}
		task, err := w.bus.Next(ctx)
		if err != nil {
			return done, err
		}
		if task == nil {
			return done, nil
		}
		if err := w.Process(ctx, task); err != nil {
			// Leave the task unacked; the sample stays at recognized.
			log.Printf("task %s: %v", task.ID, err)
			metrics.SamplesProcessed.WithLabelValues("failed").Inc()
			continue
		}
		done++
	}
}

// Process handles one recognized-stage task end to end. Classifier trouble
// degrades to missing attributes; the only errors returned are an invalid
// sample reference and transport failures, both of which leave the task
// unacked.
func (w *Worker) Process(ctx context.Context, task *bus.Task) error {
	start := time.Now()

	if w.seen != nil && task.ID != "" && w.seen.Seen(task.ID) {
		if w.verbose {
			log.Printf("task %s: already handled, acking", task.ID)
		}
		metrics.SamplesProcessed.WithLabelValues("skipped").Inc()
		return w.bus.Ack(ctx, task.ID)
	}

	var payload model.RecognizedPayload
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	sample := payload.Sample
	if !sample.Valid() {
		return fmt.Errorf("%w: uid=%q key=%q", compose.ErrInvalidSample, sample.UID, sample.Key)
	}

	in := w.classifySample(ctx, sample)
	in.Tags = w.rules.Derive(in.Die)
	for _, t := range in.Tags {
		metrics.TagsEmitted.WithLabelValues(t.Key).Inc()
	}

	msg, err := compose.Message(in)
	if err != nil {
		return err
	}
	if err := w.bus.Publish(ctx, msg, task.ID); err != nil {
		return fmt.Errorf("publish analyzed: %w", err)
	}
	if err := w.bus.Ack(ctx, task.ID); err != nil {
		return err
	}
	if w.seen != nil && task.ID != "" {
		w.seen.Mark(task.ID)
	}

	metrics.SamplesProcessed.WithLabelValues("analyzed").Inc()
	metrics.ProcessDuration.Observe(time.Since(start).Seconds())
	log.Printf("%s: analyzed (die=%v trid=%v magika=%v tags=%d) in %s",
		sample.Ident(), in.Die != nil, in.Trid != nil, in.Magika != nil,
		len(in.Tags), time.Since(start).Truncate(time.Millisecond))
	return nil
}

// classifySample runs the three tools concurrently and collects whatever
// each produced. The tools are independent; one failing or timing out never
// blocks the other two, and a sample that cannot be fetched simply yields
// no attributes at all.
func (w *Worker) classifySample(ctx context.Context, sample model.Sample) compose.Input {
	in := compose.Input{Sample: sample}

	path, cleanup, err := w.samples.Fetch(ctx, sample)
	if err != nil {
		log.Printf("%s: fetch: %v", sample.Ident(), err)
		w.countAbsent()
		return in
	}
	defer cleanup()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		if out, ok := w.cls.Die.Invoke(ctx, path); ok {
			if raw, ok := classify.ParseDieOutput(out); ok {
				if attr, ok := normalize.Die(raw); ok {
					in.Die = &attr
				}
			}
		}
	}()
	go func() {
		defer wg.Done()
		if out, ok := w.cls.Trid.Invoke(ctx, path); ok {
			if raw, ok := classify.ParseTridOutput(out); ok {
				attr := normalize.Trid(raw)
				in.Trid = &attr
			}
		}
	}()
	go func() {
		defer wg.Done()
		if out, ok := w.cls.Magika.Invoke(ctx, path); ok {
			if raw, ok := classify.ParseMagikaOutput(out); ok {
				if attr, ok := normalize.Magika(raw); ok {
					in.Magika = &attr
				}
			}
		}
	}()
	wg.Wait()

	count := func(name string, present bool) {
		outcome := "ok"
		if !present {
			outcome = "absent"
		}
		metrics.ClassifierResults.WithLabelValues(name, outcome).Inc()
	}
	count("die", in.Die != nil)
	count("trid", in.Trid != nil)
	count("magika", in.Magika != nil)
	return in
}

func (w *Worker) countAbsent() {
	for _, name := range []string{"die", "trid", "magika"} {
		metrics.ClassifierResults.WithLabelValues(name, "absent").Inc()
	}
}
