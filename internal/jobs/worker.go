package jobs

import (
	"context"
	"log"
	"time"
)

// JobProcessor drains whatever work is currently queued. Implementations
// must be safe to call repeatedly and should return quickly when idle.
type JobProcessor interface {
	ProcessJobs(ctx context.Context) error
}

// Worker polls a JobProcessor at a fixed interval until stopped. A failed
// poll is logged and the loop keeps running.
type Worker struct {
	processor JobProcessor
	interval  time.Duration
	stopChan  chan struct{}
	doneChan  chan struct{}
}

func NewWorker(processor JobProcessor, interval time.Duration) *Worker {
	return &Worker{
		processor: processor,
		interval:  interval,
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
	}
}

// Start runs the polling loop. It blocks until the context is cancelled or
// Stop is called, so callers normally run it in a goroutine.
func (w *Worker) Start(ctx context.Context) {
	defer close(w.doneChan)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Printf("ingest worker polling every %v", w.interval)

	w.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Println("ingest worker stopping: context cancelled")
			return
		case <-w.stopChan:
			log.Println("ingest worker stopping: stop requested")
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

func (w *Worker) poll(ctx context.Context) {
	if err := w.processor.ProcessJobs(ctx); err != nil {
		log.Printf("ingest worker poll failed: %v", err)
	}
}

// Stop signals the loop to exit and waits for it to drain.
func (w *Worker) Stop() {
	close(w.stopChan)
	<-w.doneChan
}
