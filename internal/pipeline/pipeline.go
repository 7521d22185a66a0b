package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Tbelkk/Commit-Review/internal/gitrepo"
	"github.com/Tbelkk/Commit-Review/internal/providers"
	"github.com/Tbelkk/Commit-Review/internal/redact"
	"github.com/Tbelkk/Commit-Review/internal/review"
	"go.uber.org/zap"
)

// ErrClosed is returned by Submit after the pipeline has been shut down.
// Callers must not retry.
var ErrClosed = errors.New("review pipeline closed")

// errShuttingDown is reported for payloads still queued when Close runs.
var errShuttingDown = errors.New("pipeline shutting down")

// Result is the terminal value delivered once per submitted payload.
type Result struct {
	Payload gitrepo.Payload
	Text    string
	Err     error
}

// Failed reports whether the review ended in a failure outcome.
func (r Result) Failed() bool { return r.Err != nil }

// Callback receives a Result. It runs on a worker goroutine and must not
// block for long; slow consumers stall the queue behind them.
type Callback func(Result)

type task struct {
	payload gitrepo.Payload
	done    Callback
}

// Options configures a Pipeline. Zero values select the defaults.
type Options struct {
	Workers   int           // worker goroutines; default 1 (preserves FIFO delivery)
	QueueSize int           // channel buffer; Submit blocks when full; default 16
	Timeout   time.Duration // per review call; default 60s
	Log       *zap.SugaredLogger
}

// Pipeline is a bounded FIFO queue of review payloads feeding worker
// goroutines.
type Pipeline struct {
	reviewer providers.Reviewer
	timeout  time.Duration
	log      *zap.SugaredLogger

	tasks chan task
	wg    sync.WaitGroup

	mu       sync.RWMutex
	closed   bool
	draining atomic.Bool
}

// New creates a Pipeline and starts its workers.
func New(reviewer providers.Reviewer, opts Options) *Pipeline {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 16
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop().Sugar()
	}

	p := &Pipeline{
		reviewer: reviewer,
		timeout:  opts.Timeout,
		log:      opts.Log,
		tasks:    make(chan task, opts.QueueSize),
	}
	p.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go p.worker()
	}
	return p
}

// Submit enqueues a payload and returns immediately unless the queue is full,
// in which case it blocks until a worker frees capacity. done is invoked
// exactly once with the terminal result. Returns ErrClosed after Close.
func (p *Pipeline) Submit(payload gitrepo.Payload, done Callback) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	p.tasks <- task{payload: payload, done: done}
	return nil
}

// Close stops accepting submissions and blocks until the workers exit.
// In-flight review calls finish; payloads still queued are reported back as
// shutdown failures.
func (p *Pipeline) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.draining.Store(true)
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pipeline) worker() {
	defer p.wg.Done()
	for t := range p.tasks {
		if p.draining.Load() {
			t.done(Result{Payload: t.payload, Err: errShuttingDown})
			continue
		}
		t.done(p.process(t.payload))
	}
}

func (p *Pipeline) process(payload gitrepo.Payload) Result {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	redacted := payload
	redacted.Diff = redact.Secrets(payload.Diff)

	start := time.Now()
	resp, err := p.reviewer.Review(ctx, providers.ReviewRequest{
		SystemPrompt: review.SystemPrompt(),
		UserPrompt:   review.BuildPrompt(redacted),
	})
	if err != nil {
		p.log.Warnw("review failed",
			"commit", payload.Commit.Short(),
			"provider", p.reviewer.Name(),
			"err", err)
		return Result{Payload: payload, Err: err}
	}

	p.log.Infow("review complete",
		"commit", payload.Commit.Short(),
		"provider", p.reviewer.Name(),
		"tokens", resp.TokensUsed,
		"elapsed", time.Since(start))
	return Result{Payload: payload, Text: resp.Content}
}
