// Package monitor owns the detector and pipeline lifecycle and is the single
// integration point for a presentation layer. Callers provide two callbacks —
// status updates and finished reviews — and drive the controller with Start,
// Stop, CheckNow, and SelectRepository. Multiple repositories mean multiple
// independent controllers; there is no shared state between instances.
package monitor

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Tbelkk/Commit-Review/internal/detector"
	"github.com/Tbelkk/Commit-Review/internal/gitrepo"
	"github.com/Tbelkk/Commit-Review/internal/pipeline"
	"github.com/Tbelkk/Commit-Review/internal/providers"
	"go.uber.org/zap"
)

// ErrAlreadyStarted is returned by Start on a running controller.
var ErrAlreadyStarted = errors.New("monitor already started")

// Callbacks connect the controller to a presentation layer. Both run on
// background goroutines and must not block.
type Callbacks struct {
	OnStatus detector.StatusFunc
	OnReview pipeline.Callback
}

// Options configures a Controller. Zero values select defaults.
type Options struct {
	RepoPath      string
	PollInterval  time.Duration
	FetchEvery    int
	Workers       int
	QueueSize     int
	ReviewTimeout time.Duration
	MaxDiffBytes  int
}

// Controller wires a repository, a change detector, and a review pipeline
// together behind a start/stop surface.
type Controller struct {
	reviewer providers.Reviewer
	opts     Options
	cb       Callbacks
	log      *zap.SugaredLogger

	mu      sync.Mutex
	repo    *gitrepo.Repository
	det     *detector.Detector
	pipe    *pipeline.Pipeline
	running bool
}

// New creates a Controller. Nothing happens until Start.
func New(reviewer providers.Reviewer, opts Options, cb Callbacks, log *zap.SugaredLogger) *Controller {
	if cb.OnStatus == nil {
		cb.OnStatus = func(string, detector.Severity) {}
	}
	if cb.OnReview == nil {
		cb.OnReview = func(pipeline.Result) {}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Controller{reviewer: reviewer, opts: opts, cb: cb, log: log}
}

// Start opens the repository, builds the pipeline, and begins polling.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return ErrAlreadyStarted
	}

	repo, err := gitrepo.Open(c.opts.RepoPath)
	if err != nil {
		return err
	}

	pipe := pipeline.New(c.reviewer, pipeline.Options{
		Workers:   c.opts.Workers,
		QueueSize: c.opts.QueueSize,
		Timeout:   c.opts.ReviewTimeout,
		Log:       c.log,
	})
	det := c.newDetector(repo, pipe)
	if err := det.Start(); err != nil {
		pipe.Close()
		return err
	}

	c.repo, c.pipe, c.det = repo, pipe, det
	c.running = true
	c.cb.OnStatus(fmt.Sprintf("monitoring started: %s", repo.Path()), detector.SeverityInfo)
	return nil
}

// Stop halts polling and drains the pipeline. Queued reviews are reported as
// shutdown failures through the review callback.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	det, pipe := c.det, c.pipe
	c.running = false
	c.mu.Unlock()

	det.Stop()
	pipe.Close()
	c.cb.OnStatus("monitoring stopped", detector.SeverityInfo)
}

// CheckNow forces an immediate poll tick outside the normal interval.
func (c *Controller) CheckNow() {
	c.mu.Lock()
	det, running := c.det, c.running
	c.mu.Unlock()
	if running {
		det.CheckNow()
	}
}

// IsRunning reports whether monitoring is active. The detector stops itself
// on a fatal repository error, so it is the source of truth here, not the
// controller's own start/stop bookkeeping.
func (c *Controller) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running && c.det.IsRunning()
}

// SelectRepository validates path and swaps the active repository. The
// detector reseeds from the new repository's HEAD, so switching never
// triggers a spurious review. Works both before Start and while running.
func (c *Controller) SelectRepository(path string) error {
	repo, err := gitrepo.Open(path)
	if err != nil {
		return err
	}
	if _, err := repo.HeadCommit(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.RepoPath = path
	if !c.running {
		return nil
	}

	// Start the replacement before stopping the current detector: if the
	// swap fails the old one keeps monitoring and the pipeline stays owned.
	// The new detector is seeded and will not tick before the swap below.
	det := c.newDetector(repo, c.pipe)
	if err := det.Start(); err != nil {
		return err
	}
	c.det.Stop()
	c.repo, c.det = repo, det
	c.cb.OnStatus(fmt.Sprintf("repository switched to %s", path), detector.SeverityInfo)
	return nil
}

func (c *Controller) newDetector(repo *gitrepo.Repository, pipe *pipeline.Pipeline) *detector.Detector {
	return detector.New(repo, pipe, detector.Options{
		Interval:     c.opts.PollInterval,
		FetchEvery:   c.opts.FetchEvery,
		MaxDiffBytes: c.opts.MaxDiffBytes,
		OnStatus:     c.cb.OnStatus,
		OnResult:     c.cb.OnReview,
		Log:          c.log,
	})
}
