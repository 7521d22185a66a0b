package detector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Tbelkk/Commit-Review/internal/gitrepo"
	"github.com/Tbelkk/Commit-Review/internal/pipeline"
	"go.uber.org/zap"
)

// MinPollInterval is the floor applied to any configured interval, bounding
// load on the repository and the review service.
const MinPollInterval = 5 * time.Second

// ErrAlreadyRunning is returned by Start when the detector is running.
var ErrAlreadyRunning = errors.New("detector already running")

// Severity classifies status messages for the presentation layer.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// StatusFunc receives human-readable status updates.
type StatusFunc func(message string, severity Severity)

// ChangeEvent records one observed HEAD transition. Previous is nil for a
// root commit.
type ChangeEvent struct {
	Previous *gitrepo.CommitRef
	Current  gitrepo.CommitRef
}

// Repository is the subset of gitrepo.Repository the detector needs.
type Repository interface {
	HeadCommit() (gitrepo.CommitRef, error)
	FetchRemote(ctx context.Context) error
	RemoteHead() (gitrepo.CommitRef, error)
	Extract(current gitrepo.CommitRef, previousHash string, maxBytes int) (gitrepo.Payload, error)
}

// Submitter is the subset of pipeline.Pipeline the detector needs.
type Submitter interface {
	Submit(payload gitrepo.Payload, done pipeline.Callback) error
}

// Options configures a Detector.
type Options struct {
	Interval     time.Duration // floored to MinPollInterval
	FetchEvery   int           // fetch remote every Nth tick; <=1 fetches every tick
	MaxDiffBytes int
	OnStatus     StatusFunc
	OnResult     pipeline.Callback
	Log          *zap.SugaredLogger
}

// Detector watches a repository for new commits.
type Detector struct {
	repo         Repository
	pipe         Submitter
	interval     time.Duration
	fetchEvery   int
	maxDiffBytes int
	onStatus     StatusFunc
	onResult     pipeline.Callback
	log          *zap.SugaredLogger

	mu       sync.Mutex
	running  bool
	lastSeen gitrepo.CommitRef
	stop     chan struct{}
	done     chan struct{}
	kick     chan struct{}

	ticks int
}

// New creates a Detector. It does not start polling until Start is called.
func New(repo Repository, pipe Submitter, opts Options) *Detector {
	if opts.Interval < MinPollInterval {
		opts.Interval = MinPollInterval
	}
	if opts.FetchEvery < 1 {
		opts.FetchEvery = 1
	}
	if opts.OnStatus == nil {
		opts.OnStatus = func(string, Severity) {}
	}
	if opts.OnResult == nil {
		opts.OnResult = func(pipeline.Result) {}
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop().Sugar()
	}
	return &Detector{
		repo:         repo,
		pipe:         pipe,
		interval:     opts.Interval,
		fetchEvery:   opts.FetchEvery,
		maxDiffBytes: opts.MaxDiffBytes,
		onStatus:     opts.OnStatus,
		onResult:     opts.OnResult,
		log:          opts.Log,
	}
}

// Start seeds the last seen hash from the current HEAD and begins the poll
// loop in a background goroutine. Seeding means starting the detector does
// not itself trigger a review of the commit already checked out.
func (d *Detector) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return ErrAlreadyRunning
	}

	head, err := d.repo.HeadCommit()
	if err != nil {
		return fmt.Errorf("seeding detector: %w", err)
	}
	d.lastSeen = head
	d.running = true
	d.ticks = 0
	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	d.kick = make(chan struct{}, 1)

	go d.run(d.stop, d.done, d.kick)
	return nil
}

// Stop signals the poll loop and waits for it to observe the signal at its
// next tick boundary. Work already handed to the pipeline is not cancelled.
func (d *Detector) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	stop, done := d.stop, d.done
	d.mu.Unlock()

	close(stop)
	<-done
}

// CheckNow forces a poll tick outside the normal interval. No-op when the
// detector is not running or a forced tick is already pending.
func (d *Detector) CheckNow() {
	d.mu.Lock()
	kick, running := d.kick, d.running
	d.mu.Unlock()
	if !running {
		return
	}
	select {
	case kick <- struct{}{}:
	default:
	}
}

// IsRunning reports whether the poll loop is active.
func (d *Detector) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// LastSeen returns the hash the detector last dispatched or was seeded with.
func (d *Detector) LastSeen() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastSeen.Hash
}

func (d *Detector) run(stop, done, kick chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		case <-kick:
		}
		if fatal := d.tick(); fatal {
			d.mu.Lock()
			d.running = false
			d.mu.Unlock()
			return
		}
	}
}

// tick runs one poll cycle. Returns true on a fatal repository error.
func (d *Detector) tick() bool {
	d.ticks++
	d.onStatus("checking for new commits", SeverityInfo)

	fetched := false
	if d.ticks%d.fetchEvery == 0 {
		if err := d.repo.FetchRemote(context.Background()); err != nil {
			d.log.Warnw("remote fetch failed", "err", err)
			d.onStatus(fmt.Sprintf("remote fetch failed: %v", err), SeverityWarning)
		} else {
			fetched = true
		}
	}

	head, err := d.repo.HeadCommit()
	if err != nil {
		d.log.Errorw("repository unreadable, stopping detector", "err", err)
		d.onStatus(fmt.Sprintf("repository error: %v", err), SeverityError)
		return true
	}

	if fetched {
		if remote, err := d.repo.RemoteHead(); err == nil && remote.Hash != head.Hash {
			d.onStatus(fmt.Sprintf("remote has commits not checked out locally (remote %s)", remote.Short()), SeverityInfo)
		}
	}

	d.mu.Lock()
	last := d.lastSeen
	d.mu.Unlock()

	if head.Hash == last.Hash {
		d.log.Debugw("no change", "head", head.Short())
		return false
	}

	event := ChangeEvent{Current: head}
	if last.Hash != "" {
		prev := last
		event.Previous = &prev
	}
	d.dispatch(event)
	return false
}

// dispatch extracts the payload for an event, hands it to the pipeline, and
// advances lastSeen. Extraction failures are terminal for this one event:
// they are reported as a failed result and detection moves on.
func (d *Detector) dispatch(event ChangeEvent) {
	head := event.Current
	d.onStatus(fmt.Sprintf("new commit detected: %s %s", head.Short(), head.Subject), SeveritySuccess)

	prevHash := ""
	if event.Previous != nil {
		prevHash = event.Previous.Hash
	}

	payload, err := d.repo.Extract(head, prevHash, d.maxDiffBytes)
	if err != nil {
		d.log.Warnw("diff extraction failed", "commit", head.Short(), "err", err)
		d.onStatus(fmt.Sprintf("diff extraction failed: %v", err), SeverityWarning)
		d.onResult(pipeline.Result{Payload: gitrepo.Payload{Commit: head}, Err: err})
		d.setLastSeen(head)
		return
	}

	if err := d.pipe.Submit(payload, d.onResult); err != nil {
		// Only happens when the pipeline is closing underneath us.
		d.log.Warnw("submit rejected", "commit", head.Short(), "err", err)
		d.onStatus(fmt.Sprintf("review pipeline unavailable: %v", err), SeverityWarning)
		return
	}

	d.log.Infow("commit dispatched for review", "commit", head.Short())
	d.setLastSeen(head)
}

func (d *Detector) setLastSeen(ref gitrepo.CommitRef) {
	d.mu.Lock()
	d.lastSeen = ref
	d.mu.Unlock()
}
