package detector

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Tbelkk/Commit-Review/internal/gitrepo"
	"github.com/Tbelkk/Commit-Review/internal/pipeline"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu         sync.Mutex
	head       gitrepo.CommitRef
	headErr    error
	fetchErr   error
	remote     gitrepo.CommitRef
	remoteErr  error
	extractErr error

	extractPrev []string
}

func (f *fakeRepo) setHead(ref gitrepo.CommitRef) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.head = ref
}

func (f *fakeRepo) setHeadErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.headErr = err
}

func (f *fakeRepo) HeadCommit() (gitrepo.CommitRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.headErr != nil {
		return gitrepo.CommitRef{}, f.headErr
	}
	return f.head, nil
}

func (f *fakeRepo) FetchRemote(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchErr
}

func (f *fakeRepo) RemoteHead() (gitrepo.CommitRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.remoteErr != nil {
		return gitrepo.CommitRef{}, f.remoteErr
	}
	return f.remote, nil
}

func (f *fakeRepo) Extract(current gitrepo.CommitRef, previousHash string, maxBytes int) (gitrepo.Payload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.extractPrev = append(f.extractPrev, previousHash)
	if f.extractErr != nil {
		return gitrepo.Payload{}, f.extractErr
	}
	return gitrepo.Payload{Commit: current, Diff: "+x\n", Files: []string{"x"}}, nil
}

type fakeSubmitter struct {
	mu        sync.Mutex
	err       error
	submitted []gitrepo.Payload
	notify    chan gitrepo.Payload
}

func newFakeSubmitter() *fakeSubmitter {
	return &fakeSubmitter{notify: make(chan gitrepo.Payload, 16)}
}

func (f *fakeSubmitter) Submit(payload gitrepo.Payload, done pipeline.Callback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.submitted = append(f.submitted, payload)
	f.notify <- payload
	return nil
}

func (f *fakeSubmitter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submitted)
}

type statusRecorder struct {
	mu      sync.Mutex
	entries []string
}

func (s *statusRecorder) record(msg string, sev Severity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, string(sev)+": "+msg)
}

func (s *statusRecorder) contains(substr string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

func commitRef(hash string) gitrepo.CommitRef {
	return gitrepo.CommitRef{Hash: hash, Author: "Test", Subject: "commit " + hash}
}

func waitSubmission(t *testing.T, sub *fakeSubmitter) gitrepo.Payload {
	t.Helper()
	select {
	case p := <-sub.notify:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for submission")
		return gitrepo.Payload{}
	}
}

func TestIntervalFloor(t *testing.T) {
	d := New(&fakeRepo{head: commitRef("a")}, newFakeSubmitter(), Options{Interval: time.Second})
	require.Equal(t, MinPollInterval, d.interval)
}

func TestStartSeedsWithoutDispatch(t *testing.T) {
	repo := &fakeRepo{head: commitRef("aaa")}
	sub := newFakeSubmitter()
	d := New(repo, sub, Options{})

	require.NoError(t, d.Start())
	defer d.Stop()

	require.Equal(t, "aaa", d.LastSeen())

	d.CheckNow()
	time.Sleep(100 * time.Millisecond)
	require.Zero(t, sub.count())
	require.Equal(t, "aaa", d.LastSeen())
}

func TestStartWhileRunning(t *testing.T) {
	d := New(&fakeRepo{head: commitRef("a")}, newFakeSubmitter(), Options{})
	require.NoError(t, d.Start())
	defer d.Stop()

	require.ErrorIs(t, d.Start(), ErrAlreadyRunning)
}

func TestDetectsNewCommitExactlyOnce(t *testing.T) {
	repo := &fakeRepo{head: commitRef("aaa")}
	sub := newFakeSubmitter()
	d := New(repo, sub, Options{})

	require.NoError(t, d.Start())
	defer d.Stop()

	repo.setHead(commitRef("bbb"))
	d.CheckNow()

	payload := waitSubmission(t, sub)
	require.Equal(t, "bbb", payload.Commit.Hash)
	require.Equal(t, "bbb", d.LastSeen())

	repo.mu.Lock()
	require.Equal(t, []string{"aaa"}, repo.extractPrev)
	repo.mu.Unlock()

	// A second tick with no further change must not re-dispatch.
	d.CheckNow()
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 1, sub.count())
}

func TestRemoteFailureStillDetectsLocally(t *testing.T) {
	repo := &fakeRepo{
		head:     commitRef("aaa"),
		fetchErr: &gitrepo.RemoteUnavailableError{Err: errors.New("no remote configured")},
	}
	sub := newFakeSubmitter()
	statuses := &statusRecorder{}
	d := New(repo, sub, Options{OnStatus: statuses.record})

	require.NoError(t, d.Start())
	defer d.Stop()

	repo.setHead(commitRef("bbb"))
	d.CheckNow()

	payload := waitSubmission(t, sub)
	require.Equal(t, "bbb", payload.Commit.Hash)
	require.Eventually(t, func() bool { return statuses.contains("remote fetch failed") }, time.Second, 10*time.Millisecond)
}

func TestFatalRepositoryErrorStopsPolling(t *testing.T) {
	repo := &fakeRepo{head: commitRef("aaa")}
	sub := newFakeSubmitter()
	statuses := &statusRecorder{}
	d := New(repo, sub, Options{OnStatus: statuses.record})

	require.NoError(t, d.Start())

	repo.setHeadErr(&gitrepo.AccessError{Path: "/gone", Err: errors.New("removed")})
	d.CheckNow()

	require.Eventually(t, func() bool { return !d.IsRunning() }, 2*time.Second, 10*time.Millisecond)
	require.True(t, statuses.contains("repository error"))
	require.Zero(t, sub.count())
}

func TestExtractFailureIsReportedOnce(t *testing.T) {
	repo := &fakeRepo{
		head:       commitRef("aaa"),
		extractErr: &gitrepo.ExtractError{Hash: "bbb", Err: errors.New("corrupt store")},
	}
	sub := newFakeSubmitter()
	results := make(chan pipeline.Result, 1)
	d := New(repo, sub, Options{OnResult: func(r pipeline.Result) { results <- r }})

	require.NoError(t, d.Start())
	defer d.Stop()

	repo.setHead(commitRef("bbb"))
	d.CheckNow()

	select {
	case r := <-results:
		require.True(t, r.Failed())
		require.Equal(t, "bbb", r.Payload.Commit.Hash)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for failure result")
	}

	// The event was terminally reported, so lastSeen still advances and the
	// detector keeps running.
	require.Equal(t, "bbb", d.LastSeen())
	require.True(t, d.IsRunning())
	require.Zero(t, sub.count())
}

func TestStopIsIdempotent(t *testing.T) {
	d := New(&fakeRepo{head: commitRef("a")}, newFakeSubmitter(), Options{})
	require.NoError(t, d.Start())
	d.Stop()
	d.Stop()
	require.False(t, d.IsRunning())
}
