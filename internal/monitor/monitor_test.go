package monitor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/Tbelkk/Commit-Review/internal/pipeline"
	"github.com/Tbelkk/Commit-Review/internal/providers"
)

type stubReviewer struct{}

func (stubReviewer) Review(ctx context.Context, req providers.ReviewRequest) (providers.ReviewResponse, error) {
	return providers.ReviewResponse{Content: "## Summary\nreviewed"}, nil
}

func (stubReviewer) Name() string { return "stub" }

func initRepoWithCommit(t *testing.T) (string, *gogit.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	commitFile(t, repo, dir, "init.txt", "initial\n", "initial commit")
	return dir, repo
}

func commitFile(t *testing.T, repo *gogit.Repository, dir, name, content, message string) string {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	_, err = wt.Add(name)
	require.NoError(t, err)
	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "t@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash.String()
}

func TestControllerReviewsNewCommit(t *testing.T) {
	dir, repo := initRepoWithCommit(t)

	reviews := make(chan pipeline.Result, 4)
	c := New(stubReviewer{}, Options{RepoPath: dir}, Callbacks{
		OnReview: func(r pipeline.Result) { reviews <- r },
	}, nil)

	require.NoError(t, c.Start())
	defer c.Stop()

	hash := commitFile(t, repo, dir, "feature.go", "package feature\n", "add feature")
	c.CheckNow()

	select {
	case r := <-reviews:
		require.False(t, r.Failed())
		require.Equal(t, hash, r.Payload.Commit.Hash)
		require.Contains(t, r.Text, "reviewed")
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for review")
	}
}

func TestStartOnInvalidPath(t *testing.T) {
	c := New(stubReviewer{}, Options{RepoPath: t.TempDir()}, Callbacks{}, nil)
	require.Error(t, c.Start())
	require.False(t, c.IsRunning())
}

func TestStartTwice(t *testing.T) {
	dir, _ := initRepoWithCommit(t)
	c := New(stubReviewer{}, Options{RepoPath: dir}, Callbacks{}, nil)
	require.NoError(t, c.Start())
	defer c.Stop()
	require.ErrorIs(t, c.Start(), ErrAlreadyStarted)
}

func TestSelectRepositoryDoesNotTriggerSpuriousReview(t *testing.T) {
	dir, _ := initRepoWithCommit(t)
	otherDir, _ := initRepoWithCommit(t)

	reviews := make(chan pipeline.Result, 4)
	c := New(stubReviewer{}, Options{RepoPath: dir}, Callbacks{
		OnReview: func(r pipeline.Result) { reviews <- r },
	}, nil)

	require.NoError(t, c.Start())
	defer c.Stop()

	require.NoError(t, c.SelectRepository(otherDir))
	c.CheckNow()

	select {
	case r := <-reviews:
		t.Fatalf("unexpected review after repository switch: %+v", r.Payload.Commit)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestFatalRepositoryErrorStopsMonitoring(t *testing.T) {
	dir, _ := initRepoWithCommit(t)

	c := New(stubReviewer{}, Options{RepoPath: dir}, Callbacks{}, nil)
	require.NoError(t, c.Start())
	defer c.Stop()
	require.True(t, c.IsRunning())

	require.NoError(t, os.RemoveAll(filepath.Join(dir, ".git")))
	c.CheckNow()

	require.Eventually(t, func() bool { return !c.IsRunning() },
		3*time.Second, 20*time.Millisecond,
		"controller should report stopped after fatal repository error")
}

func TestSelectRepositoryFailureKeepsMonitoring(t *testing.T) {
	dir, repo := initRepoWithCommit(t)

	reviews := make(chan pipeline.Result, 4)
	c := New(stubReviewer{}, Options{RepoPath: dir}, Callbacks{
		OnReview: func(r pipeline.Result) { reviews <- r },
	}, nil)

	require.NoError(t, c.Start())
	defer c.Stop()

	require.Error(t, c.SelectRepository(t.TempDir()))
	require.True(t, c.IsRunning())

	hash := commitFile(t, repo, dir, "next.go", "package next\n", "add next")
	c.CheckNow()

	select {
	case r := <-reviews:
		require.False(t, r.Failed())
		require.Equal(t, hash, r.Payload.Commit.Hash)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for review after failed repository switch")
	}
}

func TestSelectRepositoryRejectsInvalidPath(t *testing.T) {
	dir, _ := initRepoWithCommit(t)
	c := New(stubReviewer{}, Options{RepoPath: dir}, Callbacks{}, nil)
	require.Error(t, c.SelectRepository(t.TempDir()))
}

func TestStopIsIdempotent(t *testing.T) {
	dir, _ := initRepoWithCommit(t)
	c := New(stubReviewer{}, Options{RepoPath: dir}, Callbacks{}, nil)
	require.NoError(t, c.Start())
	c.Stop()
	c.Stop()
	require.False(t, c.IsRunning())
}
