package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const defaultRemote = "origin"

// Repository is a read-only handle on a local git repository. It never
// mutates the working tree or HEAD; FetchRemote only refreshes remote
// tracking refs.
type Repository struct {
	path string
	repo *gogit.Repository
}

// Open opens the repository at path. Returns an AccessError if the path is
// not a valid git repository.
func Open(path string) (*Repository, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return nil, &AccessError{Path: path, Err: err}
	}
	return &Repository{path: path, repo: repo}, nil
}

// Path returns the repository path this handle was opened with.
func (r *Repository) Path() string { return r.path }

// HeadCommit resolves the currently checked-out commit. Returns an
// AccessError if HEAD is unresolvable (for example an empty repository).
func (r *Repository) HeadCommit() (CommitRef, error) {
	head, err := r.repo.Head()
	if err != nil {
		return CommitRef{}, &AccessError{Path: r.path, Err: fmt.Errorf("resolving HEAD: %w", err)}
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return CommitRef{}, &AccessError{Path: r.path, Err: fmt.Errorf("reading HEAD commit %s: %w", head.Hash(), err)}
	}
	return newCommitRef(commit), nil
}

// FetchRemote refreshes remote tracking refs from the default remote. An
// already-up-to-date fetch is not an error. Any other failure, including a
// missing remote, is reported as a RemoteUnavailableError.
func (r *Repository) FetchRemote(ctx context.Context) error {
	err := r.repo.FetchContext(ctx, &gogit.FetchOptions{
		RemoteName: defaultRemote,
		RefSpecs:   []gitconfig.RefSpec{"refs/heads/*:refs/remotes/origin/*"},
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return &RemoteUnavailableError{Err: err}
	}
	return nil
}

// RemoteHead resolves the remote tracking ref for the current branch. The
// caller is expected to have called FetchRemote first; without a prior fetch
// this reads whatever the tracking ref last recorded.
func (r *Repository) RemoteHead() (CommitRef, error) {
	head, err := r.repo.Head()
	if err != nil {
		return CommitRef{}, &AccessError{Path: r.path, Err: fmt.Errorf("resolving HEAD: %w", err)}
	}
	branch := head.Name().Short()
	ref, err := r.repo.Reference(plumbing.NewRemoteReferenceName(defaultRemote, branch), true)
	if err != nil {
		return CommitRef{}, &RemoteUnavailableError{Err: fmt.Errorf("no tracking ref for branch %s: %w", branch, err)}
	}
	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return CommitRef{}, &RemoteUnavailableError{Err: fmt.Errorf("reading remote commit %s: %w", ref.Hash(), err)}
	}
	return newCommitRef(commit), nil
}

// Diff returns per-file unified diffs between two commits, in the order the
// tree comparison yields them. Binary blobs get a placeholder line instead
// of patch content.
func (r *Repository) Diff(fromHash, toHash string) ([]FileDiff, error) {
	fromTree, err := r.commitTree(fromHash)
	if err != nil {
		return nil, err
	}
	toTree, err := r.commitTree(toHash)
	if err != nil {
		return nil, err
	}

	changes, err := fromTree.Diff(toTree)
	if err != nil {
		return nil, &ExtractError{Hash: toHash, Err: fmt.Errorf("comparing trees: %w", err)}
	}

	diffs := make([]FileDiff, 0, len(changes))
	for _, change := range changes {
		path := change.To.Name
		if path == "" {
			path = change.From.Name
		}
		patch, err := change.Patch()
		if err != nil {
			return nil, &ExtractError{Hash: toHash, Err: fmt.Errorf("building patch for %s: %w", path, err)}
		}
		binary := false
		for _, fp := range patch.FilePatches() {
			if fp.IsBinary() {
				binary = true
				break
			}
		}
		if binary {
			diffs = append(diffs, FileDiff{
				Path:   path,
				Patch:  fmt.Sprintf("Binary files a/%s and b/%s differ\n", path, path),
				Binary: true,
			})
			continue
		}
		diffs = append(diffs, FileDiff{Path: path, Patch: sanitize(patch.String())})
	}
	return diffs, nil
}

// TreeFiles lists every tracked file in a commit's tree, in tree traversal
// order. Binary file content is omitted.
func (r *Repository) TreeFiles(hash string) ([]TreeFile, error) {
	commit, err := r.commitObject(hash)
	if err != nil {
		return nil, err
	}
	iter, err := commit.Files()
	if err != nil {
		return nil, &ExtractError{Hash: hash, Err: fmt.Errorf("reading tree: %w", err)}
	}

	var files []TreeFile
	err = iter.ForEach(func(f *object.File) error {
		binary, err := f.IsBinary()
		if err != nil {
			return fmt.Errorf("inspecting %s: %w", f.Name, err)
		}
		tf := TreeFile{Path: f.Name, Binary: binary}
		if !binary {
			content, err := f.Contents()
			if err != nil {
				return fmt.Errorf("reading %s: %w", f.Name, err)
			}
			tf.Content = sanitize(content)
		}
		files = append(files, tf)
		return nil
	})
	if err != nil {
		return nil, &ExtractError{Hash: hash, Err: err}
	}
	return files, nil
}

// Resolve resolves a revision expression (hash, short hash, branch name,
// HEAD, HEAD~1, ...) to a commit.
func (r *Repository) Resolve(rev string) (CommitRef, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return CommitRef{}, &AccessError{Path: r.path, Err: fmt.Errorf("resolving %q: %w", rev, err)}
	}
	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return CommitRef{}, &AccessError{Path: r.path, Err: fmt.Errorf("reading commit %s: %w", hash, err)}
	}
	return newCommitRef(commit), nil
}

// FirstParent returns the hash of a commit's first parent, or "" for a root
// commit.
func (r *Repository) FirstParent(hash string) (string, error) {
	commit, err := r.commitObject(hash)
	if err != nil {
		return "", err
	}
	if commit.NumParents() == 0 {
		return "", nil
	}
	parent, err := commit.Parent(0)
	if err != nil {
		return "", &ExtractError{Hash: hash, Err: fmt.Errorf("reading parent: %w", err)}
	}
	return parent.Hash.String(), nil
}

func (r *Repository) commitObject(hash string) (*object.Commit, error) {
	commit, err := r.repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return nil, &ExtractError{Hash: hash, Err: fmt.Errorf("reading commit: %w", err)}
	}
	return commit, nil
}

func (r *Repository) commitTree(hash string) (*object.Tree, error) {
	commit, err := r.commitObject(hash)
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, &ExtractError{Hash: hash, Err: fmt.Errorf("reading tree: %w", err)}
	}
	return tree, nil
}

func newCommitRef(c *object.Commit) CommitRef {
	subject, body := splitMessage(c.Message)
	return CommitRef{
		Hash:    c.Hash.String(),
		Author:  c.Author.Name,
		Email:   c.Author.Email,
		When:    c.Author.When,
		Subject: subject,
		Body:    body,
	}
}

// sanitize replaces invalid UTF-8 byte sequences so downstream prompt
// assembly always works on valid text.
func sanitize(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}
