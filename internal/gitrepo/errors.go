package gitrepo

import (
	"errors"
	"fmt"
)

// AccessError reports that the repository path is not a usable repository or
// that HEAD cannot be resolved. Callers treat it as fatal: the repository
// identity is gone, so there is nothing to retry.
type AccessError struct {
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("repository access %s: %v", e.Path, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// IsAccessError checks if an error is a fatal repository access error.
func IsAccessError(err error) bool {
	var ae *AccessError
	return errors.As(err, &ae)
}

// RemoteUnavailableError reports that no remote is configured or that the
// network fetch failed. Recoverable: local-only detection still works.
type RemoteUnavailableError struct {
	Err error
}

func (e *RemoteUnavailableError) Error() string {
	return fmt.Sprintf("remote unavailable: %v", e.Err)
}

func (e *RemoteUnavailableError) Unwrap() error { return e.Err }

// IsRemoteUnavailable checks if an error is a recoverable remote failure.
func IsRemoteUnavailable(err error) bool {
	var re *RemoteUnavailableError
	return errors.As(err, &re)
}

// ExtractError reports that a commit's tree could not be read during diff
// extraction. Scoped to the one commit it concerns.
type ExtractError struct {
	Hash string
	Err  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extracting diff for %s: %v", e.Hash, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }
