// Package gitops wraps go-git with the handful of task-oriented operations
// the updater needs: open, clean check, fetch, upstream resolution,
// fast-forward, and tree diffing. Sentinel errors can be checked with
// errors.Is().
package gitops

import (
	"errors"
	"fmt"
)

// ErrNoUpstream is returned when the current branch has no configured
// upstream, or HEAD is detached. It marks an expected terminal state, not a
// failure.
var ErrNoUpstream = errors.New("no upstream configured")

// ErrNotFastForward is returned when the upstream commit does not descend
// from the local HEAD, so the branch cannot be moved forward without a merge.
var ErrNotFastForward = errors.New("not a fast-forward")

// WrapError wraps an error with additional context while preserving
// the ability to check against sentinel errors using errors.Is().
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapErrorf wraps an error with formatted additional context while
// preserving the ability to check against sentinel errors using errors.Is().
func WrapErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
