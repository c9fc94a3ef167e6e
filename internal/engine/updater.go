package engine

import (
	"errors"

	"github.com/lexpierce/groppy/internal/gitops"
)

// UpdateFunc produces the terminal outcome for one repository path.
type UpdateFunc func(path, remote string) Outcome

// UpdateRepo runs the per-repository update sequence: open, clean check,
// record HEAD, fetch, resolve upstream, compare, fast-forward, force
// checkout, diff count. Each step either continues or ends the task with a
// terminal outcome; nothing is retried.
//
// Only the Updated path mutates the repository beyond the fetch itself
// (fetch writes remote-tracking refs regardless of outcome).
func UpdateRepo(path, remote string) Outcome {
	repo, err := gitops.Open(path)
	if err != nil {
		return failure(path, StepOpen, err)
	}

	clean, err := repo.IsClean()
	if err != nil {
		return failure(path, StepStatus, err)
	}
	if !clean {
		return Outcome{Repo: path, Kind: OutcomeUnclean}
	}

	old, err := repo.Head()
	if err != nil {
		return failure(path, StepStatus, err)
	}

	if err := repo.Fetch(remote); err != nil {
		return failure(path, StepFetch, err)
	}

	upstream, err := repo.UpstreamRef()
	if errors.Is(err, gitops.ErrNoUpstream) {
		return Outcome{Repo: path, Kind: OutcomeNoUpstream}
	}
	if err != nil {
		return failure(path, StepUpstream, err)
	}

	target, err := repo.ResolveRef(upstream)
	if err != nil {
		return failure(path, StepUpstream, err)
	}

	if target == old {
		return Outcome{Repo: path, Kind: OutcomeUpToDate}
	}

	if err := repo.FastForward(target); err != nil {
		return failure(path, StepRefMove, err)
	}
	if err := repo.ForceCheckout(); err != nil {
		return failure(path, StepCheckout, err)
	}

	filesChanged, err := repo.DiffFileCount(old, target)
	if err != nil {
		return failure(path, StepDiff, err)
	}

	return Outcome{Repo: path, Kind: OutcomeUpdated, FilesChanged: filesChanged}
}
