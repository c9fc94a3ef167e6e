package gitops

import (
	"errors"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repo is an opened working copy. All operations act on the repository's
// current branch and worktree.
type Repo struct {
	repo *gogit.Repository
	path string
}

// Open opens the repository rooted at path, including worktree checkouts
// where .git is a gitdir pointer file.
func Open(path string) (*Repo, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return nil, WrapErrorf(err, "open repository %s", path)
	}
	return &Repo{repo: repo, path: path}, nil
}

// Path returns the filesystem root the repository was opened at.
func (r *Repo) Path() string {
	return r.path
}

// IsClean reports whether the working tree has no staged, unstaged, or
// untracked changes. Ignored files do not count.
func (r *Repo) IsClean() (bool, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return false, WrapError(err, "get worktree")
	}

	status, err := worktree.Status()
	if err != nil {
		return false, WrapError(err, "worktree status")
	}
	return status.IsClean(), nil
}

// Head returns the commit the repository's HEAD currently resolves to.
func (r *Repo) Head() (plumbing.Hash, error) {
	head, err := r.repo.Head()
	if err != nil {
		return plumbing.ZeroHash, WrapError(err, "resolve HEAD")
	}
	return head.Hash(), nil
}

// Fetch updates remote-tracking refs from the named remote using the
// remote's configured refspecs. SSH remotes authenticate through the local
// ssh-agent. A remote that is already up to date is a successful fetch.
func (r *Repo) Fetch(remoteName string) error {
	remote, err := r.repo.Remote(remoteName)
	if err != nil {
		return WrapErrorf(err, "remote %q", remoteName)
	}

	opts := &gogit.FetchOptions{RemoteName: remoteName}
	urls := remote.Config().URLs
	if len(urls) > 0 {
		auth, authErr := AgentAuth(urls[0])
		if authErr != nil {
			return WrapErrorf(authErr, "authenticate to %q", remoteName)
		}
		opts.Auth = auth
	}

	if err := r.repo.Fetch(opts); err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return WrapErrorf(err, "fetch %q", remoteName)
	}
	return nil
}

// UpstreamRef returns the remote-tracking reference configured as the
// current branch's upstream. Returns ErrNoUpstream when HEAD is detached or
// the branch has no tracking configuration.
func (r *Repo) UpstreamRef() (plumbing.ReferenceName, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", WrapError(err, "resolve HEAD")
	}
	if !head.Name().IsBranch() {
		return "", ErrNoUpstream
	}

	cfg, err := r.repo.Config()
	if err != nil {
		return "", WrapError(err, "read repository config")
	}

	branch, ok := cfg.Branches[head.Name().Short()]
	if !ok || branch.Remote == "" || branch.Merge == "" {
		return "", ErrNoUpstream
	}

	return plumbing.NewRemoteReferenceName(branch.Remote, branch.Merge.Short()), nil
}

// ResolveRef resolves a reference name to the commit it points at.
func (r *Repo) ResolveRef(name plumbing.ReferenceName) (plumbing.Hash, error) {
	ref, err := r.repo.Reference(name, true)
	if err != nil {
		return plumbing.ZeroHash, WrapErrorf(err, "resolve %s", name)
	}
	return ref.Hash(), nil
}

// FastForward moves the current branch to target. The target must descend
// from the current HEAD; divergent histories fail with ErrNotFastForward.
// The working tree is not touched; callers follow up with ForceCheckout.
func (r *Repo) FastForward(target plumbing.Hash) error {
	head, err := r.repo.Head()
	if err != nil {
		return WrapError(err, "resolve HEAD")
	}
	if !head.Name().IsBranch() {
		return WrapError(ErrNoUpstream, "detached HEAD cannot be fast-forwarded")
	}

	ancestor, err := r.isAncestor(head.Hash(), target)
	if err != nil {
		return err
	}
	if !ancestor {
		return WrapErrorf(ErrNotFastForward, "%s does not descend from HEAD", target)
	}

	if err := r.repo.Storer.SetReference(plumbing.NewHashReference(head.Name(), target)); err != nil {
		return WrapErrorf(err, "move %s to %s", head.Name(), target)
	}
	return nil
}

// ForceCheckout resets the working tree to the commit the current branch
// points at, discarding any differences.
func (r *Repo) ForceCheckout() error {
	head, err := r.repo.Head()
	if err != nil {
		return WrapError(err, "resolve HEAD")
	}

	worktree, err := r.repo.Worktree()
	if err != nil {
		return WrapError(err, "get worktree")
	}
	if err := worktree.Checkout(&gogit.CheckoutOptions{Branch: head.Name(), Force: true}); err != nil {
		return WrapError(err, "force checkout")
	}
	return nil
}

// DiffFileCount returns the number of file entries that differ between the
// trees of the two commits.
func (r *Repo) DiffFileCount(oldHash, newHash plumbing.Hash) (int, error) {
	oldTree, err := r.treeFor(oldHash)
	if err != nil {
		return 0, err
	}
	newTree, err := r.treeFor(newHash)
	if err != nil {
		return 0, err
	}

	changes, err := object.DiffTree(oldTree, newTree)
	if err != nil {
		return 0, WrapError(err, "diff trees")
	}
	return len(changes), nil
}

func (r *Repo) treeFor(hash plumbing.Hash) (*object.Tree, error) {
	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, WrapErrorf(err, "commit %s", hash)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, WrapErrorf(err, "tree of %s", hash)
	}
	return tree, nil
}

func (r *Repo) isAncestor(old, new plumbing.Hash) (bool, error) {
	if old == new {
		return true, nil
	}
	oldCommit, err := r.repo.CommitObject(old)
	if err != nil {
		return false, WrapErrorf(err, "commit %s", old)
	}
	newCommit, err := r.repo.CommitObject(new)
	if err != nil {
		return false, WrapErrorf(err, "commit %s", new)
	}

	ancestor, err := oldCommit.IsAncestor(newCommit)
	if err != nil {
		return false, WrapError(err, "walk history")
	}
	return ancestor, nil
}
