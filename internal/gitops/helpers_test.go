package gitops

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// initOrigin creates a repository with one commit to act as the remote end
// of clone/fetch tests. Local-path remotes need no authentication.
func initOrigin(t *testing.T) (string, *gogit.Repository) {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err, "init origin repository")

	commitFile(t, repo, dir, "README.md", "hello\n", "initial commit")
	return dir, repo
}

func cloneRepo(t *testing.T, originDir string) (string, *gogit.Repository) {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainClone(dir, false, &gogit.CloneOptions{URL: originDir})
	require.NoError(t, err, "clone from local origin")
	return dir, repo
}

func commitFile(t *testing.T, repo *gogit.Repository, dir, name, content, message string) plumbing.Hash {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))

	worktree, err := repo.Worktree()
	require.NoError(t, err, "get worktree")

	_, err = worktree.Add(name)
	require.NoError(t, err, "stage %s", name)

	hash, err := worktree.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test Author",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err, "commit %s", name)
	return hash
}

func headHash(t *testing.T, repo *gogit.Repository) plumbing.Hash {
	t.Helper()

	head, err := repo.Head()
	require.NoError(t, err, "resolve HEAD")
	return head.Hash()
}
