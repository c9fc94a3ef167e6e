// Package discover locates git working copies beneath a set of input
// directories. Discovery looks at each input directory itself and one level
// of children, nothing deeper.
package discover

import (
	"os"
	"path/filepath"
)

// IsRepoRoot reports whether path directly contains git metadata. A .git
// entry of any kind counts so that worktrees and submodule checkouts, where
// .git is a file, are picked up too.
func IsRepoRoot(path string) bool {
	_, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil
}

// FindRepos returns the repository roots reachable from the given input
// directories. Inputs that do not exist are skipped. Roots reachable through
// more than one input are returned once per input; callers count and process
// duplicates independently.
func FindRepos(directories []string) []string {
	repos := []string{}

	for _, dir := range directories {
		if _, err := os.Stat(dir); err != nil {
			continue
		}

		if IsRepoRoot(dir) {
			repos = append(repos, dir)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			child := filepath.Join(dir, entry.Name())
			if !entry.IsDir() {
				// Symlinked directories come back as non-dirs from
				// ReadDir; resolve them before rejecting.
				info, statErr := os.Stat(child)
				if statErr != nil || !info.IsDir() {
					continue
				}
			}
			if IsRepoRoot(child) {
				repos = append(repos, child)
			}
		}
	}

	return repos
}
