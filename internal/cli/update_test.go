package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/lexpierce/groppy/internal/exitcode"
)

func newTestApp() (*AppContext, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	app := &AppContext{
		Build: BuildInfo{Version: "test"},
		IO:    IOStreams{In: strings.NewReader(""), Out: &out, ErrOut: &errOut},
	}
	return app, &out, &errOut
}

func runRoot(t *testing.T, app *AppContext, args ...string) error {
	t.Helper()

	root := newRootCommand(app)
	root.SetArgs(args)
	root.SetOut(app.IO.Out)
	root.SetErr(app.IO.ErrOut)
	return root.Execute()
}

func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(t.TempDir(), "xdg"))
}

func TestRunUpdateNoRepositories(t *testing.T) {
	isolateConfig(t)
	app, out, _ := newTestApp()

	if err := runRoot(t, app, t.TempDir()); err != nil {
		t.Fatalf("expected success when nothing is found, got %v", err)
	}
	if !strings.Contains(out.String(), "No repositories found") {
		t.Fatalf("expected discovery message, got %q", out.String())
	}
}

func TestRunUpdateRejectsZeroThreads(t *testing.T) {
	isolateConfig(t)
	app, _, _ := newTestApp()

	err := runRoot(t, app, "-j", "0", t.TempDir())
	if err == nil {
		t.Fatal("expected error for zero threads")
	}
	if mapExitCode(err) != exitcode.InvalidUsage {
		t.Fatalf("expected invalid-usage exit code, got %d", mapExitCode(err))
	}
}

func TestRunUpdateRejectsBadProgressMode(t *testing.T) {
	isolateConfig(t)
	app, _, _ := newTestApp()

	err := runRoot(t, app, "--progress", "sometimes", t.TempDir())
	if err == nil {
		t.Fatal("expected error for invalid progress mode")
	}
	if mapExitCode(err) != exitcode.InvalidUsage {
		t.Fatalf("expected invalid-usage exit code, got %d", mapExitCode(err))
	}
}

func TestRunUpdateMissingExplicitConfig(t *testing.T) {
	isolateConfig(t)
	app, _, _ := newTestApp()

	err := runRoot(t, app, "-c", filepath.Join(t.TempDir(), "missing.yaml"), t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if mapExitCode(err) != exitcode.InvalidConfig {
		t.Fatalf("expected invalid-config exit code, got %d", mapExitCode(err))
	}
}

func TestRunUpdateEndToEnd(t *testing.T) {
	isolateConfig(t)

	originDir := t.TempDir()
	origin, err := gogit.PlainInit(originDir, false)
	if err != nil {
		t.Fatalf("init origin: %v", err)
	}
	commitTestFile(t, origin, originDir, "README.md", "hello\n", "initial commit")

	scanDir := t.TempDir()
	cloneDir := filepath.Join(scanDir, "project")
	if _, err := gogit.PlainClone(cloneDir, false, &gogit.CloneOptions{URL: originDir}); err != nil {
		t.Fatalf("clone: %v", err)
	}

	commitTestFile(t, origin, originDir, "feature.txt", "new\n", "add feature")

	app, out, _ := newTestApp()
	if err := runRoot(t, app, "--progress", "never", "--no-color", scanDir); err != nil {
		t.Fatalf("update run: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Updated: "+cloneDir+" (1 files changed)") {
		t.Fatalf("expected updated line, got %q", got)
	}
	if !strings.Contains(got, "Checked: 1, Updated: 1, Unclean: 0") {
		t.Fatalf("expected summary line, got %q", got)
	}
}

func TestRunUpdateJSONMode(t *testing.T) {
	isolateConfig(t)

	scanDir := t.TempDir()
	repoDir := filepath.Join(scanDir, "broken")
	if err := os.MkdirAll(filepath.Join(repoDir, ".git"), 0o755); err != nil {
		t.Fatalf("fake repo: %v", err)
	}

	app, out, _ := newTestApp()
	if err := runRoot(t, app, "--json", scanDir); err != nil {
		t.Fatalf("json run: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, `"event":"update_started"`) {
		t.Fatalf("expected update_started event, got %q", got)
	}
	if !strings.Contains(got, `"event":"repo_failed"`) {
		t.Fatalf("expected repo_failed event for corrupt repo, got %q", got)
	}
	if !strings.Contains(got, `"event":"update_finished"`) {
		t.Fatalf("expected update_finished event, got %q", got)
	}
	if strings.Contains(got, "\x1b") {
		t.Fatalf("JSON stream must not contain escape codes, got %q", got)
	}
}

func TestParseProgressMode(t *testing.T) {
	for raw, want := range map[string]string{"": "auto", "auto": "auto", "Always": "always", "never": "never"} {
		got, err := parseProgressMode(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %q, got %q", raw, want, got)
		}
	}

	if _, err := parseProgressMode("later"); err == nil {
		t.Fatal("expected error for unsupported mode")
	}
}

func TestVersionFlag(t *testing.T) {
	isolateConfig(t)
	app, out, _ := newTestApp()

	if err := runRoot(t, app, "--version"); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out.String(), "groppy version test") {
		t.Fatalf("expected version banner, got %q", out.String())
	}
}

func commitTestFile(t *testing.T, repo *gogit.Repository, dir, name, content, message string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := worktree.Add(name); err != nil {
		t.Fatalf("stage %s: %v", name, err)
	}
	if _, err := worktree.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test Author", Email: "test@example.com", When: time.Now()},
	}); err != nil {
		t.Fatalf("commit %s: %v", name, err)
	}
}

func TestRunUpdateRespectsConfigFile(t *testing.T) {
	isolateConfig(t)

	scanDir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "groppy.yaml")
	cfg := "version: 1\ndefaults:\n  threads: 2\ndirectories:\n  - " + scanDir + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	app, out, _ := newTestApp()
	if err := runRoot(t, app, "-c", cfgPath); err != nil {
		t.Fatalf("configured run: %v", err)
	}
	if !strings.Contains(out.String(), "No repositories found") {
		t.Fatalf("expected configured directory scan, got %q", out.String())
	}
}

func TestRunUpdateInvalidConfigThreads(t *testing.T) {
	isolateConfig(t)

	cfgPath := filepath.Join(t.TempDir(), "groppy.yaml")
	if err := os.WriteFile(cfgPath, []byte("version: 1\ndefaults:\n  threads: -1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	app, _, _ := newTestApp()
	err := runRoot(t, app, "-c", cfgPath, t.TempDir())
	if err == nil {
		t.Fatal("expected validation error")
	}
	var coded *ExitError
	if !errors.As(err, &coded) || coded.Code != exitcode.InvalidConfig {
		t.Fatalf("expected invalid-config exit error, got %v", err)
	}
}
