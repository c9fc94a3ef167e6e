package cli

import (
	"fmt"
	"strings"

	"github.com/lexpierce/groppy/internal/config"
	"github.com/lexpierce/groppy/internal/discover"
	"github.com/lexpierce/groppy/internal/engine"
	"github.com/lexpierce/groppy/internal/exitcode"
	"github.com/lexpierce/groppy/internal/output"
)

type updateOptions struct {
	Threads        int
	ThreadsChanged bool
	Remote         string
	RemoteChanged  bool
	ProgressMode   string
}

func runUpdate(app *AppContext, args []string, opts updateOptions) error {
	progressMode, err := parseProgressMode(opts.ProgressMode)
	if err != nil {
		return withExitCode(exitcode.InvalidUsage, err)
	}

	cfg, err := config.Load(config.LoadOptions{ExplicitPath: app.Opts.ConfigPath})
	if err != nil {
		return withExitCode(exitcode.InvalidConfig, err)
	}
	if opts.ThreadsChanged {
		cfg.Defaults.Threads = opts.Threads
	}
	if opts.RemoteChanged {
		cfg.Defaults.Remote = opts.Remote
	}
	if len(args) > 0 {
		cfg.Directories = args
	}
	if err := config.Validate(cfg); err != nil {
		if opts.ThreadsChanged && cfg.Defaults.Threads < 1 {
			return withExitCode(exitcode.InvalidUsage, err)
		}
		return withExitCode(exitcode.InvalidConfig, err)
	}

	directories := make([]string, 0, len(cfg.Directories))
	for _, dir := range cfg.Directories {
		expanded, expandErr := config.ExpandPath(dir)
		if expandErr != nil {
			return withExitCode(exitcode.InvalidConfig, expandErr)
		}
		if expanded != "" {
			directories = append(directories, expanded)
		}
	}

	repos := discover.FindRepos(directories)
	if len(repos) == 0 {
		fmt.Fprintln(app.IO.Out, "No repositories found")
		return nil
	}

	reporter := buildReporter(app, progressMode)
	eng := engine.New(cfg.Defaults.Threads, cfg.Defaults.Remote, reporter)

	if _, err := eng.Run(repos); err != nil {
		return withExitCode(exitcode.InvalidUsage, err)
	}

	// Per-repository failures and unclean trees are expected terminal
	// states, not process failures.
	return nil
}

func buildReporter(app *AppContext, progressMode string) output.Reporter {
	if app.Opts.JSON {
		return output.NewJSONReporter(app.IO.Out)
	}

	interactive := output.SupportsInPlaceUpdates(app.IO.Out)
	switch progressMode {
	case "always":
		interactive = true
	case "never":
		interactive = false
	}

	styles := output.DefaultStyles()
	if app.Opts.NoColor || !output.SupportsInPlaceUpdates(app.IO.Out) {
		styles = output.PlainStyles()
	}

	return output.NewStatusReporter(app.IO.Out, output.StatusOptions{
		Interactive: interactive,
		Quiet:       app.Opts.Quiet,
		Verbose:     app.Opts.Verbose,
		Styles:      styles,
	})
}

func parseProgressMode(raw string) (string, error) {
	mode := strings.TrimSpace(strings.ToLower(raw))
	switch mode {
	case "", "auto":
		return "auto", nil
	case "always", "never":
		return mode, nil
	default:
		return "", fmt.Errorf("invalid --progress mode %q (expected auto, always, or never)", raw)
	}
}
