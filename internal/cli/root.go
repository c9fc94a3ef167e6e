package cli

import (
	"fmt"

	"github.com/lexpierce/groppy/internal/exitcode"
	"github.com/spf13/cobra"
)

func Execute(build BuildInfo, streams IOStreams) int {
	app := &AppContext{Build: build, IO: streams}
	root := newRootCommand(app)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(streams.ErrOut, "ERROR:", err)
		return mapExitCode(err)
	}
	return exitcode.Success
}

func newRootCommand(app *AppContext) *cobra.Command {
	showVersion := false
	var threads int
	var remote string
	var progressMode string

	root := &cobra.Command{
		Use:   "groppy [directories...]",
		Short: "Update multiple git repositories in parallel",
		Long: "groppy scans the given directories (one level deep) for git working copies\n" +
			"and fast-forwards each clean one to its configured upstream.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				printVersion(app)
				return nil
			}
			return runUpdate(app, args, updateOptions{
				Threads:        threads,
				ThreadsChanged: cmd.Flags().Changed("threads"),
				Remote:         remote,
				RemoteChanged:  cmd.Flags().Changed("remote"),
				ProgressMode:   progressMode,
			})
		},
		SilenceErrors:     true,
		SilenceUsage:      true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}

	root.PersistentFlags().StringVarP(&app.Opts.ConfigPath, "config", "c", "", "Path to config file")
	root.PersistentFlags().BoolVar(&app.Opts.JSON, "json", false, "Emit newline-delimited JSON events")
	root.PersistentFlags().BoolVarP(&app.Opts.Quiet, "quiet", "q", false, "Reduce output to errors and summary")
	root.PersistentFlags().BoolVarP(&app.Opts.Verbose, "verbose", "v", false, "Also report up-to-date and no-upstream repositories")
	root.PersistentFlags().BoolVar(&app.Opts.NoColor, "no-color", false, "Disable color output")
	root.Flags().IntVarP(&threads, "threads", "j", 0, "Number of worker threads (default 4)")
	root.Flags().StringVar(&remote, "remote", "", "Remote to fetch from (default \"origin\")")
	root.Flags().StringVar(&progressMode, "progress", "auto", "Live progress rendering: auto, always, or never")
	root.Flags().BoolVar(&showVersion, "version", false, "Print version info")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withExitCode(exitcode.InvalidUsage, err)
	})

	root.AddCommand(newVersionCommand(app))

	return root
}
