package main

import (
	"log/slog"
	"os"
	"time"

	internal "github.com/Crinklebine/dirstamp/dirstamp"
	"github.com/Crinklebine/dirstamp/dirstamp/config"
	"github.com/Crinklebine/dirstamp/dirstamp/options"
	"github.com/Crinklebine/dirstamp/dirstamp/runner"

	"github.com/spf13/cobra"
)

var (
	argConfirm        bool
	argShowDates      bool
	argFollowSymlinks bool
	argIgnoreFile     string
	argConfigFile     string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dirstamp [PATH]",
		Short: "set each directory's mtime to match its newest immediate child",
		Long: `dirstamp synchronizes each directory's modification timestamp with the
newest item directly inside it: the newest file wins, and a directory
with no files falls back to its newest subdirectory. Directories are
processed deepest-first, so freshness propagates all the way to the
root. Empty directories are never touched.

Without --confirm this is a dry run that reports intended changes and
modifies nothing.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}

	cmd.Flags().BoolVarP(&argConfirm, "confirm", "C", false, "apply changes (default is dry run)")
	cmd.Flags().BoolVarP(&argShowDates, "show-dates", "D", false, "show from/to timestamps and signed day delta for each change")
	cmd.Flags().BoolVar(&argFollowSymlinks, "follow-symlinks", false, "follow symbolic links during traversal")
	cmd.Flags().StringVar(&argIgnoreFile, "ignore-file", "", "file with gitignore-style patterns to prune from the traversal")
	cmd.Flags().StringVar(&argConfigFile, "config", "", "config file (default is "+internal.DefaultGlobalConfigFile+")")

	cmd.SetVersionTemplate(internal.VersionString() + "\n")
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(argConfigFile)
	if err != nil {
		return err
	}

	setupLogging(cfg.Dirstamp.LogLevel)

	rootPath := cfg.Dirstamp.RootDir
	if len(args) > 0 {
		rootPath = args[0]
	}

	travOpts := options.DefaultTraversalOptions()
	travOpts.FollowSymlinks = cfg.Dirstamp.FollowSymlinks
	travOpts.IgnoreFile = cfg.Dirstamp.IgnoreFile
	if cmd.Flags().Changed("follow-symlinks") {
		travOpts.FollowSymlinks = argFollowSymlinks
	}
	if cmd.Flags().Changed("ignore-file") {
		travOpts.IgnoreFile = argIgnoreFile
	}

	stampOpts := options.DefaultStampOptions()
	stampOpts.Tolerance = time.Duration(cfg.Dirstamp.ToleranceSeconds) * time.Second
	stampOpts.DryRun = !argConfirm
	stampOpts.ShowDates = argShowDates

	_, err = runner.New(newTerminalReporter()).Run(cmd.Context(), rootPath, travOpts, stampOpts)
	return err
}

// setupLogging installs the process-wide slog handler the application
// packages log through. Diagnostic output goes to stderr; user-facing
// change reports go to stdout via the reporter.
func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
