// Package cli implements the organizer command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/mydehq/organizer/internal/config"
	"github.com/mydehq/organizer/internal/journal"
	"github.com/mydehq/organizer/internal/progress"
	"github.com/mydehq/organizer/internal/prompt"
	"github.com/mydehq/organizer/internal/session"
	"github.com/mydehq/organizer/internal/types"
	"github.com/mydehq/organizer/internal/ui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// errReported marks failures already shown to the user through the journal.
var errReported = errors.New("reported")

var (
	logger = ui.NewConsoleLogger(os.Stderr, log.InfoLevel)
	opts   cliFlags
)

type cliFlags struct {
	config     string
	logFile    string
	prompt     string
	noProgress bool
	dryRun     bool
	debug      bool

	logFileSet bool
	promptSet  bool
}

// RootCmd is the organizer command.
var RootCmd = &cobra.Command{
	Use:   "organizer [path]",
	Short: "Sort a folder's files into category folders",
	Long: `Moves every file directly inside a folder into Images, Videos, Documents,
Audio, Archives, Code or Others by extension, then removes folders left empty.

Without a path the folder is picked through a dialog or a prompt. Nothing is
changed until the run is confirmed. Every action is appended to organizer.log.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		opts.logFileSet = cmd.Flags().Changed("log-file")
		opts.promptSet = cmd.Flags().Changed("prompt")
		return run(cmd.Context(), path, opts)
	},
}

func init() {
	f := RootCmd.Flags()
	f.StringVar(&opts.config, "config", "", "config file (default $XDG_CONFIG_HOME/organizer/config.yml)")
	f.StringVar(&opts.logFile, "log-file", "", "log file (default organizer.log beside the executable)")
	f.StringVar(&opts.prompt, "prompt", "auto", "folder prompt: auto, dialog, terminal or console")
	f.BoolVar(&opts.noProgress, "no-progress", false, "disable the progress bar")
	f.BoolVarP(&opts.dryRun, "dry-run", "n", false, "show what would be moved without changing anything")
	f.BoolVar(&opts.debug, "debug", false, "log debug details")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			logger.Error(ui.StyleError.Render(err.Error()))
		}
		return 1
	}
	return 0
}

type settings struct {
	logFile  string
	level    log.Level
	progress bool
	mode     prompt.Mode
	dryRun   bool
}

// resolveSettings merges flags over the config file. Flags win when set.
func resolveSettings(f cliFlags, cfg *types.GlobalConfig) (settings, error) {
	s := settings{dryRun: f.dryRun}

	switch {
	case f.logFileSet && f.logFile != "":
		s.logFile = f.logFile
	case cfg.LogFile != "":
		s.logFile = cfg.LogFile
	default:
		s.logFile = journal.DefaultPath()
	}

	if f.debug {
		s.level = log.DebugLevel
	} else {
		lvl, err := config.ParseLevel(cfg.LogLevel)
		if err != nil {
			return s, err
		}
		s.level = lvl
	}

	s.progress = !f.noProgress && cfg.ProgressEnabled()

	modeName := cfg.Prompt
	if f.promptSet {
		modeName = f.prompt
	}
	mode, err := prompt.ParseMode(modeName)
	if err != nil {
		return s, err
	}
	s.mode = mode

	return s, nil
}

func run(ctx context.Context, path string, f cliFlags) error {
	cfg, err := config.LoadGlobal(f.config)
	if err != nil {
		return err
	}
	s, err := resolveSettings(f, cfg)
	if err != nil {
		return err
	}

	logger = ui.NewConsoleLogger(os.Stdout, s.level)
	ui.PrintBanner(s.dryRun)

	j, err := journal.Open(journal.Options{Path: s.logFile, Level: s.level, Console: logger})
	if err != nil {
		if errors.Is(err, journal.ErrLocked) {
			return fmt.Errorf("%w (%s)", err, journal.LockPath(s.logFile))
		}
		return err
	}
	defer func() {
		if cerr := j.Close(); cerr != nil {
			logger.Warn("Could not close log", "err", cerr)
		}
	}()
	j.Debug("settings", "log", j.Path(), "prompt", s.mode, "progress", s.progress, "config", f.config)

	outcome, err := session.Run(ctx, session.Config{
		Fs:       afero.NewOsFs(),
		Path:     path,
		Prompts:  prompt.Select(s.mode, os.Stdin, os.Stdout),
		Journal:  j,
		Progress: progress.ForWriter(os.Stderr, s.progress),
		DryRun:   s.dryRun,
	})
	if err != nil {
		logger.Info(ui.ColorizeEvent("Log saved to: " + j.Path()))
		return fmt.Errorf("%w: %v", errReported, err)
	}

	if outcome.Cancelled {
		logger.Info(ui.StyleDim.Render("Organizing cancelled"))
	} else {
		fmt.Println()
		fmt.Println(renderSummary(outcome.Summary, s.dryRun))
		logger.Info(ui.StyleHeader.Render("Finished.") + " " + outcome.Summary.String())
		if outcome.Summary.Interrupted {
			logger.Warn("Interrupted before all files were processed; empty folders were left in place")
		}
	}
	logger.Info(ui.ColorizeEvent("Log saved to: " + j.Path()))
	return nil
}
