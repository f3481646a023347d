// Package session drives one interactive organizer run:
// select folder → confirm → organize → summarize.
package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/mydehq/organizer"
	"github.com/mydehq/organizer/internal/journal"
	"github.com/mydehq/organizer/internal/progress"
	"github.com/mydehq/organizer/internal/prompt"
	"github.com/mydehq/organizer/internal/types"
	"github.com/spf13/afero"
)

// Config wires a session to its collaborators.
type Config struct {
	Fs       afero.Fs
	Path     string // Positional target; skips folder selection when set
	Prompts  prompt.Set
	Journal  *journal.Journal
	Progress progress.Sink
	DryRun   bool
}

// Outcome describes how a session ended.
type Outcome struct {
	Dir       string
	Summary   *types.Summary
	Cancelled bool // User declined or quit before anything changed
}

const (
	stepSelectFolder = iota
	stepConfirm
	stepOrganize
	stepSummarize
)

// Run executes the session. A returned error means the run never started
// (no folder, invalid folder, prompt failure); nothing was changed. A user
// decline is reported through Outcome.Cancelled with a nil error.
func Run(ctx context.Context, cfg Config) (*Outcome, error) {
	if cfg.Journal == nil {
		return nil, errors.New("session requires a journal")
	}
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.Progress == nil {
		cfg.Progress = progress.Nop{}
	}
	j := cfg.Journal

	j.Session("---- New run ----", "dry_run", cfg.DryRun)

	out := &Outcome{}
	exclude := []string{j.Path(), j.LockPath()}
	prompted := cfg.Path == ""
	var files int

	step := stepSelectFolder
	for {
		switch step {
		case stepSelectFolder:
			dir, err := selectFolder(ctx, cfg)
			if err != nil {
				if userQuit(err) {
					j.Session("cancelled")
					out.Cancelled = true
					return out, nil
				}
				j.Error("No folder selected", err)
				return nil, err
			}
			listing, err := organizer.Plan(cfg.Fs, dir, exclude...)
			if err != nil {
				j.Error("Cannot organize folder", err, "dir", dir)
				return nil, err
			}
			out.Dir = dir
			files = len(listing.Files)
			j.Session("target selected", "dir", dir, "files", files)
			step++

		case stepConfirm:
			ok, err := cfg.Prompts.Confirm.Confirm(ctx, out.Dir, files)
			if err != nil {
				if errors.Is(err, prompt.ErrBack) && prompted {
					step--
					continue
				}
				if !errors.Is(err, prompt.ErrBack) && !userQuit(err) {
					j.Error("Confirmation failed", err)
					return nil, err
				}
			}
			if !ok {
				j.Session("cancelled", "dir", out.Dir)
				out.Cancelled = true
				return out, nil
			}
			step++

		case stepOrganize:
			summary, err := organizer.Organize(ctx, out.Dir,
				organizer.WithFs(cfg.Fs),
				organizer.WithRecorder(j),
				organizer.WithProgress(cfg.Progress),
				organizer.WithDryRun(cfg.DryRun),
				organizer.WithExclude(exclude...),
			)
			if summary == nil {
				j.Error("Cannot organize folder", err, "dir", out.Dir)
				return nil, err
			}
			if err != nil {
				j.Session("interrupted", "err", err)
			}
			out.Summary = summary
			step++

		case stepSummarize:
			j.Summary(out.Summary)
			j.Session("Finished", "result", out.Summary.String())
			return out, nil
		}
	}
}

func userQuit(err error) bool {
	return errors.Is(err, prompt.ErrCancelled) || errors.Is(err, context.Canceled)
}

func selectFolder(ctx context.Context, cfg Config) (string, error) {
	path := cfg.Path
	if path == "" {
		if cfg.Prompts.Path == nil {
			return "", prompt.ErrNoPath
		}
		var err error
		path, err = cfg.Prompts.Path.AskPath(ctx)
		if err != nil {
			return "", err
		}
	}

	path = prompt.NormalizePath(path)
	if path == "" {
		return "", prompt.ErrNoPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}
