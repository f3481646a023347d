// Package organizer sorts the files of one directory into category folders.
//
// Organize lists the immediate regular files of a directory, classifies each
// by extension and moves it into <dir>/<Category>/, renaming on collision.
// Directories left empty afterwards are removed, deepest first. Every action
// is reported to a Recorder as it happens.
package organizer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mydehq/organizer/internal/classify"
	"github.com/mydehq/organizer/internal/cleanup"
	"github.com/mydehq/organizer/internal/mover"
	"github.com/mydehq/organizer/internal/progress"
	"github.com/mydehq/organizer/internal/scan"
	"github.com/mydehq/organizer/internal/types"
	"github.com/spf13/afero"
)

// Recorder receives every action in the order it happened.
// *journal.Journal satisfies it.
type Recorder interface {
	Record(rec types.MoveRecord)
	Cleanup(dir string, err error)
}

type nopRecorder struct{}

func (nopRecorder) Record(types.MoveRecord) {}
func (nopRecorder) Cleanup(string, error)   {}

type options struct {
	fs       afero.Fs
	recorder Recorder
	progress progress.Sink
	dryRun   bool
	exclude  []string
}

// Option configures Organize.
type Option func(*options)

// WithFs runs against fs instead of the host filesystem.
func WithFs(fs afero.Fs) Option {
	return func(o *options) { o.fs = fs }
}

// WithRecorder reports each action to r.
func WithRecorder(r Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithProgress ticks s once per processed file.
func WithProgress(s progress.Sink) Option {
	return func(o *options) { o.progress = s }
}

// WithDryRun classifies and resolves destinations without moving anything.
// Cleanup is skipped.
func WithDryRun(dryRun bool) Option {
	return func(o *options) { o.dryRun = dryRun }
}

// WithExclude withholds the given paths from organizing. They are recorded
// as skipped.
func WithExclude(paths ...string) Option {
	return func(o *options) { o.exclude = append(o.exclude, paths...) }
}

// ValidateTarget checks that dir exists and is a directory.
func ValidateTarget(fs afero.Fs, dir string) error {
	if dir == "" {
		return types.ErrInvalidTarget{Path: dir, Reason: "no folder selected"}
	}
	info, err := fs.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return types.ErrInvalidTarget{Path: dir, Reason: "folder does not exist"}
		}
		return types.ErrInvalidTarget{Path: dir, Reason: "cannot access folder", Err: err}
	}
	if !info.IsDir() {
		return types.ErrInvalidTarget{Path: dir, Reason: "not a folder"}
	}
	return nil
}

// Plan lists the files Organize would process in dir.
func Plan(fs afero.Fs, dir string, exclude ...string) (*scan.Result, error) {
	if err := ValidateTarget(fs, dir); err != nil {
		return nil, err
	}
	res, err := scan.Scan(fs, dir, exclude...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	return res, nil
}

// Organize sorts the immediate files of dir. Per-file and cleanup failures
// are recorded and counted but do not stop the run; the returned error is
// reserved for an unusable target. When ctx is cancelled the run stops
// before the next file, skips cleanup and returns the partial summary
// together with ctx.Err().
func Organize(ctx context.Context, dir string, opts ...Option) (*types.Summary, error) {
	o := &options{
		fs:       afero.NewOsFs(),
		recorder: nopRecorder{},
		progress: progress.Nop{},
	}
	for _, opt := range opts {
		opt(o)
	}

	if dir != "" {
		dir = filepath.Clean(dir)
	}
	listing, err := Plan(o.fs, dir, o.exclude...)
	if err != nil {
		return nil, err
	}

	summary := &types.Summary{Dir: dir}
	for _, path := range listing.Excluded {
		rec := types.MoveRecord{Source: path, Action: types.ActionSkipped, Reason: "in use by organizer"}
		o.recorder.Record(rec)
		summary.Add(rec)
	}
	for _, path := range listing.Other {
		rec := types.MoveRecord{Source: path, Action: types.ActionSkipped, Reason: "not a regular file"}
		o.recorder.Record(rec)
		summary.Add(rec)
	}

	m := mover.New(o.fs, dir, mover.WithDryRun(o.dryRun))

	o.progress.Start(len(listing.Files))
	for _, entry := range listing.Files {
		if ctx.Err() != nil {
			summary.Interrupted = true
			break
		}
		rec := m.Move(entry, classify.Classify(entry.Name))
		o.recorder.Record(rec)
		summary.Add(rec)
		o.progress.Step(entry.Name)
	}
	o.progress.Finish()

	if summary.Interrupted {
		return summary, ctx.Err()
	}
	if o.dryRun {
		return summary, nil
	}

	res, err := cleanup.RemoveEmpty(o.fs, dir, o.recorder.Cleanup)
	if err != nil {
		// The target vanished after the moves; nothing left to tidy.
		o.recorder.Cleanup(dir, err)
		summary.CleanupErrors++
		return summary, nil
	}
	summary.RemovedDirs = res.Removed
	summary.CleanupErrors = len(res.Failed)

	return summary, nil
}
