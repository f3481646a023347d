// Package journal owns the append-only organizer.log for one run.
//
// A Journal is opened once at session start and closed on every exit path.
// Each event is written to the log file and, when a console logger is
// attached, mirrored to the terminal.
package journal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"
	"github.com/mydehq/organizer/internal/types"
	"github.com/mydehq/organizer/internal/ui"
)

// DefaultFileName is the log file name used beside the executable.
const DefaultFileName = "organizer.log"

// TimeFormat is the timestamp layout of every log line.
const TimeFormat = "2006-01-02 15:04:05"

// ErrLocked is returned when another run holds the journal lock.
var ErrLocked = errors.New("another organizer run is using this log")

// Options configures Open.
type Options struct {
	Path    string      // Log file path; required
	Level   log.Level   // Console threshold; the file never drops below info
	Console *log.Logger // Optional terminal mirror
}

// Journal is the run's logging handle.
type Journal struct {
	path    string
	file    *os.File
	lock    *flock.Flock
	log     *log.Logger
	console *log.Logger
}

// DefaultPath returns organizer.log next to the running executable,
// falling back to the working directory.
func DefaultPath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultFileName
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), DefaultFileName)
}

// LockPath returns the lock file guarding logPath.
func LockPath(logPath string) string {
	return logPath + ".lock"
}

// Open acquires the lock and opens the log in append mode.
func Open(opts Options) (*Journal, error) {
	if opts.Path == "" {
		return nil, errors.New("journal path is required")
	}
	path, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve log path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	lock := flock.New(LockPath(path))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire log lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open log file: %w", err)
	}

	// The file always keeps info lines; opts.Level can only add debug detail.
	fileLog := log.NewWithOptions(file, log.Options{
		Level:           min(opts.Level, log.InfoLevel),
		ReportTimestamp: true,
		TimeFormat:      TimeFormat,
		Formatter:       log.TextFormatter,
	})
	if opts.Console != nil {
		opts.Console.SetLevel(opts.Level)
	}

	return &Journal{
		path:    path,
		file:    file,
		lock:    lock,
		log:     fileLog,
		console: opts.Console,
	}, nil
}

// Path returns the absolute log file path.
func (j *Journal) Path() string {
	return j.path
}

// LockPath returns the absolute lock file path.
func (j *Journal) LockPath() string {
	return LockPath(j.path)
}

// Close flushes the log and releases the lock. Safe to call more than once.
func (j *Journal) Close() error {
	if j == nil || j.file == nil {
		return nil
	}
	var errs []error
	if err := j.file.Sync(); err != nil {
		errs = append(errs, err)
	}
	if err := j.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := j.lock.Unlock(); err != nil {
		errs = append(errs, err)
	}
	j.file = nil
	return errors.Join(errs...)
}

// Record writes the outcome of one move.
func (j *Journal) Record(rec types.MoveRecord) {
	name := filepath.Base(rec.Source)
	rel := filepath.Join(string(rec.Category), filepath.Base(rec.Destination))

	switch rec.Action {
	case types.ActionMoved:
		j.log.Info(string(types.ActionMoved), "src", rec.Source, "dst", rec.Destination, "category", rec.Category)
		j.mirror(log.InfoLevel, fmt.Sprintf("Moved: %s → %s", name, rel))
	case types.ActionPlanned:
		j.log.Info(string(types.ActionPlanned), "src", rec.Source, "dst", rec.Destination, "category", rec.Category)
		j.mirror(log.InfoLevel, fmt.Sprintf("Would move: %s → %s", name, rel))
	case types.ActionSkipped:
		j.log.Info(string(types.ActionSkipped), "src", rec.Source, "reason", rec.Reason)
		j.mirror(log.InfoLevel, "Skipped: "+name, "reason", rec.Reason)
	case types.ActionError:
		j.log.Error(string(types.ActionError), "src", rec.Source, "dst", rec.Destination, "err", rec.Err)
		j.mirror(log.ErrorLevel, "Failed: "+name, "err", rec.Err)
	}
}

// Cleanup writes the outcome of one directory removal attempt.
func (j *Journal) Cleanup(dir string, err error) {
	if err != nil {
		j.log.Error(string(types.ActionError), "dir", dir, "op", string(types.ActionCleanup), "err", err)
		j.mirror(log.WarnLevel, "Could not remove folder: "+dir, "err", err)
		return
	}
	j.log.Info(string(types.ActionCleanup), "dir", dir)
	j.mirror(log.InfoLevel, "Removed empty folder: "+dir)
}

// Session writes a session lifecycle event such as start or cancellation.
func (j *Journal) Session(msg string, keyvals ...any) {
	j.log.Info(string(types.ActionSession), append([]any{"msg", msg}, keyvals...)...)
	j.mirror(log.DebugLevel, msg, keyvals...)
}

// Debug writes a diagnostic line that carries no action.
func (j *Journal) Debug(msg string, keyvals ...any) {
	j.log.Debug(msg, keyvals...)
	j.mirror(log.DebugLevel, msg, keyvals...)
}

// Error writes a run-level failure.
func (j *Journal) Error(msg string, err error, keyvals ...any) {
	kv := append([]any{"msg", msg, "err", err}, keyvals...)
	j.log.Error(string(types.ActionError), kv...)
	j.mirror(log.ErrorLevel, msg, append([]any{"err", err}, keyvals...)...)
}

// Summary writes the end-of-run counters.
func (j *Journal) Summary(s *types.Summary) {
	j.log.Info(string(types.ActionSummary),
		"dir", s.Dir,
		"total", s.Total,
		"moved", s.Moved,
		"planned", s.Planned,
		"skipped", s.Skipped,
		"failed", s.Failed,
		"removed_dirs", len(s.RemovedDirs),
		"cleanup_errors", s.CleanupErrors,
		"interrupted", s.Interrupted,
	)
}

func (j *Journal) mirror(level log.Level, msg string, keyvals ...any) {
	if j.console == nil {
		return
	}
	j.console.Log(level, ui.ColorizeEvent(msg), keyvals...)
}
