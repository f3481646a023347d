// Package mover relocates files into their category folders.
package mover

import (
	"errors"
	"fmt"
	"path/filepath"
	"syscall"

	"github.com/mydehq/organizer/internal/types"
	"github.com/spf13/afero"
)

// Mover moves files from a target directory into <target>/<Category>/.
type Mover struct {
	fs     afero.Fs
	root   string
	dryRun bool
}

// Option configures a Mover.
type Option func(*Mover)

// WithDryRun resolves destinations without touching the filesystem.
func WithDryRun(dryRun bool) Option {
	return func(m *Mover) {
		m.dryRun = dryRun
	}
}

// New creates a Mover rooted at root.
func New(fs afero.Fs, root string, opts ...Option) *Mover {
	m := &Mover{fs: fs, root: filepath.Clean(root)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Move relocates one file. It never returns an error; failures are carried
// in the returned record so the caller can continue with the next file.
func (m *Mover) Move(entry types.FileEntry, cat types.Category) types.MoveRecord {
	rec := types.MoveRecord{
		Source:   entry.Path,
		Category: cat,
	}

	categoryDir := filepath.Join(m.root, string(cat))
	dest := filepath.Join(categoryDir, entry.Name)
	if filepath.Clean(entry.Path) == dest {
		rec.Destination = dest
		rec.Action = types.ActionSkipped
		rec.Reason = "already organized"
		return rec
	}

	if m.dryRun {
		resolved, err := Resolve(m.fs, dest)
		if err != nil {
			return failed(rec, fmt.Errorf("resolve destination: %w", err))
		}
		rec.Destination = resolved
		rec.Action = types.ActionPlanned
		return rec
	}

	if err := m.fs.MkdirAll(categoryDir, 0o755); err != nil {
		return failed(rec, fmt.Errorf("create category folder: %w", err))
	}

	resolved, err := Resolve(m.fs, dest)
	if err != nil {
		return failed(rec, fmt.Errorf("resolve destination: %w", err))
	}
	rec.Destination = resolved

	if err := m.moveFile(entry.Path, resolved); err != nil {
		return failed(rec, err)
	}

	rec.Action = types.ActionMoved
	return rec
}

func failed(rec types.MoveRecord, err error) types.MoveRecord {
	rec.Action = types.ActionError
	rec.Err = err
	return rec
}

// moveFile renames src to dst, falling back to a verified copy when the two
// paths live on different devices.
func (m *Mover) moveFile(src, dst string) error {
	err := m.fs.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return fmt.Errorf("rename: %w", err)
	}

	if err := copyVerified(m.fs, src, dst); err != nil {
		return fmt.Errorf("cross-device copy: %w", err)
	}
	if err := m.fs.Remove(src); err != nil {
		// Keep exactly one copy: the original stays, the duplicate goes.
		if rmErr := m.fs.Remove(dst); rmErr != nil {
			return fmt.Errorf("remove source after copy: %w (copy left at %s: %v)", err, dst, rmErr)
		}
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

func isCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}
