// Package cleanup removes directories left empty under an organized folder.
package cleanup

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Failure is a directory that could not be inspected or removed.
type Failure struct {
	Dir string
	Err error
}

// Result lists what a cleanup pass did.
type Result struct {
	Removed []string
	Failed  []Failure
}

// ReportFunc is called once per removal attempt, in the order they happen.
// err is nil when dir was removed.
type ReportFunc func(dir string, err error)

// RemoveEmpty deletes every directory below root that holds no files,
// deepest first, so a chain of nested empty directories disappears in one
// pass. root itself is never removed and symlinked directories are not
// followed.
func RemoveEmpty(fs afero.Fs, root string, report ReportFunc) (*Result, error) {
	root = filepath.Clean(root)
	if report == nil {
		report = func(string, error) {}
	}

	result := &Result{}
	unreadable := make(map[string]bool)
	var dirs []string
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			unreadable[path] = true
			result.Failed = append(result.Failed, Failure{Dir: path, Err: err})
			report(path, err)
			return nil
		}
		if info.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	// Walk visits parents before children; reversed, children come first.
	for i := len(dirs) - 1; i >= 0; i-- {
		dir := dirs[i]
		if unreadable[dir] {
			continue
		}
		empty, err := afero.IsEmpty(fs, dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			result.Failed = append(result.Failed, Failure{Dir: dir, Err: err})
			report(dir, err)
			continue
		}
		if !empty {
			continue
		}
		if err := fs.Remove(dir); err != nil {
			result.Failed = append(result.Failed, Failure{Dir: dir, Err: err})
			report(dir, err)
			continue
		}
		result.Removed = append(result.Removed, dir)
		report(dir, nil)
	}

	return result, nil
}
