package scan

import (
	"path/filepath"

	"github.com/mydehq/organizer/internal/classify"
	"github.com/mydehq/organizer/internal/types"
	"github.com/spf13/afero"
)

// Result holds the results of directory scanning
type Result struct {
	Files    []types.FileEntry
	Excluded []string // Regular files withheld from organizing (the run's own log/lock)
	Dirs     int
	Other    []string // Symlinks, devices, sockets and pipes
}

// Scan lists the immediate children of dir that are regular files.
// Entries come back in lexical order. Paths listed in exclude are reported
// in Excluded instead of Files.
func Scan(fs afero.Fs, dir string, exclude ...string) (*Result, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, err
	}

	skip := make(map[string]bool, len(exclude))
	for _, p := range exclude {
		if p != "" {
			skip[filepath.Clean(p)] = true
		}
	}

	result := &Result{}
	for _, e := range entries {
		if e.IsDir() {
			result.Dirs++
			continue
		}

		path := filepath.Join(dir, e.Name())
		if !e.Mode().IsRegular() {
			result.Other = append(result.Other, path)
			continue
		}
		if skip[path] {
			result.Excluded = append(result.Excluded, path)
			continue
		}

		result.Files = append(result.Files, types.FileEntry{
			Path: path,
			Name: e.Name(),
			Ext:  classify.Ext(e.Name()),
		})
	}

	return result, nil
}
