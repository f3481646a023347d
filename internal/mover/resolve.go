package mover

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mydehq/organizer/internal/classify"
	"github.com/spf13/afero"
)

// maxCopies bounds the suffix search so a pathological directory cannot spin forever.
const maxCopies = 100000

// ErrNoFreeName is returned when every _copy_N candidate up to maxCopies is taken.
var ErrNoFreeName = errors.New("no free destination name")

// Resolve returns dest if nothing exists there, otherwise the first
// "<stem>_copy_<n><ext>" sibling that is free, starting at n=1.
// Every candidate is checked against the filesystem.
func Resolve(fs afero.Fs, dest string) (string, error) {
	taken, err := exists(fs, dest)
	if err != nil {
		return "", err
	}
	if !taken {
		return dest, nil
	}

	dir, name := filepath.Split(dest)
	ext := classify.RawExt(name)
	stem := strings.TrimSuffix(name, ext)

	for n := 1; n <= maxCopies; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_copy_%d%s", stem, n, ext))
		taken, err := exists(fs, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w for %s", ErrNoFreeName, dest)
}

// exists checks path without following a final symlink, so a dangling link
// still counts as occupied.
func exists(fs afero.Fs, path string) (bool, error) {
	var err error
	if l, ok := fs.(afero.Lstater); ok {
		_, _, err = l.LstatIfPossible(path)
	} else {
		_, err = fs.Stat(path)
	}
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
