package mover

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
)

// copyVerified copies src to a new file at dst and re-reads dst to confirm
// size and xxHash digest match. dst is removed on any failure.
func copyVerified(fs afero.Fs, src, dst string) (err error) {
	info, err := fs.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	in, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	defer func() {
		if err != nil {
			_ = fs.Remove(dst)
		}
	}()

	srcHash := xxhash.New()
	written, err := io.Copy(out, io.TeeReader(in, srcHash))
	if err != nil {
		_ = out.Close()
		return fmt.Errorf("copy: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close destination: %w", err)
	}

	if written != info.Size() {
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", info.Size(), written)
	}

	dstSum, err := hashFile(fs, dst)
	if err != nil {
		return fmt.Errorf("verify destination: %w", err)
	}
	if dstSum != srcHash.Sum64() {
		return fmt.Errorf("copy hash mismatch: %x != %x", dstSum, srcHash.Sum64())
	}

	_ = fs.Chtimes(dst, info.ModTime(), info.ModTime())
	return nil
}

func hashFile(fs afero.Fs, path string) (uint64, error) {
	f, err := fs.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
