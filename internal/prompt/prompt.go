// Package prompt asks the user which folder to organize and whether to proceed.
//
// Folder selection is a chain of PathPrompt implementations: a native dialog
// when a display is available, then a terminal form or a plain console line.
// A cancelled or unavailable prompt hands over to the next one in the chain.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mydehq/organizer/internal/progress"
)

var (
	// ErrNoPath means the user dismissed the prompt without choosing a folder.
	ErrNoPath = errors.New("no folder selected")
	// ErrUnavailable means the prompt cannot run in this environment.
	ErrUnavailable = errors.New("prompt unavailable")
	// ErrCancelled means the user asked to quit.
	ErrCancelled = errors.New("cancelled by user")
	// ErrBack means the user asked to return to the previous question.
	ErrBack = errors.New("back")
)

// Mode selects which prompt implementations are used.
type Mode string

const (
	ModeAuto     Mode = "auto"
	ModeDialog   Mode = "dialog"
	ModeTerminal Mode = "terminal"
	ModeConsole  Mode = "console"
)

// ParseMode validates a mode name; empty means auto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeDialog, ModeTerminal, ModeConsole:
		return m, nil
	default:
		return "", fmt.Errorf("unknown prompt mode %q (want auto, dialog, terminal or console)", s)
	}
}

// PathPrompt asks for the directory to organize.
type PathPrompt interface {
	Name() string
	AskPath(ctx context.Context) (string, error)
}

// Confirmer asks for explicit approval before anything is moved.
type Confirmer interface {
	Confirm(ctx context.Context, dir string, files int) (bool, error)
}

// Chain tries each prompt in order until one yields a path.
type Chain []PathPrompt

// Name lists the prompts in the chain.
func (c Chain) Name() string {
	names := make([]string, len(c))
	for i, p := range c {
		names[i] = p.Name()
	}
	return strings.Join(names, "→")
}

// AskPath returns the first path produced by the chain. ErrNoPath and
// ErrUnavailable move on to the next prompt; any other error stops.
func (c Chain) AskPath(ctx context.Context) (string, error) {
	lastErr := ErrNoPath
	for _, p := range c {
		path, err := p.AskPath(ctx)
		if err == nil {
			return path, nil
		}
		if errors.Is(err, ErrNoPath) || errors.Is(err, ErrUnavailable) {
			lastErr = err
			continue
		}
		return "", err
	}
	if errors.Is(lastErr, ErrUnavailable) {
		return "", fmt.Errorf("%w: %v", ErrNoPath, lastErr)
	}
	return "", lastErr
}

// Set bundles the path prompt and confirmer chosen for this environment.
type Set struct {
	Path    PathPrompt
	Confirm Confirmer
}

// Select probes the environment and builds the prompts for mode.
// in and out are normally os.Stdin and os.Stdout.
func Select(mode Mode, in io.Reader, out io.Writer) Set {
	console := NewConsole(in, out)
	interactive := progress.IsTerminal(in) && progress.IsTerminal(out)

	var text PathPrompt = console
	var confirm Confirmer = console
	if interactive {
		text = Terminal{}
		confirm = Terminal{}
	}

	switch mode {
	case ModeDialog:
		return Set{Path: Chain{Dialog{}, text}, Confirm: confirm}
	case ModeTerminal:
		return Set{Path: Terminal{}, Confirm: Terminal{}}
	case ModeConsole:
		return Set{Path: console, Confirm: console}
	default:
		if HasDisplay() {
			return Set{Path: Chain{Dialog{}, text}, Confirm: confirm}
		}
		return Set{Path: text, Confirm: confirm}
	}
}

// HasDisplay reports whether a graphical dialog can be shown.
func HasDisplay() bool {
	switch runtime.GOOS {
	case "windows", "darwin":
		return true
	default:
		return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
	}
}

// NormalizePath trims whitespace and surrounding quotes and expands a
// leading ~ to the home directory.
func NormalizePath(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			s = s[1 : len(s)-1]
		}
	}
	if s == "~" || strings.HasPrefix(s, "~/") || strings.HasPrefix(s, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			s = filepath.Join(home, s[1:])
		}
	}
	return s
}

// ValidateDir returns an error unless path names an existing directory.
func ValidateDir(path string) error {
	path = NormalizePath(path)
	if path == "" {
		return errors.New("a folder path is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s does not exist", path)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a folder", path)
	}
	return nil
}
