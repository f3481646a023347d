package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/mydehq/organizer/internal/ui"
)

// Terminal prompts with huh forms on an interactive terminal.
type Terminal struct{}

func (Terminal) Name() string { return "terminal" }

// AskPath opens a validated folder input. esc dismisses it (ErrNoPath),
// ctrl+c quits (ErrCancelled).
func (Terminal) AskPath(ctx context.Context) (string, error) {
	path := ""
	err := ui.RunForm(huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Folder to organize").
				Description("\nFiles in this folder are sorted into Images, Videos, Documents, Audio, Archives, Code and Others\n").
				Placeholder("~/Downloads").
				Value(&path).
				Validate(ValidateDir),
		),
	))
	if err != nil {
		return "", translateAbort(err)
	}
	return NormalizePath(path), nil
}

// Confirm shows the target and asks for approval. esc yields ErrBack.
func (Terminal) Confirm(ctx context.Context, dir string, files int) (bool, error) {
	confirmed := false
	err := ui.RunForm(huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Target folder").
				Description(fmt.Sprintf("\n%s\n\n%d files will be sorted into category folders", dir, files)),
			huh.NewConfirm().
				Title("Proceed with organizing?").
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	))
	if err != nil {
		err = translateAbort(err)
		if errors.Is(err, ErrNoPath) {
			return false, ErrBack
		}
		return false, err
	}
	return confirmed, nil
}

func translateAbort(err error) error {
	switch err = ui.HandleAbort(err); {
	case errors.Is(err, ui.ErrUserBack):
		return ErrNoPath
	case errors.Is(err, ui.ErrUserQuit):
		return ErrCancelled
	default:
		return err
	}
}
