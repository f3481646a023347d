package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncruces/zenity"
)

// Dialog shows the platform's native folder picker.
type Dialog struct{}

func (Dialog) Name() string { return "dialog" }

// AskPath opens the picker. Cancel yields ErrNoPath; a missing dialog
// backend (no zenity/kdialog, no display) yields ErrUnavailable.
func (Dialog) AskPath(ctx context.Context) (string, error) {
	path, err := zenity.SelectFile(
		zenity.Context(ctx),
		zenity.Title("Select folder to organize"),
		zenity.Directory(),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", ErrNoPath
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if path == "" {
		return "", ErrNoPath
	}
	return path, nil
}
