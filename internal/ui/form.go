package ui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// ErrUserBack is returned when the user presses esc to leave a form.
var ErrUserBack = errors.New("user navigated back")

// ErrUserQuit is returned when the user presses ctrl+c inside a form.
var ErrUserQuit = errors.New("user quit")

// interceptedKey tracks the last key that triggered an abort (esc vs ctrl+c).
var interceptedKey string

// formFilter is a Bubble Tea filter that intercepts esc and ctrl+c to distinguish them.
func formFilter(m tea.Model, msg tea.Msg) tea.Msg {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyEsc:
			interceptedKey = "esc"
		case tea.KeyCtrlC:
			interceptedKey = "ctrl+c"
		}
	}
	return msg
}

// Theme returns the huh theme shared by every form.
func Theme() *huh.Theme {
	return huh.ThemeCatppuccin()
}

// KeyMap maps both esc and ctrl+c to quit; HandleAbort tells them apart.
func KeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()

	km.Quit.SetKeys("esc", "ctrl+c")
	km.Quit.SetHelp("ctrl+c", "quit")

	km.Input.Submit.SetHelp("enter", "submit • esc: back • ctrl+c: quit")
	km.Confirm.Submit.SetHelp("enter", "confirm • esc: back • ctrl+c: quit")

	return km
}

// RunForm runs a huh form with the shared theme, key map and key interception.
func RunForm(f *huh.Form) error {
	interceptedKey = ""
	return f.WithTheme(Theme()).
		WithKeyMap(KeyMap()).
		WithProgramOptions(tea.WithFilter(formFilter)).
		Run()
}

// HandleAbort translates huh.ErrUserAborted into ErrUserBack (esc) or
// ErrUserQuit (ctrl+c). Other errors pass through unchanged.
func HandleAbort(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		if interceptedKey == "ctrl+c" {
			return ErrUserQuit
		}
		return ErrUserBack
	}
	return err
}
