package installer

import (
	"github.com/charmbracelet/huh"
)

// Prompter collects operator input during an install run. Modules prompt for
// whatever they need themselves; the console hands the terminal back before
// the execution driver starts.
type Prompter interface {
	Input(title, placeholder string) (string, error)
	Confirm(title, affirmative, negative string) (bool, error)
}

// TerminalPrompter asks on the controlling terminal via huh forms.
type TerminalPrompter struct{}

func (TerminalPrompter) Input(title, placeholder string) (string, error) {
	var value string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder(placeholder).
				Value(&value),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return value, nil
}

func (TerminalPrompter) Confirm(title, affirmative, negative string) (bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative(affirmative).
				Negative(negative).
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}
