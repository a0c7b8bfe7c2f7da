package collect

import (
	"github.com/charmbracelet/huh"
)

// Option is one selectable choice presented to the operator.
type Option struct {
	Label string
	Value string
}

// Prompter is the interactive input surface the collector runs on. The
// production implementation renders huh forms; tests script the answers.
type Prompter interface {
	Input(title, placeholder, defaultValue string, validate func(string) error) (string, error)
	Select(title string, options []Option, defaultValue string) (string, error)
	MultiSelect(title string, options []Option, preselected map[string]bool) ([]string, error)
	Confirm(title string, defaultValue bool) (bool, error)
}

// HuhPrompter renders each prompt as a single-field huh form.
type HuhPrompter struct{}

func (HuhPrompter) Input(title, placeholder, defaultValue string, validate func(string) error) (string, error) {
	value := defaultValue
	input := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&value)
	if validate != nil {
		input = input.Validate(validate)
	}
	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return "", err
	}
	return value, nil
}

func (HuhPrompter) Select(title string, options []Option, defaultValue string) (string, error) {
	value := defaultValue
	opts := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		opts = append(opts, huh.NewOption(o.Label, o.Value))
	}
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(title).
			Options(opts...).
			Value(&value),
	))
	if err := form.Run(); err != nil {
		return "", err
	}
	return value, nil
}

func (HuhPrompter) MultiSelect(title string, options []Option, preselected map[string]bool) ([]string, error) {
	var selected []string
	opts := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		opt := huh.NewOption(o.Label, o.Value)
		if preselected[o.Value] {
			opt = opt.Selected(true)
		}
		opts = append(opts, opt)
	}
	form := huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[string]().
			Title(title).
			Options(opts...).
			Value(&selected),
	))
	if err := form.Run(); err != nil {
		return nil, err
	}
	return selected, nil
}

func (HuhPrompter) Confirm(title string, defaultValue bool) (bool, error) {
	value := defaultValue
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Value(&value),
	))
	if err := form.Run(); err != nil {
		return false, err
	}
	return value, nil
}
