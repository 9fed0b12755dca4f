package console

import (
	"fmt"

	survey "github.com/AlecAivazis/survey/v2"
)

// Choice is one answer offered by InputChoice.
type Choice struct {
	Key   string
	Label string
}

// DuplicateChoiceError is returned when two choices share a key.
type DuplicateChoiceError struct {
	Key string
}

func (e *DuplicateChoiceError) Error() string {
	return fmt.Sprintf("duplicate choice key: %s", e.Key)
}

// Prompter asks questions on the terminal. AskOpts are passed to survey,
// e.g. survey.WithStdio for non-standard streams.
type Prompter struct {
	AskOpts []survey.AskOpt
	// AssumeYes answers every yes/no question with yes without asking.
	AssumeYes bool
}

// InputYesNo asks a yes/no question.
func (p *Prompter) InputYesNo(msg string, def bool) (bool, error) {
	if p.AssumeYes {
		return true, nil
	}
	ok := def
	if err := survey.AskOne(&survey.Confirm{Message: msg, Default: def}, &ok, p.AskOpts...); err != nil {
		return false, err
	}
	return ok, nil
}

// InputChoice asks the user to pick one of choices and returns its key.
func (p *Prompter) InputChoice(msg string, choices []Choice) (string, error) {
	options, byLabel, err := choiceOptions(choices)
	if err != nil {
		return "", err
	}
	var picked string
	if err := survey.AskOne(&survey.Select{Message: msg, Options: options}, &picked, p.AskOpts...); err != nil {
		return "", err
	}
	return byLabel[picked], nil
}

func choiceOptions(choices []Choice) ([]string, map[string]string, error) {
	if len(choices) == 0 {
		return nil, nil, fmt.Errorf("no choices")
	}
	seen := map[string]struct{}{}
	options := make([]string, 0, len(choices))
	byLabel := make(map[string]string, len(choices))
	for _, c := range choices {
		if _, ok := seen[c.Key]; ok {
			return nil, nil, &DuplicateChoiceError{Key: c.Key}
		}
		seen[c.Key] = struct{}{}
		lbl := c.Key
		if c.Label != "" {
			lbl = c.Key + ": " + c.Label
		}
		options = append(options, lbl)
		byLabel[lbl] = c.Key
	}
	return options, byLabel, nil
}
