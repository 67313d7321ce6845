package terminal

import (
	"errors"
	"fmt"
	"strings"

	"smc-analyzer/internal/dto"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

const (
	optionOther = "Other pair..."
	optionQuit  = "Quit"
)

// ErrQuit is returned by a Prompter when the user wants to leave.
var ErrQuit = errors.New("quit")

// Prompter asks the user for the next symbol to analyze.
type Prompter interface {
	AskSymbol(pairs []string, last string) (string, error)
}

type surveyPrompter struct{}

func NewSurveyPrompter() Prompter {
	return &surveyPrompter{}
}

func (p *surveyPrompter) AskSymbol(pairs []string, last string) (string, error) {
	options := append(append([]string{}, pairs...), optionOther, optionQuit)

	var choice string
	prompt := &survey.Select{
		Message: "Select the pair to analyze:",
		Options: options,
		Help:    "Pick a preferred pair or choose 'Other pair...' to type one",
	}
	if last != "" {
		for _, pair := range pairs {
			if pair == last {
				prompt.Default = last
			}
		}
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", askError(err)
	}

	switch choice {
	case optionQuit:
		return "", ErrQuit
	case optionOther:
		return askCustomSymbol()
	default:
		return choice, nil
	}
}

func askCustomSymbol() (string, error) {
	var symbol string
	prompt := &survey.Input{
		Message: "Enter the pair (e.g., EURUSD, XAUUSD):",
		Help:    "Letters and digits only, as the analysis service expects them",
	}

	err := survey.AskOne(prompt, &symbol, survey.WithValidator(func(val interface{}) error {
		str := dto.NormalizeSymbol(fmt.Sprint(val))
		if str == "" {
			return fmt.Errorf("symbol cannot be empty")
		}
		if len(str) > 20 {
			return fmt.Errorf("symbol too long (max 20 characters)")
		}
		if strings.ContainsAny(str, " /") {
			return fmt.Errorf("invalid symbol format")
		}
		return nil
	}))
	if err != nil {
		return "", askError(err)
	}
	return dto.NormalizeSymbol(symbol), nil
}

func askError(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrQuit
	}
	return err
}
