// Package prompt handles the interactive dialogue with the operator. Every
// request returns a validated value; invalid entries re-prompt with a clear
// message up to a bounded number of attempts.
package prompt

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/sdaly-ie/property-tracker-cli/internal/errors"
	"github.com/sdaly-ie/property-tracker-cli/internal/records"
)

// ErrAborted is returned when the input stream ends mid-dialogue (EOF,
// typically Ctrl-D). Callers abort the current operation cleanly.
var ErrAborted = stderrors.New("input aborted")

const defaultMaxAttempts = 3

// Prompter reads operator answers from in and writes questions to out.
type Prompter struct {
	scanner     *bufio.Scanner
	out         io.Writer
	maxAttempts int
}

// New creates a prompter over the given streams.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		scanner:     bufio.NewScanner(in),
		out:         out,
		maxAttempts: defaultMaxAttempts,
	}
}

// ask prints the label and reads one trimmed line.
func (p *Prompter) ask(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", ErrAborted
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// retry runs parse over fresh answers until it succeeds or attempts run out.
func retry[T any](p *Prompter, label string, parse func(string) (T, error)) (T, error) {
	var zero T
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		answer, err := p.ask(label)
		if err != nil {
			return zero, err
		}
		v, err := parse(answer)
		if err == nil {
			return v, nil
		}
		fmt.Fprintf(p.out, "Invalid input: %s\n", messageOf(err))
	}
	return zero, apperrors.NewValidationError(
		fmt.Sprintf("no valid input after %d attempts", p.maxAttempts))
}

func messageOf(err error) string {
	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// Year asks for a year, e.g. "Start year".
func (p *Prompter) Year(label string) (int, error) {
	return retry(p, label, func(s string) (int, error) {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return 0, apperrors.NewValidationError(
				fmt.Sprintf("Year must be a positive integer, got %q", s))
		}
		return n, nil
	})
}

// Quarter asks for a quarter in 1..4.
func (p *Prompter) Quarter(label string) (int, error) {
	return retry(p, label, func(s string) (int, error) {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 4 {
			return 0, apperrors.NewValidationError(
				fmt.Sprintf("Quarter must be between 1 and 4, got %q", s))
		}
		return n, nil
	})
}

// Region presents the recognised regions as a numbered menu and accepts
// either the number or the exact column name.
func (p *Prompter) Region() (string, error) {
	fmt.Fprintln(p.out, "Regions:")
	for i, region := range records.Regions {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, region)
	}

	return retry(p, "Region", func(s string) (string, error) {
		if n, err := strconv.Atoi(s); err == nil {
			if n >= 1 && n <= len(records.Regions) {
				return records.Regions[n-1], nil
			}
			return "", apperrors.NewValidationError(
				fmt.Sprintf("region number must be between 1 and %d", len(records.Regions)))
		}
		if records.IsRegion(s) {
			return s, nil
		}
		return "", apperrors.NewValidationError(fmt.Sprintf("unknown region %q", s))
	})
}

// Value asks for a non-negative price for one region. Comma thousands
// separators and a leading euro sign are accepted.
func (p *Prompter) Value(region string) (float64, error) {
	return retry(p, fmt.Sprintf("Value for %s", region), func(s string) (float64, error) {
		clean := strings.ReplaceAll(strings.TrimPrefix(s, "€"), ",", "")
		v, err := strconv.ParseFloat(clean, 64)
		if err != nil || v < 0 {
			return 0, apperrors.NewValidationError(
				fmt.Sprintf("value must be a non-negative number, got %q", s))
		}
		return v, nil
	})
}

// YesNo asks a yes/no question.
func (p *Prompter) YesNo(label string) (bool, error) {
	return retry(p, label+" [y/n]", func(s string) (bool, error) {
		switch strings.ToLower(s) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		return false, apperrors.NewValidationError(fmt.Sprintf("answer y or n, got %q", s))
	})
}

// Choice asks for a menu selection in [min, max].
func (p *Prompter) Choice(label string, min, max int) (int, error) {
	return retry(p, label, func(s string) (int, error) {
		n, err := strconv.Atoi(s)
		if err != nil || n < min || n > max {
			return 0, apperrors.NewValidationError(
				fmt.Sprintf("choose a number between %d and %d", min, max))
		}
		return n, nil
	})
}
