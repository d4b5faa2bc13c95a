package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// List of errors returned when reading the answers of the user
var (
	errInvalidSelection = errors.New("invalid selection")
	errNoAnswer         = errors.New("no answer provided")
)

// prompter asks questions to the user and reads the answers line by
// line
type prompter struct {
	in *bufio.Scanner
	p  *printer
}

func newPrompter(in io.Reader, p *printer) *prompter {
	return &prompter{
		in: bufio.NewScanner(in),
		p:  p,
	}
}

func (pr *prompter) readLine() (string, error) {
	if !pr.in.Scan() {
		if err := pr.in.Err(); err != nil {
			return "", fmt.Errorf("could not read the answer: %w", err)
		}
		return "", errNoAnswer
	}
	return strings.TrimSpace(pr.in.Text()), nil
}

// Select asks the user to pick one of the count listed items, and
// returns its 0-based index
func (pr *prompter) Select(what string, count int) (int, error) {
	pr.p.Println()
	pr.p.Printf("Enter %s number to restore (1-%d):", what, count)
	answer, err := pr.readLine()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(answer)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", answer, errInvalidSelection)
	}
	if n < 1 || n > count {
		return 0, fmt.Errorf("%w: must be between 1 and %d", errInvalidSelection, count)
	}
	return n - 1, nil
}

// Confirm warns the user that their files are about to be overwritten
// and returns whether they typed "yes"
func (pr *prompter) Confirm() (bool, error) {
	pr.p.Printf("%s Type 'yes' to continue:", pr.p.Warning("This will overwrite your current files."))
	answer, err := pr.readLine()
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "yes"), nil
}
