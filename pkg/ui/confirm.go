// Package ui provides console implementations of the interactive
// capabilities the commands inject into the components.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/dotstash/pkg/errors"
)

// ConsoleConfirmer implements types.Confirmer by prompting on the
// console and reading a y/n answer from standard input.
type ConsoleConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsoleConfirmer creates a ConsoleConfirmer reading from in and
// prompting on out.
func NewConsoleConfirmer(in io.Reader, out io.Writer) *ConsoleConfirmer {
	return &ConsoleConfirmer{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Confirm asks the question and returns the user's answer. An empty
// answer returns def. EOF is treated as "no" so piped input can't
// accidentally approve a destructive step.
func (c *ConsoleConfirmer) Confirm(question string, def bool) (bool, error) {
	marker := "[y/N]"
	if def {
		marker = "[Y/n]"
	}
	fmt.Fprintf(c.out, "%s %s: ", question, marker)

	line, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, errors.Wrap(err, errors.ErrInvalidInput, "failed to read confirmation")
	}
	if err == io.EOF && line == "" {
		return false, nil
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	if answer == "" {
		return def, nil
	}
	return answer == "y" || answer == "yes", nil
}
