package negotiation

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// ConsolePrompter is a line-oriented Prompter over a reader/writer pair,
// typically stdin/stdout. Not safe for concurrent use.
type ConsolePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsolePrompter creates a prompter reading lines from in and writing
// to out.
func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{in: bufio.NewReader(in), out: out}
}

// Say writes one line of text to the output.
func (c *ConsolePrompter) Say(text string) {
	fmt.Fprintln(c.out, text)
}

// Prompt writes the prompt text and blocks for one line of input. A final
// line without a trailing newline is still returned.
func (c *ConsolePrompter) Prompt(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(c.out, text)
	line, err := c.in.ReadString('\n')
	if len(line) == 0 && err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
