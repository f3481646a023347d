package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Console reads answers line by line. It serves both the path prompt and
// the confirmation so a single buffered reader owns the input stream.
type Console struct {
	r *bufio.Reader
	w io.Writer

	// pending is an unfinished read left behind by a cancelled ask. The next
	// ask collects it instead of starting a second reader on r.
	pending chan readResult
}

// NewConsole wraps in and out for line-based prompting.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{r: bufio.NewReader(in), w: out}
}

func (c *Console) Name() string { return "console" }

// AskPath reads a folder path. An empty answer or closed input is ErrNoPath.
func (c *Console) AskPath(ctx context.Context) (string, error) {
	line, err := c.ask(ctx, "Enter folder path: ")
	if err != nil {
		return "", err
	}
	path := NormalizePath(line)
	if path == "" {
		return "", ErrNoPath
	}
	return path, nil
}

// Confirm asks a y/n question. Only y or yes proceeds.
func (c *Console) Confirm(ctx context.Context, dir string, files int) (bool, error) {
	fmt.Fprintf(c.w, "Organize %d files in: %s\n", files, dir)
	line, err := c.ask(ctx, "Proceed with organizing? (y/n): ")
	if err != nil {
		if errors.Is(err, ErrNoPath) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

type readResult struct {
	line string
	err  error
}

// ask writes question and waits for one line or for ctx to end.
func (c *Console) ask(ctx context.Context, question string) (string, error) {
	fmt.Fprint(c.w, question)

	if c.pending == nil {
		ch := make(chan readResult, 1)
		go func() {
			line, err := c.r.ReadString('\n')
			ch <- readResult{line, err}
		}()
		c.pending = ch
	}

	var line string
	var err error
	select {
	case <-ctx.Done():
		fmt.Fprintln(c.w)
		return "", ctx.Err()
	case res := <-c.pending:
		c.pending = nil
		line, err = res.line, res.err
	}
	if err != nil {
		if errors.Is(err, io.EOF) {
			if strings.TrimSpace(line) == "" {
				fmt.Fprintln(c.w)
				return "", ErrNoPath
			}
			return line, nil
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return line, nil
}
