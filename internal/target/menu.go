package target

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

var (
	colorMenuTitle   = color.New(color.FgBlue, color.Bold).SprintFunc()
	colorMenuIndex   = color.New(color.FgHiBlack).SprintFunc()
	colorMenuInvalid = color.New(color.FgHiRed).SprintFunc()
)

// Menu prompts for a numbered choice over a line-oriented reader and writer.
type Menu struct {
	In    io.Reader
	Out   io.Writer
	Color bool
}

// Select renders the candidates and reads lines until one names a valid
// index. Running out of input first yields ErrSelectionAborted.
func (m *Menu) Select(candidates []Candidate) (string, error) {
	if len(candidates) == 0 {
		return "", ErrNoTargets
	}
	if len(candidates) == 1 {
		return candidates[0].Name, nil
	}

	if err := m.render(candidates); err != nil {
		return "", err
	}

	reader := bufio.NewReader(m.In)
	for {
		if _, err := fmt.Fprintf(m.Out, "Enter choice (1-%d): ", len(candidates)); err != nil {
			return "", err
		}

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		if errors.Is(err, io.EOF) && line == "" {
			fmt.Fprintln(m.Out)
			return "", ErrSelectionAborted
		}

		if choice, ok := parseChoice(line, len(candidates)); ok {
			return candidates[choice-1].Name, nil
		}
		fmt.Fprintln(m.Out, m.style(colorMenuInvalid, "Invalid selection. Try again."))

		if errors.Is(err, io.EOF) {
			return "", ErrSelectionAborted
		}
	}
}

func (m *Menu) render(candidates []Candidate) error {
	width := 0
	for _, c := range candidates {
		if w := runewidth.StringWidth(c.Name); w > width {
			width = w
		}
	}
	digits := len(strconv.Itoa(len(candidates)))

	var b strings.Builder
	fmt.Fprintln(&b, m.style(colorMenuTitle, "Select a binary:"))
	for i, c := range candidates {
		index := fmt.Sprintf("%*d)", digits, i+1)
		if c.Source == "" {
			fmt.Fprintf(&b, "  %s %s\n", m.style(colorMenuIndex, index), c.Name)
			continue
		}
		fmt.Fprintf(&b, "  %s %s  %s\n", m.style(colorMenuIndex, index), runewidth.FillRight(c.Name, width), c.Source)
	}
	_, err := io.WriteString(m.Out, b.String())
	return err
}

func (m *Menu) style(fn func(...interface{}) string, s string) string {
	if !m.Color {
		return s
	}
	return fn(s)
}

func parseChoice(line string, count int) (int, bool) {
	choice, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || choice < 1 || choice > count {
		return 0, false
	}
	return choice, true
}
