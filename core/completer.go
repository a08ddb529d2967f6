package core

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/abiosoft/readline"
)

// Completer returns the readline completion hook of the terminal.
func (t *Terminal) Completer() readline.AutoCompleter {
	return &terminalCompleter{t: t}
}

type terminalCompleter struct {
	t *Terminal
}

// Do implements readline.AutoCompleter. readline only inserts text at the
// caret, so candidates are given as what to type after the partial word.
func (c *terminalCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line)
	caret := len(string(line[:pos]))

	ctx := context.Background()
	cancel := func() {}
	if timeout := c.t.configuration.CompletionTimeout(); timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
		cancel()
	}
	defer cancel()

	comp, err := c.t.Session.CompleteLine(ctx, text, caret)
	if err != nil || len(comp.Candidates) == 0 {
		return nil, 0
	}

	if len(comp.Candidates) == 1 {
		if insert, ok := insertion(text, caret, comp.Line); ok {
			return [][]rune{[]rune(insert)}, 0
		}
	}

	var out [][]rune
	for _, candidate := range comp.Candidates {
		if suffix, ok := comp.Suffix(candidate); ok {
			out = append(out, []rune(suffix))
		}
	}
	return out, utf8.RuneCountInString(comp.Partial)
}

// insertion returns the text added at the caret to turn line into
// completed, if that's the only change.
func insertion(line string, caret int, completed string) (string, bool) {
	head, tail := line[:caret], line[caret:]
	if !strings.HasPrefix(completed, head) || !strings.HasSuffix(completed[len(head):], tail) {
		return "", false
	}
	insert := completed[len(head) : len(completed)-len(tail)]
	if insert == "" && strings.HasPrefix(tail, " ") {
		// The word was complete already.
		return "", false
	}
	return insert, true
}
