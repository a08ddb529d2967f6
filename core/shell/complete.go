package shell

import (
	"context"
	"sort"
	"strings"

	"github.com/josephlewis42/treesh/core/logger"
)

// caretMarker is inserted at the caret so the word being completed can be
// found after splitting.
const caretMarker = "\b"

// Completion is the result of completing a line.
type Completion struct {
	// Pending is true while a listener computes candidates. Deliver its late
	// result with ResumeCompletion.
	Pending bool
	// Candidates are sorted and unique.
	Candidates []string
	// Word is the partial word before the caret, after expansion.
	Word string
	// Partial is the same part of the word as it was typed.
	Partial string
	// Prefix is the candidate or the common prefix of all candidates. It's
	// empty if the candidates don't extend the partial word.
	Prefix string
	// Line and Caret are the rewritten input.
	Line  string
	Caret int
}

type completion struct {
	line  string
	caret int

	// marked is line with the caret marker.
	marked string
	// wordStart and wordEnd bound the raw word under the caret in marked.
	wordStart, wordEnd int

	words  []string
	index  int
	search string
}

// Complete computes candidates for the word under the caret. Lines that
// don't parse have no candidates.
func (s *Session) Complete(line string, caret int) (Completion, error) {
	s.abandonCompletion()

	if caret < 0 {
		caret = 0
	}
	if caret > len(line) {
		caret = len(line)
	}
	none := Completion{Line: line, Caret: caret}

	marked := line[:caret] + caretMarker + line[caret:]
	tree, err := Parse(marked)
	if err != nil {
		return none, nil
	}
	id, ok := tree.find(caret)
	if !ok {
		return none, nil
	}
	node := tree.Node(id)

	words, err := Split(node.Text, s.vars)
	if err != nil {
		return none, nil
	}
	start, end, ok := wordSpan(node.Text, caret-node.Start)
	if !ok {
		return none, nil
	}

	c := &completion{
		line:      line,
		caret:     caret,
		marked:    marked,
		wordStart: node.Start + start,
		wordEnd:   node.Start + end,
		words:     words,
		index:     -1,
	}
	for i, word := range words {
		if pos := strings.Index(word, caretMarker); pos >= 0 {
			c.index = i
			c.search = word[:pos]
			break
		}
	}
	if c.index < 0 {
		return none, nil
	}

	if c.index == 0 {
		var names []string
		for _, listener := range s.listeners {
			names = append(names, Among(c.search, listener.Commands())...)
		}
		return s.finish(c, names), nil
	}

	return s.askListeners(c)
}

// ResumeCompletion delivers late candidates to the suspended completion.
func (s *Session) ResumeCompletion(late Late) (Completion, error) {
	c := s.comp
	if c == nil {
		return Completion{}, ErrNotSuspended
	}
	late, err := s.take(late)
	if err != nil {
		return Completion{}, err
	}
	s.settle()
	s.comp = nil

	s.record(&logger.Resume{Values: len(late.Values)})
	if late.Err != nil {
		return Completion{}, &CommandError{Command: c.query(), Err: late.Err}
	}
	return s.finish(c, late.Values), nil
}

// CompleteLine completes a line, waiting for suspended listeners.
func (s *Session) CompleteLine(ctx context.Context, line string, caret int) (Completion, error) {
	comp, err := s.Complete(line, caret)
	if err != nil || !comp.Pending {
		return comp, err
	}
	late, err := s.Await(ctx)
	if err != nil {
		s.abandonCompletion()
		return Completion{Line: line, Caret: caret}, err
	}
	return s.ResumeCompletion(late)
}

func (s *Session) abandonCompletion() {
	if s.comp != nil {
		s.comp = nil
		s.settle()
	}
}

// query is the words before the caret, ending with the partial word.
func (c *completion) query() []string {
	query := append([]string{}, c.words[:c.index]...)
	return append(query, c.search)
}

func (s *Session) askListeners(c *completion) (Completion, error) {
	query := c.query()

	for _, listener := range s.listeners {
		resumeID, resume := s.continuation()
		reply, err := listener.Complete(query, resume)
		if err != nil {
			return Completion{}, &CommandError{Command: query, Err: err}
		}

		switch {
		case reply.Declined():
			continue
		case reply.Pending():
			if err := s.suspend(resumeID); err != nil {
				return Completion{}, err
			}
			s.comp = c
			return Completion{Pending: true, Line: c.line, Caret: c.caret}, nil
		default:
			return s.finish(c, reply.Values()), nil
		}
	}

	return s.finish(c, nil), nil
}

func (s *Session) finish(c *completion, candidates []string) Completion {
	candidates = unique(candidates)
	s.record(&logger.Completion{Line: c.line, Candidates: candidates})

	out := Completion{
		Candidates: candidates,
		Word:       c.search,
		Partial:    c.line[c.wordStart:c.caret],
		Line:       c.line,
		Caret:      c.caret,
	}

	switch len(candidates) {
	case 0:
	case 1:
		out.Prefix = candidates[0]
		out.Line, out.Caret = c.replace(candidates[0], true)
	default:
		prefix := commonPrefix(candidates)
		if !strings.HasPrefix(prefix, c.search) {
			break
		}
		out.Prefix = prefix
		if len(prefix) > len(c.search) {
			out.Line, out.Caret = c.replace(prefix, false)
		}
	}
	return out
}

// replace substitutes the word under the caret, placing the caret after it.
// Complete words are followed by a space.
func (c *completion) replace(word string, complete bool) (string, int) {
	head := c.marked[:c.wordStart] + quoteWord(word)
	tail := c.marked[c.wordEnd:]

	if !complete {
		return head + tail, len(head)
	}
	if tail != "" && isSpace(tail[0]) {
		return head + tail, len(head) + 1
	}
	head += " "
	return head + tail, len(head)
}

func unique(values []string) []string {
	sorted := append([]string{}, values...)
	sort.Strings(sorted)

	out := []string{}
	for i, v := range sorted {
		if i > 0 && sorted[i-1] == v {
			continue
		}
		out = append(out, v)
	}
	return out
}

func commonPrefix(values []string) string {
	if len(values) == 0 {
		return ""
	}
	prefix := values[0]
	for _, v := range values[1:] {
		n := 0
		for n < len(prefix) && n < len(v) && prefix[n] == v[n] {
			n++
		}
		prefix = prefix[:n]
	}
	return prefix
}

// quoteWord quotes a word so it splits back to itself.
func quoteWord(word string) string {
	if word == "" {
		return "''"
	}
	if !strings.ContainsAny(word, " \t\r\n\"'\\$;~|&:()") {
		return word
	}
	if !strings.Contains(word, "'") {
		return "'" + word + "'"
	}
	return `"` + escapeDouble(word) + `"`
}

// escapeDouble escapes the characters that are special inside double quotes.
func escapeDouble(text string) string {
	var sb strings.Builder
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '"', '\\', '$':
			sb.WriteByte('\\')
		}
		sb.WriteByte(text[i])
	}
	return sb.String()
}

// escapeSingle closes and reopens single quotes around each quote in text.
func escapeSingle(text string) string {
	return strings.ReplaceAll(text, "'", `'"'"'`)
}

// Suffix returns the text to type after Partial so the word splits to
// candidate. It's false if candidate doesn't extend Word.
func (c Completion) Suffix(candidate string) (string, bool) {
	if !strings.HasPrefix(candidate, c.Word) {
		return "", false
	}
	rest := candidate[len(c.Word):]

	switch openQuote(c.Partial) {
	case splitSingle:
		return escapeSingle(rest), true
	case splitDouble:
		return escapeDouble(rest), true
	}
	if rest == "" || (c.Partial == c.Word && quoteWord(rest) == rest) {
		return rest, true
	}
	// A quote ends any variable name the partial word finishes with.
	return "'" + escapeSingle(rest) + "'", true
}

// openQuote returns splitSingle or splitDouble if text ends inside quotes.
func openQuote(text string) splitState {
	state := splitSpace
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case state == splitSingle:
			if c == '\'' {
				state = splitSpace
			}
		case c == '\\':
			i++
		case c == '"':
			if state == splitDouble {
				state = splitSpace
			} else {
				state = splitDouble
			}
		case c == '\'' && state != splitDouble:
			state = splitSingle
		}
	}
	return state
}
