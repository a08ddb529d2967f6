package shell

import (
	"strings"

	"github.com/josephlewis42/treesh/core/vars"
)

// Split expands variable references in a command fragment and splits the
// result into words, removing quotes and escapes.
//
// Variables are expanded once: the substituted values aren't scanned again.
func Split(fragment string, table *vars.Table) ([]string, error) {
	expanded, err := expand(fragment, table)
	if err != nil {
		return nil, err
	}
	return words(expanded)
}

// expand replaces $name and ${name} outside single quotes with the values of
// the variable joined by a space. Unknown variables expand to nothing.
func expand(text string, table *vars.Table) (string, error) {
	var out strings.Builder
	single, double := false, false

	for i := 0; i < len(text); i++ {
		c := text[i]

		switch {
		case single:
			if c == '\'' {
				single = false
			}
			out.WriteByte(c)

		case c == '"':
			double = !double
			out.WriteByte(c)

		case c == '\'' && !double:
			single = true
			out.WriteByte(c)

		case c == '\\':
			out.WriteByte(c)
			if i+1 < len(text) {
				i++
				out.WriteByte(text[i])
			}

		case c == '$':
			var name string
			if i+1 < len(text) && text[i+1] == '{' {
				closing := strings.IndexByte(text[i+2:], '}')
				if closing < 0 {
					return "", syntaxErrorf(i, "closing bracket expected.")
				}
				name = text[i+2 : i+2+closing]
				i += 2 + closing
			} else {
				end := i + 1
				for end < len(text) && vars.IsNameChar(rune(text[end])) {
					end++
				}
				name = text[i+1 : end]
				i = end - 1
			}

			if table != nil {
				out.WriteString(strings.Join(table.Get(name), " "))
			}

		default:
			out.WriteByte(c)
		}
	}

	return out.String(), nil
}

type splitState int

const (
	splitSpace splitState = iota
	splitArgument
	splitDouble
	splitSingle
)

// words splits expanded text on whitespace outside of quotes.
func words(text string) ([]string, error) {
	out := []string{}
	var arg strings.Builder
	state := splitSpace

	for i := 0; i < len(text); i++ {
		c := text[i]

		if c == '\\' && state != splitSingle {
			if i+1 >= len(text) {
				return nil, syntaxErrorf(i, "character expected after \\.")
			}
			i++
			arg.WriteByte(text[i])
			if state == splitSpace {
				state = splitArgument
			}
			continue
		}

		switch state {
		case splitSpace:
			switch {
			case c == '"':
				state = splitDouble
			case c == '\'':
				state = splitSingle
			case !isSpace(c):
				arg.WriteByte(c)
				state = splitArgument
			}

		case splitArgument:
			switch {
			case c == '"':
				state = splitDouble
			case c == '\'':
				state = splitSingle
			case isSpace(c):
				out = append(out, arg.String())
				arg.Reset()
				state = splitSpace
			default:
				arg.WriteByte(c)
			}

		case splitDouble:
			if c == '"' {
				state = splitArgument
			} else {
				arg.WriteByte(c)
			}

		case splitSingle:
			if c == '\'' {
				state = splitArgument
			} else {
				arg.WriteByte(c)
			}
		}
	}

	switch state {
	case splitDouble, splitSingle:
		return nil, syntaxErrorf(len(text), "quote expected.")
	case splitArgument:
		out = append(out, arg.String())
	}

	return out, nil
}

// wordSpan returns the bounds of the unexpanded word of text containing the
// byte at offset, following the same quoting rules as words.
func wordSpan(text string, offset int) (int, int, bool) {
	state := splitSpace
	start := 0

	for i := 0; i < len(text); i++ {
		c := text[i]

		if state == splitSpace {
			if isSpace(c) {
				continue
			}
			start = i
			state = splitArgument
		}

		switch state {
		case splitArgument:
			switch {
			case c == '\\':
				i++
			case c == '"':
				state = splitDouble
			case c == '\'':
				state = splitSingle
			case isSpace(c):
				if start <= offset && offset < i {
					return start, i, true
				}
				state = splitSpace
			}

		case splitDouble:
			switch c {
			case '\\':
				i++
			case '"':
				state = splitArgument
			}

		case splitSingle:
			if c == '\'' {
				state = splitArgument
			}
		}
	}

	if state != splitSpace && start <= offset {
		return start, len(text), true
	}
	return 0, 0, false
}
