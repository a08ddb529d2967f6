package shell

import "fmt"

// Operator joins two commands.
type Operator int

// Operators in splitting priority order, highest first.
const (
	SequenceAbort Operator = iota + 1 // ;;
	Sequence                          // ;
	PipeArgsKeep                      // ~
	Or                                // ||
	And                               // &&
	Pipe                              // |
	ForeachBind                       // :
	Parallel                          // &
)

// Operators lists every operator in splitting priority order.
var Operators = []Operator{
	SequenceAbort,
	Sequence,
	PipeArgsKeep,
	Or,
	And,
	Pipe,
	ForeachBind,
	Parallel,
}

var operatorText = map[Operator]string{
	SequenceAbort: ";;",
	Sequence:      ";",
	PipeArgsKeep:  "~",
	Or:            "||",
	And:           "&&",
	Pipe:          "|",
	ForeachBind:   ":",
	Parallel:      "&",
}

func (o Operator) String() string {
	if text, ok := operatorText[o]; ok {
		return text
	}
	return fmt.Sprintf("operator(%d)", int(o))
}

// matchOperator returns the operator starting at text[i] and its width.
// Two character operators win over their one character prefixes.
func matchOperator(text string, i int) (Operator, int) {
	if i+2 <= len(text) {
		switch text[i : i+2] {
		case ";;":
			return SequenceAbort, 2
		case "||":
			return Or, 2
		case "&&":
			return And, 2
		}
	}

	switch text[i] {
	case ';':
		return Sequence, 1
	case '~':
		return PipeArgsKeep, 1
	case '|':
		return Pipe, 1
	case ':':
		return ForeachBind, 1
	case '&':
		return Parallel, 1
	}

	return 0, 0
}

// TokenKind tells the variants of Token apart.
type TokenKind int

const (
	// FragmentToken is one command's raw text.
	FragmentToken TokenKind = iota
	// OperatorToken is an operator marker.
	OperatorToken
	// GroupToken is a parenthesized token sequence.
	GroupToken
)

// Token is produced by Tokenize.
type Token struct {
	Kind TokenKind

	// Text is the raw fragment text, quotes and escapes included. It's always
	// equal to the input between Start and End.
	Text string
	// Start and End are byte offsets into the tokenized input. For groups they
	// include the parentheses.
	Start, End int

	Operator Operator
	Group    []Token
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

type tokenState int

const (
	stateBeginning tokenState = iota
	stateCommand
	stateDouble
	stateSingle
	stateAfterGroup
)

// Tokenize turns a line into a flat sequence of fragments and operators,
// ending with a fragment or group.
func Tokenize(text string) ([]Token, error) {
	tz := &tokenizer{text: text}
	return tz.tokenize(0)
}

type tokenizer struct {
	text string
	pos  int
}

// tokenize reads tokens from the current position. Nested calls (depth > 0)
// stop on the closing parenthesis, leaving pos on it.
func (tz *tokenizer) tokenize(depth int) ([]Token, error) {
	var tokens []Token
	state := stateBeginning
	start := 0

	emitFragment := func(end int) {
		tokens = append(tokens, Token{
			Kind:  FragmentToken,
			Text:  tz.text[start:end],
			Start: start,
			End:   end,
		})
	}
	emitOperator := func(op Operator, width int) {
		tokens = append(tokens, Token{
			Kind:     OperatorToken,
			Operator: op,
			Start:    tz.pos,
			End:      tz.pos + width,
		})
		tz.pos += width - 1
	}
	closeGroup := func() ([]Token, error) {
		if depth == 0 {
			return nil, syntaxErrorf(tz.pos, "unexpected closing parenthesis.")
		}
		return tokens, nil
	}

	for ; tz.pos < len(tz.text); tz.pos++ {
		c := tz.text[tz.pos]

		switch state {
		case stateBeginning:
			if isSpace(c) {
				continue
			}
			if op, _ := matchOperator(tz.text, tz.pos); op != 0 {
				return nil, syntaxErrorf(tz.pos, "command expected before operator.")
			}

			switch c {
			case '(':
				open := tz.pos
				tz.pos++
				group, err := tz.tokenize(depth + 1)
				if err != nil {
					return nil, err
				}
				tokens = append(tokens, Token{
					Kind:  GroupToken,
					Group: group,
					Start: open,
					End:   tz.pos + 1,
				})
				state = stateAfterGroup
			case ')':
				return nil, syntaxErrorf(tz.pos, "unexpected closing parenthesis.")
			case '"':
				start = tz.pos
				state = stateDouble
			case '\'':
				start = tz.pos
				state = stateSingle
			case '\\':
				start = tz.pos
				if err := tz.escape(); err != nil {
					return nil, err
				}
				state = stateCommand
			default:
				start = tz.pos
				state = stateCommand
			}

		case stateCommand:
			if op, width := matchOperator(tz.text, tz.pos); op != 0 {
				emitFragment(tz.pos)
				emitOperator(op, width)
				state = stateBeginning
				continue
			}

			switch c {
			case '(':
				return nil, syntaxErrorf(tz.pos, "unexpected opening parenthesis.")
			case ')':
				emitFragment(tz.pos)
				return closeGroup()
			case '"':
				state = stateDouble
			case '\'':
				state = stateSingle
			case '\\':
				if err := tz.escape(); err != nil {
					return nil, err
				}
			}

		case stateDouble:
			switch c {
			case '"':
				state = stateCommand
			case '\\':
				if err := tz.escape(); err != nil {
					return nil, err
				}
			}

		case stateSingle:
			if c == '\'' {
				state = stateCommand
			}

		case stateAfterGroup:
			if op, width := matchOperator(tz.text, tz.pos); op != 0 {
				emitOperator(op, width)
				state = stateBeginning
				continue
			}

			switch {
			case c == ')':
				return closeGroup()
			case !isSpace(c):
				return nil, syntaxErrorf(tz.pos, "unexpected character after parenthesis.")
			}
		}
	}

	switch state {
	case stateDouble, stateSingle:
		return nil, syntaxErrorf(len(tz.text), "quote expected.")
	case stateCommand:
		emitFragment(len(tz.text))
	case stateBeginning:
		if len(tokens) > 0 {
			return nil, syntaxErrorf(len(tz.text), "command expected after operator.")
		}
	}

	if depth > 0 {
		return nil, syntaxErrorf(len(tz.text), "closing parenthesis expected.")
	}

	return tokens, nil
}

// escape skips the character following a backslash.
func (tz *tokenizer) escape() error {
	if tz.pos+1 >= len(tz.text) {
		return syntaxErrorf(tz.pos, "character expected after \\.")
	}
	tz.pos++
	return nil
}
