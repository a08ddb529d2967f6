package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/anmitsu/go-shlex"
	"mvdan.cc/sh/v3/syntax"
)

// maxSeqLength bounds the output of seq.
const maxSeqLength = 100000

var pureCommands = []PureCommand{
	{
		Name:  "count",
		Use:   "count [ARG]...",
		Short: "Count arguments.",
		Main: func(args []string) ([]string, error) {
			return []string{strconv.Itoa(len(args))}, nil
		},
	},
	{
		Name:  "echo",
		Use:   "echo [ARG]...",
		Short: "Display arguments on a single line.",
		Main: func(args []string) ([]string, error) {
			return []string{strings.Join(args, " ")}, nil
		},
	},
	{
		Name:  "join",
		Use:   "join GLUE [ARG]...",
		Short: "Join arguments.",
		Long:  []string{"GLUE is inserted between each ARG, but not at the beginning or the end."},
		Main: func(args []string) ([]string, error) {
			if len(args) == 0 {
				return nil, errors.New("join: glue required.")
			}
			return []string{strings.Join(args[1:], args[0])}, nil
		},
	},
	{
		Name:  "length",
		Use:   "length [ARG]...",
		Short: "Give the length of each argument in characters.",
		Main: func(args []string) ([]string, error) {
			out := make([]string, len(args))
			for i, arg := range args {
				out[i] = strconv.Itoa(utf8.RuneCountInString(arg))
			}
			return out, nil
		},
	},
	{
		Name:  "list",
		Use:   "list [ARG]...",
		Short: "List arguments.",
		Main: func(args []string) ([]string, error) {
			return args, nil
		},
	},
	{
		Name:  "reverse",
		Use:   "reverse [ARG]...",
		Short: "Reverse the order of the arguments.",
		Main: func(args []string) ([]string, error) {
			out := make([]string, len(args))
			for i, arg := range args {
				out[len(args)-1-i] = arg
			}
			return out, nil
		},
	},
	{
		Name:  "split",
		Use:   "split SEPARATOR [ARG]...",
		Short: "Split arguments.",
		Long:  []string{"An empty SEPARATOR splits arguments into characters."},
		Main: func(args []string) ([]string, error) {
			if len(args) == 0 {
				return nil, errors.New("split: separator required.")
			}
			var out []string
			for _, arg := range args[1:] {
				out = append(out, strings.Split(arg, args[0])...)
			}
			return out, nil
		},
	},
	{
		Name:  "select",
		Use:   "select INDEX [ARG]...",
		Short: "Select an argument.",
		Long:  []string{"Gives only the INDEX-th ARG, starting from 1."},
		Main: func(args []string) ([]string, error) {
			if len(args) == 0 {
				return nil, errors.New("select: index required.")
			}
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return nil, errors.New("select: index is not a number.")
			}
			items := args[1:]
			if index < 1 || index > len(items) {
				return nil, nil
			}
			return []string{items[index-1]}, nil
		},
	},
	{
		Name:  "slice",
		Use:   "slice START END [ARG]...",
		Short: "Select a part of the arguments.",
		Long: []string{
			"Selects the ARGs in range [START, END[, starting from 1.",
			"END may be 0 to select arguments from START to the end.",
			"Negative limits count from the end.",
		},
		Main: func(args []string) ([]string, error) {
			if len(args) < 2 {
				return nil, errors.New("slice: limit required.")
			}
			start, err1 := strconv.Atoi(args[0])
			end, err2 := strconv.Atoi(args[1])
			if err1 != nil || err2 != nil {
				return nil, errors.New("slice: limit is not a number.")
			}
			items := args[2:]
			from, to := sliceIndex(start, 0, len(items)), sliceIndex(end, len(items), len(items))
			if from >= to {
				return nil, nil
			}
			return items[from:to], nil
		},
	},
	{
		Name:  "seq",
		Use:   "seq [FIRST [INCREMENT]] LAST",
		Short: "Give a sequence of numbers.",
		Long: []string{
			"Gives numbers from FIRST (default 1) to LAST in steps of INCREMENT (default 1).",
			"A negative INCREMENT counts down.",
		},
		Main: seq,
	},
	{
		Name:  "unescape",
		Use:   "unescape [ARG]...",
		Short: "Interpret backslash escapes in arguments.",
		Main: func(args []string) ([]string, error) {
			out := make([]string, len(args))
			for i, arg := range args {
				out[i] = unescape(arg)
			}
			return out, nil
		},
	},
	{
		Name:  "words",
		Use:   "words [STRING]...",
		Short: "Split strings into POSIX shell words.",
		Main: func(args []string) ([]string, error) {
			var out []string
			for _, arg := range args {
				words, err := shlex.Split(arg, true)
				if err != nil {
					return nil, fmt.Errorf("words: %v.", err)
				}
				out = append(out, words...)
			}
			return out, nil
		},
	},
	{
		Name:  "quote",
		Use:   "quote [ARG]...",
		Short: "Quote arguments for a POSIX shell.",
		Main: func(args []string) ([]string, error) {
			out := make([]string, len(args))
			for i, arg := range args {
				quoted, err := syntax.Quote(arg, syntax.LangPOSIX)
				if err != nil {
					return nil, fmt.Errorf("quote: %v.", err)
				}
				out[i] = quoted
			}
			return out, nil
		},
	},
}

// sliceIndex converts a 1-based limit to an offset into n items. Zero maps
// to def.
func sliceIndex(limit, def, n int) int {
	var index int
	switch {
	case limit == 0:
		index = def
	case limit > 0:
		index = limit - 1
	default:
		index = n + limit
	}

	switch {
	case index < 0:
		return 0
	case index > n:
		return n
	default:
		return index
	}
}

func seq(args []string) ([]string, error) {
	numbers := make([]int, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("seq: %s is not a number.", arg)
		}
		numbers[i] = n
	}

	first, increment := 1, 1
	var last int
	switch len(numbers) {
	case 0:
		return nil, errors.New("seq: last required.")
	case 1:
		last = numbers[0]
	case 2:
		first, last = numbers[0], numbers[1]
	default:
		first, increment, last = numbers[0], numbers[1], numbers[2]
	}

	if increment == 0 {
		return nil, errors.New("seq: increment must not be zero.")
	}

	var out []string
	for n := first; (increment > 0 && n <= last) || (increment < 0 && n >= last); n += increment {
		if len(out) == maxSeqLength {
			return nil, errors.New("seq: too many numbers.")
		}
		out = append(out, strconv.Itoa(n))
	}
	return out, nil
}

func init() {
	for i := range pureCommands {
		cmd := pureCommands[i]
		addCmd(cmd.Name, cmd.ToCommand())
	}
}
