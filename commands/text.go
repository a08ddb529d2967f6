package commands

import (
	"errors"
	"regexp"
	"sort"

	"github.com/josephlewis42/treesh/core/shell"
)

// Sort implements a sort over arguments.
func Sort(inv *Invocation) (shell.Reply, error) {
	cmd := &SimpleCommand{
		Use:   "sort [-r] [-u] [ARG]...",
		Short: "Sort arguments alphabetically.",
	}

	opts := cmd.Flags()
	reverse := opts.BoolLong("reverse", 'r', "sort in descending order")
	uniq := opts.BoolLong("unique", 'u', "drop duplicate arguments")

	return cmd.Run(inv, func() (shell.Reply, error) {
		out := append([]string{}, cmd.Args(inv)...)
		sort.Strings(out)

		if *uniq {
			deduped := out[:0]
			for i, arg := range out {
				if i == 0 || out[i-1] != arg {
					deduped = append(deduped, arg)
				}
			}
			out = deduped
		}

		if *reverse {
			for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
				out[i], out[j] = out[j], out[i]
			}
		}

		return shell.Return(out...), nil
	})
}

func compilePattern(name, pattern string, ignoreCase bool) (*regexp.Regexp, error) {
	if ignoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.New(name + ": invalid pattern.")
	}
	return re, nil
}

// Filter keeps arguments matching a regular expression.
func Filter(inv *Invocation) (shell.Reply, error) {
	cmd := &SimpleCommand{
		Use:   "filter [-v] [-i] PATTERN [ARG]...",
		Short: "Filter arguments.",
		Long:  []string{"Keeps only the ARGs matching PATTERN, a RE2 regular expression."},
	}

	opts := cmd.Flags()
	invert := opts.BoolLong("invert-match", 'v', "keep arguments that don't match")
	ignoreCase := opts.BoolLong("ignore-case", 'i', "match case insensitively")

	return cmd.Run(inv, func() (shell.Reply, error) {
		args := cmd.Args(inv)
		if len(args) == 0 {
			return shell.Reply{}, errors.New("filter: pattern required.")
		}

		re, err := compilePattern("filter", args[0], *ignoreCase)
		if err != nil {
			return shell.Reply{}, err
		}

		out := []string{}
		for _, arg := range args[1:] {
			if re.MatchString(arg) != *invert {
				out = append(out, arg)
			}
		}
		return shell.Return(out...), nil
	})
}

// Replace substitutes every match of a regular expression in arguments.
func Replace(inv *Invocation) (shell.Reply, error) {
	cmd := &SimpleCommand{
		Use:   "replace [-i] PATTERN REPLACEMENT [ARG]...",
		Short: "Replace parts of arguments.",
		Long:  []string{"PATTERN is a RE2 regular expression; REPLACEMENT may refer to groups with $1."},
	}

	ignoreCase := cmd.Flags().BoolLong("ignore-case", 'i', "match case insensitively")

	return cmd.Run(inv, func() (shell.Reply, error) {
		args := cmd.Args(inv)
		switch len(args) {
		case 0:
			return shell.Reply{}, errors.New("replace: pattern required.")
		case 1:
			return shell.Reply{}, errors.New("replace: replacement required.")
		}

		re, err := compilePattern("replace", args[0], *ignoreCase)
		if err != nil {
			return shell.Reply{}, err
		}

		out := make([]string, 0, len(args)-2)
		for _, arg := range args[2:] {
			out = append(out, re.ReplaceAllString(arg, args[1]))
		}
		return shell.Return(out...), nil
	})
}

func init() {
	addCmd("sort", Sort)
	addCmd("filter", Filter)
	addCmd("replace", Replace)
}
