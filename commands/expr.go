package commands

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/josephlewis42/treesh/core/shell"
)

// expressionChars restricts expressions to arithmetic and comparisons.
var expressionChars = regexp.MustCompile(`^[0-9+\-*/%(). =!<>]*$`)

// evalExpression evaluates an arithmetic expression in an empty Starlark
// environment.
func evalExpression(expression string) (starlark.Value, error) {
	if !expressionChars.MatchString(expression) || strings.TrimSpace(expression) == "" {
		return nil, errors.New("invalid expression")
	}

	thread := &starlark.Thread{Name: "eval"}
	thread.SetMaxExecutionSteps(10000)
	return starlark.EvalOptions(&syntax.FileOptions{}, thread, "<expr>", expression, nil)
}

// formatValue renders numbers without a trailing ".0" and booleans in lower
// case.
func formatValue(v starlark.Value) string {
	switch v := v.(type) {
	case starlark.Bool:
		return strconv.FormatBool(bool(v))
	case starlark.Float:
		return strconv.FormatFloat(float64(v), 'g', -1, 64)
	default:
		return v.String()
	}
}

// Eval evaluates an arithmetic expression.
func Eval(inv *Invocation) (shell.Reply, error) {
	cmd := &SimpleCommand{
		Use:     "eval EXPRESSION...",
		Short:   "Evaluate an expression.",
		RawArgs: true,
		Long: []string{
			"Arguments are joined without spaces. Only numbers, parentheses and",
			"the operators + - * / // % == != < <= > >= are allowed.",
			"",
			"Example: seq 42 | foreach i : eval $i * 2",
		},
	}

	return cmd.Run(inv, func() (shell.Reply, error) {
		v, err := evalExpression(strings.Join(cmd.Args(inv), ""))
		if err != nil {
			return shell.Reply{}, errors.New("eval: syntax error.")
		}
		return shell.Return(formatValue(v)), nil
	})
}

// Test evaluates a condition, giving a single empty string when it holds.
func Test(inv *Invocation) (shell.Reply, error) {
	cmd := &SimpleCommand{
		Use:     "test EXPRESSION...",
		Short:   "Test an expression.",
		RawArgs: true,
		Long:    []string{"Example: test 1 + 1 == 2 && echo ok || echo problem!"},
	}

	return cmd.Run(inv, func() (shell.Reply, error) {
		v, err := evalExpression(strings.Join(cmd.Args(inv), ""))
		if err != nil {
			return shell.Reply{}, errors.New("test: syntax error.")
		}
		if v.Truth() {
			return shell.Return(""), nil
		}
		return shell.Return(), nil
	})
}

func init() {
	addCmd("eval", Eval)
	addCmd("test", Test)
}
