package commands

import (
	"errors"

	"github.com/josephlewis42/treesh/core/shell"
	"github.com/josephlewis42/treesh/core/vars"
)

// Set binds a variable.
func Set(inv *Invocation) (shell.Reply, error) {
	cmd := &SimpleCommand{
		Use:     "set NAME [VALUE]...",
		Short:   "Set a variable.",
		RawArgs: true,
		Long: []string{
			"Sets the variable NAME to the VALUEs, kept separate.",
			"Variables may be used later by invoking $NAME or calling get.",
		},
	}

	return cmd.Run(inv, func() (shell.Reply, error) {
		args := cmd.Args(inv)
		if len(args) == 0 {
			return shell.Reply{}, errors.New("set: variable name required.")
		}
		if !vars.IsName(args[0]) {
			return shell.Reply{}, errors.New("set: invalid variable name.")
		}

		inv.Env.Variables().Set(args[0], args[1:]...)
		return shell.Return(), nil
	})
}

// Unset removes a variable.
func Unset(inv *Invocation) (shell.Reply, error) {
	cmd := &SimpleCommand{
		Use:     "unset NAME...",
		Short:   "Remove a variable.",
		RawArgs: true,
	}

	return cmd.Run(inv, func() (shell.Reply, error) {
		args := cmd.Args(inv)
		if len(args) == 0 {
			return shell.Reply{}, errors.New("unset: variable name required.")
		}

		for _, name := range args {
			inv.Env.Variables().Unset(name)
		}
		return shell.Return(), nil
	})
}

// Get returns the values of variables.
func Get(inv *Invocation) (shell.Reply, error) {
	cmd := &SimpleCommand{
		Use:     "get NAME...",
		Short:   "Get the value of a variable.",
		RawArgs: true,
	}

	return cmd.Run(inv, func() (shell.Reply, error) {
		args := cmd.Args(inv)
		if len(args) == 0 {
			return shell.Reply{}, errors.New("get: variable name required.")
		}

		var out []string
		for _, name := range args {
			out = append(out, inv.Env.Variables().Get(name)...)
		}
		return shell.Return(out...), nil
	})
}

// Clear clears the screen, the history or the variables.
func Clear(inv *Invocation) (shell.Reply, error) {
	cmd := &SimpleCommand{
		Use:     "clear [MEDIUM]...",
		Short:   "Clear medium.",
		RawArgs: true,
		Long: []string{
			"MEDIUM can be",
			" a, all: all media listed below",
			" h, history: command history",
			" s, screen: previous commands and their output",
			" v, variables: variables set by set",
			"",
			"Several mediums may be used. Default is screen.",
		},
	}

	return cmd.Run(inv, func() (shell.Reply, error) {
		media := cmd.Args(inv)
		if len(media) == 0 {
			media = []string{"screen"}
		}

		for _, medium := range media {
			switch medium {
			case "a", "all":
				inv.Host.ClearHistory()
				inv.Host.ClearScreen()
				inv.Env.Variables().Clear()
			case "h", "history":
				inv.Host.ClearHistory()
			case "s", "screen":
				inv.Host.ClearScreen()
			case "v", "variables":
				inv.Env.Variables().Clear()
			}
		}
		return shell.Return(), nil
	})
}

func init() {
	addCmd("set", Set)
	addCmd("unset", Unset)
	addCmd("get", Get)
	addCmd("clear", Clear)
}
