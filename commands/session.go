package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/josephlewis42/treesh/core/shell"
)

// Help lists the available commands or describes one.
func Help(inv *Invocation) (shell.Reply, error) {
	cmd := &SimpleCommand{
		Use:     "help [COMMAND]",
		Short:   "Show help.",
		RawArgs: true,
		Long: []string{
			"If COMMAND is not given, shows the available commands.",
			"If COMMAND is given, shows help of this command.",
		},
	}

	return cmd.Run(inv, func() (shell.Reply, error) {
		args := cmd.Args(inv)
		if len(args) > 0 {
			if lines := describe(inv.Env, args[0]); len(lines) > 0 {
				return shell.Return(lines...), nil
			}
			return shell.Reply{}, fmt.Errorf("Unknown command %s.", args[0])
		}

		names := commandNames(inv.Env)
		width := 0
		for _, name := range names {
			if len(name) > width {
				width = len(name)
			}
		}

		out := []string{"Type help COMMAND to show information about COMMAND.", "", "Available commands:"}
		for _, name := range names {
			summary := ""
			if lines := describe(inv.Env, name); len(lines) > 0 {
				summary = lines[0]
			}
			out = append(out, strings.TrimRight(fmt.Sprintf("  %-*s  %s", width, name, summary), " "))
		}
		return shell.Return(out...), nil
	})
}

// History gives the lines entered in the host.
func History(inv *Invocation) (shell.Reply, error) {
	cmd := &SimpleCommand{
		Use:     "history",
		Short:   "Give the command history.",
		RawArgs: true,
	}

	return cmd.Run(inv, func() (shell.Reply, error) {
		return shell.Return(inv.Host.History()...), nil
	})
}

// Prompt asks the user for a line.
func Prompt(inv *Invocation) (shell.Reply, error) {
	cmd := &SimpleCommand{
		Use:     "prompt [MESSAGE [DEFAULT]]",
		Short:   "Ask for a line of text.",
		RawArgs: true,
		Long:    []string{"Gives the reply, or nothing if it's empty."},
	}

	return cmd.Run(inv, func() (shell.Reply, error) {
		args := append(append([]string{}, cmd.Args(inv)...), "", "")

		inv.Host.Prompt(args[0], args[1], func(reply string, err error) {
			switch {
			case err != nil:
				inv.Resume(nil, err)
			case reply == "":
				inv.Resume([]string{}, nil)
			default:
				inv.Resume([]string{reply}, nil)
			}
		})
		return shell.Suspend(), nil
	})
}

// Confirm asks the user a yes or no question.
func Confirm(inv *Invocation) (shell.Reply, error) {
	cmd := &SimpleCommand{
		Use:     "confirm [MESSAGE]",
		Short:   "Ask a yes or no question.",
		RawArgs: true,
		Long:    []string{"Gives a single empty string on yes and nothing on no."},
	}

	return cmd.Run(inv, func() (shell.Reply, error) {
		message := strings.TrimSpace(strings.Join(cmd.Args(inv), " ") + " [y/N]")

		inv.Host.Prompt(message, "n", func(reply string, err error) {
			if err != nil {
				inv.Resume(nil, err)
				return
			}
			switch strings.ToLower(strings.TrimSpace(reply)) {
			case "y", "yes":
				inv.Resume([]string{""}, nil)
			default:
				inv.Resume([]string{}, nil)
			}
		})
		return shell.Suspend(), nil
	})
}

// Delay gives its arguments back after a while, without blocking the
// session.
func Delay(inv *Invocation) (shell.Reply, error) {
	cmd := &SimpleCommand{
		Use:     "delay DURATION [ARG]...",
		Short:   "Give arguments after a delay.",
		RawArgs: true,
		Long:    []string{"DURATION uses Go syntax, e.g. 1.5s or 300ms."},
	}

	return cmd.Run(inv, func() (shell.Reply, error) {
		args := cmd.Args(inv)
		if len(args) == 0 {
			return shell.Reply{}, errors.New("delay: duration required.")
		}
		d, err := time.ParseDuration(args[0])
		if err != nil || d < 0 {
			return shell.Reply{}, errors.New("delay: invalid duration.")
		}

		rest := append([]string{}, args[1:]...)
		time.AfterFunc(d, func() {
			inv.Resume(rest, nil)
		})
		return shell.Suspend(), nil
	})
}

// Exit asks the host to end the session.
func Exit(inv *Invocation) (shell.Reply, error) {
	cmd := &SimpleCommand{
		Use:     "exit",
		Short:   "End the session.",
		RawArgs: true,
	}

	return cmd.Run(inv, func() (shell.Reply, error) {
		inv.Host.Exit()
		return shell.Return(), nil
	})
}

// Foreach is only documented here; iteration is done by the : operator.
func Foreach(inv *Invocation) (shell.Reply, error) {
	cmd := &SimpleCommand{
		Use:     "foreach VARIABLE [ARG]... : COMMAND",
		Short:   "Iterate over arguments.",
		RawArgs: true,
		Long: []string{
			"Iterates COMMAND over the ARGs and the incoming arguments. In COMMAND,",
			"the current argument is available through $VARIABLE.",
			"",
			"Example: seq 42 | foreach i : eval $i * 2",
		},
	}

	return cmd.Run(inv, func() (shell.Reply, error) {
		return shell.Reply{}, errors.New("foreach: command required.")
	})
}

// Exec is collapsed by the interpreter before dispatch and only answers
// help.
func Exec(inv *Invocation) (shell.Reply, error) {
	cmd := &SimpleCommand{
		Use:     "exec COMMAND [ARG]...",
		Short:   "Execute a command.",
		RawArgs: true,
		Long:    []string{"The words are split again before execution."},
	}

	return cmd.Run(inv, func() (shell.Reply, error) {
		return shell.Return(), nil
	})
}

func init() {
	addCmd("help", Help)
	addCmd("history", History)
	addCmd("prompt", Prompt)
	addCmd("confirm", Confirm)
	addCmd("delay", Delay)
	addCmd("exit", Exit)
	addCmd("foreach", Foreach)
	addCmd("exec", Exec)
}
