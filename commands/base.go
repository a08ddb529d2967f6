package commands

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	getopt "github.com/pborman/getopt/v2"

	"github.com/josephlewis42/treesh/core/shell"
	"github.com/josephlewis42/treesh/core/vars"
)

// Env is the interpreter state builtins work on. *shell.Session implements it.
type Env interface {
	Variables() *vars.Table
	Listeners() []shell.Listener
}

// Host is the collaborator displaying the session: a terminal, an SSH
// connection or a script runner.
type Host interface {
	// Prompt asks a question and calls answer once with the reply. If the host
	// can't ask, answer gets def.
	Prompt(message, def string, answer func(reply string, err error))
	ClearScreen()
	History() []string
	ClearHistory()
	Exit()
}

// Invocation is a single call of a builtin.
type Invocation struct {
	// Args holds the command name followed by its arguments.
	Args   []string
	Env    Env
	Host   Host
	Resume shell.Continuation
}

// CommandFunc implements a builtin.
type CommandFunc func(inv *Invocation) (shell.Reply, error)

// AllCommands holds every registered builtin by name.
var AllCommands = make(map[string]CommandFunc)

func addCmd(name string, cmd CommandFunc) {
	if _, ok := AllCommands[name]; ok {
		panic(fmt.Sprintf("duplicate command %q", name))
	}
	AllCommands[name] = cmd
}

// ListBuiltinCommands returns the names of all builtins, sorted.
func ListBuiltinCommands() []string {
	var out []string
	for name := range AllCommands {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

type SimpleCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a one line description of the command.
	Short string
	// Long holds extra lines of help.
	Long []string
	// RawArgs disables flag parsing so data starting with a dash is kept.
	// Only a lone --help argument is interpreted.
	RawArgs bool

	flags    *getopt.Set
	showHelp *bool
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// Help returns the help lines of the command.
func (s *SimpleCommand) Help() []string {
	out := []string{s.Short, "", "usage: " + s.Use}
	if len(s.Long) > 0 {
		out = append(out, "")
		out = append(out, s.Long...)
	}

	if s.RawArgs {
		return out
	}

	buf := &bytes.Buffer{}
	s.Flags().PrintOptions(buf)
	if options := strings.TrimRight(buf.String(), "\n"); options != "" {
		out = append(out, "", "Flags:")
		out = append(out, strings.Split(options, "\n")...)
	}
	return out
}

// Args returns the operands left after flag parsing.
func (s *SimpleCommand) Args(inv *Invocation) []string {
	if s.RawArgs {
		return inv.Args[1:]
	}
	return s.Flags().Args()
}

// Run the command, if flag parsing was successful call the callback.
func (s *SimpleCommand) Run(inv *Invocation, callback func() (shell.Reply, error)) (shell.Reply, error) {
	if s.RawArgs {
		if len(inv.Args) == 2 && inv.Args[1] == "--help" {
			return shell.Return(s.Help()...), nil
		}
		return callback()
	}

	opts := s.Flags()
	if s.showHelp == nil {
		s.showHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	if err := opts.Getopt(inv.Args, nil); err != nil {
		return shell.Reply{}, fmt.Errorf("%s: %v.", inv.Args[0], err)
	}

	if *s.showHelp {
		return shell.Return(s.Help()...), nil
	}

	return callback()
}

// PureCommand describes a builtin computing its result from its arguments
// only.
type PureCommand struct {
	Name  string
	Use   string
	Short string
	Long  []string
	Main  func(args []string) ([]string, error)
}

// ToCommand converts the description to a functioning command.
func (c *PureCommand) ToCommand() CommandFunc {
	return func(inv *Invocation) (shell.Reply, error) {
		cmd := &SimpleCommand{
			Use:     c.Use,
			Short:   c.Short,
			Long:    c.Long,
			RawArgs: true,
		}

		return cmd.Run(inv, func() (shell.Reply, error) {
			out, err := c.Main(cmd.Args(inv))
			if err != nil {
				return shell.Reply{}, err
			}
			return shell.Return(out...), nil
		})
	}
}
