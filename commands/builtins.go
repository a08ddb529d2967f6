package commands

import (
	"sort"

	"github.com/josephlewis42/treesh/core/shell"
)

// Completer completes the arguments of a builtin. words holds the command
// name, the complete arguments and the partial word last.
type Completer func(env Env, words []string) []string

var completers = make(map[string]Completer)

func addCompleter(name string, c Completer) {
	completers[name] = c
}

// Builtins is the default listener, registered after any user listeners.
type Builtins struct {
	env      Env
	host     Host
	disabled map[string]bool
}

var _ shell.Listener = (*Builtins)(nil)
var _ shell.Describer = (*Builtins)(nil)

// NewBuiltins creates the default listener. Disabled commands are neither
// listed nor executed.
func NewBuiltins(env Env, host Host, disabled ...string) *Builtins {
	b := &Builtins{
		env:      env,
		host:     host,
		disabled: make(map[string]bool),
	}
	for _, name := range disabled {
		b.disabled[name] = true
	}
	return b
}

func (b *Builtins) lookup(name string) (CommandFunc, bool) {
	if b.disabled[name] {
		return nil, false
	}
	cmd, ok := AllCommands[name]
	return cmd, ok
}

// Commands implements shell.Listener.
func (b *Builtins) Commands() []string {
	var out []string
	for _, name := range ListBuiltinCommands() {
		if !b.disabled[name] {
			out = append(out, name)
		}
	}
	return out
}

// Execute implements shell.Listener.
func (b *Builtins) Execute(words []string, resume shell.Continuation) (shell.Reply, error) {
	cmd, ok := b.lookup(words[0])
	if !ok {
		return shell.Decline(), nil
	}

	return cmd(&Invocation{
		Args:   words,
		Env:    b.env,
		Host:   b.host,
		Resume: resume,
	})
}

// Complete implements shell.Listener.
func (b *Builtins) Complete(words []string, resume shell.Continuation) (shell.Reply, error) {
	if _, ok := b.lookup(words[0]); !ok {
		return shell.Decline(), nil
	}
	completer, ok := completers[words[0]]
	if !ok {
		return shell.Decline(), nil
	}
	return shell.Return(completer(b.env, words)...), nil
}

// Describe implements shell.Describer by asking the command for its help.
func (b *Builtins) Describe(command string) []string {
	cmd, ok := b.lookup(command)
	if !ok {
		return nil
	}
	reply, err := cmd(&Invocation{Args: []string{command, "--help"}, Env: b.env, Host: b.host})
	if err != nil {
		return nil
	}
	return reply.Values()
}

// commandNames lists the commands of every listener of env, sorted and
// without duplicates.
func commandNames(env Env) []string {
	seen := make(map[string]bool)
	var out []string
	for _, listener := range env.Listeners() {
		for _, name := range listener.Commands() {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	sort.Strings(out)
	return out
}

// describe returns the help of a command from the first listener that
// documents it.
func describe(env Env, command string) []string {
	for _, listener := range env.Listeners() {
		describer, ok := listener.(shell.Describer)
		if !ok {
			continue
		}
		if lines := describer.Describe(command); len(lines) > 0 {
			return lines
		}
	}
	return nil
}

func lastWord(words []string) string {
	return words[len(words)-1]
}

func init() {
	addCompleter("clear", func(env Env, words []string) []string {
		return shell.Among(lastWord(words), []string{"all", "history", "screen", "variables"})
	})

	variableNames := func(env Env, words []string) []string {
		return shell.Among(lastWord(words), env.Variables().Names())
	}
	addCompleter("get", variableNames)
	addCompleter("set", func(env Env, words []string) []string {
		if len(words) > 2 {
			return nil
		}
		return variableNames(env, words)
	})
	addCompleter("unset", variableNames)

	addCompleter("help", func(env Env, words []string) []string {
		if len(words) > 2 {
			return nil
		}
		return shell.Among(lastWord(words), commandNames(env))
	})

	addCompleter("exec", func(env Env, words []string) []string {
		if len(words) == 2 {
			return shell.Among(lastWord(words), commandNames(env))
		}
		rest := words[1:]
		if c, ok := completers[rest[0]]; ok {
			return c(env, rest)
		}
		return nil
	})
}
