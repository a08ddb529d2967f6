package core

import (
	"io"

	"github.com/abiosoft/readline"
)

// AttachReadline connects the terminal to a readline instance reading stdin
// and writing stdout. width reports the window width.
func (t *Terminal) AttachReadline(stdin io.Reader, stdout io.Writer, isTerminal bool, width func() int) (*readline.Instance, error) {
	historyLimit := t.configuration.HistoryLimit
	if historyLimit == 0 {
		historyLimit = -1 // Disabled.
	}

	cfg := &readline.Config{
		Stdin:        readline.NewCancelableStdin(stdin),
		Stdout:       stdout,
		Stderr:       stdout,
		HistoryLimit: historyLimit,
		AutoComplete: t.Completer(),
		FuncGetWidth: width,
		FuncIsTerminal: func() bool {
			return isTerminal
		},
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	t.output = rl
	t.Printer.IsTerminal = isTerminal
	t.SetInput(rl)
	return rl, nil
}
