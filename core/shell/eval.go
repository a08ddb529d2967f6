package shell

import (
	"errors"
	"strings"

	"github.com/josephlewis42/treesh/core/logger"
	"github.com/josephlewis42/treesh/core/vars"
)

type memoState int

const (
	memoUnset memoState = iota
	memoResolved
	memoPending
)

type memo struct {
	state  memoState
	values []string
	// words of a pending command, reported if its late result is an error.
	words []string
}

// iteration is the bookkeeping of a foreach node across suspensions.
type iteration struct {
	name    string
	binding vars.Binding
	queue   []string
	acc     []string
}

// evaluation holds the mutable state of one line's tree.
type evaluation struct {
	s    *Session
	tree *Tree
	memo []memo
	iter map[NodeID]*iteration

	// late is the result for the pending node, consumed by the next walk.
	late    *Late
	pending bool
}

func newEvaluation(s *Session, tree *Tree) *evaluation {
	return &evaluation{
		s:    s,
		tree: tree,
		memo: make([]memo, len(tree.Nodes)),
		iter: make(map[NodeID]*iteration),
	}
}

// eval returns the result of a node, true if it's pending, or an error.
func (e *evaluation) eval(id NodeID, args []string) ([]string, bool, error) {
	m := &e.memo[id]

	switch m.state {
	case memoResolved:
		return m.values, false, nil

	case memoPending:
		if e.late == nil {
			return nil, true, nil
		}
		late := e.late
		e.late = nil
		if late.Err != nil {
			return nil, false, e.commandError(m.words, late.Err)
		}
		*m = memo{state: memoResolved, values: nonNil(late.Values)}
		return m.values, false, nil
	}

	node := e.tree.Node(id)

	var values []string
	var pending bool
	var err error
	if node.IsCommand() {
		values, pending, err = e.command(id, node, args)
	} else {
		values, pending, err = e.operator(id, node, args)
	}
	if err != nil || pending {
		return nil, pending, err
	}

	e.memo[id] = memo{state: memoResolved, values: values}
	return values, false, nil
}

func (e *evaluation) commandError(words []string, err error) error {
	e.s.record(&logger.CommandError{Command: words, Error: err.Error()})

	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return err
	}
	return &CommandError{Command: words, Err: err}
}

func (e *evaluation) command(id NodeID, node *Node, args []string) ([]string, bool, error) {
	words, err := Split(node.Text, e.s.vars)
	if err != nil {
		return nil, false, err
	}
	if len(words) == 0 {
		return nil, false, ErrNoCommand
	}
	words = append(words, args...)

	for len(words) > 0 && words[0] == "exec" {
		words, err = Split(strings.Join(words[1:], " "), e.s.vars)
		if err != nil {
			return nil, false, err
		}
	}
	if len(words) == 0 {
		return []string{}, false, nil
	}

	for _, listener := range e.s.listeners {
		resumeID, resume := e.s.continuation()
		reply, err := listener.Execute(words, resume)
		if err != nil {
			return nil, false, e.commandError(words, err)
		}

		switch {
		case reply.Declined():
			continue

		case reply.Pending():
			if err := e.s.suspend(resumeID); err != nil {
				return nil, false, err
			}
			e.memo[id] = memo{state: memoPending, words: words}
			e.s.record(&logger.Suspend{Command: words})
			return nil, true, nil

		default:
			return nonNil(reply.Values()), false, nil
		}
	}

	e.s.record(&logger.UnknownCommand{Command: words})
	return nil, false, &UnknownCommandError{Name: words[0]}
}

func (e *evaluation) operator(id NodeID, node *Node, args []string) ([]string, bool, error) {
	if node.Operator == ForeachBind {
		return e.foreach(id, node, args)
	}

	first, pending, err := e.eval(node.First, args)
	if err != nil || pending {
		return nil, pending, err
	}

	switch node.Operator {
	case SequenceAbort:
		return e.eval(node.Second, nil)

	case Sequence:
		return e.concat(first, node.Second, nil)

	case PipeArgsKeep:
		return e.concat(first, node.Second, first)

	case Or:
		if len(first) > 0 {
			return first, false, nil
		}
		return e.eval(node.Second, nil)

	case And:
		if len(first) == 0 {
			return first, false, nil
		}
		return e.eval(node.Second, nil)

	case Pipe:
		return e.eval(node.Second, first)

	case Parallel:
		return e.concat(first, node.Second, args)
	}

	return nil, false, syntaxErrorf(node.Start, "unknown operator %s.", node.Operator)
}

// concat evaluates second with args and appends its result to first.
func (e *evaluation) concat(first []string, second NodeID, args []string) ([]string, bool, error) {
	values, pending, err := e.eval(second, args)
	if err != nil || pending {
		return nil, pending, err
	}
	out := make([]string, 0, len(first)+len(values))
	out = append(out, first...)
	return append(out, values...), false, nil
}

// foreach evaluates the second operand once per argument of the foreach
// command and its incoming arguments, binding the named variable to each
// in turn. The variable is restored whenever the node yields.
func (e *evaluation) foreach(id NodeID, node *Node, args []string) ([]string, bool, error) {
	it := e.iter[id]
	if it == nil {
		head := e.tree.Node(node.First)
		if !head.IsCommand() {
			return nil, false, syntaxErrorf(head.Start, "foreach expected before %s.", ForeachBind)
		}

		words, err := Split(head.Text, e.s.vars)
		switch {
		case err != nil:
			return nil, false, err
		case len(words) == 0:
			return nil, false, ErrNoCommand
		case words[0] != "foreach":
			e.s.record(&logger.UnknownCommand{Command: words})
			return nil, false, &UnknownCommandError{Name: words[0]}
		case len(words) < 2:
			return nil, false, e.commandError(words, errors.New("foreach: variable name required."))
		}

		queue := append([]string{}, words[2:]...)
		it = &iteration{
			name:    words[1],
			binding: e.s.vars.Snapshot(words[1]),
			queue:   append(queue, args...),
			acc:     []string{},
		}
		e.iter[id] = it
	}

	defer e.s.vars.Restore(it.name, it.binding)

	for len(it.queue) > 0 {
		item := it.queue[0]
		it.queue = it.queue[1:]

		e.s.vars.Set(it.name, item)
		values, pending, err := e.eval(node.Second, nil)
		if err != nil {
			delete(e.iter, id)
			return nil, false, err
		}
		if pending {
			it.queue = append([]string{item}, it.queue...)
			return nil, true, nil
		}

		it.acc = append(it.acc, values...)
		e.reset(node.Second)
	}

	delete(e.iter, id)
	return it.acc, false, nil
}

// reset forgets the results of a subtree.
func (e *evaluation) reset(id NodeID) {
	e.memo[id] = memo{}
	delete(e.iter, id)

	node := e.tree.Node(id)
	if !node.IsCommand() {
		e.reset(node.First)
		e.reset(node.Second)
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
