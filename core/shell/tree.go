package shell

import (
	"errors"
	"fmt"
	"strings"
)

// NodeID indexes a node in its Tree.
type NodeID int

// NoNode is the zero child of command nodes.
const NoNode NodeID = -1

// Node is a command leaf (Operator == 0) or a binary operator.
//
// Nodes are immutable once built; evaluation state lives in a side table
// keyed by NodeID.
type Node struct {
	Operator Operator

	// Text, Start and End describe the fragment of command nodes.
	Text       string
	Start, End int

	First, Second NodeID
}

// IsCommand returns true for leaves.
func (n *Node) IsCommand() bool {
	return n.Operator == 0
}

// Tree is an arena of nodes built from a single line.
type Tree struct {
	Nodes []Node
	Root  NodeID
}

// Node returns the node with the given id.
func (t *Tree) Node(id NodeID) *Node {
	return &t.Nodes[id]
}

// String renders the tree as an s-expression, e.g. (; a (| b c)). Command
// text is trimmed.
func (t *Tree) String() string {
	var sb strings.Builder
	t.format(&sb, t.Root)
	return sb.String()
}

func (t *Tree) format(sb *strings.Builder, id NodeID) {
	node := t.Node(id)
	if node.IsCommand() {
		sb.WriteString(strings.TrimSpace(node.Text))
		return
	}
	fmt.Fprintf(sb, "(%s ", node.Operator)
	t.format(sb, node.First)
	sb.WriteByte(' ')
	t.format(sb, node.Second)
	sb.WriteByte(')')
}

// Commands returns the command nodes in input order.
func (t *Tree) Commands() []NodeID {
	var out []NodeID
	var walk func(id NodeID)
	walk = func(id NodeID) {
		node := t.Node(id)
		if node.IsCommand() {
			out = append(out, id)
			return
		}
		walk(node.First)
		walk(node.Second)
	}
	walk(t.Root)
	return out
}

// find returns the command node whose fragment contains the byte at offset.
func (t *Tree) find(offset int) (NodeID, bool) {
	for _, id := range t.Commands() {
		node := t.Node(id)
		if node.Start <= offset && offset < node.End {
			return id, true
		}
	}
	return NoNode, false
}

// Build converts tokens into a tree, splitting each slice at the leftmost
// occurrence of the highest priority operator it contains.
func Build(tokens []Token) (*Tree, error) {
	tree := &Tree{}
	root, err := tree.build(tokens)
	if err != nil {
		return nil, err
	}
	tree.Root = root
	return tree, nil
}

// Parse tokenizes and builds a line, then checks each fragment splits with
// its variables left empty. Errors that only appear once values are
// substituted are still raised during evaluation.
func Parse(text string) (*Tree, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	tree, err := Build(tokens)
	if err != nil {
		return nil, err
	}

	for _, id := range tree.Commands() {
		node := tree.Node(id)
		if _, err := Split(node.Text, nil); err != nil {
			var syntaxErr *SyntaxError
			if errors.As(err, &syntaxErr) {
				syntaxErr.Offset += node.Start
			}
			return nil, err
		}
	}
	return tree, nil
}

func (t *Tree) add(n Node) NodeID {
	t.Nodes = append(t.Nodes, n)
	return NodeID(len(t.Nodes) - 1)
}

func (t *Tree) build(tokens []Token) (NodeID, error) {
	for _, op := range Operators {
		for i, tok := range tokens {
			if tok.Kind != OperatorToken || tok.Operator != op {
				continue
			}

			first, err := t.build(tokens[:i])
			if err != nil {
				return NoNode, err
			}
			second, err := t.build(tokens[i+1:])
			if err != nil {
				return NoNode, err
			}
			return t.add(Node{Operator: op, First: first, Second: second}), nil
		}
	}

	if len(tokens) != 1 {
		offset := 0
		if len(tokens) > 0 {
			offset = tokens[0].Start
		}
		return NoNode, syntaxErrorf(offset, "command expected.")
	}

	switch tok := tokens[0]; tok.Kind {
	case GroupToken:
		return t.build(tok.Group)
	case FragmentToken:
		return t.add(Node{
			Text:   tok.Text,
			Start:  tok.Start,
			End:    tok.End,
			First:  NoNode,
			Second: NoNode,
		}), nil
	default:
		return NoNode, syntaxErrorf(tok.Start, "command expected.")
	}
}
