package shell

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"a", "a"},
		{"a ; b | c", "(; a (| b c))"},
		{"a | b ; c", "(; (| a b) c)"},
		{"a ; b ; c", "(; a (; b c))"},
		{"a | (b ; c)", "(| a (; b c))"},
		{"a && b || c", "(|| (&& a b) c)"},
		{"a ;; b ; c", "(;; a (; b c))"},
		{"a & b : c ~ d", "(~ (: (& a b) c) d)"},
		{"foreach i : echo $i", "(: foreach i echo $i)"},
		{"((a))", "a"},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			tree, err := Parse(tc.input)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, tree.String())
		})
	}
}

func TestParseShape(t *testing.T) {
	tree, err := Parse("a ; b | c")
	assert.NoError(t, err)

	root := tree.Node(tree.Root)
	assert.Equal(t, Sequence, root.Operator)

	first := tree.Node(root.First)
	assert.True(t, first.IsCommand())
	assert.Equal(t, "a ", first.Text)

	second := tree.Node(root.Second)
	assert.Equal(t, Pipe, second.Operator)
	assert.Equal(t, "b ", tree.Node(second.First).Text)
	assert.Equal(t, "c", tree.Node(second.Second).Text)

	var texts []string
	for _, id := range tree.Commands() {
		texts = append(texts, tree.Node(id).Text)
	}
	if diff := cmp.Diff([]string{"a ", "b ", "c"}, texts); diff != "" {
		t.Errorf("Commands() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseChecksExpansion(t *testing.T) {
	_, err := Parse("echo ${x")
	assert.EqualError(t, err, "closing bracket expected.")

	var syntaxErr *SyntaxError
	if assert.ErrorAs(t, err, &syntaxErr) {
		assert.Equal(t, 5, syntaxErr.Offset)
	}

	_, err = Parse("a ; echo ${x}")
	assert.NoError(t, err)
}

func TestBuildEmpty(t *testing.T) {
	_, err := Build(nil)
	assert.EqualError(t, err, "command expected.")

	_, err = Build([]Token{operator(Sequence, 0)})
	assert.EqualError(t, err, "command expected.")
}

func TestOperatorString(t *testing.T) {
	var texts []string
	for _, op := range Operators {
		texts = append(texts, op.String())
	}
	assert.Equal(t, []string{";;", ";", "~", "||", "&&", "|", ":", "&"}, texts)
	assert.Equal(t, "operator(42)", Operator(42).String())
}
