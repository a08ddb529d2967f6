package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/josephlewis42/treesh/core/vars"
)

func TestSplit(t *testing.T) {
	table := vars.NewTableFrom(map[string][]string{
		"x":     {"1", "2"},
		"y":     {"ok"},
		"empty": {},
	})

	cases := []struct {
		fragment string
		expected []string
	}{
		{"echo hello  world ", []string{"echo", "hello", "world"}},
		{`echo "a b" 'c d'`, []string{"echo", "a b", "c d"}},
		{`echo a"b c"d`, []string{"echo", "ab cd"}},
		{"echo $x", []string{"echo", "1", "2"}},
		{`echo "$x"`, []string{"echo", "1 2"}},
		{`echo '$x'`, []string{"echo", "$x"}},
		{"echo ${x}y", []string{"echo", "1", "2y"}},
		{"echo $nope.", []string{"echo", "."}},
		{"echo $empty", []string{"echo"}},
		{"echo $", []string{"echo"}},
		{`echo a\ b \$x`, []string{"echo", "a b", "$x"}},
		{`echo "it's $y"`, []string{"echo", "it's ok"}},
		{`echo "say \"hi\""`, []string{"echo", `say "hi"`}},
		{`echo 'a\b'`, []string{"echo", `a\b`}},
		{`echo ""`, []string{"echo", ""}},
		{"", []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.fragment, func(t *testing.T) {
			actual, err := Split(tc.fragment, table)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestSplitErrors(t *testing.T) {
	cases := []struct {
		fragment string
		expected string
	}{
		{"echo ${x", "closing bracket expected."},
		{`echo "a`, "quote expected."},
		{`echo 'a`, "quote expected."},
		{`echo a\`, `character expected after \.`},
	}

	for _, tc := range cases {
		t.Run(tc.fragment, func(t *testing.T) {
			_, err := Split(tc.fragment, vars.NewTable())
			assert.EqualError(t, err, tc.expected)
		})
	}
}

func TestWordSpan(t *testing.T) {
	text := `ls "a b" c\ d  e`

	cases := []struct {
		offset     int
		start, end int
		ok         bool
	}{
		{0, 0, 2, true},
		{4, 3, 8, true},
		{9, 9, 13, true},
		{15, 15, 16, true},
		{14, 0, 0, false},
	}

	for _, tc := range cases {
		start, end, ok := wordSpan(text, tc.offset)
		assert.Equal(t, tc.ok, ok, "offset %d", tc.offset)
		assert.Equal(t, tc.start, start, "offset %d", tc.offset)
		assert.Equal(t, tc.end, end, "offset %d", tc.offset)
	}
}
