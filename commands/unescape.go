package commands

import (
	"regexp"
	"strconv"
)

var (
	unescapePattern = regexp.MustCompile(`\\(0[0-7]{1,3}|x[0-9a-fA-F]{1,2}|[nrt\\bafv])`)
	unescapeSimple  = map[byte]string{
		'n':  "\n", // newline
		'r':  "\r", // carriage return
		't':  "\t", // horizontal tab
		'\\': `\`,  // backslash literal
		'b':  "\b", // backspace
		'a':  "\a", // alert
		'f':  "\f", // form feed
		'v':  "\v", // vertical tab
	}
)

// unescape interprets backslash escapes left to right, so an escaped
// backslash never starts another escape. Octal and hex escapes give the
// code point of their value.
func unescape(s string) string {
	return unescapePattern.ReplaceAllStringFunc(s, func(arg string) string {
		base := 0
		switch arg[1] {
		case '0':
			base = 8
		case 'x':
			base = 16
		default:
			return unescapeSimple[arg[1]]
		}

		out, err := strconv.ParseUint(arg[2:], base, 32)
		if err != nil {
			return arg
		}
		return string(rune(out))
	})
}
