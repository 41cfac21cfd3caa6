package stringsx

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// accessorPrefixes are stripped from contract field names when deriving remote names.
var accessorPrefixes = []string{"Get", "Set", "Is"}

// LowerFirstChar returns s with its first rune converted to lowercase.
func LowerFirstChar(s string) string {
	if s == "" {
		return ""
	}

	first, size := utf8.DecodeRuneInString(s)

	return string(unicode.ToLower(first)) + s[size:]
}

// AccessorName derives a remote property name from a Go accessor name:
// "GetText" and "SetText" both become "text", "IsOpen" becomes "open".
// A prefix is only stripped when an uppercase rune follows it, so "Settle" stays "settle".
func AccessorName(s string) string {
	for _, prefix := range accessorPrefixes {
		rest, ok := strings.CutPrefix(s, prefix)
		if !ok || rest == "" {
			continue
		}

		if next, _ := utf8.DecodeRuneInString(rest); unicode.IsUpper(next) {
			return LowerFirstChar(rest)
		}
	}

	return LowerFirstChar(s)
}
