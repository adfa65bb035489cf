package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent lowercases s and drops separators, so that "VALUE_A",
// "value-a" and "ValueA" compare equal.
func NormalizeIdent(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, token := range TokenizeIdent(s) {
		b.WriteString(token)
	}

	return b.String()
}

// TokenizeIdent splits an identifier into lowercase words at separators
// and case changes.
// Examples:
//   - "OrderID" -> ["order", "id"]
//   - "IN_TRANSIT" -> ["in", "transit"]
//   - "XMLParser" -> ["xml", "parser"]
func TokenizeIdent(s string) []string {
	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, strings.ToLower(current.String()))
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}
	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

// startsToken reports whether a new word begins at runes[i].
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	// "orderID" splits before 'I'
	if !unicode.IsUpper(prev) {
		return true
	}

	// "XMLParser" splits before 'P'
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
