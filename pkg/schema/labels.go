package schema

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultLabeler builds a column label from a field key when the forms file
// leaves `label` out. Separators (underscore, dash, space) start a new
// capitalised word; camelCase and letter/digit changes inside a word only
// insert a space, so "dueDate" becomes "Due date".
func DefaultLabeler(key string) string {
	words := strings.FieldsFunc(key, isSeparator)
	labels := make([]string, 0, len(words))
	for _, word := range words {
		labels = append(labels, capitalise(spaceWord(word)))
	}
	return strings.Join(labels, " ")
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}

func spaceWord(word string) string {
	var out strings.Builder
	prev := utf8.RuneError
	for _, r := range word {
		if prev != utf8.RuneError && breaksBetween(prev, r) {
			out.WriteRune(' ')
		}
		out.WriteRune(r)
		prev = r
	}
	return out.String()
}

func breaksBetween(prev, next rune) bool {
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(next):
		return true
	case unicode.IsLetter(prev) && unicode.IsDigit(next):
		return true
	case unicode.IsDigit(prev) && unicode.IsLetter(next):
		return true
	}
	return false
}

func capitalise(word string) string {
	lower := strings.ToLower(word)
	first, size := utf8.DecodeRuneInString(lower)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(first)) + lower[size:]
}
