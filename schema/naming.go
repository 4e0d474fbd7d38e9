package schema

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// validIdent matches the identifiers that can be emitted into statements
// without quoting.
var validIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether s can be used as a table or column name.
func ValidIdentifier(s string) bool {
	return validIdent.MatchString(s)
}

var lower = cases.Lower(language.Und)

// SnakeCase converts a Go identifier into its snake_case table or column
// name: "UserAccount" becomes "user_account" and "HTTPServerID" becomes
// "http_server_id". Existing underscores are kept as word breaks.
func SnakeCase(s string) string {
	words := splitWords(s)
	for i, w := range words {
		words[i] = lower.String(w)
	}
	return strings.Join(words, "_")
}

// splitWords breaks an identifier into words on underscores and on case
// boundaries. A run of capitals is one word, so acronyms stay together.
func splitWords(s string) []string {
	var words []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '_':
			flush()
		case unicode.IsUpper(r):
			if current.Len() > 0 && i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) {
				flush()
			} else if current.Len() > 1 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
				flush()
			}
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return words
}
