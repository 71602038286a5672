// Package transform applies the scream mode to outgoing text.
package transform

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Apply upper-cases text when screaming is on and returns it unchanged otherwise.
// Upper-casing uses full Unicode case mapping, so it may change the length of text.
func Apply(text string, screaming bool) string {
	if !screaming {
		return text
	}
	return cases.Upper(language.Und).String(text)
}
