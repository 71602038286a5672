package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// ParseCallbackData parses Telebot's \f<unique>|<payload> encoding.
// Data without the \f prefix is returned as payload with an empty unique.
func ParseCallbackData(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		// Telebot already split a routed callback.
		return cb.Unique, cb.Data
	}
	raw, prefixed := strings.CutPrefix(cb.Data, "\f")
	if !prefixed {
		return "", raw
	}
	unique, payload, _ := strings.Cut(raw, "|")
	return strings.TrimSpace(unique), payload
}

// Data returns what the tapped button carries: the payload when present, otherwise the unique.
func Data(cb *tele.Callback) string {
	unique, payload := ParseCallbackData(cb)
	if payload != "" {
		return payload
	}
	return unique
}
