// Package validation holds the text sanitizer and the rule checks applied to
// watch-list records. The client runs them before dispatch when client
// validation is on; the store runs them on every request regardless.
package validation

import (
	"strings"
)

// Kind names the rule a value failed.
type Kind string

const (
	KindEmptyName         Kind = "EmptyName"
	KindNameTooLong       Kind = "NameTooLong"
	KindInvalidCharacters Kind = "InvalidCharacters"
	KindOutOfRange        Kind = "OutOfRange"
	KindNonInteger        Kind = "NonInteger"
	KindInvalidMediaType  Kind = "InvalidMediaType"
	KindEmptyIDList       Kind = "EmptyIDList"
	KindTooManyIDs        Kind = "TooManyIDs"
	KindInvalidID         Kind = "InvalidID"
)

// Error describes one offending attribute.
type Error struct {
	Field   string
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Join renders a list of validation errors as a single line.
func Join(errs []*Error) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}
