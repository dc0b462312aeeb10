package proclang

import (
	"errors"
	"fmt"
)

// ErrBadInput is returned for every lexical or grammatical problem in
// ProcLang source: an unexpected token, an unterminated condition, an
// unknown operator, or a document with no procedures.
var ErrBadInput = errors.New("proclang: bad input")

func badInput(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrBadInput)
}
