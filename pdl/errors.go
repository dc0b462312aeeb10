package pdl

import (
	"errors"
	"fmt"
)

// ErrBadInput is returned for every structural or semantic problem in a PDL
// document: a malformed entry, an edge with the wrong number of nodes, or a
// missing main graph. An import cycle is not an error; each file is
// visited once.
var ErrBadInput = errors.New("pdl: bad input")

func badInput(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrBadInput)
}
