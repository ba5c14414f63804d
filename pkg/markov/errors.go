package markov

import (
	"errors"
	"fmt"
)

// ErrInvalidLength is returned when fewer than one character is requested.
var ErrInvalidLength = errors.New("markov: output length must be at least 1")

// NoChildrenError is returned by SampleNext when the node offers nothing to
// choose from. It signals misuse, such as sampling at a leaf.
type NoChildrenError struct {
	Label rune
	Depth int
}

func (e *NoChildrenError) Error() string {
	return fmt.Sprintf("markov: no child selected below %q at depth %d", e.Label, e.Depth)
}
