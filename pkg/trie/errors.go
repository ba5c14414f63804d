package trie

import "fmt"

// InsufficientInputError is returned by Build when the source text cannot
// supply a single full prefix for the requested order.
type InsufficientInputError struct {
	Length       int // Length of the source text, in characters.
	PrefixLength int // Characters needed for one prefix (order+1).
}

func (e *InsufficientInputError) Error() string {
	return fmt.Sprintf("trie: text of length %d is shorter than prefix length %d", e.Length, e.PrefixLength)
}

// InvalidOrderError is returned by Build for a negative order.
type InvalidOrderError struct {
	Order int
}

func (e *InvalidOrderError) Error() string {
	return fmt.Sprintf("trie: invalid order %d", e.Order)
}

// ContextNotFoundError is returned by Lookup when the context contains an
// edge the trie has never seen. Contexts produced by walking the same trie
// never trigger it.
type ContextNotFoundError struct {
	Context []rune
	Depth   int // Depth at which the descent stopped.
}

func (e *ContextNotFoundError) Error() string {
	return fmt.Sprintf("trie: context %q not found (missing %q at depth %d)", string(e.Context), e.Context[e.Depth], e.Depth)
}
