package markov

import "github.com/CTAG07/charkov/pkg/trie"

// RandSource is the randomness a Generator draws from. *rand.Rand from
// math/rand/v2 satisfies it.
type RandSource interface {
	// IntN returns a value in [0, n).
	IntN(n int) int
}

// SampleNext makes a frequency-weighted choice among the children of n.
//
// The draw covers the closed range [0, n.Count()], one value more than a
// strict weighting would use, and a child is taken as soon as the remaining
// draw is at most its count. Outputs depend on both details, so they must
// not be changed.
func SampleNext(n *trie.Node, src RandSource) (rune, error) {
	r := src.IntN(n.Count() + 1)
	for _, child := range n.Children() {
		if r <= child.Count() {
			return child.Label(), nil
		}
		r -= child.Count()
	}
	return 0, &NoChildrenError{Label: n.Label(), Depth: n.Depth()}
}
