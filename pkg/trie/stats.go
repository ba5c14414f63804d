package trie

// Stats holds structural figures about a built trie.
type Stats struct {
	Order         int `json:"order"`
	Total         int `json:"total"`          // The root count; the number of prefixes inserted.
	Nodes         int `json:"nodes"`          // Nodes excluding the root.
	Leaves        int `json:"leaves"`         // Nodes without children.
	Alphabet      int `json:"alphabet"`       // Distinct characters directly below the root.
	MaxDepth      int `json:"max_depth"`      // Deepest node; order+1 for any built trie.
	DistinctPaths int `json:"distinct_paths"` // Distinct full-length prefixes.
}

// Stats walks the trie and returns its Stats.
func (t *Trie) Stats() Stats {
	s := Stats{
		Order:    t.order,
		Total:    t.root.count,
		Alphabet: t.root.Len(),
	}
	t.Walk(func(_ []rune, n *Node) bool {
		s.Nodes++
		if n.depth > s.MaxDepth {
			s.MaxDepth = n.depth
		}
		if n.Len() == 0 {
			s.Leaves++
			if n.depth == t.order+1 {
				s.DistinctPaths++
			}
		}
		return true
	})
	return s
}
