package trie

// RootLabel is the sentinel label carried by the root node.
const RootLabel rune = -1

// Node is a single character in the trie. Children are kept in the order in
// which they were first inserted; the generator relies on that order when it
// makes a weighted choice.
type Node struct {
	label    rune
	depth    int
	count    int
	children []*Node
	index    map[rune]int // label -> position in children
}

func newNode(label rune, depth int) *Node {
	return &Node{label: label, depth: depth}
}

// Label returns the character this node represents, or RootLabel for the root.
func (n *Node) Label() rune { return n.label }

// Count returns how many times the path from the root to this node occurred.
func (n *Node) Count() int { return n.count }

// Depth returns the number of characters consumed to reach this node.
func (n *Node) Depth() int { return n.depth }

// Len returns the number of children.
func (n *Node) Len() int { return len(n.children) }

// Children returns the children in insertion order. The slice must not be
// modified.
func (n *Node) Children() []*Node { return n.children }

// Child returns the child labelled r, if any.
func (n *Node) Child(r rune) (*Node, bool) {
	i, ok := n.index[r]
	if !ok {
		return nil, false
	}
	return n.children[i], true
}

// childOrCreate returns the child labelled r, appending a new one if needed.
func (n *Node) childOrCreate(r rune) *Node {
	if c, ok := n.Child(r); ok {
		return c
	}
	if n.index == nil {
		n.index = make(map[rune]int)
	}
	c := newNode(r, n.depth+1)
	n.index[r] = len(n.children)
	n.children = append(n.children, c)
	return c
}

// Trie is the frequency trie of a source text for a fixed order.
type Trie struct {
	root  *Node
	order int
}

// New returns an empty trie for the given order. Most callers want Build.
func New(order int) *Trie {
	return &Trie{root: newNode(RootLabel, 0), order: order}
}

// Root returns the root node.
func (t *Trie) Root() *Node { return t.root }

// Order returns the number of context characters the trie was built for.
// Stored prefixes are Order()+1 characters long.
func (t *Trie) Order() int { return t.order }

// Insert adds one prefix to the trie, creating nodes as needed and
// incrementing the count of every node along its path. The root count is
// left alone.
func (t *Trie) Insert(prefix []rune) {
	cur := t.root
	for _, r := range prefix {
		cur = cur.childOrCreate(r)
		cur.count++
	}
}

// Build returns the trie of every order+1 character prefix of text, where
// prefixes running past the end of the text continue from its start.
func Build(text []rune, order int) (*Trie, error) {
	if order < 0 {
		return nil, &InvalidOrderError{Order: order}
	}
	prefixLength := order + 1
	if len(text) < prefixLength {
		return nil, &InsufficientInputError{Length: len(text), PrefixLength: prefixLength}
	}

	t := New(order)
	prefix := make([]rune, prefixLength)
	for i := range text {
		for j := range prefix {
			prefix[j] = text[(i+j)%len(text)]
		}
		t.Insert(prefix)
	}

	// The root count is assigned, not summed.
	t.root.count = len(text)
	return t, nil
}

// BuildString is Build over the runes of text.
func BuildString(text string, order int) (*Trie, error) {
	return Build([]rune(text), order)
}

// Lookup descends from the root along context and returns the node reached.
// An empty context returns the root.
func (t *Trie) Lookup(context []rune) (*Node, error) {
	cur := t.root
	for i, r := range context {
		next, ok := cur.Child(r)
		if !ok {
			return nil, &ContextNotFoundError{Context: append([]rune(nil), context...), Depth: i}
		}
		cur = next
	}
	return cur, nil
}

// Walk visits every node except the root depth-first, in insertion order.
// fn receives the path from the root to the node; the slice is reused between
// calls. Returning false from fn skips the node's subtree.
func (t *Trie) Walk(fn func(path []rune, n *Node) bool) {
	path := make([]rune, 0, t.order+1)
	var visit func(n *Node)
	visit = func(n *Node) {
		for _, c := range n.children {
			path = append(path, c.label)
			if fn(path, c) {
				visit(c)
			}
			path = path[:len(path)-1]
		}
	}
	visit(t.root)
}
