package markov

import (
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/CTAG07/charkov/pkg/trie"
)

// Generator produces an unbounded stream of characters from a trie. It keeps
// its own context window and random source, so it is not safe for concurrent
// use; the trie it reads from is.
type Generator struct {
	trie    *trie.Trie
	src     RandSource
	context []rune
	logger  *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithRandSource sets the source of randomness used for every choice.
func WithRandSource(src RandSource) Option {
	return func(g *Generator) {
		if src != nil {
			g.src = src
		}
	}
}

// WithSeed makes the output reproducible by seeding a PCG source with seed.
func WithSeed(seed uint64) Option {
	return func(g *Generator) { g.src = rand.New(rand.NewPCG(seed, seed)) }
}

// WithLogger sets the logger. By default, all logs are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) { g.SetLogger(logger) }
}

// NewGenerator returns a Generator over t starting from an empty context.
func NewGenerator(t *trie.Trie, opts ...Option) *Generator {
	g := &Generator{
		trie:    t,
		src:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		context: make([]rune, 0, t.Order()+1),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetLogger sets the logger for the Generator. A nil logger is ignored.
func (g *Generator) SetLogger(logger *slog.Logger) {
	if logger != nil {
		g.logger = logger
	}
}

// Trie returns the trie the generator reads from.
func (g *Generator) Trie() *trie.Trie { return g.trie }

// Context returns a copy of the current context window.
func (g *Generator) Context() []rune {
	return append([]rune(nil), g.context...)
}

// Reset empties the context, as if the generator were new.
func (g *Generator) Reset() {
	g.context = g.context[:0]
}

// Next emits one character and advances the context window. The window grows
// until it holds order characters and slides from then on.
func (g *Generator) Next() (rune, error) {
	node, err := g.trie.Lookup(g.context)
	if err != nil {
		return 0, err
	}
	r, err := SampleNext(node, g.src)
	if err != nil {
		return 0, err
	}

	g.context = append(g.context, r)
	if len(g.context) == g.trie.Order()+1 {
		copy(g.context, g.context[1:])
		g.context = g.context[:len(g.context)-1]
	}
	return r, nil
}
