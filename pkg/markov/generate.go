package markov

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Generate continues from the current context and returns exactly n
// characters. The context is checked for cancellation between characters;
// on cancellation the characters produced so far are returned with ctx.Err().
func (g *Generator) Generate(ctx context.Context, n int) (string, error) {
	if n < 1 {
		return "", ErrInvalidLength
	}

	var builder strings.Builder
	builder.Grow(n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return builder.String(), err
		}
		r, err := g.Next()
		if err != nil {
			return builder.String(), fmt.Errorf("failed to generate character %d: %w", i, err)
		}
		builder.WriteRune(r)
	}

	g.logger.DebugContext(ctx, "Generation finished",
		slog.Int("order", g.trie.Order()),
		slog.Int("generated_length", n),
	)
	return builder.String(), nil
}

// GenerateTo writes n generated characters to w as they are produced and
// returns how many were written.
func (g *Generator) GenerateTo(ctx context.Context, w io.Writer, n int) (int, error) {
	if n < 1 {
		return 0, ErrInvalidLength
	}

	bw := bufio.NewWriter(w)
	written := 0
	for written < n {
		if err := ctx.Err(); err != nil {
			_ = bw.Flush()
			return written, err
		}
		r, err := g.Next()
		if err != nil {
			_ = bw.Flush()
			return written, fmt.Errorf("failed to generate character %d: %w", written, err)
		}
		if _, err = bw.WriteRune(r); err != nil {
			return written, err
		}
		written++
	}
	if err := bw.Flush(); err != nil {
		return written, err
	}

	g.logger.DebugContext(ctx, "Generation written",
		slog.Int("order", g.trie.Order()),
		slog.Int("generated_length", written),
	)
	return written, nil
}
