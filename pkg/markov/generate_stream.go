package markov

import (
	"context"
	"log/slog"
)

// GenerateStream emits n characters one at a time on the returned channel.
// The channel is closed once n characters have been sent, when generation
// fails, or when ctx is cancelled. The Generator must not be used elsewhere
// until the channel is closed.
func (g *Generator) GenerateStream(ctx context.Context, n int) (<-chan rune, error) {
	if n < 1 {
		return nil, ErrInvalidLength
	}

	runeChan := make(chan rune)

	go func() {
		defer close(runeChan)

		for generated := 0; generated < n; generated++ {
			select {
			case <-ctx.Done():
				g.logger.DebugContext(ctx, "Generation stream cancelled by context",
					slog.Int("generated_length", generated),
				)
				return
			default:
			}

			r, err := g.Next()
			if err != nil {
				g.logger.ErrorContext(ctx, "failed to generate character for stream",
					slog.Int("generated_length", generated),
					slog.Any("error", err),
				)
				return
			}
			select {
			case <-ctx.Done():
				return
			case runeChan <- r:
			}
		}
	}()

	return runeChan, nil
}
