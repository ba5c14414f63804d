package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/CTAG07/charkov/pkg/corpus"
	"github.com/CTAG07/charkov/pkg/markov"
	"github.com/CTAG07/charkov/pkg/trie"
)

// app bundles what every command needs: the configuration, the logger and,
// opened on first use, the corpus store.
type app struct {
	config *Config
	logger *slog.Logger
	db     *sql.DB
	store  *corpus.Store
}

func loadApp() (*app, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &app{
		config: config,
		logger: newLogger(config),
	}, nil
}

// Store opens the database and prepares the store if that has not been done
// yet.
func (a *app) Store() (*corpus.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	db, err := initDB(a.config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err = corpus.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to setup corpus schema: %w", err)
	}
	store, err := corpus.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare corpus store: %w", err)
	}
	store.SetLogger(a.logger)
	a.db = db
	a.store = store
	return store, nil
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("Failed to close database", "error", err)
		}
	}
}

// source identifies where a text comes from: a stored corpus entry or a file.
type source struct {
	corpusName string
	file       string
	encoding   string
}

func (s source) String() string {
	if s.corpusName != "" {
		return s.corpusName
	}
	return s.file
}

// loadText returns the text named by src.
func (a *app) loadText(ctx context.Context, src source) (string, error) {
	switch {
	case src.corpusName != "" && src.file != "":
		return "", errors.New("give either a file or a corpus name, not both")
	case src.corpusName != "":
		store, err := a.Store()
		if err != nil {
			return "", err
		}
		text, _, err := store.GetText(ctx, src.corpusName)
		return text, err
	case src.file != "":
		enc := src.encoding
		if enc == "" {
			enc = a.config.DefaultEncoding
		}
		return corpus.ReadTextFile(src.file, enc)
	default:
		return "", errors.New("no source text given")
	}
}

// checkOrder validates order against the configured range.
func (a *app) checkOrder(order int) error {
	if order < 0 || order > a.config.MaxOrder {
		return fmt.Errorf("invalid kGram %d (0 <= kGram <= %d)", order, a.config.MaxOrder)
	}
	return nil
}

// buildTrie builds the trie for text and logs its shape.
func (a *app) buildTrie(ctx context.Context, text string, order int) (*trie.Trie, error) {
	t, err := trie.BuildString(text, order)
	if err != nil {
		return nil, err
	}
	stats := t.Stats()
	a.logger.DebugContext(ctx, "Trie built",
		slog.Int("order", order),
		slog.Int("total", stats.Total),
		slog.Int("nodes", stats.Nodes),
		slog.Int("alphabet", stats.Alphabet),
	)
	return t, nil
}

// generatorOptions turns an optional seed into generator options.
func (a *app) generatorOptions(seed *uint64) []markov.Option {
	opts := []markov.Option{markov.WithLogger(a.logger)}
	if seed != nil {
		opts = append(opts, markov.WithSeed(*seed))
	}
	return opts
}

// recordRun logs a finished generation when run recording is enabled. A
// failure here never fails the command.
func (a *app) recordRun(ctx context.Context, src string, order int, seed *uint64, output string, length int) {
	if !a.config.RecordRuns {
		return
	}
	store, err := a.Store()
	if err != nil {
		a.logger.WarnContext(ctx, "Run not recorded", "error", err)
		return
	}
	run := corpus.Run{Source: src, Order: order, Length: length, Output: output}
	if seed != nil {
		run.Seed, run.Seeded = *seed, true
	}
	if _, err = store.RecordRun(ctx, run); err != nil {
		a.logger.WarnContext(ctx, "Run not recorded", "error", err)
	}
}
