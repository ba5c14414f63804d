package corpus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"
)

// ErrTextNotFound is returned when no stored text has the requested name.
var ErrTextNotFound = errors.New("corpus: text not found")

// TextInfo describes a stored source text without its content.
type TextInfo struct {
	Id        int       `json:"id"`
	Name      string    `json:"name"`
	Encoding  string    `json:"encoding"`
	Length    int       `json:"length"` // Length in characters, not bytes.
	CreatedAt time.Time `json:"created_at"`
}

// Run is one entry of the generation log.
type Run struct {
	Id        int64     `json:"id"`
	Source    string    `json:"source"` // Stored text name or file path.
	Order     int       `json:"order"`
	Length    int       `json:"length"`
	Seed      uint64    `json:"seed,omitempty"`
	Seeded    bool      `json:"seeded"`
	Output    string    `json:"output"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats holds aggregated figures for a store.
type Stats struct {
	Texts               int `json:"texts"`
	TotalCharacters     int `json:"total_characters"`
	Runs                int `json:"runs"`
	GeneratedCharacters int `json:"generated_characters"`
}

// SetupSchema creates the tables used by Store. It is idempotent.
func SetupSchema(db *sql.DB) error {

	const (
		schemaTexts = `
CREATE TABLE IF NOT EXISTS corpus_texts (
    text_id INTEGER PRIMARY KEY,
    text_name TEXT NOT NULL UNIQUE,
    encoding TEXT NOT NULL,
    content TEXT NOT NULL,
    text_length INTEGER NOT NULL,
    created_at INTEGER NOT NULL
);
`
		schemaRuns = `
CREATE TABLE IF NOT EXISTS corpus_runs (
    run_id INTEGER PRIMARY KEY,
    source TEXT NOT NULL,
    model_order INTEGER NOT NULL,
    output_length INTEGER NOT NULL,
    seed INTEGER,
    output TEXT NOT NULL,
    created_at INTEGER NOT NULL
);
`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaTexts); err != nil {
		return fmt.Errorf("could not create texts schema: %w", err)
	}
	if _, err = tx.Exec(schemaRuns); err != nil {
		return fmt.Errorf("could not create runs schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// Store keeps named source texts and a log of generation runs. Tries are
// never stored; they are rebuilt from the text on every run.
type Store struct {
	db             *sql.DB
	stmtPutText    *sql.Stmt
	stmtGetText    *sql.Stmt
	stmtListTexts  *sql.Stmt
	stmtRemoveText *sql.Stmt
	stmtInsertRun  *sql.Stmt
	stmtListRuns   *sql.Stmt
	stmtTextStats  *sql.Stmt
	stmtRunStats   *sql.Stmt
	logger         *slog.Logger
}

// NewStore prepares every statement the Store needs. SetupSchema must have
// been called on db.
func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{
		db:     db,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	statements := []struct {
		dst   **sql.Stmt
		query string
	}{
		{&s.stmtPutText, `INSERT INTO corpus_texts (text_name, encoding, content, text_length, created_at) VALUES (?, ?, ?, ?, ?)
ON CONFLICT(text_name) DO UPDATE SET encoding=excluded.encoding, content=excluded.content, text_length=excluded.text_length, created_at=excluded.created_at
RETURNING text_id;`},
		{&s.stmtGetText, `SELECT text_id, encoding, content, text_length, created_at FROM corpus_texts WHERE text_name = ?;`},
		{&s.stmtListTexts, `SELECT text_id, text_name, encoding, text_length, created_at FROM corpus_texts ORDER BY text_name;`},
		{&s.stmtRemoveText, `DELETE FROM corpus_texts WHERE text_name = ?;`},
		{&s.stmtInsertRun, `INSERT INTO corpus_runs (source, model_order, output_length, seed, output, created_at) VALUES (?, ?, ?, ?, ?, ?);`},
		{&s.stmtListRuns, `SELECT run_id, source, model_order, output_length, seed, output, created_at FROM corpus_runs ORDER BY run_id DESC LIMIT ?;`},
		{&s.stmtTextStats, `SELECT COUNT(*), coalesce(SUM(text_length), 0) FROM corpus_texts;`},
		{&s.stmtRunStats, `SELECT COUNT(*), coalesce(SUM(output_length), 0) FROM corpus_runs;`},
	}
	for _, st := range statements {
		stmt, err := db.Prepare(st.query)
		if err != nil {
			s.Close()
			return nil, err
		}
		*st.dst = stmt
	}
	return s, nil
}

// Close releases the prepared statements held by the Store. The database
// itself is left open.
func (s *Store) Close() {
	for _, stmt := range []*sql.Stmt{
		s.stmtPutText,
		s.stmtGetText,
		s.stmtListTexts,
		s.stmtRemoveText,
		s.stmtInsertRun,
		s.stmtListRuns,
		s.stmtTextStats,
		s.stmtRunStats,
	} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// PutText stores content under name, replacing any text already stored
// under that name. encoding records what the content was decoded from.
func (s *Store) PutText(ctx context.Context, name, encoding, content string) (TextInfo, error) {
	if name == "" {
		return TextInfo{}, errors.New("corpus: text name is required")
	}
	info := TextInfo{
		Name:      name,
		Encoding:  encoding,
		Length:    utf8.RuneCountInString(content),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	err := s.stmtPutText.QueryRowContext(ctx, name, encoding, content, info.Length, info.CreatedAt.Unix()).Scan(&info.Id)
	if err != nil {
		return TextInfo{}, fmt.Errorf("could not store text '%s': %w", name, err)
	}

	s.logger.InfoContext(ctx, "Text stored",
		slog.String("text_name", name),
		slog.Int("text_id", info.Id),
		slog.Int("text_length", info.Length),
	)
	return info, nil
}

// GetText returns the content and metadata of the text stored under name.
func (s *Store) GetText(ctx context.Context, name string) (string, TextInfo, error) {
	var (
		content string
		created int64
	)
	info := TextInfo{Name: name}
	err := s.stmtGetText.QueryRowContext(ctx, name).Scan(&info.Id, &info.Encoding, &content, &info.Length, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", TextInfo{}, fmt.Errorf("%w: '%s'", ErrTextNotFound, name)
		}
		return "", TextInfo{}, err
	}
	info.CreatedAt = time.Unix(created, 0).UTC()
	return content, info, nil
}

// ListTexts returns metadata for every stored text, ordered by name.
func (s *Store) ListTexts(ctx context.Context) ([]TextInfo, error) {
	rows, err := s.stmtListTexts.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	texts := make([]TextInfo, 0)
	for rows.Next() {
		var (
			info    TextInfo
			created int64
		)
		if err = rows.Scan(&info.Id, &info.Name, &info.Encoding, &info.Length, &created); err != nil {
			return nil, err
		}
		info.CreatedAt = time.Unix(created, 0).UTC()
		texts = append(texts, info)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return texts, nil
}

// RemoveText deletes the text stored under name. The run log is kept.
func (s *Store) RemoveText(ctx context.Context, name string) error {
	res, err := s.stmtRemoveText.ExecContext(ctx, name)
	if err != nil {
		return fmt.Errorf("could not remove text '%s': %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: '%s'", ErrTextNotFound, name)
	}

	s.logger.InfoContext(ctx, "Text removed", slog.String("text_name", name))
	return nil
}

// RecordRun appends run to the generation log and returns its id. The Id and
// CreatedAt fields of run are ignored.
func (s *Store) RecordRun(ctx context.Context, run Run) (int64, error) {
	var seed sql.NullInt64
	if run.Seeded {
		seed = sql.NullInt64{Int64: int64(run.Seed), Valid: true}
	}
	res, err := s.stmtInsertRun.ExecContext(ctx, run.Source, run.Order, run.Length, seed, run.Output, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("could not record run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	s.logger.DebugContext(ctx, "Run recorded",
		slog.Int64("run_id", id),
		slog.String("source", run.Source),
		slog.Int("order", run.Order),
		slog.Int("output_length", run.Length),
	)
	return id, nil
}

// Runs returns up to limit log entries, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as no limit.
	}
	rows, err := s.stmtListRuns.QueryContext(ctx, limit)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	runs := make([]Run, 0)
	for rows.Next() {
		var (
			run     Run
			seed    sql.NullInt64
			created int64
		)
		if err = rows.Scan(&run.Id, &run.Source, &run.Order, &run.Length, &seed, &run.Output, &created); err != nil {
			return nil, err
		}
		if seed.Valid {
			run.Seed = uint64(seed.Int64)
			run.Seeded = true
		}
		run.CreatedAt = time.Unix(created, 0).UTC()
		runs = append(runs, run)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// GetStats returns a snapshot of the store's contents.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := s.stmtTextStats.QueryRowContext(ctx).Scan(&stats.Texts, &stats.TotalCharacters); err != nil {
		return nil, err
	}
	if err := s.stmtRunStats.QueryRowContext(ctx).Scan(&stats.Runs, &stats.GeneratedCharacters); err != nil {
		return nil, err
	}
	return &stats, nil
}
