package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vegetablefj/bluearxiv/internal/render"
)

// RunRecord is one archived run in the manifest, keyed by date.
type RunRecord struct {
	Date           string
	TotalPapers    int
	FeaturedCount  int
	CategoryCounts []render.CategoryCount
	CreatedAt      time.Time
}

// Manifest is the SQLite-backed run manifest. It is the source of truth for
// which dates have been archived; the index page is rebuilt from it.
type Manifest struct {
	db *sql.DB
}

// OpenManifest opens (creating if necessary) the manifest database at path
// and applies the schema.
func OpenManifest(path string) (*Manifest, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	// the manifest sees one writer per run
	db.SetMaxOpenConns(1)

	m := &Manifest{db: db}
	if err := m.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return m, nil
}

// NewManifest wraps an existing database handle. The schema is assumed to
// be in place; used by tests with mocked connections.
func NewManifest(db *sql.DB) *Manifest {
	return &Manifest{db: db}
}

// Close releases the underlying database handle.
func (m *Manifest) Close() error {
	return m.db.Close()
}

func (m *Manifest) migrate() error {
	if _, err := m.db.Exec(`
CREATE TABLE IF NOT EXISTS daily_runs (
    date            TEXT PRIMARY KEY,
    total_papers    INTEGER NOT NULL,
    featured_count  INTEGER NOT NULL,
    category_counts TEXT NOT NULL,
    created_at      TEXT NOT NULL
)`); err != nil {
		return fmt.Errorf("migrate manifest: %w", err)
	}
	return nil
}

// Upsert records a run, replacing any existing row for the same date so
// re-runs stay idempotent.
func (m *Manifest) Upsert(ctx context.Context, rec RunRecord) error {
	counts, err := json.Marshal(rec.CategoryCounts)
	if err != nil {
		return fmt.Errorf("marshal category counts: %w", err)
	}

	_, err = m.db.ExecContext(ctx, `
INSERT OR REPLACE INTO daily_runs (date, total_papers, featured_count, category_counts, created_at)
VALUES (?, ?, ?, ?, ?)`,
		rec.Date, rec.TotalPapers, rec.FeaturedCount, string(counts),
		rec.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert run %s: %w", rec.Date, err)
	}
	return nil
}

// List returns every archived run, newest first.
func (m *Manifest) List(ctx context.Context) ([]RunRecord, error) {
	rows, err := m.db.QueryContext(ctx, `
SELECT date, total_papers, featured_count, category_counts, created_at
FROM daily_runs
ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var counts, createdAt string
		if err := rows.Scan(&rec.Date, &rec.TotalPapers, &rec.FeaturedCount, &counts, &createdAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(counts), &rec.CategoryCounts); err != nil {
			return nil, fmt.Errorf("unmarshal category counts for %s: %w", rec.Date, err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			rec.CreatedAt = t
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return records, nil
}
