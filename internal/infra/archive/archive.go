// Package archive persists pipeline outputs: JSON snapshots of each stage,
// dated LaTeX and HTML documents, the latest.tex pointer and the archive
// index page. All writes are atomic and keyed by date, so re-running a date
// replaces that date's files and leaves every other date untouched.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/vegetablefj/bluearxiv/internal/config"
	"github.com/vegetablefj/bluearxiv/internal/domain/entity"
	"github.com/vegetablefj/bluearxiv/internal/observability/metrics"
	"github.com/vegetablefj/bluearxiv/internal/render"
)

// Store writes run outputs to the project directory layout and keeps the
// run manifest current.
type Store struct {
	dirs       config.Dirs
	categories []string
	renderer   *render.Renderer
	manifest   *Manifest
	now        func() time.Time
}

// NewStore creates a Store over the given directory layout. The category
// list fixes the order of per-category counts on the index page.
func NewStore(dirs config.Dirs, categories []string, renderer *render.Renderer, manifest *Manifest) *Store {
	return &Store{
		dirs:       dirs,
		categories: categories,
		renderer:   renderer,
		manifest:   manifest,
		now:        time.Now,
	}
}

// SaveDaily persists one completed run: stage snapshots under data/raw,
// the dated LaTeX file plus the latest.tex pointer, the daily HTML report
// and the manifest row.
func (s *Store) SaveDaily(ctx context.Context, ds entity.DailyDataset, fetched, filtered []entity.Paper, tex, html []byte) error {
	snapshots := []struct {
		name string
		data interface{}
	}{
		{fmt.Sprintf("papers_%s.json", ds.Date), fetched},
		{fmt.Sprintf("filtered_%s.json", ds.Date), filtered},
		{fmt.Sprintf("annotated_%s.json", ds.Date), ds.Papers},
	}
	for _, snap := range snapshots {
		if err := s.writeJSON(filepath.Join(s.dirs.DataRaw, snap.name), snap.data); err != nil {
			return err
		}
	}

	texPath := filepath.Join(s.dirs.Tex, fmt.Sprintf("daily_feedback_%s.tex", ds.Date))
	if err := WriteFileAtomic(texPath, tex); err != nil {
		return fmt.Errorf("write %s: %w", texPath, err)
	}
	latestPath := filepath.Join(s.dirs.Root, "latest.tex")
	if err := WriteFileAtomic(latestPath, tex); err != nil {
		return fmt.Errorf("write %s: %w", latestPath, err)
	}
	metrics.RecordArchiveWrite("tex")

	htmlPath := filepath.Join(s.dirs.Docs, fmt.Sprintf("daily_%s.html", ds.Date))
	if err := WriteFileAtomic(htmlPath, html); err != nil {
		return fmt.Errorf("write %s: %w", htmlPath, err)
	}
	metrics.RecordArchiveWrite("html")

	if err := s.manifest.Upsert(ctx, s.runRecord(ds)); err != nil {
		return err
	}
	metrics.RecordArchiveWrite("manifest")

	return nil
}

// RebuildIndex regenerates docs/index.html from the manifest, one card per
// archived date, newest first.
func (s *Store) RebuildIndex(ctx context.Context) error {
	records, err := s.manifest.List(ctx)
	if err != nil {
		return err
	}

	entries := make([]render.IndexEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, render.IndexEntry{
			Date:           rec.Date,
			TotalPapers:    rec.TotalPapers,
			FeaturedCount:  rec.FeaturedCount,
			CategoryCounts: rec.CategoryCounts,
		})
	}

	page, err := s.renderer.RenderIndex(entries, s.now())
	if err != nil {
		return fmt.Errorf("render index: %w", err)
	}

	indexPath := filepath.Join(s.dirs.Docs, "index.html")
	if err := WriteFileAtomic(indexPath, page); err != nil {
		return fmt.Errorf("write %s: %w", indexPath, err)
	}
	metrics.RecordArchiveWrite("index")
	return nil
}

// writeJSON marshals v with indentation and writes it atomically.
func (s *Store) writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := WriteFileAtomic(path, append(data, '\n')); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	metrics.RecordArchiveWrite("json")
	return nil
}

// runRecord builds the manifest row for a dataset, with category counts in
// configured order plus the others bucket.
func (s *Store) runRecord(ds entity.DailyDataset) RunRecord {
	counts := ds.CategoryCounts(s.categories)
	ordered := make([]render.CategoryCount, 0, len(s.categories)+1)
	for _, cat := range s.categories {
		ordered = append(ordered, render.CategoryCount{Name: cat, Count: counts[cat]})
	}
	ordered = append(ordered, render.CategoryCount{Name: entity.CategoryOthers, Count: counts[entity.CategoryOthers]})

	return RunRecord{
		Date:           ds.Date,
		TotalPapers:    len(ds.Papers),
		FeaturedCount:  ds.FeaturedCount(),
		CategoryCounts: ordered,
		CreatedAt:      s.now(),
	}
}
