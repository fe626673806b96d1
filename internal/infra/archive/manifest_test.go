package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegetablefj/bluearxiv/internal/render"
)

func openTestManifest(t *testing.T) *Manifest {
	t.Helper()
	m, err := OpenManifest(filepath.Join(t.TempDir(), "manifest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func testRecord(date string) RunRecord {
	return RunRecord{
		Date:          date,
		TotalPapers:   5,
		FeaturedCount: 1,
		CategoryCounts: []render.CategoryCount{
			{Name: "math.AG", Count: 3},
			{Name: "others", Count: 2},
		},
		CreatedAt: time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC),
	}
}

func TestManifest_UpsertAndList(t *testing.T) {
	m := openTestManifest(t)
	ctx := context.Background()

	require.NoError(t, m.Upsert(ctx, testRecord("2026-08-21")))
	require.NoError(t, m.Upsert(ctx, testRecord("2026-08-23")))
	require.NoError(t, m.Upsert(ctx, testRecord("2026-08-22")))

	records, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// newest first
	assert.Equal(t, "2026-08-23", records[0].Date)
	assert.Equal(t, "2026-08-22", records[1].Date)
	assert.Equal(t, "2026-08-21", records[2].Date)

	assert.Equal(t, 5, records[0].TotalPapers)
	assert.Equal(t, 1, records[0].FeaturedCount)
	want := []render.CategoryCount{
		{Name: "math.AG", Count: 3},
		{Name: "others", Count: 2},
	}
	if diff := cmp.Diff(want, records[0].CategoryCounts); diff != "" {
		t.Errorf("category counts mismatch (-want +got):\n%s", diff)
	}
}

func TestManifest_UpsertReplacesSameDate(t *testing.T) {
	m := openTestManifest(t)
	ctx := context.Background()

	require.NoError(t, m.Upsert(ctx, testRecord("2026-08-23")))

	updated := testRecord("2026-08-23")
	updated.TotalPapers = 9
	require.NoError(t, m.Upsert(ctx, updated))

	records, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 9, records[0].TotalPapers)
}

func TestManifest_ListEmpty(t *testing.T) {
	m := openTestManifest(t)

	records, err := m.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestManifest_UpsertSQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("INSERT OR REPLACE INTO daily_runs").
		WithArgs("2026-08-23", 5, 1, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	m := NewManifest(db)
	require.NoError(t, m.Upsert(context.Background(), testRecord("2026-08-23")))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestManifest_ListScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows([]string{"date", "total_papers", "featured_count", "category_counts", "created_at"}).
		AddRow("2026-08-23", 5, 1, "not json", "2026-08-23T10:00:00Z")
	mock.ExpectQuery("SELECT date, total_papers").WillReturnRows(rows)

	m := NewManifest(db)
	_, err = m.List(context.Background())

	assert.Error(t, err)
}
