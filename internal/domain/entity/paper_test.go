package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPaper_PrimaryCategory(t *testing.T) {
	p := Paper{Categories: []string{"math.AG", "math.RT"}}
	assert.Equal(t, "math.AG", p.PrimaryCategory())

	empty := Paper{}
	assert.Equal(t, "", empty.PrimaryCategory())
}

func TestPaper_SecondaryCategories(t *testing.T) {
	p := Paper{Categories: []string{"math.AG", "math.RT", "math.QA"}}
	assert.Equal(t, []string{"math.RT", "math.QA"}, p.SecondaryCategories())

	single := Paper{Categories: []string{"math.AG"}}
	assert.Nil(t, single.SecondaryCategories())
}

func TestPaper_AbsURL(t *testing.T) {
	p := Paper{ID: "2408.01234"}
	assert.Equal(t, "https://arxiv.org/abs/2408.01234", p.AbsURL())
}

func TestPaper_ZeroValue(t *testing.T) {
	var p Paper
	assert.Equal(t, "", p.ID)
	assert.Nil(t, p.Authors)
	assert.Nil(t, p.Categories)
	assert.True(t, p.FetchedAt.IsZero())
}

func TestDailyDataset_FeaturedCount(t *testing.T) {
	d := DailyDataset{
		Date: "2026-08-23",
		Papers: []AnnotatedPaper{
			{Featured: true},
			{Featured: false},
			{Featured: true},
		},
	}
	assert.Equal(t, 2, d.FeaturedCount())

	var empty DailyDataset
	assert.Equal(t, 0, empty.FeaturedCount())
}

func TestDailyDataset_CategoryCounts(t *testing.T) {
	d := DailyDataset{
		Papers: []AnnotatedPaper{
			{Paper: Paper{Categories: []string{"math.AG"}}},
			{Paper: Paper{Categories: []string{"math.AG", "math.RT"}}},
			{Paper: Paper{Categories: []string{"hep-th"}}},
			{Paper: Paper{}},
		},
	}

	counts := d.CategoryCounts([]string{"math.AG", "math.RT"})

	assert.Equal(t, 2, counts["math.AG"])
	assert.Equal(t, 0, counts["math.RT"])
	assert.Equal(t, 2, counts[CategoryOthers])
}

func TestFormatAuthors(t *testing.T) {
	tests := []struct {
		name    string
		authors []string
		want    string
	}{
		{"empty", nil, ""},
		{"single", []string{"Alice Doe"}, "Alice Doe"},
		{"three", []string{"A", "B", "C"}, "A, B, C"},
		{"collapsed", []string{"A", "B", "C", "D"}, "A et al."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAuthors(tt.authors))
		})
	}
}

func TestAnnotatedPaper_EmbedsPaper(t *testing.T) {
	now := time.Date(2026, 8, 23, 6, 0, 0, 0, time.UTC)
	ap := AnnotatedPaper{
		Paper: Paper{
			ID:        "2408.01234",
			Title:     "On Something",
			FetchedAt: now,
		},
		Commentary: "Proves a thing.",
		Featured:   true,
	}

	assert.Equal(t, "2408.01234", ap.ID)
	assert.Equal(t, "On Something", ap.Title)
	assert.True(t, ap.Featured)
	assert.Equal(t, "Proves a thing.", ap.Commentary)
}
