package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vegetablefj/bluearxiv/internal/domain/entity"
)

func TestFilterByKeywords(t *testing.T) {
	papers := []entity.Paper{
		{ID: "1", Title: "Moduli Spaces of Sheaves", Abstract: "We construct a space."},
		{ID: "2", Title: "Spectral Sequences", Abstract: "A study of HODGE theory."},
		{ID: "3", Title: "Unrelated", Abstract: "Nothing here."},
	}

	t.Run("matches title case-insensitively", func(t *testing.T) {
		got := FilterByKeywords(papers, []string{"moduli space"})
		assert.Len(t, got, 1)
		assert.Equal(t, "1", got[0].ID)
	})

	t.Run("matches abstract case-insensitively", func(t *testing.T) {
		got := FilterByKeywords(papers, []string{"hodge theory"})
		assert.Len(t, got, 1)
		assert.Equal(t, "2", got[0].ID)
	})

	t.Run("preserves input order", func(t *testing.T) {
		got := FilterByKeywords(papers, []string{"moduli space", "hodge"})
		assert.Equal(t, []string{"1", "2"}, []string{got[0].ID, got[1].ID})
	})

	t.Run("empty keyword list keeps everything", func(t *testing.T) {
		assert.Len(t, FilterByKeywords(papers, nil), 3)
	})

	t.Run("blank keywords keep everything", func(t *testing.T) {
		assert.Len(t, FilterByKeywords(papers, []string{"  ", ""}), 3)
	})

	t.Run("no match yields empty result", func(t *testing.T) {
		assert.Empty(t, FilterByKeywords(papers, []string{"quantum gravity"}))
	})
}
