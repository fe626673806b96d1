package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegetablefj/bluearxiv/internal/domain/entity"
)

func TestRenderHTML(t *testing.T) {
	out, err := newTestRenderer().RenderHTML(testDataset())
	require.NoError(t, err)
	page := string(out)

	assert.Contains(t, page, "2026-08-23")
	assert.NotContains(t, page, "{{")

	// config panels
	assert.Contains(t, page, `<li class="config-item">math.AG</li>`)
	assert.Contains(t, page, `<li class="config-item">moduli space</li>`)

	// counters including the total
	assert.Contains(t, page, `<div class="counter-category">math.AG</div>`)
	assert.Contains(t, page, "总计")

	// featured paper carries the badge, linked to the abstract page
	assert.Contains(t, page, "⭐ 精选")
	assert.Contains(t, page, `href="https://arxiv.org/abs/2408.00001"`)

	// per-paper anchors and category sections with dots mapped for ids
	assert.Contains(t, page, `id="paper-2408.00002"`)
	assert.Contains(t, page, `id="math-AG"`)
	assert.Contains(t, page, `id="others"`)

	// commentary math rewritten for KaTeX
	assert.Contains(t, page, `\(H^1(X)\)`)

	// navigation back to the index
	assert.Contains(t, page, `href="index.html"`)
}

func TestRenderHTML_FeaturedFirstWithinSection(t *testing.T) {
	ds := entity.DailyDataset{
		Date: "2026-08-23",
		Papers: []entity.AnnotatedPaper{
			{Paper: entity.Paper{ID: "2408.00010", Title: "Plain", Categories: []string{"math.AG"}}, Commentary: "c"},
			{Paper: entity.Paper{ID: "2408.00011", Title: "Starred", Categories: []string{"math.AG"}}, Commentary: "c", Featured: true},
		},
	}

	out, err := newTestRenderer().RenderHTML(ds)
	require.NoError(t, err)
	page := string(out)

	sectionStart := strings.Index(page, `id="math-AG"`)
	require.GreaterOrEqual(t, sectionStart, 0)
	section := page[sectionStart:]
	assert.Less(t, strings.Index(section, "paper-2408.00011"), strings.Index(section, "paper-2408.00010"),
		"featured paper should come first in its section")
}

func TestRenderHTML_NoFeatured(t *testing.T) {
	ds := entity.DailyDataset{
		Date: "2026-08-23",
		Papers: []entity.AnnotatedPaper{
			{Paper: entity.Paper{ID: "2408.00010", Title: "Plain", Categories: []string{"math.AG"}}, Commentary: "c"},
		},
	}

	out, err := newTestRenderer().RenderHTML(ds)
	require.NoError(t, err)

	assert.Contains(t, string(out), "今日无精选论文")
}

func TestRenderHTML_EscapesTitles(t *testing.T) {
	ds := entity.DailyDataset{
		Date: "2026-08-23",
		Papers: []entity.AnnotatedPaper{
			{Paper: entity.Paper{ID: "2408.00010", Title: "Bounds for <k>-torsion", Categories: []string{"math.AG"}}, Commentary: "c"},
		},
	}

	out, err := newTestRenderer().RenderHTML(ds)
	require.NoError(t, err)

	assert.Contains(t, string(out), "Bounds for &lt;k&gt;-torsion")
}

func TestRenderHTML_Deterministic(t *testing.T) {
	r := newTestRenderer()
	first, err := r.RenderHTML(testDataset())
	require.NoError(t, err)
	second, err := r.RenderHTML(testDataset())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCategoryTags_Overflow(t *testing.T) {
	tags := categoryTags([]string{"a", "b", "c", "d", "e", "f", "g"})

	assert.Equal(t, 6, strings.Count(tags, `class="category-tag"`), "five tags plus overflow marker")
	assert.Contains(t, tags, ">+2<")
	assert.NotContains(t, tags, ">f<")
}
