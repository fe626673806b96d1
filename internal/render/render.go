// Package render turns a daily dataset into the digest documents: a LaTeX
// source built from an embedded template with section markers, an HTML daily
// report and the archive index page. Rendering is deterministic: the same
// dataset always produces byte-identical output.
package render

import (
	"sort"

	"github.com/vegetablefj/bluearxiv/internal/domain/entity"
)

// Renderer produces the digest documents for daily datasets. The category
// list fixes the section order; keywords appear in the HTML config panels.
type Renderer struct {
	categories []string
	keywords   []string
}

// New creates a Renderer for the given category order and keyword list.
func New(categories, keywords []string) *Renderer {
	return &Renderer{categories: categories, keywords: keywords}
}

// group is one primary-category section of the digest.
type group struct {
	name   string
	papers []entity.AnnotatedPaper
}

// groupPapers buckets papers by primary category in the configured order,
// with an "others" bucket last for primary categories outside the list.
// Every configured category gets a bucket even when empty; paper order
// within a bucket is preserved.
func groupPapers(papers []entity.AnnotatedPaper, categories []string) []group {
	index := make(map[string]int, len(categories)+1)
	groups := make([]group, 0, len(categories)+1)
	for _, c := range categories {
		index[c] = len(groups)
		groups = append(groups, group{name: c})
	}
	index[entity.CategoryOthers] = len(groups)
	groups = append(groups, group{name: entity.CategoryOthers})

	for _, p := range papers {
		i, ok := index[p.PrimaryCategory()]
		if !ok {
			i = index[entity.CategoryOthers]
		}
		groups[i].papers = append(groups[i].papers, p)
	}
	return groups
}

// featuredFirst returns the papers with featured entries ahead of the rest,
// preserving relative order inside each class.
func featuredFirst(papers []entity.AnnotatedPaper) []entity.AnnotatedPaper {
	sorted := make([]entity.AnnotatedPaper, len(papers))
	copy(sorted, papers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Featured && !sorted[j].Featured
	})
	return sorted
}
