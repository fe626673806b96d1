package render

import (
	_ "embed"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/vegetablefj/bluearxiv/internal/domain/entity"
)

//go:embed index.html
var indexTemplate string

// IndexEntry is one archived day on the index page.
type IndexEntry struct {
	Date          string
	TotalPapers   int
	FeaturedCount int

	// CategoryCounts holds per-category totals in display order.
	CategoryCounts []CategoryCount
}

// CategoryCount pairs a category with its paper count.
type CategoryCount struct {
	Name  string
	Count int
}

// Filename returns the daily report file the entry links to.
func (e IndexEntry) Filename() string {
	return fmt.Sprintf("daily_%s.html", e.Date)
}

// RenderIndex renders the archive index page. Entries are sorted newest
// first regardless of input order; exactly one card appears per date.
func (r *Renderer) RenderIndex(entries []IndexEntry, lastUpdate time.Time) ([]byte, error) {
	sorted := make([]IndexEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date > sorted[j].Date })

	replacer := strings.NewReplacer(
		"{{DATE_LIST_PLACEHOLDER}}", dateCards(sorted),
		"{{CATEGORIES_LIST_PLACEHOLDER}}", configItemList(r.categories),
		"{{KEYWORDS_LIST_PLACEHOLDER}}", configItemList(r.keywords),
		"{{LAST_UPDATE}}", lastUpdate.Format("2006-01-02 15:04:05"),
	)

	return []byte(replacer.Replace(indexTemplate)), nil
}

// dateCards renders one linked card per archived day.
func dateCards(entries []IndexEntry) string {
	if len(entries) == 0 {
		return `<p class="empty-note">暂无报告</p>`
	}

	var b strings.Builder
	for _, e := range entries {
		var tags []string
		for _, cc := range e.CategoryCounts {
			if cc.Count > 0 {
				tags = append(tags, fmt.Sprintf(`<span class="category-tag">%s: %d</span>`,
					html.EscapeString(cc.Name), cc.Count))
			}
		}

		fmt.Fprintf(&b, `<div class="date-card">
    <a href="%s" class="date-link">%s</a>
    <div class="stats">
        <div class="stat-item">总论文数: %d</div>
        <div class="stat-item">精选论文: %d</div>
        <div class="category-tags">%s</div>
    </div>
</div>
`, e.Filename(), displayDate(e.Date), e.TotalPapers, e.FeaturedCount, strings.Join(tags, ""))
	}
	return strings.TrimRight(b.String(), "\n")
}

// displayDate formats an ISO date for the card heading, falling back to the
// raw string when it does not parse.
func displayDate(date string) string {
	t, err := time.Parse(entity.DateLayout, date)
	if err != nil {
		return html.EscapeString(date)
	}
	return t.Format("2006年01月02日")
}
