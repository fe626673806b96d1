package render

import (
	_ "embed"
	"fmt"
	"html"
	"strings"

	"github.com/vegetablefj/bluearxiv/internal/domain/entity"
)

//go:embed daily_report.html
var dailyReportTemplate string

// featuredBadge marks featured papers in the HTML report.
const featuredBadge = `<span class="selection-badge">⭐ 精选</span>`

// RenderHTML renders the daily dataset into the daily report page.
func (r *Renderer) RenderHTML(ds entity.DailyDataset) ([]byte, error) {
	groups := groupPapers(ds.Papers, r.categories)

	replacer := strings.NewReplacer(
		"{{DATE}}", html.EscapeString(ds.Date),
		"{{CATEGORIES_LIST_PLACEHOLDER}}", configItemList(r.categories),
		"{{KEYWORDS_LIST_PLACEHOLDER}}", configItemList(r.keywords),
		"{{COUNTER_SECTION_PLACEHOLDER}}", htmlCounterSection(groups),
		"{{SELECTION_SECTION_PLACEHOLDER}}", htmlSelectionSection(groups),
		"{{CATEGORY_SECTIONS_PLACEHOLDER}}", htmlCategorySections(groups),
	)

	return []byte(replacer.Replace(dailyReportTemplate)), nil
}

// configItemList renders a config list (categories or keywords) as <li> items.
func configItemList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			fmt.Fprintf(&b, "<li class=\"config-item\">%s</li>\n", html.EscapeString(item))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// htmlCounterSection renders per-category counts plus a total.
func htmlCounterSection(groups []group) string {
	var b strings.Builder
	total := 0
	for _, g := range groups {
		total += len(g.papers)
		fmt.Fprintf(&b, `<div class="counter-item">
    <div class="counter-category">%s</div>
    <div class="counter-value">%d</div>
</div>
`, html.EscapeString(g.name), len(g.papers))
	}
	fmt.Fprintf(&b, `<div class="counter-item" style="background-color: #e8f4fc;">
    <div class="counter-category" style="font-weight: bold;">总计</div>
    <div class="counter-value" style="color: #2c3e50;">%d</div>
</div>`, total)
	return b.String()
}

// htmlSelectionSection renders the featured papers grouped by category.
func htmlSelectionSection(groups []group) string {
	var b strings.Builder
	found := false
	for _, g := range groups {
		var featured []entity.AnnotatedPaper
		for _, p := range g.papers {
			if p.Featured {
				featured = append(featured, p)
			}
		}
		if len(featured) == 0 {
			continue
		}
		found = true
		fmt.Fprintf(&b, "<h3 class=\"category-title\">%s</h3>\n", html.EscapeString(g.name))
		for _, p := range featured {
			fmt.Fprintf(&b, `<div class="paper-item">
    <div class="paper-title">
        <a href="%s" target="_blank">%s</a>
        %s
    </div>
    <div class="paper-authors">%s</div>
    <div class="paper-categories">%s</div>
</div>
`, p.AbsURL(), html.EscapeString(p.Title), featuredBadge,
				html.EscapeString(entity.FormatAuthors(p.Authors)),
				categoryTags(p.Categories))
		}
	}
	if !found {
		return `<p class="empty-note">今日无精选论文</p>`
	}
	return strings.TrimRight(b.String(), "\n")
}

// htmlCategorySections renders one anchored section per non-empty category,
// featured papers first.
func htmlCategorySections(groups []group) string {
	var b strings.Builder
	for _, g := range groups {
		if len(g.papers) == 0 {
			continue
		}
		sectionID := strings.ReplaceAll(g.name, ".", "-")
		fmt.Fprintf(&b, "<div id=\"%s\" class=\"panel category-section\">\n", sectionID)
		fmt.Fprintf(&b, "<h3 class=\"category-title\">%s</h3>\n", html.EscapeString(g.name))
		b.WriteString("<div class=\"paper-list\">\n")
		for _, p := range featuredFirst(g.papers) {
			b.WriteString(paperHTML(p))
		}
		b.WriteString("</div>\n</div>\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// paperHTML renders one paper entry with its commentary.
func paperHTML(p entity.AnnotatedPaper) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<div id=\"paper-%s\" class=\"paper-item\">\n", p.ID)
	fmt.Fprintf(&b, `<div class="paper-title">
    <a href="%s" target="_blank">%s</a>
`, p.AbsURL(), html.EscapeString(p.Title))
	if p.Featured {
		b.WriteString("    " + featuredBadge + "\n")
	}
	b.WriteString("</div>\n")
	fmt.Fprintf(&b, "<div class=\"paper-authors\">%s</div>\n",
		html.EscapeString(entity.FormatAuthors(p.Authors)))
	fmt.Fprintf(&b, "<div class=\"paper-categories\">%s</div>\n", categoryTags(p.Categories))
	if p.Commentary != "" {
		// commentary carries LaTeX math for KaTeX, left unescaped
		fmt.Fprintf(&b, "<div class=\"paper-comment\">%s</div>\n",
			NormalizeMathDelimiters(p.Commentary))
	}
	b.WriteString("</div>\n")
	return b.String()
}

// categoryTags renders up to five category tags plus an overflow marker.
func categoryTags(categories []string) string {
	const maxTags = 5
	var tags []string
	for i, c := range categories {
		if i == maxTags {
			tags = append(tags, fmt.Sprintf(`<span class="category-tag">+%d</span>`, len(categories)-maxTags))
			break
		}
		tags = append(tags, fmt.Sprintf(`<span class="category-tag">%s</span>`, html.EscapeString(c)))
	}
	return strings.Join(tags, "\n")
}
