package render

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/vegetablefj/bluearxiv/internal/domain/entity"
)

//go:embed template.tex
var latexTemplate string

// Section markers in the LaTeX template. Generated content is inserted
// between each begin/end pair; the markers themselves are kept so the
// output can be regenerated from itself.
const (
	counterBegin    = "%counter_begin"
	counterEnd      = "%counter_end"
	selectionBegin  = "%selection_begin"
	selectionEnd    = "%selection_end"
	bodyBegin       = "%body_begin"
	bodyEnd         = "%body_end"
	datePlaceholder = "%date%"
)

// RenderLaTeX renders the daily dataset into a complete LaTeX document.
func (r *Renderer) RenderLaTeX(ds entity.DailyDataset) ([]byte, error) {
	groups := groupPapers(ds.Papers, r.categories)

	content := strings.Replace(latexTemplate, datePlaceholder, ds.Date, 1)

	content, err := insertSection(content, counterBegin, counterEnd, latexCounterSection(groups))
	if err != nil {
		return nil, err
	}
	content, err = insertSection(content, selectionBegin, selectionEnd, latexSelectionSection(groups))
	if err != nil {
		return nil, err
	}
	content, err = insertSection(content, bodyBegin, bodyEnd, latexBodySection(groups))
	if err != nil {
		return nil, err
	}

	return []byte(content), nil
}

// insertSection replaces everything between the begin and end markers with
// the given content, keeping the markers in place.
func insertSection(doc, begin, end, content string) (string, error) {
	beginIdx := strings.Index(doc, begin)
	if beginIdx < 0 {
		return "", fmt.Errorf("render latex: marker %q not found", begin)
	}
	beginIdx += len(begin)
	endIdx := strings.Index(doc, end)
	if endIdx < beginIdx {
		return "", fmt.Errorf("render latex: marker %q not found after %q", end, begin)
	}
	return doc[:beginIdx] + "\n" + content + doc[endIdx:], nil
}

// latexCounterSection lists per-category paper counts, one paragraph each.
func latexCounterSection(groups []group) string {
	lines := make([]string, 0, len(groups))
	for _, g := range groups {
		lines = append(lines, fmt.Sprintf("%s: %d", g.name, len(g.papers)))
	}
	return strings.Join(lines, "\n\n") + "\n\n"
}

// latexSelectionSection lists featured papers in category order, each
// linking to its body entry.
func latexSelectionSection(groups []group) string {
	var lines []string
	for _, g := range groups {
		for _, p := range g.papers {
			if !p.Featured {
				continue
			}
			lines = append(lines, fmt.Sprintf(
				`\arxiv{%s}{%s}{%s}\textbf{%s}%s. \hyperlink{%s}{$\rightsquigarrow$}`,
				p.ID, p.Title, latexAuthors(p.Authors),
				p.PrimaryCategory(), latexSecondaryCategories(p.Paper), p.ID))
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n\n") + "\n\n"
}

// latexBodySection emits one \section per non-empty category with every
// paper's entry line and commentary.
func latexBodySection(groups []group) string {
	var sections []string
	for _, g := range groups {
		if len(g.papers) == 0 {
			continue
		}
		sections = append(sections, fmt.Sprintf(`\section{%s}`, g.name))
		for _, p := range g.papers {
			sections = append(sections, fmt.Sprintf(
				`\arxivwithtarget{%s}{%s}{%s}\textbf{%s}%s.`,
				p.ID, p.Title, latexAuthors(p.Authors),
				p.PrimaryCategory(), latexSecondaryCategories(p.Paper)))
			sections = append(sections, "")
			if p.Commentary != "" {
				sections = append(sections, ConvertCJKPunctuation(p.Commentary))
			}
			sections = append(sections, "", "")
		}
	}
	return strings.Join(sections, "\n")
}

func latexAuthors(authors []string) string {
	escaped := make([]string, 0, len(authors))
	for _, a := range authors {
		escaped = append(escaped, escapeLaTeX(a))
	}
	return strings.Join(escaped, ", ")
}

// latexSecondaryCategories renders the cross-listed categories as a
// comma-prefixed suffix after the bold primary category.
func latexSecondaryCategories(p entity.Paper) string {
	secondary := p.SecondaryCategories()
	if len(secondary) == 0 {
		return ""
	}
	return ", " + strings.Join(secondary, ", ")
}
