// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Paper, AnnotatedPaper and
// DailyDataset, along with their validation rules and domain-specific errors.
package entity

import (
	"strings"
	"time"
)

// Paper represents a single arXiv paper as returned by the daily listing.
// It is immutable once fetched; downstream stages wrap it instead of mutating it.
type Paper struct {
	// ID is the arXiv identifier (e.g., "2408.01234" or "math/0601001").
	ID string `json:"id"`

	// Title is the paper title with listing markup stripped.
	Title string `json:"title"`

	// Authors lists the author names in listing order.
	Authors []string `json:"authors"`

	// Categories lists the arXiv subject classes; the first entry is the
	// primary category.
	Categories []string `json:"categories"`

	// Abstract is the full abstract text.
	Abstract string `json:"abstract"`

	// FetchedAt records when the paper was fetched. It is excluded from
	// rendered documents so re-runs stay byte-identical.
	FetchedAt time.Time `json:"fetched_at"`
}

// PrimaryCategory returns the paper's primary subject class, or empty string
// if the listing carried no categories.
func (p *Paper) PrimaryCategory() string {
	if len(p.Categories) == 0 {
		return ""
	}
	return p.Categories[0]
}

// SecondaryCategories returns all subject classes after the primary one.
func (p *Paper) SecondaryCategories() []string {
	if len(p.Categories) <= 1 {
		return nil
	}
	return p.Categories[1:]
}

// AbsURL returns the arXiv abstract page URL for the paper.
func (p *Paper) AbsURL() string {
	return "https://arxiv.org/abs/" + p.ID
}

// AnnotatedPaper is a Paper plus the AI-produced commentary and featured
// verdict. It is created by the annotation stage and never mutated afterwards.
type AnnotatedPaper struct {
	Paper

	// Commentary is the short AI-generated summary of the paper.
	Commentary string `json:"comment"`

	// Featured marks the paper as editorially highlighted by the AI.
	Featured bool `json:"selected"`
}

// DailyDataset is the ordered set of annotated papers for one date.
// One instance exists per pipeline run; it is written once, then only
// rendered and archived.
type DailyDataset struct {
	// Date is the run date in YYYY-MM-DD form.
	Date string `json:"date"`

	// Papers holds the annotated papers in fetch order.
	Papers []AnnotatedPaper `json:"papers"`
}

// FeaturedCount returns the number of featured papers in the dataset.
func (d *DailyDataset) FeaturedCount() int {
	n := 0
	for i := range d.Papers {
		if d.Papers[i].Featured {
			n++
		}
	}
	return n
}

// CategoryCounts returns the number of papers per primary category.
// Papers whose primary category is not in known are counted under "others".
func (d *DailyDataset) CategoryCounts(known []string) map[string]int {
	counts := make(map[string]int, len(known)+1)
	for _, cat := range known {
		counts[cat] = 0
	}
	counts[CategoryOthers] = 0

	for i := range d.Papers {
		primary := d.Papers[i].PrimaryCategory()
		if _, ok := counts[primary]; ok && primary != CategoryOthers {
			counts[primary]++
		} else {
			counts[CategoryOthers]++
		}
	}
	return counts
}

// CategoryOthers is the bucket for papers whose primary category is not
// one of the configured categories.
const CategoryOthers = "others"

// FormatAuthors joins author names for display. Lists longer than three
// names collapse to "First Author et al.".
func FormatAuthors(authors []string) string {
	switch {
	case len(authors) == 0:
		return ""
	case len(authors) <= 3:
		return strings.Join(authors, ", ")
	default:
		return authors[0] + " et al."
	}
}
