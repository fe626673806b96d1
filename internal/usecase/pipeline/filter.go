package pipeline

import (
	"strings"

	"github.com/vegetablefj/bluearxiv/internal/domain/entity"
)

// FilterByKeywords keeps the papers whose title or abstract contains at
// least one keyword, compared case-insensitively. Input order is preserved.
// An empty keyword list keeps everything.
func FilterByKeywords(papers []entity.Paper, keywords []string) []entity.Paper {
	if len(keywords) == 0 {
		return papers
	}

	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			lowered = append(lowered, strings.ToLower(kw))
		}
	}
	if len(lowered) == 0 {
		return papers
	}

	var kept []entity.Paper
	for _, p := range papers {
		haystack := strings.ToLower(p.Title) + "\n" + strings.ToLower(p.Abstract)
		for _, kw := range lowered {
			if strings.Contains(haystack, kw) {
				kept = append(kept, p)
				break
			}
		}
	}
	return kept
}
