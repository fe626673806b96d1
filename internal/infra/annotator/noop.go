package annotator

import (
	"context"

	"github.com/vegetablefj/bluearxiv/internal/domain/entity"
)

// NoOp is an annotator that marks nothing as featured and uses a truncated
// abstract as the commentary. This is useful for testing and for dry runs
// when no AI provider is configured.
type NoOp struct{}

// NewNoOp creates a new NoOp annotator.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Annotate returns the paper with the beginning of its abstract as the
// commentary and the featured flag unset.
func (n *NoOp) Annotate(_ context.Context, paper entity.Paper) (entity.AnnotatedPaper, error) {
	const maxRunes = 500
	commentary := paper.Abstract
	// cut on a rune boundary so multi-byte abstracts stay valid UTF-8
	if runes := []rune(commentary); len(runes) > maxRunes {
		commentary = string(runes[:maxRunes]) + "..."
	}
	return entity.AnnotatedPaper{
		Paper:      paper,
		Commentary: commentary,
		Featured:   false,
	}, nil
}
