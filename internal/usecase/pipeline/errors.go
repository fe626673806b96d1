package pipeline

import "errors"

// Stage errors classify pipeline failures so callers can tell which stage
// aborted a run. Wrapped errors carry the underlying cause.
var (
	// ErrFetchFailed indicates no category listing could be retrieved.
	ErrFetchFailed = errors.New("pipeline: fetch failed")

	// ErrAnnotationFailed indicates annotation aborted the run. Individual
	// paper failures are skipped; this fires only when annotation cannot
	// proceed at all.
	ErrAnnotationFailed = errors.New("pipeline: annotation failed")

	// ErrRenderFailed indicates document rendering failed.
	ErrRenderFailed = errors.New("pipeline: render failed")

	// ErrArchiveFailed indicates the archive could not be updated.
	ErrArchiveFailed = errors.New("pipeline: archive failed")
)
