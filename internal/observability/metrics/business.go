package metrics

import "time"

// RecordRun records the outcome and duration of a full pipeline run.
func RecordRun(success bool, duration time.Duration) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	RunsTotal.WithLabelValues(outcome).Inc()
	RunDuration.Observe(duration.Seconds())
}

// RecordPapersFetched records the number of papers fetched for a category.
func RecordPapersFetched(category string, count int) {
	PapersFetchedTotal.WithLabelValues(category).Add(float64(count))
}

// RecordPapersFiltered records the number of papers passing the keyword filter.
func RecordPapersFiltered(count int) {
	PapersFilteredTotal.Add(float64(count))
}

// RecordPaperAnnotated records the result of one annotation attempt.
func RecordPaperAnnotated(success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	PapersAnnotatedTotal.WithLabelValues(status).Inc()
}

// RecordPaperFeatured records a paper marked featured by the AI.
func RecordPaperFeatured() {
	PapersFeaturedTotal.Inc()
}

// RecordAnnotationDuration records the time taken by one annotation call.
func RecordAnnotationDuration(duration time.Duration) {
	AnnotationDuration.Observe(duration.Seconds())
}

// RecordFetchError records an arXiv fetch failure.
// errorType should classify the failure (e.g., "http", "parse").
func RecordFetchError(category, errorType string) {
	FetchErrors.WithLabelValues(category, errorType).Inc()
}

// RecordArchiveWrite records a successfully archived artifact.
// kind names the artifact (e.g., "tex", "html", "json", "index").
func RecordArchiveWrite(kind string) {
	ArchiveWritesTotal.WithLabelValues(kind).Inc()
}
