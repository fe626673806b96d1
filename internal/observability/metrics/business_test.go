package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordPapersFetched(t *testing.T) {
	before := testutil.ToFloat64(PapersFetchedTotal.WithLabelValues("math.AG"))

	RecordPapersFetched("math.AG", 7)

	after := testutil.ToFloat64(PapersFetchedTotal.WithLabelValues("math.AG"))
	if after-before != 7 {
		t.Errorf("expected counter to increase by 7, got %v", after-before)
	}
}

func TestRecordPaperAnnotated(t *testing.T) {
	successBefore := testutil.ToFloat64(PapersAnnotatedTotal.WithLabelValues("success"))
	failureBefore := testutil.ToFloat64(PapersAnnotatedTotal.WithLabelValues("failure"))

	RecordPaperAnnotated(true)
	RecordPaperAnnotated(false)
	RecordPaperAnnotated(false)

	if got := testutil.ToFloat64(PapersAnnotatedTotal.WithLabelValues("success")) - successBefore; got != 1 {
		t.Errorf("expected 1 success, got %v", got)
	}
	if got := testutil.ToFloat64(PapersAnnotatedTotal.WithLabelValues("failure")) - failureBefore; got != 2 {
		t.Errorf("expected 2 failures, got %v", got)
	}
}

func TestRecordRun(t *testing.T) {
	before := testutil.ToFloat64(RunsTotal.WithLabelValues("failure"))

	RecordRun(false, 2*time.Second)

	if got := testutil.ToFloat64(RunsTotal.WithLabelValues("failure")) - before; got != 1 {
		t.Errorf("expected 1 failed run, got %v", got)
	}
}

func TestRecordFetchError(t *testing.T) {
	before := testutil.ToFloat64(FetchErrors.WithLabelValues("math.AG", "http"))

	RecordFetchError("math.AG", "http")

	if got := testutil.ToFloat64(FetchErrors.WithLabelValues("math.AG", "http")) - before; got != 1 {
		t.Errorf("expected 1 fetch error, got %v", got)
	}
}

func TestRecordArchiveWrite(t *testing.T) {
	before := testutil.ToFloat64(ArchiveWritesTotal.WithLabelValues("tex"))

	RecordArchiveWrite("tex")

	if got := testutil.ToFloat64(ArchiveWritesTotal.WithLabelValues("tex")) - before; got != 1 {
		t.Errorf("expected 1 archive write, got %v", got)
	}
}
