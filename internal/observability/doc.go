// Package observability provides the observability infrastructure for the
// pipeline: structured logging and Prometheus metrics.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus metrics registry and recorders
//
// Example usage:
//
//	import (
//	    "github.com/vegetablefj/bluearxiv/internal/observability/logging"
//	    "github.com/vegetablefj/bluearxiv/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("pipeline started")
//
//	    metrics.RecordPapersFetched("math.AG", 10)
//	}
package observability
