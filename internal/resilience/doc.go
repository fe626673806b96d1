// Package resilience provides fault tolerance patterns for the pipeline's
// external calls: the arXiv listing/Atom fetches and the AI annotation
// APIs (Claude and OpenAI-compatible endpoints).
//
// The package supports:
//   - Circuit breakers with per-service presets (arXiv fetch, Claude, OpenAI)
//   - Retry logic with exponential backoff and jitter
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.ArxivFetchConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return fetchListing()
//	})
//
//	retryConfig := retry.ArxivFetchConfig()
//	err := retry.WithBackoff(ctx, retryConfig, func() error {
//	    return performOperation()
//	})
package resilience
