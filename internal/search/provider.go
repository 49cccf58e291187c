// Package search retrieves web evidence for an optimized query and
// shapes it into deduplicated, authority-scored evidence records.
package search

import "context"

// Result is one raw search hit as returned by a provider.
type Result struct {
	Href  string
	Title string
	Body  string
}

// Provider issues one region-scoped text search and returns at most
// maxResults hits. Implementations must honor the context deadline;
// callers treat any error as empty evidence.
type Provider interface {
	Search(ctx context.Context, query, region string, maxResults int) ([]Result, error)
}
