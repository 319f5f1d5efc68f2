package ports

import "context"

// DocumentLister returns a backend collection as decoded JSON documents,
// for consumers that query it generically (dashboard expressions).
type DocumentLister interface {
	ListDocuments(ctx context.Context, resource string) ([]any, error)
}
