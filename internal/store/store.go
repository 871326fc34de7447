package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by point reads for documents that do not exist.
var ErrNotFound = errors.New("document not found")

// Document is one document read from the store: its identifier plus the raw
// field map as stored.
type Document struct {
	ID     string
	Fields map[string]any
}

// Store is the document-store capability surface the services depend on.
// Paths are slash-separated the Firestore way: an even number of segments
// names a document ("users/u1"), an odd number a collection
// ("users/u1/daily_records").
type Store interface {
	// ListChildIDs returns the IDs of the documents under a collection,
	// including documents that only exist through their subcollections.
	ListChildIDs(ctx context.Context, collectionPath string) ([]string, error)

	// GetDocuments reads every document in a collection.
	GetDocuments(ctx context.Context, collectionPath string) ([]Document, error)

	// GetDocument reads a single document, or ErrNotFound.
	GetDocument(ctx context.Context, path string) (Document, error)

	// QueryEquals reads the documents of a collection whose field equals
	// the given value.
	QueryEquals(ctx context.Context, collectionPath, field string, value any) ([]Document, error)

	// SetDocument writes a document. With merge set, existing fields not
	// named in fields are kept; otherwise the document is replaced.
	SetDocument(ctx context.Context, path string, fields map[string]any, merge bool) error

	// AddDocument creates a document with a store-assigned ID and returns it.
	AddDocument(ctx context.Context, collectionPath string, fields map[string]any) (string, error)

	// DeleteDocument deletes a document. Deleting a missing document is not
	// an error. Subcollections of the document are not deleted.
	DeleteDocument(ctx context.Context, path string) error

	// ServerTimestamp returns the store's sentinel for a server-assigned
	// timestamp, usable as a field value in SetDocument and AddDocument.
	ServerTimestamp() any
}
