package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Service implements Store against Firestore and owns the client lifecycle.
type Service struct {
	client *firestore.Client
}

func NewService(projectID, databaseName string) (*Service, error) {
	ctx := context.Background()

	// Always use a named database - no implicit defaults
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseName)
	if err != nil {
		return nil, fmt.Errorf("firestore.NewClient: %w", err)
	}

	return &Service{client: client}, nil
}

// NewServiceWithClient wraps an existing client. The caller keeps ownership
// of the client; Close still closes it.
func NewServiceWithClient(client *firestore.Client) *Service {
	return &Service{client: client}
}

func (s *Service) Close() error {
	return s.client.Close()
}

func (s *Service) Client() *firestore.Client {
	return s.client
}

// ListChildIDs lists document IDs with DocumentRefs rather than a query, so
// documents that only exist through their subcollections are included. The
// users collection works that way: signing in creates subcollections under
// a user document that is never written itself.
func (s *Service) ListChildIDs(ctx context.Context, collectionPath string) ([]string, error) {
	var ids []string
	it := s.client.Collection(collectionPath).DocumentRefs(ctx)
	for {
		ref, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list documents in %s: %w", collectionPath, err)
		}
		ids = append(ids, ref.ID)
	}
	return ids, nil
}

func (s *Service) GetDocuments(ctx context.Context, collectionPath string) ([]Document, error) {
	snaps, err := s.client.Collection(collectionPath).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get documents in %s: %w", collectionPath, err)
	}
	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, Document{ID: snap.Ref.ID, Fields: snap.Data()})
	}
	return docs, nil
}

func (s *Service) GetDocument(ctx context.Context, path string) (Document, error) {
	snap, err := s.client.Doc(path).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to get document %s: %w", path, err)
	}
	return Document{ID: snap.Ref.ID, Fields: snap.Data()}, nil
}

func (s *Service) QueryEquals(ctx context.Context, collectionPath, field string, value any) ([]Document, error) {
	snaps, err := s.client.Collection(collectionPath).Where(field, "==", value).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query %s where %s == %v: %w", collectionPath, field, value, err)
	}
	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, Document{ID: snap.Ref.ID, Fields: snap.Data()})
	}
	return docs, nil
}

func (s *Service) SetDocument(ctx context.Context, path string, fields map[string]any, merge bool) error {
	var opts []firestore.SetOption
	if merge {
		opts = append(opts, firestore.MergeAll)
	}
	if _, err := s.client.Doc(path).Set(ctx, fields, opts...); err != nil {
		return fmt.Errorf("failed to set document %s: %w", path, err)
	}
	return nil
}

func (s *Service) AddDocument(ctx context.Context, collectionPath string, fields map[string]any) (string, error) {
	ref, _, err := s.client.Collection(collectionPath).Add(ctx, fields)
	if err != nil {
		return "", fmt.Errorf("failed to add document to %s: %w", collectionPath, err)
	}
	return ref.ID, nil
}

func (s *Service) DeleteDocument(ctx context.Context, path string) error {
	if _, err := s.client.Doc(path).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", path, err)
	}
	return nil
}

func (s *Service) ServerTimestamp() any {
	return firestore.ServerTimestamp
}
