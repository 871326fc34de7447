package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JoseLuisBVaz/Water-Regsister/internal/store"
)

func seedUser(t *testing.T, m *store.Memory, userID string) {
	t.Helper()
	err := m.SetDocument(context.Background(), usersCollection+"/"+userID, map[string]any{}, false)
	require.NoError(t, err)
}

func seedRecord(t *testing.T, m *store.Memory, userID, recordID, dateKey string) {
	t.Helper()
	fields := map[string]any{}
	if dateKey != "" {
		fields["dateKey"] = dateKey
	}
	err := m.SetDocument(context.Background(), dailyRecordPath(userID, recordID), fields, false)
	require.NoError(t, err)
}

func seedActivity(t *testing.T, m *store.Memory, userID, recordID, name string, liters any) {
	t.Helper()
	fields := map[string]any{"activityName": name}
	if liters != nil {
		fields["litersUsed"] = liters
	}
	_, err := m.AddDocument(context.Background(), activitiesPath(userID, recordID), fields)
	require.NoError(t, err)
}

// failingStore wraps a Store and fails reads on collections matching a
// path fragment, to exercise abort and skip paths.
type failingStore struct {
	store.Store
	failOn string
}

func (f *failingStore) GetDocuments(ctx context.Context, collectionPath string) ([]store.Document, error) {
	if f.failOn != "" && strings.Contains(collectionPath, f.failOn) {
		return nil, fmt.Errorf("injected failure reading %s", collectionPath)
	}
	return f.Store.GetDocuments(ctx, collectionPath)
}
