package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhub/internal/models"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(MemoryPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("", nil)
	assert.Error(t, err)
}

func TestRecordAndListActivity(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	first, err := s.RecordActivity(ctx, models.Activity{Store: models.StoreCourse, Action: "add", RecordID: "c1", Summary: "Algebra"})
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())
	assert.Equal(t, "Algebra", first.Summary)

	_, err = s.RecordActivity(ctx, models.Activity{Store: models.StoreTask, Action: "complete", RecordID: "t1"})
	require.NoError(t, err)
	_, err = s.RecordActivity(ctx, models.Activity{Store: models.StoreCourse, Action: "delete", RecordID: "c1"})
	require.NoError(t, err)

	all, err := s.ListActivity(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "delete", all[0].Action)
	assert.Equal(t, "add", all[2].Action)

	courses, err := s.ListActivity(ctx, models.StoreCourse, 0)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	for _, a := range courses {
		assert.Equal(t, models.StoreCourse, a.Store)
	}

	limited, err := s.ListActivity(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, all[0].ID, limited[0].ID)
}

func TestRecordActivityValidation(t *testing.T) {
	s := openMemory(t)
	_, err := s.RecordActivity(context.Background(), models.Activity{Store: models.StoreTask})
	assert.Error(t, err)
}

func TestGetActivityNotFound(t *testing.T) {
	s := openMemory(t)
	_, err := s.GetActivity(context.Background(), 42)
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestOpenFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.db")
	s, err := Open(path, nil)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.RecordActivity(context.Background(), models.Activity{Store: models.StoreFeedback, Action: "add"})
	require.NoError(t, err)
	assert.FileExists(t, path)
}
