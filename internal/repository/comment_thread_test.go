package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-dashboard/internal/domain"
	apperrors "github.com/spec-kit/support-dashboard/pkg/util/errorutil"
)

func seedComments() []domain.Comment {
	return []domain.Comment{
		{ID: 1, Author: "Alice Johnson", Content: "Started after the deployment.", Timestamp: time.Date(2024, 1, 15, 10, 35, 0, 0, time.UTC)},
		{ID: 2, Author: "John Doe", Content: "Investigating the auth middleware.", Timestamp: time.Date(2024, 1, 15, 11, 15, 0, 0, time.UTC), IsInternal: true},
	}
}

func TestCommentThread_Add(t *testing.T) {
	clock := newFakeClock()
	registry := NewThreadRegistry(map[int64][]domain.Comment{1: seedComments()}, WithClock(clock.Now))
	thread := registry.Thread(1)
	before := thread.Comments()

	comment, err := thread.Add("Current User", "Fix deployed.", false)
	require.NoError(t, err)

	assert.Equal(t, int64(3), comment.ID)
	assert.Equal(t, int64(1), comment.TicketID)
	assert.Equal(t, clock.Now(), comment.Timestamp)
	assert.False(t, comment.IsInternal)

	after := thread.Comments()
	require.Len(t, after, len(before)+1)
	assert.Equal(t, before, after[:len(before)], "existing entries are untouched")
	assert.Equal(t, comment, after[len(after)-1], "new comments go last")
}

func TestCommentThread_AddLengthGrowsByN(t *testing.T) {
	registry := NewThreadRegistry(nil)
	thread := registry.Thread(42)

	var lastID int64
	for i := 0; i < 10; i++ {
		comment, err := thread.Add("Current User", "note", i%2 == 0)
		require.NoError(t, err)
		assert.Greater(t, comment.ID, lastID)
		lastID = comment.ID
	}
	assert.Equal(t, 10, thread.Len())
	assert.Equal(t, 10, registry.Count(42))
}

func TestCommentThread_AddRejectsBlankContent(t *testing.T) {
	thread := NewThreadRegistry(map[int64][]domain.Comment{1: seedComments()}).Thread(1)

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := thread.Add("Current User", content, false)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Contains(t, apperrors.FieldErrors(err), "content")
	}
	assert.Equal(t, 2, thread.Len())
}

func TestCommentThread_VisibleComments(t *testing.T) {
	thread := NewThreadRegistry(map[int64][]domain.Comment{1: seedComments()}).Thread(1)

	visible := thread.VisibleComments()
	require.Len(t, visible, 1)
	assert.Equal(t, "Alice Johnson", visible[0].Author)
}

func TestThreadRegistry_CountDoesNotCreate(t *testing.T) {
	registry := NewThreadRegistry(nil)
	assert.Equal(t, 0, registry.Count(7))
	assert.Same(t, registry.Thread(7), registry.Thread(7))
}

func TestThreadRegistry_LookupDoesNotCreate(t *testing.T) {
	registry := NewThreadRegistry(map[int64][]domain.Comment{1: {{ID: 1, Content: "a"}}})

	thread, ok := registry.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, 1, thread.Len())

	_, ok = registry.Lookup(2)
	assert.False(t, ok)
	assert.Equal(t, 0, registry.Count(2))
	assert.Len(t, registry.threads, 1, "reads leave the registry untouched")
}

func TestNewCommentThread_RepairsSeedIDs(t *testing.T) {
	seed := []domain.Comment{{ID: 5, Content: "a"}, {ID: 5, Content: "b"}, {ID: 0, Content: "c"}}
	thread := NewThreadRegistry(map[int64][]domain.Comment{9: seed}).Thread(9)

	comments := thread.Comments()
	require.Len(t, comments, 3)
	assert.Equal(t, int64(5), comments[0].ID)
	assert.Equal(t, int64(6), comments[1].ID)
	assert.Equal(t, int64(7), comments[2].ID)
	for _, c := range comments {
		assert.Equal(t, int64(9), c.TicketID)
	}
}
