package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/anirudh-pedro/Bug-Tracker-sub001/internal/models"
	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/repository"
)

// fakeClock returns a strictly increasing time on every call
func fakeClock() func() time.Time {
	t := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newRepo() *repository.MemoryRepository {
	repo := repository.NewMemory(0)
	repo.SetClock(fakeClock())
	return repo
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		bug, err := repo.Create(ctx, model.BugFormData{Title: fmt.Sprintf("bug %d", i), Description: "d"}, "alice")
		require.NoError(t, err)
		assert.False(t, seen[bug.ID], "duplicate id %s", bug.ID)
		seen[bug.ID] = true
	}
}

func TestCreateThenList(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, model.BugFormData{
		Title:       "Login fails",
		Description: "Google button crashes the app",
		Priority:    model.PriorityHigh,
	}, "alice")
	require.NoError(t, err)

	assert.Equal(t, "BUG-001", created.ID)
	assert.Equal(t, model.StatusOpen, created.Status, "status defaults to open")
	assert.Equal(t, "alice", created.Reporter)
	assert.Empty(t, created.Comments)
	assert.Empty(t, created.Attachments)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	bugs, err := repo.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, bugs, 1)
	assert.Equal(t, "Login fails", bugs[0].Title)
}

func TestIDsNotReusedAfterDelete(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	first, err := repo.Create(ctx, model.BugFormData{Title: "a", Description: "d"}, "alice")
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, first.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	second, err := repo.Create(ctx, model.BugFormData{Title: "b", Description: "d"}, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestListSortedByUpdatedAtDesc(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	a, _ := repo.Create(ctx, model.BugFormData{Title: "a", Description: "d"}, "alice")
	b, _ := repo.Create(ctx, model.BugFormData{Title: "b", Description: "d"}, "alice")
	c, _ := repo.Create(ctx, model.BugFormData{Title: "c", Description: "d"}, "alice")

	// Touch the oldest: it must come back first
	title := "a updated"
	_, err := repo.Update(ctx, a.ID, model.BugPatch{Title: &title})
	require.NoError(t, err)

	bugs, err := repo.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, bugs, 3)
	assert.Equal(t, a.ID, bugs[0].ID)
	assert.Equal(t, c.ID, bugs[1].ID)
	assert.Equal(t, b.ID, bugs[2].ID)
}

func TestListWithServerSideFilters(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	repo.Create(ctx, model.BugFormData{Title: "a", Description: "d", Priority: model.PriorityHigh}, "alice")
	repo.Create(ctx, model.BugFormData{Title: "b", Description: "d", Priority: model.PriorityLow}, "bob")

	bugs, err := repo.List(ctx, &model.BugFilters{Priorities: []string{model.PriorityHigh}})
	require.NoError(t, err)
	require.Len(t, bugs, 1)
	assert.Equal(t, "a", bugs[0].Title)
}

func TestGetByIDAbsentIsNotAnError(t *testing.T) {
	repo := newRepo()

	bug, err := repo.GetByID(context.Background(), "BUG-999")

	require.NoError(t, err)
	assert.Nil(t, bug)
}

func TestUpdateMonotonicUpdatedAt(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	bug, err := repo.Create(ctx, model.BugFormData{Title: "a", Description: "d"}, "alice")
	require.NoError(t, err)

	// Empty patch: updatedAt still advances
	updated, err := repo.Update(ctx, bug.ID, model.BugPatch{})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.True(t, updated.UpdatedAt.After(bug.UpdatedAt))
	assert.Equal(t, bug.CreatedAt, updated.CreatedAt, "createdAt is immutable")
}

func TestUpdatePatchSemantics(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	bug, err := repo.Create(ctx, model.BugFormData{
		Title:       "a",
		Description: "d",
		Assignee:    "alice",
		Tags:        []string{"ui"},
	}, "bob")
	require.NoError(t, err)

	status := model.StatusInProgress
	updated, err := repo.Update(ctx, bug.ID, model.BugPatch{Status: &status})
	require.NoError(t, err)
	require.NotNil(t, updated)

	// Only the patched field changes
	assert.Equal(t, model.StatusInProgress, updated.Status)
	assert.Equal(t, "a", updated.Title)
	require.NotNil(t, updated.Assignee)
	assert.Equal(t, "alice", *updated.Assignee)
	assert.Equal(t, []string{"ui"}, updated.Tags)

	// Empty assignee string clears the field
	empty := ""
	updated, err = repo.Update(ctx, bug.ID, model.BugPatch{Assignee: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.Assignee)
}

func TestUpdateAbsentReturnsNil(t *testing.T) {
	repo := newRepo()

	title := "x"
	bug, err := repo.Update(context.Background(), "BUG-999", model.BugPatch{Title: &title})

	require.NoError(t, err)
	assert.Nil(t, bug)
}

func TestDeleteNotFoundLeavesCollectionUnchanged(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	repo.Create(ctx, model.BugFormData{Title: "a", Description: "d"}, "alice")

	deleted, err := repo.Delete(ctx, "BUG-999")
	require.NoError(t, err)
	assert.False(t, deleted)

	bugs, err := repo.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, bugs, 1)
}

func TestSearchCaseInsensitive(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	repo.Create(ctx, model.BugFormData{Title: "Database Timeout", Description: "d"}, "alice")
	repo.Create(ctx, model.BugFormData{Title: "Other", Description: "d"}, "alice")

	for _, q := range []string{"database", "TIMEOUT", "time"} {
		bugs, err := repo.Search(ctx, q)
		require.NoError(t, err)
		require.Len(t, bugs, 1, "query %q", q)
		assert.Equal(t, "Database Timeout", bugs[0].Title)
	}
}

func TestSearchEmptyQueryReturnsAllInCollectionOrder(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	a, _ := repo.Create(ctx, model.BugFormData{Title: "a", Description: "d"}, "alice")
	b, _ := repo.Create(ctx, model.BugFormData{Title: "b", Description: "d"}, "alice")

	// Touch the first so updatedAt order differs from insertion order
	title := "a2"
	repo.Update(ctx, a.ID, model.BugPatch{Title: &title})

	bugs, err := repo.Search(ctx, "")
	require.NoError(t, err)
	require.Len(t, bugs, 2)
	assert.Equal(t, a.ID, bugs[0].ID, "search keeps collection order, no updatedAt sort")
	assert.Equal(t, b.ID, bugs[1].ID)
}

func TestAddComment(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	bug, err := repo.Create(ctx, model.BugFormData{Title: "a", Description: "d"}, "alice")
	require.NoError(t, err)

	ok, err := repo.AddComment(ctx, bug.ID, "looking into it", "carol")
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.GetByID(ctx, bug.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "carol", got.Comments[0].Author)
	assert.Equal(t, "looking into it", got.Comments[0].Content)
	assert.NotEmpty(t, got.Comments[0].ID)
	assert.True(t, got.UpdatedAt.After(bug.UpdatedAt), "addComment bumps updatedAt")
}

func TestAddCommentOnMissingBug(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	bug, err := repo.Create(ctx, model.BugFormData{Title: "a", Description: "d"}, "alice")
	require.NoError(t, err)

	ok, err := repo.AddComment(ctx, "BUG-999", "text", "bob")
	require.NoError(t, err)
	assert.False(t, ok)

	// Existing bugs are untouched
	got, err := repo.GetByID(ctx, bug.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Comments)
	assert.Equal(t, bug.UpdatedAt, got.UpdatedAt)
}

func TestReturnedBugsDoNotAliasInternalState(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	bug, err := repo.Create(ctx, model.BugFormData{Title: "a", Description: "d", Tags: []string{"ui"}}, "alice")
	require.NoError(t, err)

	// Mutating the returned copy must not leak into the repository
	bug.Tags[0] = "hacked"
	bug.Title = "hacked"

	got, err := repo.GetByID(ctx, bug.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Title)
	assert.Equal(t, []string{"ui"}, got.Tags)
}

func TestSeedAdvancesCounter(t *testing.T) {
	repo := repository.NewMemory(0)
	repo.SetClock(fakeClock())
	repo.Seed(repository.SampleBugs())

	bug, err := repo.Create(context.Background(), model.BugFormData{Title: "new", Description: "d"}, "alice")
	require.NoError(t, err)

	// Sample data ends at BUG-005
	assert.Equal(t, "BUG-006", bug.ID)
}

func TestSimulatedLatencyRespectsCancellation(t *testing.T) {
	repo := repository.NewMemory(5 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.List(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
