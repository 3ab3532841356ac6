package repository_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/api"
	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/identity"
	model "github.com/anirudh-pedro/Bug-Tracker-sub001/internal/models"
	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/repository"
)

// newHTTPRepo wires the HTTP client backend against a real in-process server
// backed by the memory repository, so both sides of the transport are tested
// together.
func newHTTPRepo(t *testing.T) *repository.HTTPRepository {
	t.Helper()

	mem := repository.NewMemory(0)
	provider := identity.NewStaticProvider(map[string]string{
		"tok": "alice:Alice:alice@example.com",
	})

	server := httptest.NewServer(api.SetupRouter(mem, provider))
	t.Cleanup(server.Close)

	return repository.NewHTTP(server.URL, "tok")
}

func TestHTTPRepositoryRoundTrip(t *testing.T) {
	repo := newHTTPRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.BugFormData{
		Title:       "Login fails",
		Description: "crash",
		Priority:    model.PriorityHigh,
		Tags:        []string{"auth"},
	}, "alice")
	require.NoError(t, err)
	assert.Equal(t, "BUG-001", created.ID)
	assert.Equal(t, "alice", created.Reporter)

	bugs, err := repo.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, bugs, 1)

	bugs, err = repo.List(ctx, &model.BugFilters{Priorities: []string{model.PriorityLow}})
	require.NoError(t, err)
	assert.Empty(t, bugs)

	status := model.StatusResolved
	updated, err := repo.Update(ctx, created.ID, model.BugPatch{Status: &status})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, model.StatusResolved, updated.Status)

	found, err := repo.Search(ctx, "LOGIN")
	require.NoError(t, err)
	require.Len(t, found, 1)

	ok, err := repo.AddComment(ctx, created.ID, "fixed", "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Comments, 1)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestHTTPRepositoryAbsentMapsToNil(t *testing.T) {
	repo := newHTTPRepo(t)
	ctx := context.Background()

	bug, err := repo.GetByID(ctx, "BUG-999")
	require.NoError(t, err)
	assert.Nil(t, bug)

	status := model.StatusClosed
	bug, err = repo.Update(ctx, "BUG-999", model.BugPatch{Status: &status})
	require.NoError(t, err)
	assert.Nil(t, bug)

	deleted, err := repo.Delete(ctx, "BUG-999")
	require.NoError(t, err)
	assert.False(t, deleted)

	ok, err := repo.AddComment(ctx, "BUG-999", "text", "bob")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHTTPRepositoryTransientErrors(t *testing.T) {
	// A server that only ever fails: the client must retry then surface
	// ErrTransient, never a panic or a silent nil
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	repo := repository.NewHTTP(server.URL, "tok")

	_, err := repo.List(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, repository.IsTransient(err))
	assert.Greater(t, attempts, 1, "5xx responses are retried")
}
