package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/api"
	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/identity"
	model "github.com/anirudh-pedro/Bug-Tracker-sub001/internal/models"
	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/repository"
	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/utils"
)

const testToken = "test-token"

func newServer(t *testing.T, seed bool) http.Handler {
	t.Helper()

	repo := repository.NewMemory(0)
	if seed {
		repo.Seed(repository.SampleBugs())
	}
	provider := identity.NewStaticProvider(map[string]string{
		testToken: "alice:Alice:alice@example.com",
	})

	return api.SetupRouter(repo, provider)
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, utils.APIResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env utils.APIResponse
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func decodeBugs(t *testing.T, env utils.APIResponse) []model.Bug {
	t.Helper()
	raw, err := json.Marshal(env.Data)
	require.NoError(t, err)
	var bugs []model.Bug
	require.NoError(t, json.Unmarshal(raw, &bugs))
	return bugs
}

func decodeBug(t *testing.T, env utils.APIResponse) model.Bug {
	t.Helper()
	raw, err := json.Marshal(env.Data)
	require.NoError(t, err)
	var bug model.Bug
	require.NoError(t, json.Unmarshal(raw, &bug))
	return bug
}

func TestCreateRequiresAuth(t *testing.T) {
	router := newServer(t, false)

	rec, env := doJSON(t, router, http.MethodPost, "/api/bugs", "", model.BugFormData{
		Title: "x", Description: "d",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
}

func TestCreateAndFetch(t *testing.T) {
	router := newServer(t, false)

	rec, env := doJSON(t, router, http.MethodPost, "/api/bugs", testToken, model.BugFormData{
		Title:       "Login fails",
		Description: "crash on android",
		Priority:    model.PriorityHigh,
		Tags:        []string{"auth"},
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBug(t, env)
	assert.Equal(t, "BUG-001", created.ID)
	assert.Equal(t, model.StatusOpen, created.Status)
	assert.Equal(t, "alice", created.Reporter, "reporter comes from the token")

	rec, env = doJSON(t, router, http.MethodGet, "/api/bugs/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Login fails", decodeBug(t, env).Title)
}

func TestCreateValidation(t *testing.T) {
	router := newServer(t, false)

	tests := []struct {
		name string
		form model.BugFormData
	}{
		{"missing title", model.BugFormData{Description: "d"}},
		{"missing description", model.BugFormData{Title: "t"}},
		{"bad priority", model.BugFormData{Title: "t", Description: "d", Priority: "urgent"}},
		{"bad status", model.BugFormData{Title: "t", Description: "d", Status: "done"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doJSON(t, router, http.MethodPost, "/api/bugs", testToken, tt.form)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Success)
		})
	}
}

func TestGetBugNotFound(t *testing.T) {
	router := newServer(t, true)

	rec, env := doJSON(t, router, http.MethodGet, "/api/bugs/BUG-999", "", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
}

func TestListWithFilters(t *testing.T) {
	router := newServer(t, true)

	rec, env := doJSON(t, router, http.MethodGet, "/api/bugs?status=open&priority=critical", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	bugs := decodeBugs(t, env)
	require.Len(t, bugs, 1)
	assert.Equal(t, "BUG-001", bugs[0].ID)
}

func TestListRepeatableParams(t *testing.T) {
	router := newServer(t, true)

	rec, env := doJSON(t, router, http.MethodGet, "/api/bugs?tag=ui&tag=backend", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	bugs := decodeBugs(t, env)
	// ui or backend: BUG-002 (backend), BUG-003 (ui), BUG-004 (backend), BUG-005 (ui)
	assert.Len(t, bugs, 4)
}

func TestUpdateBug(t *testing.T) {
	router := newServer(t, true)

	status := model.StatusResolved
	rec, env := doJSON(t, router, http.MethodPatch, "/api/bugs/BUG-001", testToken, model.BugPatch{Status: &status})

	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBug(t, env)
	assert.Equal(t, model.StatusResolved, updated.Status)
	assert.Equal(t, "Login fails with Google Sign-In", updated.Title, "other fields untouched")
}

func TestUpdateBugNotFound(t *testing.T) {
	router := newServer(t, true)

	status := model.StatusResolved
	rec, _ := doJSON(t, router, http.MethodPatch, "/api/bugs/BUG-999", testToken, model.BugPatch{Status: &status})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteBug(t *testing.T) {
	router := newServer(t, true)

	rec, _ := doJSON(t, router, http.MethodDelete, "/api/bugs/BUG-002", testToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, router, http.MethodGet, "/api/bugs/BUG-002", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Deleting again: not found, collection unchanged
	rec, _ = doJSON(t, router, http.MethodDelete, "/api/bugs/BUG-002", testToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchEndpoint(t *testing.T) {
	router := newServer(t, true)

	rec, env := doJSON(t, router, http.MethodGet, "/api/bugs/search?q=DATABASE", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	bugs := decodeBugs(t, env)
	require.Len(t, bugs, 1)
	assert.Equal(t, "BUG-002", bugs[0].ID)
}

func TestStatsEndpoint(t *testing.T) {
	router := newServer(t, true)

	rec, env := doJSON(t, router, http.MethodGet, "/api/bugs/stats", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	raw, err := json.Marshal(env.Data)
	require.NoError(t, err)
	var stats model.BugStats
	require.NoError(t, json.Unmarshal(raw, &stats))

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 1, stats.Open)
	assert.Equal(t, 1, stats.Critical)
}

func TestAddCommentEndpoint(t *testing.T) {
	router := newServer(t, true)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/bugs/BUG-002/comments", testToken, model.AddCommentRequest{Content: "on it"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := doJSON(t, router, http.MethodGet, "/api/bugs/BUG-002", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	bug := decodeBug(t, env)
	require.Len(t, bug.Comments, 1)
	assert.Equal(t, "alice", bug.Comments[0].Author)
}

func TestAddCommentMissingBug(t *testing.T) {
	router := newServer(t, true)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/bugs/BUG-999/comments", testToken, model.AddCommentRequest{Content: "text"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListSortedByUpdatedAtDesc(t *testing.T) {
	router := newServer(t, true)

	rec, env := doJSON(t, router, http.MethodGet, "/api/bugs", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	bugs := decodeBugs(t, env)
	require.NotEmpty(t, bugs)
	for i := 1; i < len(bugs); i++ {
		assert.False(t, bugs[i].UpdatedAt.After(bugs[i-1].UpdatedAt),
			fmt.Sprintf("bugs[%d] newer than bugs[%d]", i, i-1))
	}
}

func TestHealthCheck(t *testing.T) {
	router := newServer(t, false)

	rec, env := doJSON(t, router, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}
