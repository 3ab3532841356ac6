package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	model "github.com/anirudh-pedro/Bug-Tracker-sub001/internal/models"
)

// HTTPRepository implémente la façade par-dessus l'API REST du serveur :
// c'est le client qu'embarque l'app mobile quand elle ne tourne pas sur le
// backend mémoire. Les échecs réseau et les 5xx sont réessayés avec un
// backoff exponentiel puis remontés comme ErrTransient ; un 404 reste une
// absence, pas une erreur.
type HTTPRepository struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTP construit le client. Le token est envoyé en Authorization sur les
// opérations qui l'exigent ; baseURL sans slash final (ex: http://host:8080).
func NewHTTP(baseURL, token string) *HTTPRepository {
	return &HTTPRepository{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// envelope reflète utils.APIResponse côté serveur
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

// notFoundError signale un 404 à travers le retry sans le réessayer
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

// requestError est un rejet définitif du serveur (4xx) : pas de retry, pas
// d'ErrTransient
type requestError struct{ msg string }

func (e requestError) Error() string { return e.msg }

// do exécute la requête avec retries sur échec transitoire et décode
// l'enveloppe JSON
func (h *HTTPRepository) do(ctx context.Context, method, path string, body interface{}) (*envelope, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, err
		}
	}

	var env envelope

	operation := func() error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		if h.token != "" {
			req.Header.Set("Authorization", "Bearer "+h.token)
		}

		resp, err := h.client.Do(req)
		if err != nil {
			// Échec réseau/timeout : réessayable
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("server error: %s", resp.Status)
		}
		if resp.StatusCode == http.StatusNotFound {
			return backoff.Permanent(notFoundError{})
		}

		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			return backoff.Permanent(requestError{msg: fmt.Sprintf("invalid response body: %v", err)})
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(requestError{msg: fmt.Sprintf("request rejected: %s", env.Error)})
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		switch err.(type) {
		case notFoundError, requestError:
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}

	return &env, nil
}

func isNotFound(err error) bool {
	_, ok := err.(notFoundError)
	return ok
}

func (h *HTTPRepository) List(ctx context.Context, filters *model.BugFilters) ([]model.Bug, error) {
	params := url.Values{}
	if filters != nil {
		for _, s := range filters.Statuses {
			params.Add("status", s)
		}
		for _, p := range filters.Priorities {
			params.Add("priority", p)
		}
		for _, a := range filters.Assignees {
			params.Add("assignee", a)
		}
		for _, r := range filters.Reporters {
			params.Add("reporter", r)
		}
		for _, t := range filters.Tags {
			params.Add("tag", t)
		}
		if filters.DateRange != nil {
			params.Set("from", filters.DateRange.From.Format(time.RFC3339))
			params.Set("to", filters.DateRange.To.Format(time.RFC3339))
		}
		if filters.Query != "" {
			params.Set("q", filters.Query)
		}
	}

	path := "/api/bugs"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	env, err := h.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var bugs []model.Bug
	if err := json.Unmarshal(env.Data, &bugs); err != nil {
		return nil, fmt.Errorf("invalid bug list payload: %w", err)
	}
	return bugs, nil
}

func (h *HTTPRepository) GetByID(ctx context.Context, id string) (*model.Bug, error) {
	env, err := h.do(ctx, http.MethodGet, "/api/bugs/"+url.PathEscape(id), nil)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var bug model.Bug
	if err := json.Unmarshal(env.Data, &bug); err != nil {
		return nil, fmt.Errorf("invalid bug payload: %w", err)
	}
	return &bug, nil
}

func (h *HTTPRepository) Create(ctx context.Context, form model.BugFormData, reporterID string) (*model.Bug, error) {
	// reporterID est porté par le token côté serveur ; le paramètre reste dans
	// la signature pour garder la parité avec les autres backends
	env, err := h.do(ctx, http.MethodPost, "/api/bugs", form)
	if err != nil {
		return nil, err
	}

	var bug model.Bug
	if err := json.Unmarshal(env.Data, &bug); err != nil {
		return nil, fmt.Errorf("invalid bug payload: %w", err)
	}
	return &bug, nil
}

func (h *HTTPRepository) Update(ctx context.Context, id string, patch model.BugPatch) (*model.Bug, error) {
	env, err := h.do(ctx, http.MethodPatch, "/api/bugs/"+url.PathEscape(id), patch)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var bug model.Bug
	if err := json.Unmarshal(env.Data, &bug); err != nil {
		return nil, fmt.Errorf("invalid bug payload: %w", err)
	}
	return &bug, nil
}

func (h *HTTPRepository) Delete(ctx context.Context, id string) (bool, error) {
	_, err := h.do(ctx, http.MethodDelete, "/api/bugs/"+url.PathEscape(id), nil)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (h *HTTPRepository) Search(ctx context.Context, query string) ([]model.Bug, error) {
	path := "/api/bugs/search?q=" + url.QueryEscape(query)

	env, err := h.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var bugs []model.Bug
	if err := json.Unmarshal(env.Data, &bugs); err != nil {
		return nil, fmt.Errorf("invalid bug list payload: %w", err)
	}
	return bugs, nil
}

func (h *HTTPRepository) AddComment(ctx context.Context, bugID, content, authorID string) (bool, error) {
	body := model.AddCommentRequest{Content: content}

	_, err := h.do(ctx, http.MethodPost, "/api/bugs/"+url.PathEscape(bugID)+"/comments", body)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
