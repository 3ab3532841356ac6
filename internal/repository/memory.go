package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/filter"
	model "github.com/anirudh-pedro/Bug-Tracker-sub001/internal/models"
)

// MemoryRepository est le backend mémoire : la collection canonique et le
// compteur d'ids sont des champs d'instance, pas des variables de package,
// pour que chaque test puisse construire un dépôt indépendant. Une latence
// configurable simule l'aller-retour réseau de l'app mobile.
type MemoryRepository struct {
	mu      sync.RWMutex
	bugs    []model.Bug // ordre d'insertion = ordre de collection
	counter int         // prochain numéro BUG-###, jamais réutilisé
	latency time.Duration
	now     func() time.Time
}

// NewMemory construit un dépôt mémoire vide
func NewMemory(latency time.Duration) *MemoryRepository {
	return &MemoryRepository{
		counter: 1,
		latency: latency,
		now:     time.Now,
	}
}

// SetClock remplace l'horloge (tests uniquement)
func (m *MemoryRepository) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Seed charge une collection initiale et avance le compteur au-delà du plus
// grand numéro déjà utilisé, pour que les créations suivantes restent uniques.
func (m *MemoryRepository) Seed(bugs []model.Bug) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, bug := range bugs {
		m.bugs = append(m.bugs, cloneBug(bug))
		if n := bugNumber(bug.ID); n >= m.counter {
			m.counter = n + 1
		}
	}
}

// sleep simule la latence réseau en respectant l'annulation du contexte
func (m *MemoryRepository) sleep(ctx context.Context) error {
	if m.latency <= 0 {
		return nil
	}
	select {
	case <-time.After(m.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *MemoryRepository) List(ctx context.Context, filters *model.BugFilters) ([]model.Bug, error) {
	if err := m.sleep(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []model.Bug
	if filters != nil {
		matched = filter.Apply(m.bugs, *filters)
	} else {
		matched = m.bugs
	}

	result := make([]model.Bug, 0, len(matched))
	for _, bug := range matched {
		result = append(result, cloneBug(bug))
	}

	// Tri explicite : l'UI suppose le plus récemment modifié en premier
	sortByUpdatedAtDesc(result)

	return result, nil
}

func (m *MemoryRepository) GetByID(ctx context.Context, id string) (*model.Bug, error) {
	if err := m.sleep(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, bug := range m.bugs {
		if bug.ID == id {
			c := cloneBug(bug)
			return &c, nil
		}
	}

	// Absent n'est pas une erreur
	return nil, nil
}

func (m *MemoryRepository) Create(ctx context.Context, form model.BugFormData, reporterID string) (*model.Bug, error) {
	if err := m.sleep(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()

	status := form.Status
	if status == "" {
		status = model.StatusOpen
	}

	bug := model.Bug{
		ID:               fmt.Sprintf("BUG-%03d", m.counter),
		Title:            form.Title,
		Description:      form.Description,
		Priority:         form.Priority,
		Status:           status,
		Reporter:         reporterID,
		CreatedAt:        now,
		UpdatedAt:        now,
		DueDate:          form.DueDate,
		Tags:             append([]string{}, form.Tags...),
		Attachments:      []model.Attachment{},
		Comments:         []model.Comment{},
		Environment:      form.Environment,
		StepsToReproduce: append([]string{}, form.StepsToReproduce...),
	}
	if form.Assignee != "" {
		bug.Assignee = &form.Assignee
	}
	if form.ExpectedBehavior != "" {
		bug.ExpectedBehavior = &form.ExpectedBehavior
	}
	if form.ActualBehavior != "" {
		bug.ActualBehavior = &form.ActualBehavior
	}

	m.counter++
	m.bugs = append(m.bugs, bug)

	c := cloneBug(bug)
	return &c, nil
}

func (m *MemoryRepository) Update(ctx context.Context, id string, patch model.BugPatch) (*model.Bug, error) {
	if err := m.sleep(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.bugs {
		if m.bugs[i].ID != id {
			continue
		}

		applyPatch(&m.bugs[i], patch)
		// updatedAt avance même si aucun champ visible n'a changé
		m.bugs[i].UpdatedAt = m.now()

		c := cloneBug(m.bugs[i])
		return &c, nil
	}

	return nil, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	if err := m.sleep(ctx); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.bugs {
		if m.bugs[i].ID == id {
			m.bugs = append(m.bugs[:i], m.bugs[i+1:]...)
			return true, nil
		}
	}

	return false, nil
}

func (m *MemoryRepository) Search(ctx context.Context, query string) ([]model.Bug, error) {
	if err := m.sleep(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	// Ordre de collection conservé, pas de tri forcé contrairement à List
	matched := filter.Search(m.bugs, query)

	result := make([]model.Bug, 0, len(matched))
	for _, bug := range matched {
		result = append(result, cloneBug(bug))
	}

	return result, nil
}

func (m *MemoryRepository) AddComment(ctx context.Context, bugID, content, authorID string) (bool, error) {
	if err := m.sleep(ctx); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.bugs {
		if m.bugs[i].ID != bugID {
			continue
		}

		now := m.now()
		m.bugs[i].Comments = append(m.bugs[i].Comments, model.Comment{
			ID:        uuid.NewString(),
			Author:    authorID,
			Content:   content,
			CreatedAt: now,
		})
		m.bugs[i].UpdatedAt = now

		return true, nil
	}

	return false, nil
}

// applyPatch fusionne les champs présents du patch sur le bug (merge superficiel)
func applyPatch(bug *model.Bug, patch model.BugPatch) {
	if patch.Title != nil {
		bug.Title = *patch.Title
	}
	if patch.Description != nil {
		bug.Description = *patch.Description
	}
	if patch.Priority != nil {
		bug.Priority = *patch.Priority
	}
	if patch.Status != nil {
		bug.Status = *patch.Status
	}
	if patch.Assignee != nil {
		if *patch.Assignee == "" {
			bug.Assignee = nil
		} else {
			v := *patch.Assignee
			bug.Assignee = &v
		}
	}
	if patch.DueDate != nil {
		v := *patch.DueDate
		bug.DueDate = &v
	}
	if patch.Tags != nil {
		bug.Tags = append([]string{}, (*patch.Tags)...)
	}
	if patch.Environment != nil {
		v := *patch.Environment
		bug.Environment = &v
	}
	if patch.StepsToReproduce != nil {
		bug.StepsToReproduce = append([]string{}, (*patch.StepsToReproduce)...)
	}
	if patch.ExpectedBehavior != nil {
		v := *patch.ExpectedBehavior
		bug.ExpectedBehavior = &v
	}
	if patch.ActualBehavior != nil {
		v := *patch.ActualBehavior
		bug.ActualBehavior = &v
	}
}

// cloneBug copie en profondeur pour que les appelants ne puissent jamais
// modifier l'état interne du dépôt
func cloneBug(bug model.Bug) model.Bug {
	c := bug
	c.Tags = append([]string{}, bug.Tags...)
	c.Attachments = append([]model.Attachment{}, bug.Attachments...)
	c.Comments = append([]model.Comment{}, bug.Comments...)
	if bug.StepsToReproduce != nil {
		c.StepsToReproduce = append([]string{}, bug.StepsToReproduce...)
	}
	if bug.Assignee != nil {
		v := *bug.Assignee
		c.Assignee = &v
	}
	if bug.DueDate != nil {
		v := *bug.DueDate
		c.DueDate = &v
	}
	if bug.Environment != nil {
		v := *bug.Environment
		c.Environment = &v
	}
	if bug.ExpectedBehavior != nil {
		v := *bug.ExpectedBehavior
		c.ExpectedBehavior = &v
	}
	if bug.ActualBehavior != nil {
		v := *bug.ActualBehavior
		c.ActualBehavior = &v
	}
	return c
}

// sortByUpdatedAtDesc trie du plus récemment modifié au plus ancien (tri
// stable : à updatedAt égal l'ordre de collection est conservé)
func sortByUpdatedAtDesc(bugs []model.Bug) {
	sort.SliceStable(bugs, func(i, j int) bool {
		return bugs[i].UpdatedAt.After(bugs[j].UpdatedAt)
	})
}

// bugNumber extrait le numéro d'un id "BUG-042" -> 42, 0 si non conforme
func bugNumber(id string) int {
	idx := strings.LastIndex(id, "-")
	if idx == -1 {
		return 0
	}
	n, err := strconv.Atoi(id[idx+1:])
	if err != nil {
		return 0
	}
	return n
}
