package model

import "time"

// Statuts possibles d'un bug
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
	StatusReopened   = "reopened"
)

// Priorités possibles d'un bug (pas d'ordre de sévérité défini, appartenance seulement)
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// ValidStatus vérifie qu'un statut fait partie des valeurs autorisées
func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed, StatusReopened:
		return true
	}
	return false
}

// ValidPriority vérifie qu'une priorité fait partie des valeurs autorisées
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type Bug struct {
	ID               string       `json:"id"` // format BUG-001, immuable
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Priority         string       `json:"priority"` // low, medium, high, critical
	Status           string       `json:"status"`   // open, in_progress, resolved, closed, reopened
	Assignee         *string      `json:"assignee,omitempty"`
	Reporter         string       `json:"reporter"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
	DueDate          *time.Time   `json:"dueDate,omitempty"`
	Tags             []string     `json:"tags"`
	Attachments      []Attachment `json:"attachments"`
	Comments         []Comment    `json:"comments"`
	Environment      *Environment `json:"environment,omitempty"`
	StepsToReproduce []string     `json:"stepsToReproduce,omitempty"`
	ExpectedBehavior *string      `json:"expectedBehavior,omitempty"`
	ActualBehavior   *string      `json:"actualBehavior,omitempty"`
}

type Comment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type Attachment struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
	URL      string `json:"url"`
}

type Environment struct {
	Platform string `json:"platform,omitempty"`
	Version  string `json:"version,omitempty"`
	Device   string `json:"device,omitempty"`
	Browser  string `json:"browser,omitempty"`
}

// DateRange est un intervalle inclusif [From, To] sur createdAt
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// BugFilters décrit les critères de recherche. Un champ absent ou vide
// signifie "aucune contrainte", jamais "aucun résultat".
type BugFilters struct {
	Statuses   []string   `json:"status,omitempty"`
	Priorities []string   `json:"priority,omitempty"`
	Assignees  []string   `json:"assignee,omitempty"`
	Reporters  []string   `json:"reporter,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
	DateRange  *DateRange `json:"dateRange,omitempty"`
	Query      string     `json:"query,omitempty"` // recherche plein texte sur titre/description/id/tags
}

// BugStats est un agrégat dérivé, recalculé à la demande, jamais stocké.
// Les catégories se recoupent (critical/high sont des priorités), la somme
// ne vaut donc pas forcément le total.
type BugStats struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"inProgress"`
	Resolved   int `json:"resolved"`
	Closed     int `json:"closed"`
	Critical   int `json:"critical"`
	High       int `json:"high"`
}

// BugFormData est le payload de création d'un bug
type BugFormData struct {
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Priority         string       `json:"priority,omitempty"`
	Status           string       `json:"status,omitempty"` // open par défaut
	Assignee         string       `json:"assignee,omitempty"`
	DueDate          *time.Time   `json:"dueDate,omitempty"`
	Tags             []string     `json:"tags,omitempty"`
	Environment      *Environment `json:"environment,omitempty"`
	StepsToReproduce []string     `json:"stepsToReproduce,omitempty"`
	ExpectedBehavior string       `json:"expectedBehavior,omitempty"`
	ActualBehavior   string       `json:"actualBehavior,omitempty"`
}

// BugPatch est une mise à jour partielle : un champ nil est laissé inchangé.
// id, createdAt et reporter ne sont jamais modifiables.
type BugPatch struct {
	Title            *string      `json:"title,omitempty"`
	Description      *string      `json:"description,omitempty"`
	Priority         *string      `json:"priority,omitempty"`
	Status           *string      `json:"status,omitempty"`
	Assignee         *string      `json:"assignee,omitempty"` // chaîne vide = désassigner
	DueDate          *time.Time   `json:"dueDate,omitempty"`
	Tags             *[]string    `json:"tags,omitempty"`
	Environment      *Environment `json:"environment,omitempty"`
	StepsToReproduce *[]string    `json:"stepsToReproduce,omitempty"`
	ExpectedBehavior *string      `json:"expectedBehavior,omitempty"`
	ActualBehavior   *string      `json:"actualBehavior,omitempty"`
}

type AddCommentRequest struct {
	Content string `json:"content"`
}
