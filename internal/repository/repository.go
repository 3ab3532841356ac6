// Package repository expose la façade de stockage des bugs. Trois backends
// implémentent la même interface : mémoire (latence simulée, comportement de
// référence), Postgres, et un client HTTP vers l'API REST. Le reste du code
// ne dépend que de l'interface et peut changer de backend sans modification.
package repository

import (
	"context"
	"errors"

	model "github.com/anirudh-pedro/Bug-Tracker-sub001/internal/models"
)

// ErrTransient marque les échecs réseau / base de données susceptibles de
// réussir en réessayant. À distinguer de l'absence d'un enregistrement, qui
// n'est jamais une erreur (nil ou false selon l'opération).
var ErrTransient = errors.New("transient storage error")

// IsTransient indique si err est un échec transitoire (réseau, timeout, 5xx)
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

// Repository est la façade CRUD + recherche sur la collection de bugs.
//
// Contrats communs à tous les backends :
//   - List trie par updatedAt décroissant (le plus récemment modifié en tête)
//   - GetByID / Update renvoient (nil, nil) quand l'id n'existe pas
//   - Delete / AddComment renvoient false quand l'id n'existe pas
//   - Search conserve l'ordre de la collection et matche tout sur requête vide
//   - aucune validation ici : elle appartient à la couche au-dessus
type Repository interface {
	List(ctx context.Context, filters *model.BugFilters) ([]model.Bug, error)
	GetByID(ctx context.Context, id string) (*model.Bug, error)
	Create(ctx context.Context, form model.BugFormData, reporterID string) (*model.Bug, error)
	Update(ctx context.Context, id string, patch model.BugPatch) (*model.Bug, error)
	Delete(ctx context.Context, id string) (bool, error)
	Search(ctx context.Context, query string) ([]model.Bug, error)
	AddComment(ctx context.Context, bugID, content, authorID string) (bool, error)
}
