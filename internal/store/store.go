// Package store est le conteneur d'état côté client : la collection de bugs
// chargée, les filtres actifs et les drapeaux loading/error que les écrans
// consomment. Toute transition passe par les méthodes du Store ; personne ne
// mutile la slice interne directement.
package store

import (
	"context"
	"sync"

	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/filter"
	model "github.com/anirudh-pedro/Bug-Tracker-sub001/internal/models"
	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/repository"
)

// Store garde une copie cache de la collection ; le dépôt reste propriétaire
// de la collection canonique. Deux opérations concurrentes ne sont pas
// sérialisées : la dernière réponse arrivée gagne (comportement assumé,
// identique à l'app mobile ; les appelants évitent les mutations croisées).
type Store struct {
	mu      sync.RWMutex
	repo    repository.Repository
	bugs    []model.Bug
	loading bool
	err     string
	filters model.BugFilters

	subscribers []func()
}

func New(repo repository.Repository) *Store {
	return &Store{repo: repo}
}

// Subscribe enregistre un callback appelé après chaque changement d'état.
// Pas de désabonnement : la durée de vie des abonnés est celle du Store.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) notify() {
	for _, fn := range s.subscribers {
		fn()
	}
}

// Bugs retourne une copie de la collection cache
func (s *Store) Bugs() []model.Bug {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Bug{}, s.bugs...)
}

// Loading indique si une opération asynchrone est en cours
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err retourne le dernier message d'erreur, chaîne vide si tout va bien
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Filters retourne les filtres actifs
func (s *Store) Filters() model.BugFilters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

// fail enregistre le message d'erreur sans toucher à la collection
func (s *Store) fail(msg string) {
	s.mu.Lock()
	s.loading = false
	s.err = msg
	s.mu.Unlock()
	s.notify()
}

// LoadBugs recharge la collection depuis le dépôt avec les filtres actifs
// (filtrage côté serveur). En cas d'échec la collection précédente est
// conservée telle quelle.
func (s *Store) LoadBugs(ctx context.Context) error {
	s.begin()

	s.mu.RLock()
	filters := s.filters
	s.mu.RUnlock()

	bugs, err := s.repo.List(ctx, &filters)
	if err != nil {
		s.fail("impossible de charger les bugs")
		return err
	}

	s.mu.Lock()
	s.bugs = bugs
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return nil
}

// CreateBug crée un bug et l'insère en tête de la collection (élément le
// plus récent en premier). Retourne nil en cas d'échec, l'erreur est dans Err.
func (s *Store) CreateBug(ctx context.Context, form model.BugFormData, reporterID string) (*model.Bug, error) {
	s.begin()

	bug, err := s.repo.Create(ctx, form, reporterID)
	if err != nil {
		s.fail("impossible de créer le bug")
		return nil, err
	}

	s.mu.Lock()
	s.bugs = append([]model.Bug{*bug}, s.bugs...)
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return bug, nil
}

// UpdateBug applique un patch et remplace l'élément correspondant sur place
// (ordre de la collection conservé). Un id inconnu retourne nil sans poser
// d'erreur : "pas trouvé" n'est pas un échec.
func (s *Store) UpdateBug(ctx context.Context, id string, patch model.BugPatch) (*model.Bug, error) {
	s.begin()

	bug, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		s.fail("impossible de mettre à jour le bug")
		return nil, err
	}

	s.mu.Lock()
	if bug != nil {
		for i := range s.bugs {
			if s.bugs[i].ID == id {
				s.bugs[i] = *bug
				break
			}
		}
	}
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return bug, nil
}

// DeleteBug supprime le bug du dépôt puis de la collection cache
func (s *Store) DeleteBug(ctx context.Context, id string) (bool, error) {
	s.begin()

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.fail("impossible de supprimer le bug")
		return false, err
	}

	s.mu.Lock()
	if deleted {
		for i := range s.bugs {
			if s.bugs[i].ID == id {
				s.bugs = append(s.bugs[:i], s.bugs[i+1:]...)
				break
			}
		}
	}
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return deleted, nil
}

// SearchBugs remplace la collection cache par le résultat de la recherche.
// Remplacement destructif conservé volontairement : l'écran de recherche de
// l'app s'appuie dessus, et un LoadBugs suivant restaure la collection
// complète.
func (s *Store) SearchBugs(ctx context.Context, query string) error {
	s.begin()

	bugs, err := s.repo.Search(ctx, query)
	if err != nil {
		s.fail("recherche impossible")
		return err
	}

	s.mu.Lock()
	s.bugs = bugs
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return nil
}

// AddComment ajoute un commentaire puis rafraîchit l'élément concerné dans
// la collection cache
func (s *Store) AddComment(ctx context.Context, bugID, content, authorID string) (bool, error) {
	s.begin()

	ok, err := s.repo.AddComment(ctx, bugID, content, authorID)
	if err != nil {
		s.fail("impossible d'ajouter le commentaire")
		return false, err
	}

	if ok {
		if bug, err := s.repo.GetByID(ctx, bugID); err == nil && bug != nil {
			s.mu.Lock()
			for i := range s.bugs {
				if s.bugs[i].ID == bugID {
					s.bugs[i] = *bug
					break
				}
			}
			s.mu.Unlock()
		}
	}

	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return ok, nil
}

// SetFilters enregistre les nouveaux filtres et recharge immédiatement : les
// filtres ne prennent effet qu'une fois le rechargement terminé
func (s *Store) SetFilters(ctx context.Context, filters model.BugFilters) error {
	s.mu.Lock()
	s.filters = filters
	s.mu.Unlock()
	s.notify()

	return s.LoadBugs(ctx)
}

// GetStats calcule les statistiques du dashboard sur la collection cache.
// Lecture pure, recalculée à chaque appel.
func (s *Store) GetStats() model.BugStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter.ComputeStats(s.bugs)
}

// GetFilteredBugs filtre la collection cache côté client avec les filtres
// actifs. Chemin distinct du filtrage serveur de LoadBugs : les deux existent
// dans l'app et sont conservés séparément. La collection serveur fait foi
// après un rechargement ; cette vue sert entre deux rechargements.
func (s *Store) GetFilteredBugs() []model.Bug {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter.Apply(s.bugs, s.filters)
}
