// Package filter contient les fonctions pures de filtrage et de recherche
// sur une collection de bugs. Aucune mutation, aucun état : les écrans
// (liste, recherche, dashboard) recalculent leurs vues à la demande.
package filter

import (
	"strings"

	model "github.com/anirudh-pedro/Bug-Tracker-sub001/internal/models"
)

// Apply applique les critères dans un ordre fixe, chaque étape réduisant le
// résultat de la précédente (ET entre étapes, OU à l'intérieur d'une étape).
// Un champ absent ou vide ne contraint rien. L'ordre de la collection n'est
// jamais modifié ; le résultat vide est une slice vide, pas une erreur.
func Apply(bugs []model.Bug, f model.BugFilters) []model.Bug {
	result := make([]model.Bug, 0, len(bugs))

	for _, bug := range bugs {
		if len(f.Statuses) > 0 && !contains(f.Statuses, bug.Status) {
			continue
		}

		if len(f.Priorities) > 0 && !contains(f.Priorities, bug.Priority) {
			continue
		}

		// Un bug sans assignee est exclu dès que le filtre assignee est actif
		if len(f.Assignees) > 0 {
			if bug.Assignee == nil || !contains(f.Assignees, *bug.Assignee) {
				continue
			}
		}

		if len(f.Reporters) > 0 && !contains(f.Reporters, bug.Reporter) {
			continue
		}

		// Tags : au moins un tag en commun suffit (OU, pas ET)
		if len(f.Tags) > 0 && !intersects(bug.Tags, f.Tags) {
			continue
		}

		// Intervalle inclusif sur createdAt
		if f.DateRange != nil {
			if bug.CreatedAt.Before(f.DateRange.From) || bug.CreatedAt.After(f.DateRange.To) {
				continue
			}
		}

		if q := strings.TrimSpace(f.Query); q != "" && !MatchesQuery(bug, q) {
			continue
		}

		result = append(result, bug)
	}

	return result
}

// MatchesQuery teste si la requête (insensible à la casse) est une sous-chaîne
// du titre, de la description, de l'id ou d'un des tags du bug.
func MatchesQuery(bug model.Bug, query string) bool {
	q := strings.ToLower(query)

	if strings.Contains(strings.ToLower(bug.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(bug.Description), q) {
		return true
	}
	if strings.Contains(strings.ToLower(bug.ID), q) {
		return true
	}
	for _, tag := range bug.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Search filtre par requête plein texte seule, dans l'ordre de la collection.
// Une requête vide ou blanche matche tout (la chaîne vide est une sous-chaîne
// de n'importe quoi), comportement attendu par l'app mobile.
func Search(bugs []model.Bug, query string) []model.Bug {
	result := make([]model.Bug, 0, len(bugs))
	q := strings.TrimSpace(query)

	for _, bug := range bugs {
		if q == "" || MatchesQuery(bug, q) {
			result = append(result, bug)
		}
	}

	return result
}

func contains(values []string, v string) bool {
	for _, val := range values {
		if val == v {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, x := range a {
		if contains(b, x) {
			return true
		}
	}
	return false
}
