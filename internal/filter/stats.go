package filter

import model "github.com/anirudh-pedro/Bug-Tracker-sub001/internal/models"

// ComputeStats calcule les compteurs du dashboard en une seule passe.
// Réduction pure : pas de cache, recalculée à chaque lecture.
func ComputeStats(bugs []model.Bug) model.BugStats {
	stats := model.BugStats{Total: len(bugs)}

	for _, bug := range bugs {
		switch bug.Status {
		case model.StatusOpen:
			stats.Open++
		case model.StatusInProgress:
			stats.InProgress++
		case model.StatusResolved:
			stats.Resolved++
		case model.StatusClosed:
			stats.Closed++
		}

		switch bug.Priority {
		case model.PriorityCritical:
			stats.Critical++
		case model.PriorityHigh:
			stats.High++
		}
	}

	return stats
}
