package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/filter"
	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/middleware"
	model "github.com/anirudh-pedro/Bug-Tracker-sub001/internal/models"
	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/utils"
)

// CreateBug crée un nouveau bug. Le reporter est l'utilisateur authentifié.
func (h *Handler) CreateBug(w http.ResponseWriter, r *http.Request) {
	var req model.BugFormData
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "JSON invalide", err)
		return
	}

	// Validation : elle appartient à cette couche, jamais au dépôt
	if req.Title == "" || req.Description == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "titre et description requis")
		return
	}
	if req.Priority == "" {
		req.Priority = model.PriorityMedium
	}
	if !model.ValidPriority(req.Priority) {
		utils.ErrorSimple(w, http.StatusBadRequest, "priorité invalide")
		return
	}
	if req.Status != "" && !model.ValidStatus(req.Status) {
		utils.ErrorSimple(w, http.StatusBadRequest, "statut invalide")
		return
	}

	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "authentification requise", err)
		return
	}

	bug, err := h.repo.Create(r.Context(), req, user.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "impossible de créer le bug", err)
		return
	}

	utils.Created(w, bug)
}

// GetBugs récupère les bugs avec filtres optionnels (filtrage côté serveur),
// triés du plus récemment modifié au plus ancien
func (h *Handler) GetBugs(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "filtres invalides", err)
		return
	}

	bugs, err := h.repo.List(r.Context(), filters)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "impossible de récupérer les bugs", err)
		return
	}

	utils.Success(w, bugs)
}

// GetBugById récupère un bug par son ID
func (h *Handler) GetBugById(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	bug, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "impossible de récupérer le bug", err)
		return
	}
	if bug == nil {
		utils.ErrorSimple(w, http.StatusNotFound, "bug introuvable")
		return
	}

	utils.Success(w, bug)
}

// UpdateBug applique une mise à jour partielle : seuls les champs présents
// dans le corps sont modifiés
func (h *Handler) UpdateBug(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	var patch model.BugPatch
	if err := utils.DecodeJSON(r, &patch); err != nil {
		utils.Error(w, http.StatusBadRequest, "JSON invalide", err)
		return
	}

	if patch.Status != nil && !model.ValidStatus(*patch.Status) {
		utils.ErrorSimple(w, http.StatusBadRequest, "statut invalide")
		return
	}
	if patch.Priority != nil && !model.ValidPriority(*patch.Priority) {
		utils.ErrorSimple(w, http.StatusBadRequest, "priorité invalide")
		return
	}
	if patch.Title != nil && *patch.Title == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "le titre ne peut pas être vide")
		return
	}

	bug, err := h.repo.Update(r.Context(), id, patch)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "impossible de mettre à jour le bug", err)
		return
	}
	if bug == nil {
		utils.ErrorSimple(w, http.StatusNotFound, "bug introuvable")
		return
	}

	utils.Success(w, bug)
}

// DeleteBug supprime un bug (suppression définitive, pas de corbeille)
func (h *Handler) DeleteBug(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	deleted, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "impossible de supprimer le bug", err)
		return
	}
	if !deleted {
		utils.ErrorSimple(w, http.StatusNotFound, "bug introuvable")
		return
	}

	utils.Success(w, map[string]bool{"success": true})
}

// SearchBugs recherche par sous-chaîne insensible à la casse sur le titre,
// la description, l'id et les tags. Une requête vide renvoie tout.
func (h *Handler) SearchBugs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	bugs, err := h.repo.Search(r.Context(), query)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "recherche impossible", err)
		return
	}

	utils.Success(w, bugs)
}

// AddComment ajoute un commentaire au bug ; l'auteur est l'utilisateur
// authentifié
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	var req model.AddCommentRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "JSON invalide", err)
		return
	}
	if req.Content == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "contenu requis")
		return
	}

	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "authentification requise", err)
		return
	}

	ok, err := h.repo.AddComment(r.Context(), id, req.Content, user.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "impossible d'ajouter le commentaire", err)
		return
	}
	if !ok {
		utils.ErrorSimple(w, http.StatusNotFound, "bug introuvable")
		return
	}

	utils.Success(w, map[string]bool{"success": true})
}

// statsProvider est implémenté par les backends capables d'agréger côté
// stockage (Postgres fait les COUNT FILTER en une requête)
type statsProvider interface {
	Stats(ctx context.Context) (model.BugStats, error)
}

// GetBugStats récupère les statistiques du dashboard
func (h *Handler) GetBugStats(w http.ResponseWriter, r *http.Request) {
	// Backend Postgres : agrégation en une requête ; sinon réduction pure
	// sur la collection complète
	if sp, ok := h.repo.(statsProvider); ok {
		stats, err := sp.Stats(r.Context())
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "impossible de récupérer les statistiques", err)
			return
		}
		utils.Success(w, stats)
		return
	}

	bugs, err := h.repo.List(r.Context(), nil)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "impossible de récupérer les statistiques", err)
		return
	}

	utils.Success(w, filter.ComputeStats(bugs))
}

// parseFilters construit un BugFilters depuis les paramètres de requête.
// Tous les paramètres sont répétables sauf from/to/q.
func parseFilters(r *http.Request) (*model.BugFilters, error) {
	q := r.URL.Query()

	filters := &model.BugFilters{
		Statuses:   q["status"],
		Priorities: q["priority"],
		Assignees:  q["assignee"],
		Reporters:  q["reporter"],
		Tags:       q["tag"],
		Query:      q.Get("q"),
	}

	from := q.Get("from")
	to := q.Get("to")
	if from != "" && to != "" {
		fromTime, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return nil, err
		}
		toTime, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return nil, err
		}
		filters.DateRange = &model.DateRange{From: fromTime, To: toTime}
	}

	return filters, nil
}
