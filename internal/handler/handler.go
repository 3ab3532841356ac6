package handler

import (
	"net/http"

	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/repository"
	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/utils"
)

// Handler regroupe les handlers HTTP autour du dépôt injecté (pas d'état
// global : chaque test construit son Handler avec son propre dépôt)
type Handler struct {
	repo repository.Repository
}

func New(repo repository.Repository) *Handler {
	return &Handler{repo: repo}
}

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.Message(w, "ok")
}
