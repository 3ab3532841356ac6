package api

import (
	"net/http"

	"github.com/fatih/color"
	"github.com/gorilla/mux"

	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/handler"
	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/identity"
	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/middleware"
	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/repository"
	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/utils"
)

// SetupRouter câble les routes sur le dépôt et le provider d'identité
// injectés. Lecture publique, écriture derrière authentification.
func SetupRouter(repo repository.Repository, provider identity.Provider) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.OptionalAuth(provider))

	h := handler.New(repo)

	authenticatedRoutes := r.PathPrefix("/").Subrouter()
	authenticatedRoutes.Use(middleware.AuthMiddleware(provider))
	authenticatedRoutes.Use(middleware.LoggerMiddleware)

	// Root - API documentation
	r.HandleFunc("/", handler.RootHandler).Methods(http.MethodGet)

	// Bugs
	r.HandleFunc("/api/bugs", h.GetBugs).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/api/bugs", h.CreateBug).Methods(http.MethodPost)
	// /search et /stats avant /{id} pour que mux ne les avale pas comme ids
	r.HandleFunc("/api/bugs/search", h.SearchBugs).Methods(http.MethodGet)
	r.HandleFunc("/api/bugs/stats", h.GetBugStats).Methods(http.MethodGet)
	r.HandleFunc("/api/bugs/{id}", h.GetBugById).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/api/bugs/{id}", h.UpdateBug).Methods(http.MethodPut, http.MethodPatch)
	authenticatedRoutes.HandleFunc("/api/bugs/{id}", h.DeleteBug).Methods(http.MethodDelete)
	authenticatedRoutes.HandleFunc("/api/bugs/{id}/comments", h.AddComment).Methods(http.MethodPost)

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.LogError("404 Not Found: %s %s", r.Method, r.URL.Path)
		color.Yellow("[404] %s %s (route non trouvée)", r.Method, r.URL.Path)
		http.Error(w, "Route not found", http.StatusNotFound)
	})

	return r
}
