package handler

import (
	"net/http"

	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/utils"
)

// RootHandler affiche toutes les routes disponibles de l'API
func RootHandler(w http.ResponseWriter, r *http.Request) {
	routes := map[string]interface{}{
		"name":    "Bug Tracker API",
		"version": "1.0.0",
		"status":  "running",
		"routes": map[string]interface{}{
			"bugs": []map[string]string{
				{"method": "GET", "path": "/api/bugs", "description": "Récupérer les bugs (params: status, priority, assignee, reporter, tag, from, to, q)"},
				{"method": "POST", "path": "/api/bugs", "description": "Créer un bug (auth requise)"},
				{"method": "GET", "path": "/api/bugs/search", "description": "Recherche plein texte (param: q)"},
				{"method": "GET", "path": "/api/bugs/stats", "description": "Statistiques du dashboard"},
				{"method": "GET", "path": "/api/bugs/{id}", "description": "Récupérer un bug par ID"},
				{"method": "PATCH", "path": "/api/bugs/{id}", "description": "Mise à jour partielle d'un bug (auth requise)"},
				{"method": "DELETE", "path": "/api/bugs/{id}", "description": "Supprimer un bug (auth requise)"},
				{"method": "POST", "path": "/api/bugs/{id}/comments", "description": "Ajouter un commentaire (auth requise)"},
			},
			"health": []map[string]string{
				{"method": "GET", "path": "/health", "description": "Health check de l'API"},
			},
		},
		"documentation": map[string]string{
			"description": "API REST pour le suivi des bugs de l'app mobile",
		},
	}

	utils.Success(w, routes)
}
