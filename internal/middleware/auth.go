package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/identity"
	model "github.com/anirudh-pedro/Bug-Tracker-sub001/internal/models"
	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/utils"
)

// Context keys
type contextKey string

const userContextKey = contextKey("user")

// AuthMiddleware valide le token et injecte l'utilisateur dans le contexte.
// Le provider est injecté : le backend ne sait pas comment l'authentification
// a eu lieu, il ne voit que le triplet id / nom / email.
func AuthMiddleware(provider identity.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				utils.ErrorSimple(w, http.StatusUnauthorized, "missing authorization token")
				return
			}

			user, err := provider.Verify(r.Context(), token)
			if err != nil {
				utils.ErrorSimple(w, http.StatusUnauthorized, fmt.Sprintf("invalid token: %v", err))
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, *user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth injecte l'utilisateur si un token valide est présent, mais
// laisse passer les requêtes anonymes (routes publiques de lecture)
func OptionalAuth(provider identity.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r); token != "" {
				if user, err := provider.Verify(r.Context(), token); err == nil {
					ctx := context.WithValue(r.Context(), userContextKey, *user)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extrait le token du header Authorization, avec ou sans le
// préfixe "Bearer " (l'app mobile envoie les deux formes selon les versions)
func bearerToken(r *http.Request) string {
	token := r.Header.Get("Authorization")
	return strings.TrimPrefix(token, "Bearer ")
}

// GetUserFromContext récupère l'utilisateur depuis le contexte de la requête
func GetUserFromContext(r *http.Request) (model.UserProfile, error) {
	user, ok := r.Context().Value(userContextKey).(model.UserProfile)
	if !ok {
		return model.UserProfile{}, fmt.Errorf("user not found in context")
	}
	return user, nil
}
