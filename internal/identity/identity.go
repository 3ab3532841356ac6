// Package identity abstrait le fournisseur d'authentification. Le vrai
// provider (Google Sign-In via Firebase) vit côté mobile ; le backend ne voit
// qu'un token opaque et le triplet id / nom / email qui en résulte.
package identity

import (
	"context"
	"fmt"
	"strings"

	model "github.com/anirudh-pedro/Bug-Tracker-sub001/internal/models"
)

// Provider valide un token porteur et retourne l'identité associée
type Provider interface {
	Verify(ctx context.Context, token string) (*model.UserProfile, error)
}

// StaticProvider valide les tokens déclarés dans la configuration
// (API_TOKENS). Suffisant pour le développement et les tests ; remplacé par
// un vrai provider en production sans toucher au reste du code.
type StaticProvider struct {
	users map[string]model.UserProfile
}

// NewStaticProvider construit le provider depuis la map token -> "id:nom:email"
func NewStaticProvider(tokens map[string]string) *StaticProvider {
	users := make(map[string]model.UserProfile, len(tokens))
	for token, raw := range tokens {
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) != 3 {
			continue
		}
		users[token] = model.UserProfile{
			ID:          parts[0],
			DisplayName: parts[1],
			Email:       parts[2],
		}
	}
	return &StaticProvider{users: users}
}

func (p *StaticProvider) Verify(ctx context.Context, token string) (*model.UserProfile, error) {
	user, ok := p.users[token]
	if !ok {
		return nil, fmt.Errorf("token not found or expired")
	}
	return &user, nil
}
