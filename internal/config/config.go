package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Modes de stockage supportés
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Port    string
	Storage string // memory ou postgres

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// token -> "userId:displayName:email", parsé depuis API_TOKENS
	APITokens map[string]string

	// Latence simulée du backend mémoire (imite l'aller-retour réseau)
	SimulatedLatency time.Duration
}

// LoadConfig charge le fichier .env s'il existe puis lit les variables
// d'environnement. Les variables d'environnement ont priorité sur .env.
func LoadConfig() (*Config, error) {
	// Pas d'erreur si .env est absent : en production tout vient de l'env
	_ = godotenv.Load()

	cfg := &Config{
		Port:       getEnv("PORT", "8080"),
		Storage:    getEnv("STORAGE", StorageMemory),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "bugtracker"),
		APITokens:  parseAPITokens(os.Getenv("API_TOKENS")),
	}

	latencyMs, err := strconv.Atoi(getEnv("SIMULATED_LATENCY_MS", "300"))
	if err != nil {
		return nil, fmt.Errorf("SIMULATED_LATENCY_MS invalide: %w", err)
	}
	cfg.SimulatedLatency = time.Duration(latencyMs) * time.Millisecond

	if cfg.Storage != StorageMemory && cfg.Storage != StoragePostgres {
		return nil, fmt.Errorf("STORAGE invalide: %q (attendu memory ou postgres)", cfg.Storage)
	}

	return cfg, nil
}

// parseAPITokens parse "token=id:nom:email;token2=id2:nom2:email2"
func parseAPITokens(raw string) map[string]string {
	tokens := make(map[string]string)
	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			continue
		}
		tokens[parts[0]] = parts[1]
	}
	return tokens
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
