package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	Port                   string
	MaxTeams               int
	MaxTeamMembers         int
	TimeLimitSeconds       int
	RoundsCount            int
	LockWaitSeconds        int
	GenerateTimeoutSeconds int
	OpenAIAPIKey           string
	OpenAIImageModel       string
}

func Default() Config {
	return Config{
		Port:                   "8080",
		MaxTeams:               5,
		MaxTeamMembers:         5,
		TimeLimitSeconds:       60,
		RoundsCount:            5,
		LockWaitSeconds:        2,
		GenerateTimeoutSeconds: 30,
		OpenAIImageModel:       "gpt-image-1",
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("PORT"); raw != "" {
		cfg.Port = raw
	}
	cfg.MaxTeams = intEnv("MAX_TEAMS", cfg.MaxTeams)
	cfg.MaxTeamMembers = intEnv("MAX_TEAM_MEMBERS", cfg.MaxTeamMembers)
	cfg.TimeLimitSeconds = intEnv("TIME_LIMIT_SECONDS", cfg.TimeLimitSeconds)
	cfg.RoundsCount = intEnv("ROUNDS_COUNT", cfg.RoundsCount)
	cfg.LockWaitSeconds = intEnv("LOCK_WAIT_SECONDS", cfg.LockWaitSeconds)
	cfg.GenerateTimeoutSeconds = intEnv("GENERATE_TIMEOUT_SECONDS", cfg.GenerateTimeoutSeconds)
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	if raw := os.Getenv("OPENAI_IMAGE_MODEL"); raw != "" {
		cfg.OpenAIImageModel = raw
	}
	return cfg
}

func intEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
