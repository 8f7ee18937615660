// Package config loads the run's Config from environment variables,
// following the getEnv/getEnvInt/getEnvFloat family the teacher's
// cmd/worker/main.go uses. The one-shot CLI entrypoint in
// cmd/silencecutter, which the teacher (a queue worker) never had,
// applies its pflag overrides on top of the result.
package config

import (
	"os"
	"strconv"

	"github.com/alexstoesslein/silence-cutter/internal/model"
)

// FromEnv loads defaults overridden by environment variables.
func FromEnv() model.Config {
	cfg := model.DefaultConfig()

	cfg.NoiseThresholdDB = getEnvInt("NOISE_THRESHOLD_DB", cfg.NoiseThresholdDB)
	cfg.MinSilenceS = getEnvFloat("MIN_SILENCE_S", cfg.MinSilenceS)
	cfg.MinSpeechS = getEnvFloat("MIN_SPEECH_S", cfg.MinSpeechS)
	cfg.PaddingS = getEnvFloat("PADDING_S", cfg.PaddingS)
	cfg.TranscriptionModel = getEnv("TRANSCRIPTION_MODEL", cfg.TranscriptionModel)
	cfg.TranscriptionLanguage = getEnv("TRANSCRIPTION_LANGUAGE", cfg.TranscriptionLanguage)
	cfg.SimilarityThreshold = getEnvFloat("SIMILARITY_THRESHOLD", cfg.SimilarityThreshold)
	cfg.FPS = getEnvInt("FPS", cfg.FPS)

	cfg.TempDir = getEnv("TEMP_DIR", cfg.TempDir)
	cfg.SpeechEngineURL = getEnv("SPEECH_ENGINE_URL", "http://localhost:8081")
	cfg.OracleURL = getEnv("ORACLE_URL", "http://localhost:8082")
	cfg.OracleAPIKey = getEnv("ORACLE_API_KEY", "")

	cfg.RedisURL = getEnv("REDIS_URL", "")
	cfg.AuditPostgresURL = getEnv("AUDIT_POSTGRES_URL", "")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
