// Command dbcheck verifies connectivity to the database and the
// medical_specialties reference table. It exits nonzero when required
// environment configuration is absent or the check fails.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"medicos-platform-server/internal/config"
	"medicos-platform-server/internal/models"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		logger.Debug().Err(err).Msg("no .env file loaded")
	}

	missing := false
	for _, key := range []string{"DB_USERNAME", "DB_NAME"} {
		if _, ok := os.LookupEnv(key); !ok {
			logger.Error().Str("variable", key).Msg("missing required environment variable")
			missing = true
		}
	}
	if missing {
		logger.Error().Msg("please set DB_USERNAME and DB_NAME (and DB_HOST/DB_PORT/DB_PASSWORD as needed) in the environment or .env")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error().Err(err).Msg("failed to load config")
		os.Exit(1)
	}

	logger.Info().Str("host", cfg.Database.Host).Str("database", cfg.Database.Name).
		Msg("attempting to connect to database")

	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		logger.Error().Err(err).Msg("connection failed")
		os.Exit(1)
	}

	var count int64
	if err := db.Model(&models.MedicalSpecialty{}).Where("is_active = ?", true).Count(&count).Error; err != nil {
		logger.Error().Err(err).Msg("failed to query medical_specialties")
		os.Exit(1)
	}

	if count == 0 {
		logger.Warn().Msg("connected, but the medical_specialties table has no active rows; seed the reference data")
	} else {
		logger.Info().Int64("active_specialties", count).Msg("connection successful")
	}
}
