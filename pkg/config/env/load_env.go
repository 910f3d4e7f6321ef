package env

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads a .env file from ENV_PATH, falling back to
// defaultPath. A missing file is fatal only in local mode; deployed
// environments inject their variables directly.
func LoadDotEnv(env string, defaultPath string) error {
	envPath := os.Getenv("ENV_PATH")
	if envPath == "" {
		slog.Info("ENV_PATH not set, using default path", "path", defaultPath)
		envPath = defaultPath
	}

	if err := godotenv.Load(envPath); err != nil {
		if env == "local" || env == "" {
			slog.Error("failed to load .env file in local mode", "error", err)
			return err
		}
		slog.Debug("no .env file, relying on the environment")
	}

	return nil
}
