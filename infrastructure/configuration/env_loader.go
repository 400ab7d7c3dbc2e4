package configuration

import (
	"os"

	"github.com/subosito/gotenv"
	"review-enhancer/infrastructure/logger"
)

// LoadEnvFromFile loads KEY=VALUE files such as config.env and .env.
// Missing files are skipped and existing variables are not overridden.
func LoadEnvFromFile(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			logger.GetLogger().WithField("file", p).Debug("env file not found")
			continue
		}
		if err := gotenv.Load(p); err != nil {
			logger.GetLogger().WithField("file", p).WithField("error", err).Warn("failed loading env file")
			continue
		}
		logger.GetLogger().WithField("file", p).Info("Loaded env file")
	}
}

// Reload re-applies environment overrides after LoadEnvFromFile.
func Reload() {
	initDatabase(&C)
	initApp(&C)
	initCafe24(&C)
	initStorage(&C)
}
