package analysis

import (
	"github.com/mmatsuo0/qlp/internal/conf"
	"github.com/mmatsuo0/qlp/internal/logger"
)

// NewLogger builds the central logger from the main.log settings: text on
// stderr and, when a path is set, JSON lines appended to that file. Debug
// lowers the level to debug unless trace is already configured.
func NewLogger(settings *conf.Settings) (*logger.CentralLogger, error) {
	level := settings.Main.Log.Level
	if settings.Debug && level != string(logger.LogLevelTrace) {
		level = string(logger.LogLevelDebug)
	}

	cfg := &logger.LoggingConfig{
		DefaultLevel: level,
		Timezone:     settings.Main.Log.Timezone,
		Console:      &logger.ConsoleOutput{Enabled: true, Level: level},
	}
	if settings.Main.Log.Path != "" {
		cfg.FileOutput = &logger.FileOutput{
			Enabled: true,
			Path:    settings.Main.Log.Path,
			Level:   level,
		}
	}
	return logger.NewCentralLogger(cfg)
}
