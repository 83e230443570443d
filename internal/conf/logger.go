package conf

import "github.com/tphakala/urbansound-go/internal/logger"

// GetLogger returns the config package logger scoped to the config module.
// The logger is fetched from the global logger each time so it picks up the
// central logger installed after settings are loaded.
func GetLogger() logger.Logger {
	return logger.Global().Module("config")
}

// LoggingConfig converts the logging settings into a logger configuration.
// Debug raises the default level to debug. Handlers accept every level,
// module levels do the filtering.
func (s *Settings) LoggingConfig() *logger.LoggingConfig {
	level := s.Logging.Level
	if s.Debug {
		level = string(logger.LogLevelDebug)
	}

	cfg := &logger.LoggingConfig{
		DefaultLevel: level,
		Timezone:     "Local",
		Console:      &logger.ConsoleOutput{Enabled: true, Level: string(logger.LogLevelTrace)},
		ModuleLevels: s.Logging.ModuleLevels,
	}
	if s.Logging.File != "" {
		cfg.FileOutput = &logger.FileOutput{Enabled: true, Path: s.Logging.File, Level: string(logger.LogLevelTrace)}
	}
	return cfg
}
