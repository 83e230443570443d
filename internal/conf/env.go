package conf

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// envBinding holds metadata for environment variable bindings
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns all environment variable bindings with validation
func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", "URBANSOUND_DEBUG", validateEnvBool},

		// Dataset layout
		{"dataset.metadata", "URBANSOUND_METADATA", nil},
		{"dataset.audiodir", "URBANSOUND_AUDIODIR", nil},
		{"dataset.spectrogramdir", "URBANSOUND_SPECTROGRAMDIR", nil},

		// Model
		{"model.path", "URBANSOUND_MODELPATH", nil},
		{"model.labelpath", "URBANSOUND_LABELPATH", nil},
		{"model.threads", "URBANSOUND_THREADS", validateEnvThreads},
		{"model.usexnnpack", "URBANSOUND_USEXNNPACK", validateEnvBool},

		{"locator.mode", "URBANSOUND_LOCATOR_MODE", oneOf(LocatorModeIndex, LocatorModeProbe)},
		{"locator.indexttl", "URBANSOUND_LOCATOR_INDEXTTL", validateEnvDuration},

		{"output.format", "URBANSOUND_OUTPUT_FORMAT", oneOf(FormatTable, FormatJSON, FormatYAML)},
		{"output.topk", "URBANSOUND_TOPK", validateEnvTopK},

		{"logging.level", "URBANSOUND_LOG_LEVEL", oneOf(validLogLevels...)},
		{"logging.file", "URBANSOUND_LOG_FILE", nil},
		{"metrics.textfile", "URBANSOUND_METRICS_TEXTFILE", nil},
	}
}

// bindEnvVars binds every environment variable and validates the ones that are set
func bindEnvVars(v *viper.Viper) error {
	var warnings []string

	for _, binding := range getEnvBindings() {
		if err := v.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("Failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		if binding.Validate != nil {
			if envValue := os.Getenv(binding.EnvVar); envValue != "" {
				if err := binding.Validate(envValue); err != nil {
					warnings = append(warnings, fmt.Sprintf("Invalid %s value '%s': %v", binding.EnvVar, envValue, err))
				}
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}

	return nil
}

func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(value); err != nil {
		return fmt.Errorf("invalid boolean value '%s': must be true/false, 1/0, t/f", value)
	}
	return nil
}

func validateEnvThreads(value string) error {
	threads, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid threads: %w", err)
	}
	if threads < 0 {
		return fmt.Errorf("threads must be non-negative, got %d", threads)
	}
	return nil
}

func validateEnvTopK(value string) error {
	k, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid top k: %w", err)
	}
	if k < 0 {
		return fmt.Errorf("top k must be non-negative, got %d", k)
	}
	return nil
}

func validateEnvDuration(value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	if d < 0 {
		return fmt.Errorf("duration must be non-negative, got %s", d)
	}
	return nil
}

func oneOf(valid ...string) func(string) error {
	return func(value string) error {
		if slices.Contains(valid, strings.ToLower(value)) {
			return nil
		}
		return fmt.Errorf("must be one of: %s", strings.Join(valid, ", "))
	}
}

// configureEnvironmentVariables sets up environment variable support for Viper
func configureEnvironmentVariables(v *viper.Viper) error {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return bindEnvVars(v)
}
