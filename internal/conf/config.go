// Package conf loads urbansound settings from config.yaml, environment
// variables and command line flags.
package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tphakala/urbansound-go/internal/errors"
	"github.com/tphakala/urbansound-go/internal/logger"
)

// Settings is the root of the configuration tree
type Settings struct {
	Debug bool // true to enable debug logging for every module

	Dataset DatasetSettings
	Catalog CatalogSettings
	Model   ModelSettings
	Locator LocatorSettings
	Output  OutputSettings
	Logging LoggingSettings
	Metrics MetricsSettings

	// ConfigFile is the config file that was read, empty when running on defaults
	ConfigFile string `mapstructure:"-"`
}

// DatasetSettings locates the UrbanSound8K assets on disk
type DatasetSettings struct {
	Metadata          string // CSV listing one spectrogram path per row
	AudioDir          string // root of the fold shards holding the audio clips
	SpectrogramDir    string // flat directory of .npy spectrograms
	SpectrogramColumn string // CSV column holding the spectrogram path
	AudioExt          string // extension substituted for .npy to name the audio file
}

// CatalogSettings controls how the metadata catalog treats its rows
type CatalogSettings struct {
	Duplicates string // first or reject
}

// ModelSettings configures the classifier
type ModelSettings struct {
	Path       string // TFLite model file
	LabelPath  string // optional label override, one label per line
	Threads    int    // 0 selects a count from the detected CPU
	UseXNNPACK bool
}

// LocatorSettings configures audio file lookup
type LocatorSettings struct {
	Mode     string        // index or probe
	IndexTTL time.Duration // lifetime of a cached index, 0 keeps it until invalidated
	Watch    bool          // invalidate the index when the audio tree changes
}

// OutputSettings controls command output
type OutputSettings struct {
	Format string // table, json or yaml
	TopK   int    // classes shown per prediction, 0 shows all
}

// LoggingSettings maps onto logger.LoggingConfig
type LoggingSettings struct {
	Level        string
	File         string // empty disables file output
	ModuleLevels map[string]string
}

// MetricsSettings configures the Prometheus textfile export
type MetricsSettings struct {
	Textfile string // written at exit when set
}

// LoadOptions customizes Load
type LoadOptions struct {
	// ConfigFile is an explicit config path, it must exist when set
	ConfigFile string
	// SearchPaths overrides the default config search directories
	SearchPaths []string
	// Flags are bound onto their configuration keys when present
	Flags *pflag.FlagSet
}

// Load builds Settings from defaults, config file, environment and flags, in
// increasing order of precedence. Any failure is fatal for startup.
func Load(opts LoadOptions) (*Settings, error) {
	v := viper.New()
	setDefaultConfig(v)

	if err := initViper(v, opts); err != nil {
		return nil, err
	}

	if err := configureEnvironmentVariables(v); err != nil {
		return nil, errors.New(err).
			Component("configuration").
			Category(errors.CategoryConfiguration).
			Fatal().
			Build()
	}

	if opts.Flags != nil {
		if err := bindFlags(v, opts.Flags); err != nil {
			return nil, errors.New(err).
				Component("configuration").
				Category(errors.CategoryConfiguration).
				Fatal().
				Build()
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, errors.New(fmt.Errorf("error unmarshaling config into struct: %w", err)).
			Component("configuration").
			Category(errors.CategoryConfiguration).
			Fatal().
			Build()
	}
	settings.ConfigFile = v.ConfigFileUsed()

	resolveRelativePaths(settings)

	if err := ValidateSettings(settings); err != nil {
		return nil, errors.New(err).
			Component("configuration").
			Category(errors.CategoryValidation).
			Fatal().
			Context("config_file", settings.ConfigFile).
			Build()
	}

	GetLogger().Debug("Settings loaded",
		logger.String("config_file", settings.ConfigFile),
		logger.String("metadata", settings.Dataset.Metadata),
		logger.String("model", settings.Model.Path))

	return settings, nil
}

// initViper points viper at the config file. A missing file in the search
// paths is not an error, an explicit one is.
func initViper(v *viper.Viper, opts LoadOptions) error {
	v.SetConfigType("yaml")

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.New(fmt.Errorf("error reading config file %s: %w", opts.ConfigFile, err)).
				Component("configuration").
				Category(errors.CategoryConfiguration).
				Fatal().
				Context("config_file", opts.ConfigFile).
				Build()
		}
		return nil
	}

	v.SetConfigName("config")
	paths := opts.SearchPaths
	if paths == nil {
		paths = GetDefaultConfigPaths()
	}
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.New(fmt.Errorf("fatal error reading config file: %w", err)).
			Component("configuration").
			Category(errors.CategoryConfiguration).
			Fatal().
			Build()
	}
	return nil
}

// resolveRelativePaths anchors relative file settings at the directory of the
// config file. Without a config file they stay relative to the working directory.
func resolveRelativePaths(s *Settings) {
	if s.ConfigFile == "" {
		return
	}
	base := filepath.Dir(s.ConfigFile)

	for _, p := range []*string{
		&s.Dataset.Metadata,
		&s.Dataset.AudioDir,
		&s.Dataset.SpectrogramDir,
		&s.Model.Path,
		&s.Model.LabelPath,
		&s.Logging.File,
		&s.Metrics.Textfile,
	} {
		*p = resolvePath(base, *p)
	}
}

func resolvePath(base, path string) string {
	if path == "" {
		return ""
	}
	path = os.ExpandEnv(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}
