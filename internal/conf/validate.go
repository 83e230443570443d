package conf

import (
	"fmt"
	"slices"
	"strings"
)

var validLogLevels = []string{"trace", "debug", "info", "warn", "error"}

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct. Enumerated values
// are normalized to lower case in place.
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	for _, err := range []error{
		validateDatasetSettings(&settings.Dataset),
		validateCatalogSettings(&settings.Catalog),
		validateModelSettings(&settings.Model),
		validateLocatorSettings(&settings.Locator),
		validateOutputSettings(&settings.Output),
		validateLoggingSettings(&settings.Logging),
	} {
		if err != nil {
			ve.Errors = append(ve.Errors, err.Error())
		}
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateDatasetSettings(s *DatasetSettings) error {
	var errs []string

	if s.Metadata == "" {
		errs = append(errs, "dataset.metadata must be set")
	}
	if s.AudioDir == "" {
		errs = append(errs, "dataset.audiodir must be set")
	}
	if s.SpectrogramDir == "" {
		errs = append(errs, "dataset.spectrogramdir must be set")
	}
	if strings.TrimSpace(s.SpectrogramColumn) == "" {
		errs = append(errs, "dataset.spectrogramcolumn must be set")
	}
	if !strings.HasPrefix(s.AudioExt, ".") || len(s.AudioExt) < 2 {
		errs = append(errs, fmt.Sprintf("dataset.audioext must start with a dot, got %q", s.AudioExt))
	}

	return joinErrors("dataset", errs)
}

func validateCatalogSettings(s *CatalogSettings) error {
	s.Duplicates = strings.ToLower(s.Duplicates)
	if s.Duplicates != DuplicatesFirst && s.Duplicates != DuplicatesReject {
		return fmt.Errorf("catalog settings errors: catalog.duplicates must be %q or %q, got %q",
			DuplicatesFirst, DuplicatesReject, s.Duplicates)
	}
	return nil
}

func validateModelSettings(s *ModelSettings) error {
	var errs []string

	if s.Path == "" {
		errs = append(errs, "model.path must be set")
	}
	if s.Threads < 0 {
		errs = append(errs, fmt.Sprintf("model.threads must be non-negative, got %d", s.Threads))
	}

	return joinErrors("model", errs)
}

func validateLocatorSettings(s *LocatorSettings) error {
	var errs []string

	s.Mode = strings.ToLower(s.Mode)
	if s.Mode != LocatorModeIndex && s.Mode != LocatorModeProbe {
		errs = append(errs, fmt.Sprintf("locator.mode must be %q or %q, got %q", LocatorModeIndex, LocatorModeProbe, s.Mode))
	}
	if s.IndexTTL < 0 {
		errs = append(errs, fmt.Sprintf("locator.indexttl must be non-negative, got %s", s.IndexTTL))
	}

	return joinErrors("locator", errs)
}

func validateOutputSettings(s *OutputSettings) error {
	var errs []string

	s.Format = strings.ToLower(s.Format)
	if !slices.Contains([]string{FormatTable, FormatJSON, FormatYAML}, s.Format) {
		errs = append(errs, fmt.Sprintf("output.format must be table, json or yaml, got %q", s.Format))
	}
	if s.TopK < 0 {
		errs = append(errs, fmt.Sprintf("output.topk must be non-negative, got %d", s.TopK))
	}

	return joinErrors("output", errs)
}

func validateLoggingSettings(s *LoggingSettings) error {
	s.Level = strings.ToLower(s.Level)
	if !slices.Contains(validLogLevels, s.Level) {
		return fmt.Errorf("logging settings errors: logging.level must be one of %s, got %q",
			strings.Join(validLogLevels, ", "), s.Level)
	}
	for module, level := range s.ModuleLevels {
		if !slices.Contains(validLogLevels, strings.ToLower(level)) {
			return fmt.Errorf("logging settings errors: logging.modulelevels.%s has invalid level %q", module, level)
		}
	}
	return nil
}

func joinErrors(section string, errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%s settings errors: %v", section, errs)
}
