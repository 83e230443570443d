package app

import (
	"os"
	"strings"

	"github.com/tphakala/urbansound-go/internal/catalog"
	"github.com/tphakala/urbansound-go/internal/conf"
	"github.com/tphakala/urbansound-go/internal/spectrogram"
)

// MissingAsset is a record with at least one file absent
type MissingAsset struct {
	DisplayName string `json:"display_name" yaml:"display_name"`
	Audio       bool   `json:"audio_missing" yaml:"audio_missing"`
	Spectrogram bool   `json:"spectrogram_missing" yaml:"spectrogram_missing"`
}

func spectrogramPath(settings *conf.Settings, rec catalog.Record) string {
	return spectrogram.Resolve(settings.Dataset.SpectrogramDir, rec.SpecFilename)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func splitList(value string) []string {
	var out []string
	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
