// Package catalog loads the dataset metadata table and maps display names to
// the spectrogram and audio files of each sample.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/tphakala/urbansound-go/internal/errors"
	"github.com/tphakala/urbansound-go/internal/logger"
)

// Duplicate display name policies
const (
	DuplicatesFirst  = "first"
	DuplicatesReject = "reject"
)

// Record is one dataset sample
type Record struct {
	SpectrogramPath string `json:"spectrogram_path" yaml:"spectrogram_path"` // path as stored in the table
	SpecFilename    string `json:"spec_filename" yaml:"spec_filename"`
	AudioFilename   string `json:"audio_filename" yaml:"audio_filename"`
	DisplayName     string `json:"display_name" yaml:"display_name"`
}

// Options controls how the table is read
type Options struct {
	Column     string // column holding the spectrogram path, "spectrogram" when empty
	AudioExt   string // audio extension including the dot, ".wav" when empty
	Duplicates string // DuplicatesFirst or DuplicatesReject, first when empty
}

func (o *Options) applyDefaults() {
	if o.Column == "" {
		o.Column = "spectrogram"
	}
	if o.AudioExt == "" {
		o.AudioExt = ".wav"
	}
	if o.Duplicates == "" {
		o.Duplicates = DuplicatesFirst
	}
}

// Catalog is the ordered, read-only list of records. Safe for concurrent reads.
type Catalog struct {
	records    []Record
	byName     map[string]int // display name -> index of first record
	duplicates []string
}

// Load reads the metadata table at path. Every failure here is fatal for startup.
func Load(path string, opts Options) (*Catalog, error) {
	file, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, errors.FileError(fmt.Errorf("failed to open metadata file: %w", err), path, 0).
			Component("catalog").
			Fatal().
			Build()
	}
	defer func() { _ = file.Close() }()

	c, err := Parse(file, opts)
	if err != nil {
		return nil, errors.New(err).
			Component("catalog").
			Category(errors.CategoryFileParsing).
			Fatal().
			FileContext(path, 0).
			Build()
	}

	log := GetLogger()
	log.Info("Metadata catalog loaded",
		logger.String("path", path),
		logger.Int("records", c.Len()))
	if len(c.duplicates) > 0 {
		log.Warn("Duplicate display names, lookups return the first record",
			logger.Int("count", len(c.duplicates)),
			logger.Strings("names", c.duplicates))
	}

	return c, nil
}

// Parse reads a metadata table with a header row from r
func Parse(r io.Reader, opts Options) (*Catalog, error) {
	opts.applyDefaults()

	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("metadata table is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata header: %w", err)
	}

	column := -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if name == opts.Column {
			column = i
			break
		}
	}
	if column < 0 {
		return nil, fmt.Errorf("metadata table has no %q column", opts.Column)
	}

	c := &Catalog{byName: make(map[string]int)}
	seenDuplicate := make(map[string]bool)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read metadata row: %w", err)
		}

		rec := NewRecord(row[column], opts.AudioExt)

		if _, exists := c.byName[rec.DisplayName]; exists {
			if opts.Duplicates == DuplicatesReject {
				line, _ := reader.FieldPos(column)
				return nil, fmt.Errorf("duplicate display name %q on line %d", rec.DisplayName, line)
			}
			if !seenDuplicate[rec.DisplayName] {
				seenDuplicate[rec.DisplayName] = true
				c.duplicates = append(c.duplicates, rec.DisplayName)
			}
		} else {
			c.byName[rec.DisplayName] = len(c.records)
		}
		c.records = append(c.records, rec)
	}

	return c, nil
}

// NewRecord derives the file names of a sample from its stored spectrogram path
func NewRecord(spectrogramPath, audioExt string) Record {
	specFilename := path.Base(strings.ReplaceAll(spectrogramPath, `\`, "/"))
	if specFilename == "." || specFilename == "/" {
		specFilename = ""
	}

	audioFilename := strings.TrimSuffix(specFilename, path.Ext(specFilename)) + audioExt

	return Record{
		SpectrogramPath: spectrogramPath,
		SpecFilename:    specFilename,
		AudioFilename:   audioFilename,
		DisplayName:     audioFilename,
	}
}

// FindByDisplayName returns the first record with the given display name
func (c *Catalog) FindByDisplayName(name string) (Record, error) {
	idx, ok := c.byName[name]
	if !ok {
		return Record{}, errors.NotFound("no sample named %q", name).
			Component("catalog").
			Context("display_name", name).
			Build()
	}
	return c.records[idx], nil
}

// Records returns a copy of all records in table order
func (c *Catalog) Records() []Record {
	return slices.Clone(c.records)
}

// DisplayNames returns the display names in table order, duplicates included
func (c *Catalog) DisplayNames() []string {
	names := make([]string, len(c.records))
	for i := range c.records {
		names[i] = c.records[i].DisplayName
	}
	return names
}

// Len returns the number of records
func (c *Catalog) Len() int {
	return len(c.records)
}

// Duplicates returns display names that occur more than once
func (c *Catalog) Duplicates() []string {
	return slices.Clone(c.duplicates)
}
