// Package classes holds the fixed set of UrbanSound8K class labels.
package classes

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/tphakala/urbansound-go/internal/errors"
)

// NumClasses is the number of UrbanSound8K categories
const NumClasses = 10

// Label is one class of the catalog
type Label struct {
	Index int    `json:"index" yaml:"index"`
	Name  string `json:"name" yaml:"name"`
}

// Catalog is an immutable, ordered list of class labels. Position i is the
// label for model output index i.
type Catalog struct {
	labels []Label
}

var defaultNames = [NumClasses]string{
	"Air conditioner",
	"Car horn",
	"Children playing",
	"Dog bark",
	"Drilling",
	"Engine idling",
	"Gun shot",
	"Jackhammer",
	"Siren",
	"Street music",
}

// Default returns the UrbanSound8K label set in class-ID order
func Default() *Catalog {
	return newCatalog(defaultNames[:])
}

func newCatalog(names []string) *Catalog {
	labels := make([]Label, len(names))
	for i, name := range names {
		labels[i] = Label{Index: i, Name: name}
	}
	return &Catalog{labels: labels}
}

// Lookup returns the label at index
func (c *Catalog) Lookup(index int) (Label, bool) {
	if index < 0 || index >= len(c.labels) {
		return Label{}, false
	}
	return c.labels[index], true
}

// Size returns the number of classes
func (c *Catalog) Size() int {
	return len(c.labels)
}

// Labels returns a copy of the labels in index order
func (c *Catalog) Labels() []Label {
	return slices.Clone(c.labels)
}

// LoadFile reads a label override file: one label per line, blank lines
// skipped. The file must list exactly NumClasses labels.
func LoadFile(path string) (*Catalog, error) {
	file, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, errors.New(fmt.Errorf("failed to open label file: %w", err)).
			Component("classes").
			Category(errors.CategoryLabelLoad).
			Fatal().
			FileContext(path, 0).
			Build()
	}
	defer func() { _ = file.Close() }()

	var names []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.New(fmt.Errorf("failed to read label file: %w", err)).
			Component("classes").
			Category(errors.CategoryLabelLoad).
			Fatal().
			FileContext(path, 0).
			Build()
	}

	if len(names) != NumClasses {
		return nil, errors.Newf("label file lists %d labels, want %d", len(names), NumClasses).
			Component("classes").
			Category(errors.CategoryLabelLoad).
			Fatal().
			Context("label_count", len(names)).
			FileContext(path, 0).
			Build()
	}

	return newCatalog(names), nil
}
