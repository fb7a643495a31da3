// Package datasets implements the per-dataset converters that map raw
// KITTI, ScanNet and SUNRGBD annotation records into the unified schema.
// Each converter owns a fixed category vocabulary and a run-level set of
// category names it could not map.
package datasets

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/banshee-data/unified3d/internal/schema"
)

// ErrUnsupportedDataset is returned by ForDataset for unknown dataset names.
var ErrUnsupportedDataset = errors.New("unsupported dataset")

// Converter maps one raw source record into the unified schema.
type Converter interface {
	// Dataset is the canonical name written into collection metainfo.
	Dataset() string

	// Classes is the fixed ordered vocabulary; position = label index.
	Classes() []string

	// Convert builds a normalized record from one raw source record.
	// A missing required field aborts the run with a *MissingFieldError.
	Convert(raw schema.Record) (schema.Record, error)

	// IgnoredClasses lists category names seen during this run that were
	// absent from the vocabulary, sorted.
	IgnoredClasses() []string
}

// ForDataset selects the converter for a dataset name, case-insensitively.
func ForDataset(name string) (Converter, error) {
	switch strings.ToLower(name) {
	case "kitti":
		return NewKITTI(), nil
	case "scannet":
		return NewScanNet(), nil
	case "sunrgbd":
		return NewSUNRGBD(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDataset, name)
}

// classSet implements the shared label-remap policy: a recognized name maps
// to its vocabulary index, anything else maps to -1 and is remembered for
// the end-of-run report. The ignored set lives for the whole run, not per
// record, so an empty input still reports cleanly.
type classSet struct {
	classes []string
	ignored map[string]struct{}
}

func newClassSet(classes []string) *classSet {
	return &classSet{classes: classes, ignored: make(map[string]struct{})}
}

func (c *classSet) label(name string) int {
	for i, cls := range c.classes {
		if cls == name {
			return i
		}
	}
	c.ignored[name] = struct{}{}
	return -1
}

func (c *classSet) ignoredNames() []string {
	out := make([]string, 0, len(c.ignored))
	for name := range c.ignored {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
