package datasets

import (
	"fmt"
	"strings"

	"github.com/banshee-data/unified3d/internal/schema"
)

// MissingFieldError reports a required field absent from a raw source
// record. It is fatal for the run: source collections are assumed to share
// one schema, so a missing field means the wrong input, not a bad sample.
type MissingFieldError struct {
	Path string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("source record missing required field %q", e.Path)
}

// rawField descends nested maps along path and returns the value found.
func rawField(raw schema.Record, path ...string) (any, error) {
	var cur any = raw
	for i, key := range path {
		m, ok := asMap(cur)
		if !ok {
			return nil, fmt.Errorf("field %q: expected a nested block, got %T",
				strings.Join(path[:i], "."), cur)
		}
		v, ok := m[key]
		if !ok {
			return nil, &MissingFieldError{Path: strings.Join(path[:i+1], ".")}
		}
		cur = v
	}
	return cur, nil
}

func rawString(raw schema.Record, path ...string) (string, error) {
	v, err := rawField(raw, path...)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", typeError(path, "string", v)
	}
	return s, nil
}

func rawInt(raw schema.Record, path ...string) (int, error) {
	v, err := rawField(raw, path...)
	if err != nil {
		return 0, err
	}
	n, ok := toInt(v)
	if !ok {
		return 0, typeError(path, "integer", v)
	}
	return n, nil
}

func rawFloats(raw schema.Record, path ...string) ([]float64, error) {
	v, err := rawField(raw, path...)
	if err != nil {
		return nil, err
	}
	fs, ok := toFloats(v)
	if !ok {
		return nil, typeError(path, "float list", v)
	}
	return fs, nil
}

func rawMatrix(raw schema.Record, path ...string) ([][]float64, error) {
	v, err := rawField(raw, path...)
	if err != nil {
		return nil, err
	}
	m, ok := toMatrix(v)
	if !ok {
		return nil, typeError(path, "matrix", v)
	}
	return m, nil
}

func rawStrings(raw schema.Record, path ...string) ([]string, error) {
	v, err := rawField(raw, path...)
	if err != nil {
		return nil, err
	}
	ss, ok := toStrings(v)
	if !ok {
		return nil, typeError(path, "string list", v)
	}
	return ss, nil
}

// annFloatRow returns row i of a per-instance float matrix such as
// annos.bbox or annos.location.
func annFloatRow(raw schema.Record, i int, path ...string) ([]float64, error) {
	m, err := rawMatrix(raw, path...)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(m) {
		return nil, fmt.Errorf("field %q: instance %d out of range (%d rows)",
			strings.Join(path, "."), i, len(m))
	}
	return m[i], nil
}

// annFloat returns element i of a per-instance float column such as
// annos.rotation_y.
func annFloat(raw schema.Record, i int, path ...string) (float64, error) {
	fs, err := rawFloats(raw, path...)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= len(fs) {
		return 0, fmt.Errorf("field %q: instance %d out of range (%d values)",
			strings.Join(path, "."), i, len(fs))
	}
	return fs[i], nil
}

// annInt is annFloat for integer-valued columns such as annos.occluded.
func annInt(raw schema.Record, i int, path ...string) (int, error) {
	f, err := annFloat(raw, i, path...)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func typeError(path []string, want string, got any) error {
	return fmt.Errorf("field %q: expected %s, got %T", strings.Join(path, "."), want, got)
}

// Coercions below accept both native Go values and the shapes the JSON
// decoder produces (float64 numbers, []any rows).

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case schema.Record:
		return m, true
	case map[string]any:
		return m, true
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func toFloats(v any) ([]float64, bool) {
	switch fs := v.(type) {
	case []float64:
		return fs, true
	case []any:
		out := make([]float64, len(fs))
		for i, e := range fs {
			f, ok := toFloat(e)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	}
	return nil, false
}

func toMatrix(v any) ([][]float64, bool) {
	switch rows := v.(type) {
	case [][]float64:
		return rows, true
	case []any:
		out := make([][]float64, len(rows))
		for i, r := range rows {
			fs, ok := toFloats(r)
			if !ok {
				return nil, false
			}
			out[i] = fs
		}
		return out, true
	}
	return nil, false
}

func toStrings(v any) ([]string, bool) {
	switch ss := v.(type) {
	case []string:
		return ss, true
	case []any:
		out := make([]string, len(ss))
		for i, e := range ss {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out[i] = s
		}
		return out, true
	}
	return nil, false
}
