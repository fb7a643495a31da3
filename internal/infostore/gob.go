package infostore

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"strings"

	"github.com/banshee-data/unified3d/internal/schema"
)

// The gob container carries records as maps with interface values, so every
// concrete value type a converter emits must be registered.
func init() {
	gob.Register(schema.Record{})
	gob.Register(map[string]any{})
	gob.Register([]schema.Record{})
	gob.Register([]any{})
	gob.Register([]float64{})
	gob.Register([][]float64{})
	gob.Register([]string{})
	gob.Register([]int{})
}

func (s *Store) saveGob(path string, coll *Collection) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(coll); err != nil {
		return fmt.Errorf("encoding collection: %w", err)
	}

	data := buf.Bytes()
	if strings.HasSuffix(path, ".gz") {
		var zipped bytes.Buffer
		zw := gzip.NewWriter(&zipped)
		if _, err := zw.Write(data); err != nil {
			return fmt.Errorf("compressing collection: %w", err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("compressing collection: %w", err)
		}
		data = zipped.Bytes()
	}

	if err := s.FS.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (s *Store) loadGob(path string) (*Collection, error) {
	data, err := s.FS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	r := bytes.NewReader(data)
	var dec *gob.Decoder
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("decompressing %s: %w", path, err)
		}
		defer zr.Close()
		dec = gob.NewDecoder(zr)
	} else {
		dec = gob.NewDecoder(r)
	}

	var coll Collection
	if err := dec.Decode(&coll); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &coll, nil
}
