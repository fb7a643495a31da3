// Package infostore loads and saves annotation collections. The on-disk
// container is chosen by file extension: JSON (.json), gob with optional
// gzip (.gob, .gob.gz), or a sqlite snapshot database (.db, .sqlite).
package infostore

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/banshee-data/unified3d/internal/fsutil"
	"github.com/banshee-data/unified3d/internal/schema"
)

// Collection is an ordered sequence of sample records plus run metadata.
// This is also the top-level persisted shape.
type Collection struct {
	Metainfo map[string]string `json:"metainfo"`
	DataList []schema.Record   `json:"data_list"`
}

// Store reads and writes collections through a FileSystem so tests can run
// against the in-memory implementation. The sqlite backend opens its own
// database file directly.
type Store struct {
	FS fsutil.FileSystem
}

// Default is the production store backed by the OS filesystem.
var Default = &Store{FS: fsutil.OSFileSystem{}}

// Load reads the record list at path. Convenience wrapper over Default.
func Load(path string) ([]schema.Record, error) { return Default.Load(path) }

// LoadCollection reads a full collection at path. Wrapper over Default.
func LoadCollection(path string) (*Collection, error) { return Default.LoadCollection(path) }

// Save persists a collection to path. Convenience wrapper over Default.
func Save(path string, coll *Collection) error { return Default.Save(path, coll) }

type backend int

const (
	backendJSON backend = iota
	backendGob
	backendSQLite
)

func backendFor(path string) (backend, error) {
	switch {
	case strings.HasSuffix(path, ".json"):
		return backendJSON, nil
	case strings.HasSuffix(path, ".gob"), strings.HasSuffix(path, ".gob.gz"):
		return backendGob, nil
	case strings.HasSuffix(path, ".db"), strings.HasSuffix(path, ".sqlite"):
		return backendSQLite, nil
	}
	return 0, fmt.Errorf("unsupported annotation container extension: %q", path)
}

// Load reads the record list at path. A raw preprocessing output may be a
// bare top-level list; a converted collection is the metainfo/data_list
// object. Both are accepted.
func (s *Store) Load(path string) ([]schema.Record, error) {
	coll, err := s.LoadCollection(path)
	if err != nil {
		return nil, err
	}
	return coll.DataList, nil
}

// LoadCollection reads a full collection at path.
func (s *Store) LoadCollection(path string) (*Collection, error) {
	kind, err := backendFor(path)
	if err != nil {
		return nil, err
	}
	switch kind {
	case backendGob:
		return s.loadGob(path)
	case backendSQLite:
		return loadSQLite(path)
	}

	data, err := s.FS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return decodeJSON(data, path)
}

// Save persists coll to path, selecting the container by extension.
func (s *Store) Save(path string, coll *Collection) error {
	kind, err := backendFor(path)
	if err != nil {
		return err
	}
	switch kind {
	case backendGob:
		return s.saveGob(path, coll)
	case backendSQLite:
		return saveSQLite(path, coll)
	}

	data, err := json.Marshal(coll)
	if err != nil {
		return fmt.Errorf("encoding collection: %w", err)
	}
	if err := s.FS.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func decodeJSON(data []byte, path string) (*Collection, error) {
	trimmed := strings.TrimLeft(string(data), " \t\r\n")
	if strings.HasPrefix(trimmed, "[") {
		var records []schema.Record
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		return &Collection{DataList: records}, nil
	}
	var coll Collection
	if err := json.Unmarshal(data, &coll); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &coll, nil
}
