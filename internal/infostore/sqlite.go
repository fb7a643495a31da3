package infostore

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/unified3d/internal/schema"
)

// schema.sql bootstraps the snapshot database; there is no migration story
// because every conversion run writes a fresh collection.
//
//go:embed schema.sql
var schemaSQL string

func saveSQLite(path string, coll *Collection) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("initializing schema in %s: %w", path, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	if _, err := tx.Exec(
		`INSERT INTO collections (id, dataset) VALUES (?, ?)`,
		id, coll.Metainfo["DATASET"],
	); err != nil {
		return fmt.Errorf("inserting collection: %w", err)
	}
	for key, value := range coll.Metainfo {
		if _, err := tx.Exec(
			`INSERT INTO collection_metainfo (collection_id, key, value) VALUES (?, ?, ?)`,
			id, key, value,
		); err != nil {
			return fmt.Errorf("inserting metainfo %q: %w", key, err)
		}
	}
	for i, rec := range coll.DataList {
		body, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding record %d: %w", i, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO records (collection_id, idx, body) VALUES (?, ?, ?)`,
			id, i, string(body),
		); err != nil {
			return fmt.Errorf("inserting record %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func loadSQLite(path string) (*Collection, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer db.Close()

	var id string
	err = db.QueryRow(`SELECT id FROM collections ORDER BY rowid DESC LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no collections in %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("selecting collection from %s: %w", path, err)
	}

	coll := &Collection{Metainfo: map[string]string{}}

	rows, err := db.Query(
		`SELECT key, value FROM collection_metainfo WHERE collection_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("loading metainfo: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning metainfo: %w", err)
		}
		coll.Metainfo[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading metainfo: %w", err)
	}

	recRows, err := db.Query(
		`SELECT body FROM records WHERE collection_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	defer recRows.Close()
	for recRows.Next() {
		var body string
		if err := recRows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		var rec schema.Record
		if err := json.Unmarshal([]byte(body), &rec); err != nil {
			return nil, fmt.Errorf("decoding record: %w", err)
		}
		coll.DataList = append(coll.DataList, rec)
	}
	if err := recRows.Err(); err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	return coll, nil
}
