// Package sqlite provides a SQLite-backed store. It reuses the in-memory
// implementation for transactional semantics and snapshots the full state to
// a single-file database after every successful mutation, hydrating it back
// on open. Suited to development and single-machine loads; production
// deployments use the postgres driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/Constellab/gws-biota-sub001/internal/infra/persistence/memory"
	"github.com/Constellab/gws-biota-sub001/pkg/biota"
)

var _ biota.Store = (*Store)(nil)

// DefaultPath is used when no database path is configured.
const DefaultPath = "biota.db"

// Store persists the in-memory state to SQLite as per-bucket JSON payloads.
type Store struct {
	*memory.Store
	db *sql.DB
	mu sync.Mutex
}

// Open opens or creates the database at path and hydrates the store from
// any existing snapshot.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	s := &Store{Store: memory.New(), db: db}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT bucket, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var snapshot memory.Snapshot
	targets := snapshotBuckets(&snapshot)
	found := false
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return fmt.Errorf("scan state row: %w", err)
		}
		target, ok := targets[bucket]
		if !ok {
			continue
		}
		if err := json.Unmarshal(payload, target); err != nil {
			return fmt.Errorf("decode %s bucket: %w", bucket, err)
		}
		found = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate state rows: %w", err)
	}
	if found {
		s.ImportState(snapshot)
	}
	return nil
}

func (s *Store) persist() (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.ExportState()
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for bucket, target := range snapshotBuckets(&snapshot) {
		payload, err := json.Marshal(target)
		if err != nil {
			return fmt.Errorf("encode %s bucket: %w", bucket, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`,
			bucket, payload,
		); err != nil {
			return fmt.Errorf("upsert %s bucket: %w", bucket, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Reset drops the listed kinds and snapshots the result.
func (s *Store) Reset(ctx context.Context, kinds ...biota.EntityKind) error {
	if err := s.Store.Reset(ctx, kinds...); err != nil {
		return err
	}
	return s.persist()
}

// RunInTransaction commits through the in-memory store, then snapshots
// state to SQLite if successful.
func (s *Store) RunInTransaction(ctx context.Context, fn func(biota.Tx) error) error {
	if err := s.Store.RunInTransaction(ctx, fn); err != nil {
		return err
	}
	return s.persist()
}

// PutManifest records the manifest and snapshots.
func (s *Store) PutManifest(ctx context.Context, manifest biota.Manifest) error {
	if err := s.Store.PutManifest(ctx, manifest); err != nil {
		return err
	}
	return s.persist()
}

// Close closes the database handle.
func (s *Store) Close() error {
	if err := s.Store.Close(); err != nil {
		return err
	}
	return s.db.Close()
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

func snapshotBuckets(s *memory.Snapshot) map[string]any {
	return map[string]any{
		"terms":               &s.Terms,
		"ancestors":           &s.Ancestors,
		"compounds":           &s.Compounds,
		"pathways":            &s.Pathways,
		"pathway_ancestors":   &s.PathwayAncestors,
		"pathway_compounds":   &s.PathwayCompounds,
		"taxa":                &s.Taxa,
		"proteins":            &s.Proteins,
		"enzymes":             &s.Enzymes,
		"enzyme_seq":          &s.EnzymeSeq,
		"deprecated":          &s.Deprecated,
		"enzyme_pathways":     &s.EnzymePathways,
		"enzyme_tissues":      &s.EnzymeTissues,
		"reactions":           &s.Reactions,
		"reaction_substrates": &s.ReactionSubstrates,
		"reaction_products":   &s.ReactionProducts,
		"reaction_enzymes":    &s.ReactionEnzymes,
		"manifests":           &s.Manifests,
	}
}
