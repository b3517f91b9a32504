// Package postgres provides a Postgres-backed store that mirrors the
// in-memory transactional semantics and snapshots the full state to a JSONB
// table after every successful mutation. This is the production driver.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/Constellab/gws-biota-sub001/internal/infra/persistence/memory"
	"github.com/Constellab/gws-biota-sub001/pkg/biota"
)

var _ biota.Store = (*Store)(nil)

const (
	driverName = "pgx"
	// DefaultDSN targets a local database when no DSN is configured.
	DefaultDSN = "postgres://localhost/biota?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store persists state to Postgres while reusing the in-memory
// implementation for transactions.
type Store struct {
	*memory.Store
	db *sql.DB
	mu sync.Mutex
}

// Open connects using dsn (falls back to DefaultDSN), ensures the snapshot
// table exists, and hydrates the in-memory state from any stored snapshot.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(driverName, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("ensure state table: %w", err)
	}
	snapshot, found, err := loadSnapshot(ctx, db)
	if err != nil {
		return nil, err
	}
	mem := memory.New()
	if found {
		mem.ImportState(snapshot)
	}
	return &Store{Store: mem, db: db}, nil
}

func loadSnapshot(ctx context.Context, db *sql.DB) (memory.Snapshot, bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT bucket, payload FROM state`)
	if err != nil {
		return memory.Snapshot{}, false, fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshot memory.Snapshot
	targets := snapshotBuckets(&snapshot)
	found := false
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return memory.Snapshot{}, false, fmt.Errorf("scan state: %w", err)
		}
		if len(payload) == 0 {
			continue
		}
		target, ok := targets[bucket]
		if !ok {
			continue
		}
		if err := json.Unmarshal(payload, target); err != nil {
			return memory.Snapshot{}, false, fmt.Errorf("decode %s: %w", bucket, err)
		}
		found = true
	}
	if err := rows.Err(); err != nil {
		return memory.Snapshot{}, false, fmt.Errorf("iterate state: %w", err)
	}
	return snapshot, found, nil
}

func (s *Store) persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.ExportState()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	for bucket, target := range snapshotBuckets(&snapshot) {
		payload, err := json.Marshal(target)
		if err != nil {
			return fmt.Errorf("encode %s: %w", bucket, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO state(bucket,payload) VALUES($1,$2) ON CONFLICT(bucket) DO UPDATE SET payload=EXCLUDED.payload`,
			bucket, payload,
		); err != nil {
			return fmt.Errorf("upsert %s: %w", bucket, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// Reset drops the listed kinds, then snapshots.
func (s *Store) Reset(ctx context.Context, kinds ...biota.EntityKind) error {
	if err := s.Store.Reset(ctx, kinds...); err != nil {
		return err
	}
	return s.persist(ctx)
}

// RunInTransaction applies fn within a transaction, then snapshots to
// Postgres if successful.
func (s *Store) RunInTransaction(ctx context.Context, fn func(biota.Tx) error) error {
	if err := s.Store.RunInTransaction(ctx, fn); err != nil {
		return err
	}
	return s.persist(ctx)
}

// PutManifest records the manifest, then snapshots.
func (s *Store) PutManifest(ctx context.Context, manifest biota.Manifest) error {
	if err := s.Store.PutManifest(ctx, manifest); err != nil {
		return err
	}
	return s.persist(ctx)
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

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a
// restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}

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
