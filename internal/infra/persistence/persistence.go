// Package persistence selects a biota.Store backend from the environment.
package persistence

import (
	"context"
	"fmt"
	"os"

	"github.com/Constellab/gws-biota-sub001/internal/infra/persistence/memory"
	"github.com/Constellab/gws-biota-sub001/internal/infra/persistence/postgres"
	"github.com/Constellab/gws-biota-sub001/internal/infra/persistence/sqlite"
	"github.com/Constellab/gws-biota-sub001/pkg/biota"
)

// StorageDriver identifies a concrete store implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// OpenStore selects a backend using environment variables. Defaults to
// sqlite when unset.
//
//	BIOTA_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	BIOTA_SQLITE_PATH: path to sqlite file (default ./biota.db)
//	BIOTA_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenStore(ctx context.Context) (biota.Store, error) {
	driver := os.Getenv("BIOTA_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.New(), nil
	case StorageSQLite:
		return sqlite.Open(os.Getenv("BIOTA_SQLITE_PATH"))
	case StoragePostgres:
		return postgres.Open(ctx, os.Getenv("BIOTA_POSTGRES_DSN"))
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
