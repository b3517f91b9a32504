// Package core defines the abstractions shared by the source-archive
// backends. An archive holds reference database dumps (OBO files, taxdump
// tables, flat files) that the load pipeline stages to a local work
// directory before parsing.
package core

import (
	"context"
	"errors"
	"io"
	"time"
)

// Driver identifies a concrete archive backend implementation.
type Driver string

const (
	// DriverFilesystem represents the local filesystem implementation.
	DriverFilesystem Driver = "fs" // local directory of dumps (default, dev)
	// DriverS3 represents an S3 / MinIO compatible implementation.
	DriverS3 Driver = "s3" // S3 / MinIO compatible
	// DriverMemory represents an in-memory implementation typically used in tests.
	DriverMemory Driver = "memory" // in-memory (tests)
)

// Info describes a stored dump.
type Info struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size_bytes"`
	LastModified time.Time `json:"last_modified"`
}

// Archive is the minimal surface the pipeline needs from a dump backend.
// Dumps are immutable once written: Put MUST fail if the key already exists,
// so a staged release can never be silently replaced underneath a build.
type Archive interface {
	// Put stores a new dump at key.
	Put(ctx context.Context, key string, r io.Reader) (Info, error)
	// Fetch copies the dump at key into destDir and returns the local path.
	Fetch(ctx context.Context, key string, destDir string) (string, error)
	// List returns dumps whose key has the provided prefix, ordered by key.
	List(ctx context.Context, prefix string) ([]Info, error)
	// Driver returns the configured backend driver.
	Driver() Driver
}

// ErrNotFound is returned when a requested dump does not exist.
var ErrNotFound = errors.New("archive: dump not found")
