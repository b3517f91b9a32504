// Package blob selects and re-exports the source-archive backends. The
// archive holds the raw reference database dumps a build stages to a local
// work directory before parsing.
package blob

import (
	"context"
	"fmt"
	"os"

	"github.com/Constellab/gws-biota-sub001/internal/infra/blob/core"
	"github.com/Constellab/gws-biota-sub001/internal/infra/blob/fs"
	"github.com/Constellab/gws-biota-sub001/internal/infra/blob/memory"
	"github.com/Constellab/gws-biota-sub001/internal/infra/blob/s3"
)

type (
	// Driver identifies an archive backend driver.
	Driver = core.Driver
	// Info describes stored dump metadata.
	Info = core.Info
	// Archive is the interface for source-archive backends.
	Archive = core.Archive
)

const (
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverMemory is the in-memory test driver.
	DriverMemory = core.DriverMemory
)

// ErrNotFound indicates a requested dump does not exist.
var ErrNotFound = core.ErrNotFound

// Open selects an Archive implementation using environment variables.
//
//	BIOTA_BLOB_DRIVER: fs|s3|memory (default fs)
//	BIOTA_BLOB_FS_ROOT: directory root when driver=fs (default ./sourcedata)
//	(S3 specific variables documented in the s3 package)
func Open(ctx context.Context) (Archive, error) {
	driver := os.Getenv("BIOTA_BLOB_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		return fs.New(os.Getenv("BIOTA_BLOB_FS_ROOT"))
	case DriverS3:
		return s3.OpenFromEnv(ctx)
	case DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
