// Package backend selects and builds the lease-entry store the server runs
// against: the SQLite log (with optional AMQP sync), the Sheets table
// directly, or an in-process store for local runs.
package backend

import (
	"context"
	"fmt"

	"quanly/internal/ledger"
)

// Backend is the store surface the HTTP server needs: append raw lease
// entries, list them back for the report fold.
type Backend interface {
	ledger.EntryWriter
	ledger.EntryLister
}

// BackendResult pairs a built backend with the cleanup to run on shutdown.
// Cleanup is nil for backends that hold no resources.
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

type CleanupFunc func() error

// Factory builds a backend from its config.
type Factory interface {
	CreateBackend(ctx context.Context, cfg Config) (*BackendResult, error)
}

// BackendType names one of the supported stores.
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	SheetsBackend BackendType = "sheets"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string { return string(bt) }

func (bt BackendType) IsValid() bool {
	return bt == SQLiteBackend || bt == SheetsBackend || bt == MemoryBackend
}

// Config carries the per-type settings a factory needs. Only the fields for
// the selected Type are consulted.
type Config struct {
	Type BackendType

	// sqlite
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// sheets
	GoogleSpreadsheetID string
	GoogleSheetName     string
}

// Validate checks that the fields the selected type needs are present.
func (c Config) Validate() error {
	switch c.Type {
	case SQLiteBackend:
		// The AMQP fields stay optional: without a broker the worker's
		// startup check still catches up on unsynced rows.
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("sqlite backend needs a database path")
		}
	case SheetsBackend:
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("sheets backend needs a spreadsheet id")
		}
		if c.GoogleSheetName == "" {
			return fmt.Errorf("sheets backend needs a sheet name")
		}
	case MemoryBackend:
		// Nothing to check; entries live only for the process lifetime.
	default:
		return fmt.Errorf("unknown backend type %q", c.Type)
	}
	return nil
}
