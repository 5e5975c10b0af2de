// Package ledger defines the outbound ports for lease-entry persistence.
// Adapters live in the subpackages (google, memory) and in internal/storage.
package ledger

import (
	"context"

	"quanly/internal/core"
)

type (
	// EntryWriter appends one lease entry to the store and returns an
	// adapter-specific row reference.
	EntryWriter interface {
		Append(ctx context.Context, e core.LeaseEntry) (rowRef string, err error)
	}

	// EntryLister returns every raw lease entry in data-entry order. Reports
	// fold over this with core.Consolidate; consolidated records are never
	// persisted.
	EntryLister interface {
		ListEntries(ctx context.Context) ([]core.LeaseEntry, error)
	}

	// TableReplacer rewrites the whole table. Only the Sheets mirror needs
	// this: the spreadsheet has no row-level update path, so the worker
	// republishes the full entry log after conflicting manual edits. The
	// local ledger is append-only and never replaced.
	TableReplacer interface {
		ReplaceAll(ctx context.Context, entries []core.LeaseEntry) error
	}
)
