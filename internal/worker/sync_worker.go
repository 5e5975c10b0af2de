package worker

import (
	"context"
	"fmt"
	"log/slog"

	"quanly/internal/amqp"
	"quanly/internal/ledger"
	"quanly/internal/storage"
)

// SyncWorker mirrors lease entries from the SQLite log to the Google Sheets
// table. Sheets is a mirror of the raw log, never of consolidated records.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	sheets    ledger.EntryWriter
	replacer  ledger.TableReplacer
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, sheets ledger.EntryWriter, replacer ledger.TableReplacer, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		sheets:    sheets,
		replacer:  replacer,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single entry sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.EntrySyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"batch_id", msg.BatchID)

	stored, err := w.storage.GetEntry(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get entry from storage: %w", err)
	}

	if err := w.syncEntryToSheets(ctx, stored.ID, stored); err != nil {
		return fmt.Errorf("sync entry to sheets: %w", err)
	}

	return nil
}

// ProcessPendingEntries syncs entries the broker never delivered. This is a
// backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingEntries(ctx context.Context) error {
	pending, err := w.storage.PendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending entries: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending entries", "count", len(pending))

	for i := range pending {
		if err := w.syncEntryToSheets(ctx, pending[i].ID, &pending[i]); err != nil {
			slog.ErrorContext(ctx, "Failed to sync entry", "id", pending[i].ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck syncs any pending entries at worker startup. This is
// useful to recover from missed AMQP messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	// Larger batch for startup
	pending, err := w.storage.PendingSync(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending entries for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending entries found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending entries on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for i := range pending {
		if err := w.syncEntryToSheets(ctx, pending[i].ID, &pending[i]); err != nil {
			slog.ErrorContext(ctx, "Failed to sync entry during startup",
				"id", pending[i].ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

// RebuildMirror rewrites the whole spreadsheet table from the local log.
// The sheet has no row-level update path, so after conflicting manual edits
// the only safe recovery is a full republish.
func (w *SyncWorker) RebuildMirror(ctx context.Context) error {
	if w.replacer == nil {
		return fmt.Errorf("no table replacer configured")
	}

	entries, err := w.storage.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("list entries for rebuild: %w", err)
	}

	if err := w.replacer.ReplaceAll(ctx, entries); err != nil {
		return fmt.Errorf("replace sheet table: %w", err)
	}

	slog.InfoContext(ctx, "Rebuilt sheet mirror from local log", "entries", len(entries))
	return nil
}

func (w *SyncWorker) syncEntryToSheets(ctx context.Context, id int64, stored *storage.StoredEntry) error {
	ref, err := w.sheets.Append(ctx, stored.Entry)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		// The sync itself worked, so only log
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Synced lease entry",
		"id", id,
		"sheets_ref", ref,
		"building", stored.Entry.BuildingID,
		"unit", stored.Entry.UnitID)

	return nil
}
