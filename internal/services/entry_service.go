package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"quanly/internal/amqp"
	"quanly/internal/core"
	"quanly/internal/storage"
)

// EntryService orchestrates lease-entry writes across SQLite and AMQP.
type EntryService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewEntryService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *EntryService {
	return &EntryService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateEntry appends an entry to the local log and publishes a sync message.
func (s *EntryService) CreateEntry(ctx context.Context, e core.LeaseEntry) (string, error) {
	return s.create(ctx, e, "")
}

// ImportEntry appends an entry tagged with an import batch id.
func (s *EntryService) ImportEntry(ctx context.Context, e core.LeaseEntry, batchID string) (string, error) {
	return s.create(ctx, e, batchID)
}

func (s *EntryService) create(ctx context.Context, e core.LeaseEntry, batchID string) (string, error) {
	// Save to SQLite first (fast, reliable)
	ref, err := s.storage.AppendBatch(ctx, e, batchID)
	if err != nil {
		return "", fmt.Errorf("save entry: %w", err)
	}

	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to parse entry ID", "ref", ref, "error", err)
		return ref, nil // SQLite save succeeded
	}

	// Publish async sync message. The entry is durable locally, so a
	// publish failure must not fail the request; the worker's startup
	// check picks up rows the broker never saw.
	if err := s.publishSyncMessage(ctx, id, batchID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", id, "error", err)
	}

	return ref, nil
}

func (s *EntryService) publishSyncMessage(ctx context.Context, id int64, batchID string) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}

	return s.amqpClient.PublishEntrySync(ctx, id, batchID)
}

// Append implements ledger.EntryWriter.
func (s *EntryService) Append(ctx context.Context, e core.LeaseEntry) (string, error) {
	return s.CreateEntry(ctx, e)
}

// ListEntries implements ledger.EntryLister over the local log.
func (s *EntryService) ListEntries(ctx context.Context) ([]core.LeaseEntry, error) {
	return s.storage.ListEntries(ctx)
}

// Close closes both storage and AMQP connections.
func (s *EntryService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close entry service: %v", errs)
	}

	return nil
}
