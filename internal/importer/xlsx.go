// Package importer loads lease entries from XLSX exports of the ledger
// table into the store, one import batch per file.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"quanly/internal/core"
	glsheet "quanly/internal/ledger/google"
)

// Appender is the write side the importer feeds. Satisfied by
// services.EntryService.
type Appender interface {
	ImportEntry(ctx context.Context, e core.LeaseEntry, batchID string) (string, error)
}

// Result summarizes one file import.
type Result struct {
	BatchID  string
	Sheets   []string
	Parsed   int
	Appended int
	Failed   int
}

type Importer struct {
	appender Appender
}

func New(appender Appender) *Importer {
	return &Importer{appender: appender}
}

// ImportFile reads every visible sheet of an XLSX workbook and appends the
// parsed entries under a fresh batch id. Sheets parse concurrently; appends
// run in sheet order so the log keeps the workbook's data-entry order.
func (imp *Importer) ImportFile(ctx context.Context, path string) (Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Result{}, fmt.Errorf("workbook has no sheets")
	}

	parsed := make([][]core.LeaseEntry, len(sheets))
	g, _ := errgroup.WithContext(ctx)
	for i, name := range sheets {
		g.Go(func() error {
			if strings.HasPrefix(name, "_") {
				return nil
			}
			rows, err := f.GetRows(name)
			if err != nil {
				return fmt.Errorf("read sheet %s: %w", name, err)
			}
			parsed[i] = glsheet.ParseTable(rows)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{
		BatchID: uuid.NewString(),
		Sheets:  sheets,
	}
	for i, entries := range parsed {
		res.Parsed += len(entries)
		for _, e := range entries {
			if _, err := imp.appender.ImportEntry(ctx, e, res.BatchID); err != nil {
				slog.ErrorContext(ctx, "Failed to import entry",
					"sheet", sheets[i],
					"building", e.BuildingID,
					"unit", e.UnitID,
					"error", err)
				res.Failed++
				continue
			}
			res.Appended++
		}
	}

	slog.InfoContext(ctx, "Workbook imported",
		"path", path,
		"batch_id", res.BatchID,
		"sheets", len(sheets),
		"appended", res.Appended,
		"failed", res.Failed)

	return res, nil
}
