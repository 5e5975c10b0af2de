// Package storage is the SQLite ledger adapter: an append-only log of lease
// entries with per-row sync state. Rows are never updated or deleted by the
// application; corrections are new entries, and reports fold the log on
// read. This replaces the old whole-table-overwrite flow whose concurrent
// editors silently lost each other's writes.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"quanly/internal/core"

	_ "modernc.org/sqlite"
)

// Sync states of a ledger row with respect to the Sheets mirror.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

type SQLiteRepository struct {
	db *sql.DB
}

// StoredEntry is a ledger row together with its log metadata.
type StoredEntry struct {
	ID         int64
	Entry      core.LeaseEntry
	BatchID    string
	SyncStatus string
	CreatedAt  time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const entryColumns = `building_id, unit_id, area, owner_name, tenant_name,
	contract_start, contract_end, check_in, check_out,
	landlord_rent, tenant_rent, landlord_paid, landlord_deposit,
	tenant_received, tenant_deposit,
	commission_sale1, commission_sale2, commission_referral, commission_agency,
	expense_electric, expense_water, expense_internet, expense_other,
	batch_id`

// Append implements ledger.EntryWriter. The returned row reference is the
// log id as text.
func (r *SQLiteRepository) Append(ctx context.Context, e core.LeaseEntry) (string, error) {
	return r.AppendBatch(ctx, e, "")
}

// AppendBatch appends an entry tagged with an import batch id.
func (r *SQLiteRepository) AppendBatch(ctx context.Context, e core.LeaseEntry, batchID string) (string, error) {
	e.UnitID = core.NormalizeUnitID(e.UnitID)
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validate entry: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO lease_entries (`+entryColumns+`) VALUES
		(?, ?, ?, ?, ?,  ?, ?, ?, ?,  ?, ?, ?, ?, ?, ?,  ?, ?, ?, ?,  ?, ?, ?, ?,  ?)`,
		e.BuildingID, e.UnitID, e.Area, e.OwnerName, e.TenantName,
		dateArg(e.ContractStart), dateArg(e.ContractEnd), dateArg(e.CheckIn), dateArg(e.CheckOut),
		int64(e.LandlordRent), int64(e.TenantRent), int64(e.LandlordPaid), int64(e.LandlordDeposit),
		int64(e.TenantReceived), int64(e.TenantDeposit),
		int64(e.Commission.Sale1), int64(e.Commission.Sale2), int64(e.Commission.Referral), int64(e.Commission.Agency),
		int64(e.Expenses.Electric), int64(e.Expenses.Water), int64(e.Expenses.Internet), int64(e.Expenses.Other),
		batchID,
	)
	if err != nil {
		return "", fmt.Errorf("insert lease entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Lease entry appended",
		"entry_id", id, "building", e.BuildingID, "unit", e.UnitID, "batch_id", batchID)
	return strconv.FormatInt(id, 10), nil
}

// ListEntries implements ledger.EntryLister, returning the log in append
// order.
func (r *SQLiteRepository) ListEntries(ctx context.Context) ([]core.LeaseEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM lease_entries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list lease entries: %w", err)
	}
	defer rows.Close()

	var out []core.LeaseEntry
	for rows.Next() {
		var sc entryRowScanner
		if err := rows.Scan(sc.entryDests()...); err != nil {
			return nil, fmt.Errorf("scan lease entry: %w", err)
		}
		out = append(out, sc.leaseEntry())
	}
	return out, rows.Err()
}

// GetEntry fetches one row by log id.
func (r *SQLiteRepository) GetEntry(ctx context.Context, id int64) (*StoredEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, `+entryColumns+`, sync_status, created_at FROM lease_entries WHERE id = ?`, id)

	var sc entryRowScanner
	if err := row.Scan(sc.storedDests()...); err != nil {
		return nil, fmt.Errorf("get lease entry %d: %w", id, err)
	}
	se := sc.storedEntry()
	return &se, nil
}

// PendingSync returns up to limit rows that still need to reach the mirror.
func (r *SQLiteRepository) PendingSync(ctx context.Context, limit int) ([]StoredEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, `+entryColumns+`, sync_status, created_at FROM lease_entries
		 WHERE sync_status = ? ORDER BY id LIMIT ?`, SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending entries: %w", err)
	}
	defer rows.Close()

	var out []StoredEntry
	for rows.Next() {
		var sc entryRowScanner
		if err := rows.Scan(sc.storedDests()...); err != nil {
			return nil, fmt.Errorf("scan pending entry: %w", err)
		}
		out = append(out, sc.storedEntry())
	}
	return out, rows.Err()
}

// MarkSynced records that a row reached the mirror.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE lease_entries SET sync_status = ? WHERE id = ?`, SyncDone, id); err != nil {
		return fmt.Errorf("mark entry synced: %w", err)
	}
	return nil
}

// MarkSyncError bumps the attempt counter; after three failures the row stays
// in error state until an operator re-queues it.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE lease_entries
		 SET sync_attempts = sync_attempts + 1,
		     sync_status = CASE WHEN sync_attempts + 1 >= 3 THEN ? ELSE ? END
		 WHERE id = ?`, SyncError, SyncPending, id); err != nil {
		return fmt.Errorf("mark entry sync error: %w", err)
	}
	slog.WarnContext(ctx, "Lease entry sync failed", "entry_id", id)
	return nil
}

// CountByStatus reports log size per sync state, for the readiness probe.
func (r *SQLiteRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT sync_status, COUNT(*) FROM lease_entries GROUP BY sync_status`)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}

func dateArg(d core.Date) any {
	if d.IsMissing() {
		return nil
	}
	return d.Time.Format("2006-01-02")
}

// entryRowScanner receives one database row. Date columns land in
// sql.NullString scratch fields first because the schema stores them as
// nullable ISO text.
type entryRowScanner struct {
	id         int64
	entry      core.LeaseEntry
	batchID    string
	syncStatus string
	createdAt  time.Time

	contractStart, contractEnd, checkIn, checkOut sql.NullString
}

func (sc *entryRowScanner) entryDests() []any {
	e := &sc.entry
	return []any{
		&e.BuildingID, &e.UnitID, &e.Area, &e.OwnerName, &e.TenantName,
		&sc.contractStart, &sc.contractEnd, &sc.checkIn, &sc.checkOut,
		&e.LandlordRent, &e.TenantRent, &e.LandlordPaid, &e.LandlordDeposit,
		&e.TenantReceived, &e.TenantDeposit,
		&e.Commission.Sale1, &e.Commission.Sale2, &e.Commission.Referral, &e.Commission.Agency,
		&e.Expenses.Electric, &e.Expenses.Water, &e.Expenses.Internet, &e.Expenses.Other,
		&sc.batchID,
	}
}

func (sc *entryRowScanner) storedDests() []any {
	dst := append([]any{&sc.id}, sc.entryDests()...)
	return append(dst, &sc.syncStatus, &sc.createdAt)
}

func (sc *entryRowScanner) leaseEntry() core.LeaseEntry {
	e := sc.entry
	e.ContractStart = dateFromNull(sc.contractStart)
	e.ContractEnd = dateFromNull(sc.contractEnd)
	e.CheckIn = dateFromNull(sc.checkIn)
	e.CheckOut = dateFromNull(sc.checkOut)
	return e
}

func (sc *entryRowScanner) storedEntry() StoredEntry {
	return StoredEntry{
		ID:         sc.id,
		Entry:      sc.leaseEntry(),
		BatchID:    sc.batchID,
		SyncStatus: sc.syncStatus,
		CreatedAt:  sc.createdAt,
	}
}

func dateFromNull(ns sql.NullString) core.Date {
	if !ns.Valid {
		return core.Date{}
	}
	return core.ParseDate(ns.String)
}
