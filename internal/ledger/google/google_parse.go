package google

import (
	"fmt"
	"strconv"
	"strings"

	"quanly/internal/core"
)

// column binds a canonical header to the accessors for one LeaseEntry field.
// The sheet is all-text: amounts and dates are serialized to strings on
// write and re-normalized through the core parsers on read.
type column struct {
	Header  string
	Aliases []string // headers seen in older sheets, Vietnamese included
	Read    func(e *core.LeaseEntry, cell string)
	Write   func(e *core.LeaseEntry) string
}

func amountCol(header string, aliases []string, get func(*core.LeaseEntry) *core.Amount) column {
	return column{
		Header:  header,
		Aliases: aliases,
		Read:    func(e *core.LeaseEntry, cell string) { *get(e) = core.ParseAmount(cell) },
		Write:   func(e *core.LeaseEntry) string { return get(e).Format() },
	}
}

func dateCol(header string, aliases []string, get func(*core.LeaseEntry) *core.Date) column {
	return column{
		Header:  header,
		Aliases: aliases,
		Read:    func(e *core.LeaseEntry, cell string) { *get(e) = core.ParseDate(cell) },
		Write:   func(e *core.LeaseEntry) string { return get(e).Format() },
	}
}

func textCol(header string, aliases []string, get func(*core.LeaseEntry) *string) column {
	return column{
		Header:  header,
		Aliases: aliases,
		Read:    func(e *core.LeaseEntry, cell string) { *get(e) = strings.TrimSpace(cell) },
		Write:   func(e *core.LeaseEntry) string { return *get(e) },
	}
}

// columns is the fixed column set of the lease table, in sheet order.
var columns = []column{
	textCol("building_id", []string{"Mã tòa nhà"}, func(e *core.LeaseEntry) *string { return &e.BuildingID }),
	{
		Header:  "unit_id",
		Aliases: []string{"Mã căn hộ", "Mã căn hộ/phòng"},
		Read:    func(e *core.LeaseEntry, cell string) { e.UnitID = core.NormalizeUnitID(cell) },
		Write:   func(e *core.LeaseEntry) string { return e.UnitID },
	},
	textCol("area", []string{"Thuộc khu vực", "Khu vực"}, func(e *core.LeaseEntry) *string { return &e.Area }),
	textCol("owner_name", []string{"Tên chủ nhà", "Chủ nhà"}, func(e *core.LeaseEntry) *string { return &e.OwnerName }),
	textCol("tenant_name", []string{"Tên khách hàng", "Khách thuê"}, func(e *core.LeaseEntry) *string { return &e.TenantName }),
	dateCol("contract_start", []string{"Ngày ký HĐ"}, func(e *core.LeaseEntry) *core.Date { return &e.ContractStart }),
	dateCol("contract_end", []string{"Ngày hết HĐ"}, func(e *core.LeaseEntry) *core.Date { return &e.ContractEnd }),
	dateCol("check_in", []string{"Ngày Check-in"}, func(e *core.LeaseEntry) *core.Date { return &e.CheckIn }),
	dateCol("check_out", []string{"Ngày Check-out"}, func(e *core.LeaseEntry) *core.Date { return &e.CheckOut }),
	amountCol("landlord_rent", []string{"Giá thuê từ chủ nhà", "Giá gốc"}, func(e *core.LeaseEntry) *core.Amount { return &e.LandlordRent }),
	amountCol("tenant_rent", []string{"Giá cho khách thuê", "Giá cho thuê"}, func(e *core.LeaseEntry) *core.Amount { return &e.TenantRent }),
	amountCol("landlord_paid", []string{"Đã trả chủ nhà"}, func(e *core.LeaseEntry) *core.Amount { return &e.LandlordPaid }),
	amountCol("landlord_deposit", []string{"Cọc chủ nhà"}, func(e *core.LeaseEntry) *core.Amount { return &e.LandlordDeposit }),
	amountCol("tenant_received", []string{"Đã thu khách"}, func(e *core.LeaseEntry) *core.Amount { return &e.TenantReceived }),
	amountCol("tenant_deposit", []string{"Cọc khách"}, func(e *core.LeaseEntry) *core.Amount { return &e.TenantDeposit }),
	amountCol("commission_sale1", []string{"Tiền hoa hồng", "Hoa hồng sale 1"}, func(e *core.LeaseEntry) *core.Amount { return &e.Commission.Sale1 }),
	amountCol("commission_sale2", []string{"Hoa hồng sale 2"}, func(e *core.LeaseEntry) *core.Amount { return &e.Commission.Sale2 }),
	amountCol("commission_referral", []string{"Hoa hồng giới thiệu"}, func(e *core.LeaseEntry) *core.Amount { return &e.Commission.Referral }),
	amountCol("commission_agency", []string{"Hoa hồng sàn"}, func(e *core.LeaseEntry) *core.Amount { return &e.Commission.Agency }),
	amountCol("expense_electric", []string{"Tiền điện"}, func(e *core.LeaseEntry) *core.Amount { return &e.Expenses.Electric }),
	amountCol("expense_water", []string{"Tiền nước"}, func(e *core.LeaseEntry) *core.Amount { return &e.Expenses.Water }),
	amountCol("expense_internet", []string{"Internet"}, func(e *core.LeaseEntry) *core.Amount { return &e.Expenses.Internet }),
	amountCol("expense_other", []string{"Chi phí khác"}, func(e *core.LeaseEntry) *core.Amount { return &e.Expenses.Other }),
}

// headerIndex maps each header cell of the sheet's first row to a column
// definition. Unknown headers are ignored; known-but-absent columns leave
// their fields at the zero value, which the core treats as absent.
func headerIndex(headerRow []string) map[int]*column {
	byName := make(map[string]*column, len(columns)*2)
	for i := range columns {
		c := &columns[i]
		byName[normalizeHeader(c.Header)] = c
		for _, a := range c.Aliases {
			byName[normalizeHeader(a)] = c
		}
	}
	idx := make(map[int]*column)
	for i, h := range headerRow {
		if c, ok := byName[normalizeHeader(h)]; ok {
			idx[i] = c
		}
	}
	return idx
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// parseRows converts a values matrix (header row first) into lease entries.
func parseRows(values [][]any) []core.LeaseEntry {
	rows := make([][]string, len(values))
	for i, raw := range values {
		rows[i] = toStrings(raw)
	}
	return ParseTable(rows)
}

// ParseTable converts a text matrix (header row first) into lease entries.
// Rows with no recognizable content are skipped. XLSX exports of the ledger
// table share the sheet's header layout, so the importer reuses this mapping.
func ParseTable(rows [][]string) []core.LeaseEntry {
	if len(rows) == 0 {
		return nil
	}
	idx := headerIndex(rows[0])
	if len(idx) == 0 {
		return nil
	}
	var out []core.LeaseEntry
	for _, row := range rows[1:] {
		var e core.LeaseEntry
		empty := true
		for i, c := range idx {
			if i >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			empty = false
			c.Read(&e, cell)
		}
		if empty {
			continue
		}
		out = append(out, e)
	}
	return out
}

// entryRow serializes one entry into the fixed column order, all cells text.
func entryRow(e core.LeaseEntry) []any {
	row := make([]any, len(columns))
	for i := range columns {
		row[i] = columns[i].Write(&e)
	}
	return row
}

// headerRowValues is the canonical header row written by ReplaceAll.
func headerRowValues() []any {
	row := make([]any, len(columns))
	for i := range columns {
		row[i] = columns[i].Header
	}
	return row
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		switch x := v.(type) {
		case nil:
			out[i] = ""
		case string:
			out[i] = x
		case float64:
			// Typed cells from hand-edited sheets; avoid exponent notation
			// so numeric ids and amounts survive the text parsers.
			out[i] = strconv.FormatFloat(x, 'f', -1, 64)
		default:
			out[i] = strings.TrimSpace(fmt.Sprint(v))
		}
	}
	return out
}
