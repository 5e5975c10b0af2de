package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"quanly/internal/core"
)

// parseYearMonth extracts year and month from query parameters, defaulting
// to the current month. Range checks happen in the report layer.
func parseYearMonth(r *http.Request) (year, month int) {
	now := time.Now()
	year = now.Year()
	month = int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			month = m
		}
	}

	return year, month
}

// parseTaxRate reads the tax_rate query parameter as a percentage and
// returns it as a fraction. Absent means -1, which selects the configured
// default downstream.
func parseTaxRate(r *http.Request) (float64, error) {
	v := strings.TrimSpace(r.URL.Query().Get("tax_rate"))
	if v == "" {
		return -1, nil
	}
	pct, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("tax_rate %q is not a number", v)
	}
	if pct < 0 || pct > 100 {
		return 0, fmt.Errorf("tax_rate %v out of range [0, 100]", pct)
	}
	return pct / 100, nil
}

// entryRequest is the wire form of one lease entry. Amount fields accept
// both JSON numbers and formatted strings ("1.500.000"); dates accept any
// layout the ledger parsers know.
type entryRequest struct {
	BuildingID string `json:"building_id"`
	UnitID     string `json:"unit_id"`
	Area       string `json:"area"`
	OwnerName  string `json:"owner_name"`
	TenantName string `json:"tenant_name"`

	ContractStart string `json:"contract_start"`
	ContractEnd   string `json:"contract_end"`
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`

	LandlordRent    any `json:"landlord_rent"`
	TenantRent      any `json:"tenant_rent"`
	LandlordPaid    any `json:"landlord_paid"`
	LandlordDeposit any `json:"landlord_deposit"`
	TenantReceived  any `json:"tenant_received"`
	TenantDeposit   any `json:"tenant_deposit"`

	CommissionSale1    any `json:"commission_sale1"`
	CommissionSale2    any `json:"commission_sale2"`
	CommissionReferral any `json:"commission_referral"`
	CommissionAgency   any `json:"commission_agency"`

	ExpenseElectric any `json:"expense_electric"`
	ExpenseWater    any `json:"expense_water"`
	ExpenseInternet any `json:"expense_internet"`
	ExpenseOther    any `json:"expense_other"`
}

func (req entryRequest) toEntry() core.LeaseEntry {
	return core.LeaseEntry{
		BuildingID: strings.TrimSpace(req.BuildingID),
		UnitID:     core.NormalizeUnitID(req.UnitID),
		Area:       strings.TrimSpace(req.Area),
		OwnerName:  strings.TrimSpace(req.OwnerName),
		TenantName: strings.TrimSpace(req.TenantName),

		ContractStart: core.ParseDate(req.ContractStart),
		ContractEnd:   core.ParseDate(req.ContractEnd),
		CheckIn:       core.ParseDate(req.CheckIn),
		CheckOut:      core.ParseDate(req.CheckOut),

		LandlordRent:    core.AmountFromCell(req.LandlordRent),
		TenantRent:      core.AmountFromCell(req.TenantRent),
		LandlordPaid:    core.AmountFromCell(req.LandlordPaid),
		LandlordDeposit: core.AmountFromCell(req.LandlordDeposit),
		TenantReceived:  core.AmountFromCell(req.TenantReceived),
		TenantDeposit:   core.AmountFromCell(req.TenantDeposit),

		Commission: core.Commission{
			Sale1:    core.AmountFromCell(req.CommissionSale1),
			Sale2:    core.AmountFromCell(req.CommissionSale2),
			Referral: core.AmountFromCell(req.CommissionReferral),
			Agency:   core.AmountFromCell(req.CommissionAgency),
		},
		Expenses: core.OpExpenses{
			Electric: core.AmountFromCell(req.ExpenseElectric),
			Water:    core.AmountFromCell(req.ExpenseWater),
			Internet: core.AmountFromCell(req.ExpenseInternet),
			Other:    core.AmountFromCell(req.ExpenseOther),
		},
	}
}

// entryDraft carries identity fields forward within one request batch,
// mirroring the spreadsheet habit of leaving repeated cells blank below
// the first row of a unit. It never outlives the request.
type entryDraft struct {
	buildingID string
	unitID     string
	area       string
	ownerName  string
}

func (d *entryDraft) apply(e *core.LeaseEntry) {
	if e.BuildingID == "" {
		e.BuildingID = d.buildingID
	} else {
		d.buildingID = e.BuildingID
	}
	if e.UnitID == "" {
		e.UnitID = d.unitID
	} else {
		d.unitID = e.UnitID
	}
	if e.Area == "" {
		e.Area = d.area
	} else {
		d.area = e.Area
	}
	if e.OwnerName == "" {
		e.OwnerName = d.ownerName
	} else {
		d.ownerName = e.OwnerName
	}
}

// decodeEntries reads the request body as either a single entry object or
// an array of them. Within an array, blank identity fields inherit from
// the previous element.
func decodeEntries(r *http.Request) ([]core.LeaseEntry, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, fmt.Errorf("empty body")
	}

	var reqs []entryRequest
	if trimmed[0] == '[' {
		if err := json.Unmarshal(body, &reqs); err != nil {
			return nil, fmt.Errorf("decode entries: %w", err)
		}
	} else {
		var one entryRequest
		if err := json.Unmarshal(body, &one); err != nil {
			return nil, fmt.Errorf("decode entry: %w", err)
		}
		reqs = []entryRequest{one}
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("no entries in body")
	}

	entries := make([]core.LeaseEntry, 0, len(reqs))
	var draft entryDraft
	for _, req := range reqs {
		e := req.toEntry()
		draft.apply(&e)
		entries = append(entries, e)
	}
	return entries, nil
}
