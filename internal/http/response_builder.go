package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"quanly/internal/core"
	"quanly/internal/services"
)

type apiError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiError{Error: msg})
}

// dateString renders a date as ISO, empty when missing.
func dateString(d core.Date) string {
	if d.IsMissing() {
		return ""
	}
	return d.Time.Format("2006-01-02")
}

type unitRow struct {
	BuildingID string `json:"building_id"`
	UnitID     string `json:"unit_id"`
	Area       string `json:"area,omitempty"`
	OwnerName  string `json:"owner_name,omitempty"`
	TenantName string `json:"tenant_name,omitempty"`

	ContractStart string `json:"contract_start,omitempty"`
	ContractEnd   string `json:"contract_end,omitempty"`
	CheckIn       string `json:"check_in,omitempty"`
	CheckOut      string `json:"check_out,omitempty"`

	LandlordRent    core.Amount `json:"landlord_rent"`
	TenantRent      core.Amount `json:"tenant_rent"`
	LandlordPaid    core.Amount `json:"landlord_paid"`
	LandlordDeposit core.Amount `json:"landlord_deposit"`
	TenantReceived  core.Amount `json:"tenant_received"`
	TenantDeposit   core.Amount `json:"tenant_deposit"`
	Commissions     core.Amount `json:"commissions"`
	Expenses        core.Amount `json:"expenses"`

	Entries int    `json:"entries"`
	Note    string `json:"note,omitempty"`
}

func buildUnitRows(summaries []core.UnitSummary) []unitRow {
	rows := make([]unitRow, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, unitRow{
			BuildingID:      s.BuildingID,
			UnitID:          s.UnitID,
			Area:            s.Area,
			OwnerName:       s.OwnerName,
			TenantName:      s.TenantName,
			ContractStart:   dateString(s.ContractStart),
			ContractEnd:     dateString(s.ContractEnd),
			CheckIn:         dateString(s.CheckIn),
			CheckOut:        dateString(s.CheckOut),
			LandlordRent:    s.LandlordRent,
			TenantRent:      s.TenantRent,
			LandlordPaid:    s.LandlordPaid,
			LandlordDeposit: s.LandlordDeposit,
			TenantReceived:  s.TenantReceived,
			TenantDeposit:   s.TenantDeposit,
			Commissions:     s.Commission.Total(),
			Expenses:        s.Expenses.Total(),
			Entries:         s.Entries,
			Note:            s.Note,
		})
	}
	return rows
}

type lifetimeRow struct {
	BuildingID string `json:"building_id"`
	UnitID     string `json:"unit_id"`

	OccupiedMonths float64     `json:"occupied_months"`
	Revenue        core.Amount `json:"revenue"`
	CostOfGoods    core.Amount `json:"cost_of_goods"`
	Commissions    core.Amount `json:"commissions"`
	Expenses       core.Amount `json:"expenses"`
	NetProfit      core.Amount `json:"net_profit"`

	NetProfitDisplay string `json:"net_profit_display"`

	MissingDates bool     `json:"missing_dates,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
	Note         string   `json:"note,omitempty"`
}

func buildLifetimeRows(results []core.UnitResult) []lifetimeRow {
	rows := make([]lifetimeRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, lifetimeRow{
			BuildingID:       r.BuildingID,
			UnitID:           r.UnitID,
			OccupiedMonths:   r.OccupiedMonths,
			Revenue:          r.Revenue,
			CostOfGoods:      r.CostOfGoods,
			Commissions:      r.Commissions,
			Expenses:         r.Expenses,
			NetProfit:        r.NetProfit,
			NetProfitDisplay: r.NetProfit.Format(),
			MissingDates:     r.MissingDates,
			Warnings:         r.Warnings,
			Note:             r.Note,
		})
	}
	return rows
}

type periodRow struct {
	BuildingID string `json:"building_id"`
	UnitID     string `json:"unit_id"`

	ContractActive  bool `json:"contract_active"`
	OccupancyActive bool `json:"occupancy_active"`

	Cost      core.Amount `json:"cost"`
	Revenue   core.Amount `json:"revenue"`
	Tax       core.Amount `json:"tax"`
	NetProfit core.Amount `json:"net_profit"`

	NetProfitDisplay string `json:"net_profit_display"`

	Warnings []string `json:"warnings,omitempty"`
}

func buildPeriodRows(results []core.PeriodResult) []periodRow {
	rows := make([]periodRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, periodRow{
			BuildingID:       r.BuildingID,
			UnitID:           r.UnitID,
			ContractActive:   r.ContractActive,
			OccupancyActive:  r.OccupancyActive,
			Cost:             r.Cost,
			Revenue:          r.Revenue,
			Tax:              r.Tax,
			NetProfit:        r.NetProfit,
			NetProfitDisplay: r.NetProfit.Format(),
			Warnings:         r.Warnings,
		})
	}
	return rows
}

type cashflowRow struct {
	BuildingID string `json:"building_id"`
	UnitID     string `json:"unit_id"`

	RateIn     core.Amount `json:"rate_in"`
	RateOut    core.Amount `json:"rate_out"`
	OneTimeIn  core.Amount `json:"one_time_in"`
	OneTimeOut core.Amount `json:"one_time_out"`
	Net        core.Amount `json:"net"`

	NetDisplay string `json:"net_display"`
}

func buildCashflowRows(results []core.CashflowResult) []cashflowRow {
	rows := make([]cashflowRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, cashflowRow{
			BuildingID: r.BuildingID,
			UnitID:     r.UnitID,
			RateIn:     r.RateIn,
			RateOut:    r.RateOut,
			OneTimeIn:  r.OneTimeIn,
			OneTimeOut: r.OneTimeOut,
			Net:        r.Net,
			NetDisplay: r.Net.Format(),
		})
	}
	return rows
}

type reportResponse[T any] struct {
	Year    int     `json:"year,omitempty"`
	Month   int     `json:"month,omitempty"`
	TaxRate float64 `json:"tax_rate,omitempty"`
	Rows    []T     `json:"rows"`
}

type dashboardResponse struct {
	Year     int           `json:"year"`
	Month    int           `json:"month"`
	TaxRate  float64       `json:"tax_rate"`
	Period   []periodRow   `json:"period"`
	Cashflow []cashflowRow `json:"cashflow"`
}

func buildDashboardResponse(d services.Dashboard) dashboardResponse {
	return dashboardResponse{
		Year:     d.Year,
		Month:    d.Month,
		TaxRate:  d.TaxRate,
		Period:   buildPeriodRows(d.Period),
		Cashflow: buildCashflowRows(d.Cashflow),
	}
}
