package core

import "math"

// Warning tags attached to report rows whose numbers need a second look.
// They annotate the row instead of blocking the report.
const (
	WarnMissingDates = "missing dates"
	WarnZeroOnZero   = "zero profit with zero cost"
	WarnNegative     = "negative profit"
)

// daysPerMonth is the fixed month length used by lifetime proration. It is
// deliberately not calendar-accurate; reports have always used it and the
// figures are comparable only as long as it stays fixed.
const daysPerMonth = 30.0

type (
	// UnitResult is one row of the lifetime (all-time) profit report.
	UnitResult struct {
		BuildingID string
		UnitID     string

		OccupiedMonths float64
		Revenue        Amount
		CostOfGoods    Amount
		Commissions    Amount
		Expenses       Amount
		NetProfit      Amount

		MissingDates bool
		Warnings     []string
		Note         string
	}

	// PeriodResult is one row of a month (or arbitrary window) report.
	// Rates are attributed in full to any overlapping window, not pro-rated.
	PeriodResult struct {
		BuildingID string
		UnitID     string

		ContractActive  bool
		OccupancyActive bool

		Cost      Amount
		Revenue   Amount
		Tax       Amount
		NetProfit Amount

		Warnings []string
	}

	// CashflowResult splits a month's cash movement into recurring rate
	// amounts and one-time amounts (deposits, commissions), per unit.
	CashflowResult struct {
		BuildingID string
		UnitID     string

		RateIn     Amount
		RateOut    Amount
		OneTimeIn  Amount
		OneTimeOut Amount
		Net        Amount
	}
)

// OccupiedMonths converts the tenant stay into months at the fixed 30-day
// approximation. Either endpoint missing means zero months.
func OccupiedMonths(e LeaseEntry) float64 {
	if e.CheckIn.IsMissing() || e.CheckOut.IsMissing() {
		return 0
	}
	days := e.CheckOut.Time.Sub(e.CheckIn.Time).Hours() / 24
	return math.Max(0, days/daysPerMonth)
}

// LifetimeReport computes the all-time pro-rated profit and loss per unit.
// Every summary yields a row; rows the engine cannot anchor in time are
// flagged rather than dropped, so a record-keeping gap is visible instead of
// masquerading as a break-even unit.
func LifetimeReport(summaries []UnitSummary) []UnitResult {
	out := make([]UnitResult, 0, len(summaries))
	for _, s := range summaries {
		months := OccupiedMonths(s.LeaseEntry)
		revenue := scaleAmount(s.TenantRent, months)
		cost := scaleAmount(s.LandlordRent, months)
		commissions := s.Commission.Total()
		expenses := s.Expenses.Total()
		net := revenue - cost - commissions - expenses

		r := UnitResult{
			BuildingID:     s.BuildingID,
			UnitID:         s.UnitID,
			OccupiedMonths: months,
			Revenue:        revenue,
			CostOfGoods:    cost,
			Commissions:    commissions,
			Expenses:       expenses,
			NetProfit:      net,
			Note:           s.Note,
		}
		if months == 0 && !s.HasContract() && !s.HasOccupancy() && commissions == 0 && expenses == 0 {
			r.MissingDates = true
			r.Warnings = append(r.Warnings, WarnMissingDates)
		}
		if net == 0 && cost == 0 && commissions == 0 && !r.MissingDates {
			r.Warnings = append(r.Warnings, WarnZeroOnZero)
		}
		if net < 0 {
			r.Warnings = append(r.Warnings, WarnNegative)
		}
		out = append(out, r)
	}
	return out
}

// PeriodReport computes per-unit figures for one reporting window using
// strict-overlap attribution: the full monthly rate lands in any window the
// date range touches. taxRate is a fraction of revenue (0.10 = 10%).
//
// Units with no overlap on either side are omitted entirely, not shown as
// zero rows.
func PeriodReport(summaries []UnitSummary, w Window, taxRate float64) []PeriodResult {
	var out []PeriodResult
	for _, s := range summaries {
		contract := ActiveByContract(s.LeaseEntry, w)
		occupancy := ActiveByOccupancy(s.LeaseEntry, w)
		if !contract && !occupancy {
			continue
		}

		var cost, revenue Amount
		if contract {
			cost = s.LandlordRent
		}
		if occupancy {
			revenue = s.TenantRent
		}
		tax := scaleAmount(revenue, taxRate)
		net := revenue - cost - tax

		r := PeriodResult{
			BuildingID:      s.BuildingID,
			UnitID:          s.UnitID,
			ContractActive:  contract,
			OccupancyActive: occupancy,
			Cost:            cost,
			Revenue:         revenue,
			Tax:             tax,
			NetProfit:       net,
		}
		if net < 0 {
			r.Warnings = append(r.Warnings, WarnNegative)
		}
		out = append(out, r)
	}
	return out
}

// CashflowReport computes the actual cash movement of one calendar month.
// Monthly rates count whenever their range overlaps the month; one-time
// amounts (deposits, commissions) count only in the month the relevant range
// starts, so a deposit is not re-counted in every month a stay spans.
func CashflowReport(summaries []UnitSummary, year, month int) ([]CashflowResult, error) {
	w, err := MonthWindow(year, month)
	if err != nil {
		return nil, err
	}
	var out []CashflowResult
	for _, s := range summaries {
		var r CashflowResult
		r.BuildingID = s.BuildingID
		r.UnitID = s.UnitID

		if ActiveByOccupancy(s.LeaseEntry, w) {
			r.RateIn = s.TenantRent
		}
		if ActiveByContract(s.LeaseEntry, w) {
			r.RateOut = s.LandlordRent
		}
		if w.Contains(s.CheckIn) {
			r.OneTimeIn = s.TenantDeposit
			r.OneTimeOut += s.Commission.Total()
		}
		if w.Contains(s.ContractStart) {
			r.OneTimeOut += s.LandlordDeposit
		}

		if r.RateIn == 0 && r.RateOut == 0 && r.OneTimeIn == 0 && r.OneTimeOut == 0 {
			continue
		}
		r.Net = r.RateIn + r.OneTimeIn - r.RateOut - r.OneTimeOut
		out = append(out, r)
	}
	return out, nil
}

// scaleAmount multiplies a whole-unit amount by a fraction, rounding half
// away from zero.
func scaleAmount(a Amount, factor float64) Amount {
	return Amount(math.Round(float64(a) * factor))
}
