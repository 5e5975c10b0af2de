package http

import (
	"errors"
	"log/slog"
	"net/http"

	"quanly/internal/core"
	"quanly/internal/log"
)

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if !s.rateLimiter.Allow(clientIP(r)) {
		w.Header().Set("Retry-After", "60")
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	entries, err := decodeEntries(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	type createdEntry struct {
		Ref        string `json:"ref"`
		BuildingID string `json:"building_id"`
		UnitID     string `json:"unit_id"`
	}
	created := make([]createdEntry, 0, len(entries))

	for _, e := range entries {
		if err := e.Validate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}

	for _, e := range entries {
		ref, err := s.writer.Append(r.Context(), e)
		if err != nil {
			slog.ErrorContext(r.Context(), "Entry append error",
				log.FieldError, err,
				log.FieldBuilding, e.BuildingID,
				log.FieldUnit, e.UnitID)
			writeError(w, http.StatusInternalServerError, "failed to save entry")
			return
		}
		created = append(created, createdEntry{Ref: ref, BuildingID: e.BuildingID, UnitID: e.UnitID})
	}

	s.purgeReportCaches()

	writeJSON(w, http.StatusCreated, struct {
		Created []createdEntry `json:"created"`
	}{Created: created})
}

func (s *Server) handleUnits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	const key = "units"
	if rows, found := s.unitsCache.Get(key); found {
		writeJSON(w, http.StatusOK, struct {
			Units []unitRow `json:"units"`
		}{Units: buildUnitRows(rows)})
		return
	}

	summaries, err := s.reports.Units(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Units list error", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "failed to list units")
		return
	}
	s.unitsCache.Set(key, summaries)

	writeJSON(w, http.StatusOK, struct {
		Units []unitRow `json:"units"`
	}{Units: buildUnitRows(summaries)})
}

func (s *Server) handleLifetimeReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	const key = "lifetime"
	results, found := s.lifetimeCache.Get(key)
	if !found {
		var err error
		results, err = s.reports.Lifetime(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Lifetime report error", log.FieldError, err)
			writeError(w, http.StatusInternalServerError, "failed to build report")
			return
		}
		s.lifetimeCache.Set(key, results)
	}

	writeJSON(w, http.StatusOK, reportResponse[lifetimeRow]{Rows: buildLifetimeRows(results)})
}

func (s *Server) handlePeriodReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	year, month := parseYearMonth(r)
	taxRate, err := parseTaxRate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := s.reports.Period(r.Context(), year, month, taxRate)
	if err != nil {
		s.writeReportError(w, r, err, year, month)
		return
	}
	if taxRate < 0 {
		taxRate = s.reports.DefaultTaxRate()
	}

	writeJSON(w, http.StatusOK, reportResponse[periodRow]{
		Year:    year,
		Month:   month,
		TaxRate: taxRate,
		Rows:    buildPeriodRows(results),
	})
}

func (s *Server) handleCashflowReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	year, month := parseYearMonth(r)

	results, err := s.reports.Cashflow(r.Context(), year, month)
	if err != nil {
		s.writeReportError(w, r, err, year, month)
		return
	}

	writeJSON(w, http.StatusOK, reportResponse[cashflowRow]{
		Year:  year,
		Month: month,
		Rows:  buildCashflowRows(results),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	year, month := parseYearMonth(r)
	taxRate, err := parseTaxRate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := dashboardKey(year, month, taxRate)
	d, found := s.dashboardCache.Get(key)
	if !found {
		d, err = s.reports.ReadDashboard(r.Context(), year, month, taxRate)
		if err != nil {
			s.writeReportError(w, r, err, year, month)
			return
		}
		s.dashboardCache.Set(key, d)
	}

	writeJSON(w, http.StatusOK, buildDashboardResponse(d))
}

func (s *Server) writeReportError(w http.ResponseWriter, r *http.Request, err error, year, month int) {
	if errors.Is(err, core.ErrInvalidMonth) || errors.Is(err, core.ErrInvalidYear) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	slog.ErrorContext(r.Context(), "Report error",
		log.FieldError, err, log.FieldYear, year, log.FieldMonth, month)
	writeError(w, http.StatusInternalServerError, "failed to build report")
}
