package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quanly/internal/core"
	"quanly/internal/ledger/memory"
	"quanly/internal/services"
)

func newTestServer(entries ...core.LeaseEntry) *Server {
	store := memory.NewSeeded(entries)
	reports := services.NewReportService(store, 0.1)
	return NewServer(":0", store, reports, time.Minute)
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer()

	if rec := doRequest(t, s, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("GET /healthz = %d, want 200", rec.Code)
	}
	if rec := doRequest(t, s, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Errorf("GET /readyz = %d, want 200", rec.Code)
	}
}

func TestCreateEntryAndListUnits(t *testing.T) {
	s := newTestServer()

	rec := doRequest(t, s, http.MethodPost, "/api/entries", `{
		"building_id": "B1",
		"unit_id": "101.0",
		"owner_name": "Minh",
		"contract_start": "01/01/2024",
		"tenant_rent": "6.000.000"
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/entries = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, s, http.MethodGet, "/api/units", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/units = %d", rec.Code)
	}
	var resp struct {
		Units []unitRow `json:"units"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode units: %v", err)
	}
	if len(resp.Units) != 1 {
		t.Fatalf("units = %d, want 1", len(resp.Units))
	}
	u := resp.Units[0]
	if u.UnitID != "101" {
		t.Errorf("UnitID = %q, want normalized 101", u.UnitID)
	}
	if u.TenantRent != 6_000_000 {
		t.Errorf("TenantRent = %d, want 6000000", u.TenantRent)
	}
	if u.ContractStart != "2024-01-01" {
		t.Errorf("ContractStart = %q, want 2024-01-01", u.ContractStart)
	}
}

func TestCreateEntriesBatchInheritsIdentity(t *testing.T) {
	s := newTestServer()

	rec := doRequest(t, s, http.MethodPost, "/api/entries", `[
		{"building_id": "B1", "unit_id": "A101", "owner_name": "Minh", "landlord_rent": 4000000},
		{"tenant_name": "Lan", "tenant_rent": 6000000}
	]`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST batch = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, s, http.MethodGet, "/api/units", "")
	var resp struct {
		Units []unitRow `json:"units"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode units: %v", err)
	}
	if len(resp.Units) != 1 {
		t.Fatalf("units = %d, want 1 consolidated record", len(resp.Units))
	}
	u := resp.Units[0]
	if u.Entries != 2 {
		t.Errorf("Entries = %d, want 2", u.Entries)
	}
	if u.LandlordRent != 4_000_000 || u.TenantRent != 6_000_000 {
		t.Errorf("rates = %d/%d, want 4000000/6000000", u.LandlordRent, u.TenantRent)
	}
	if u.TenantName != "Lan" {
		t.Errorf("TenantName = %q, want Lan", u.TenantName)
	}
}

func TestCreateEntryRejectsMissingKey(t *testing.T) {
	s := newTestServer()

	rec := doRequest(t, s, http.MethodPost, "/api/entries", `{"tenant_rent": 1}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("POST keyless entry = %d, want 422", rec.Code)
	}
}

func TestCreateEntryBadBody(t *testing.T) {
	s := newTestServer()

	for _, body := range []string{"", "not json", "[]"} {
		rec := doRequest(t, s, http.MethodPost, "/api/entries", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("POST body %q = %d, want 400", body, rec.Code)
		}
	}
}

func TestPeriodReportEndpoint(t *testing.T) {
	s := newTestServer(core.LeaseEntry{
		BuildingID:    "B1",
		UnitID:        "A101",
		ContractStart: core.NewDate(2024, 1, 1),
		ContractEnd:   core.NewDate(2024, 7, 3),
		CheckIn:       core.NewDate(2024, 3, 1),
		CheckOut:      core.NewDate(2024, 9, 1),
		LandlordRent:  4_000_000,
		TenantRent:    6_000_000,
	})

	rec := doRequest(t, s, http.MethodGet, "/api/reports/period?year=2024&month=3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET period = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp reportResponse[periodRow]
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TaxRate != 0.1 {
		t.Errorf("TaxRate = %v, want default 0.1", resp.TaxRate)
	}
	if len(resp.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(resp.Rows))
	}
	r := resp.Rows[0]
	if r.Revenue != 6_000_000 || r.Tax != 600_000 || r.NetProfit != 1_400_000 {
		t.Errorf("row = revenue %d tax %d net %d, want 6000000/600000/1400000", r.Revenue, r.Tax, r.NetProfit)
	}
}

func TestPeriodReportContractOnlyUnit(t *testing.T) {
	// Contract running, no tenant: the landlord rent is still owed but no
	// revenue attributes without an occupancy overlap.
	s := newTestServer(core.LeaseEntry{
		BuildingID:    "B1",
		UnitID:        "A101",
		ContractStart: core.NewDate(2024, 1, 1),
		ContractEnd:   core.NewDate(2024, 7, 3),
		LandlordRent:  4_000_000,
		TenantRent:    6_000_000,
	})

	rec := doRequest(t, s, http.MethodGet, "/api/reports/period?year=2024&month=3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET period = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp reportResponse[periodRow]
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(resp.Rows))
	}
	r := resp.Rows[0]
	if r.Revenue != 0 || r.Tax != 0 || r.NetProfit != -4_000_000 {
		t.Errorf("row = revenue %d tax %d net %d, want 0/0/-4000000", r.Revenue, r.Tax, r.NetProfit)
	}
}

func TestPeriodReportInvalidParams(t *testing.T) {
	s := newTestServer()

	if rec := doRequest(t, s, http.MethodGet, "/api/reports/period?year=2024&month=13", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("month=13 = %d, want 400", rec.Code)
	}
	if rec := doRequest(t, s, http.MethodGet, "/api/reports/period?tax_rate=150", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("tax_rate=150 = %d, want 400", rec.Code)
	}
}

func TestLifetimeReportCachePurgedOnWrite(t *testing.T) {
	s := newTestServer(core.LeaseEntry{
		BuildingID: "B1", UnitID: "A101",
		CheckIn: core.NewDate(2024, 1, 1), CheckOut: core.NewDate(2024, 3, 1),
		TenantRent: 5_000_000, LandlordRent: 3_000_000,
	})

	rec := doRequest(t, s, http.MethodGet, "/api/reports/lifetime", "")
	var before reportResponse[lifetimeRow]
	if err := json.Unmarshal(rec.Body.Bytes(), &before); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(before.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(before.Rows))
	}

	rec = doRequest(t, s, http.MethodPost, "/api/entries", `{"building_id": "B2", "unit_id": "C303"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST = %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/reports/lifetime", "")
	var after reportResponse[lifetimeRow]
	if err := json.Unmarshal(rec.Body.Bytes(), &after); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(after.Rows) != 2 {
		t.Errorf("rows after write = %d, want 2 (cache should be purged)", len(after.Rows))
	}
}

func TestDashboardEndpoint(t *testing.T) {
	s := newTestServer(core.LeaseEntry{
		BuildingID:    "B1",
		UnitID:        "A101",
		ContractStart: core.NewDate(2024, 1, 1),
		ContractEnd:   core.NewDate(2024, 12, 31),
		CheckIn:       core.NewDate(2024, 2, 1),
		CheckOut:      core.NewDate(2024, 12, 31),
		LandlordRent:  4_000_000,
		TenantRent:    6_000_000,
		TenantDeposit: 6_000_000,
	})

	rec := doRequest(t, s, http.MethodGet, "/api/dashboard?year=2024&month=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET dashboard = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp dashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Year != 2024 || resp.Month != 2 {
		t.Errorf("dashboard period = %d-%d, want 2024-2", resp.Year, resp.Month)
	}
	if len(resp.Period) != 1 {
		t.Errorf("period rows = %d, want 1", len(resp.Period))
	}
	if len(resp.Cashflow) != 1 {
		t.Errorf("cashflow rows = %d, want 1", len(resp.Cashflow))
	}
	// Tenant deposit lands in the check-in month
	if resp.Cashflow[0].OneTimeIn != 6_000_000 {
		t.Errorf("OneTimeIn = %d, want 6000000", resp.Cashflow[0].OneTimeIn)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer()

	if rec := doRequest(t, s, http.MethodGet, "/api/entries", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/entries = %d, want 405", rec.Code)
	}
	if rec := doRequest(t, s, http.MethodPost, "/api/units", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /api/units = %d, want 405", rec.Code)
	}
}
