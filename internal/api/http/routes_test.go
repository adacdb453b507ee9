package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/C4rL0Xt/ControlTemperaturaHumedad/internal/climate"
	"github.com/C4rL0Xt/ControlTemperaturaHumedad/internal/store"
)

const testTitle = "Dashboard Climático de Lima"

func newTestApp(t *testing.T) (*fiber.App, *store.MemoryStore) {
	t.Helper()

	app := fiber.New(fiber.Config{
		Views:        NewViews(),
		ErrorHandler: ErrorHandler,
	})

	memStore := store.NewMemoryStore()
	sim := climate.NewSimulator(climate.DefaultTemperatureRange, climate.DefaultHumidityRange, 1)

	// Each call moves the clock a minute forward so consecutive renders have
	// distinct timestamps.
	now := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(time.Minute)
		return now
	}

	svc := climate.NewService(memStore, sim, climate.DefaultZones, climate.WithClock(clock))
	RegisterRoutes(app, svc, testTitle)
	return app, memStore
}

func do(t *testing.T, app *fiber.App, method, target string) (*http.Response, string) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(method, target, nil), -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp, string(body)
}

func TestDashboardRenderStoresReadings(t *testing.T) {
	app, memStore := newTestApp(t)

	resp, body := do(t, app, http.MethodGet, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, resp.StatusCode, body)
	}
	if got := memStore.Len(); got != len(climate.DefaultZones) {
		t.Fatalf("expected %d readings after one render, got %d", len(climate.DefaultZones), got)
	}

	for _, want := range append([]string{testTitle, "Actualizar Datos", "Ver Alertas"}, "Centro de Lima", "San Isidro") {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}

	// Refresh re-runs the whole pass.
	resp, body = do(t, app, http.MethodGet, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if got := memStore.Len(); got != 2*len(climate.DefaultZones) {
		t.Fatalf("expected %d readings after refresh, got %d", 2*len(climate.DefaultZones), got)
	}
	if !strings.Contains(body, "<svg") {
		t.Error("expected an inline chart once history spans several timestamps")
	}
}

func TestAlertsPage(t *testing.T) {
	app, memStore := newTestApp(t)

	resp, body := do(t, app, http.MethodGet, "/alerts")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	for _, a := range climate.Alerts() {
		if !strings.Contains(body, a.Message) {
			t.Errorf("expected alert %q", a.Message)
		}
	}
	if memStore.Len() != 0 {
		t.Fatal("alerts must not store readings")
	}
}

func TestRefreshAndHistoryAPI(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := do(t, app, http.MethodPost, "/api/v1/refresh")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, resp.StatusCode, body)
	}

	var board climate.Board
	if err := json.Unmarshal([]byte(body), &board); err != nil {
		t.Fatalf("decoding board: %v", err)
	}
	if len(board.Cards) != len(climate.DefaultZones) {
		t.Fatalf("expected %d cards, got %d", len(climate.DefaultZones), len(board.Cards))
	}

	resp, body = do(t, app, http.MethodGet, "/api/v1/readings/history?days=2")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, resp.StatusCode, body)
	}

	var hist climate.History
	if err := json.Unmarshal([]byte(body), &hist); err != nil {
		t.Fatalf("decoding history: %v", err)
	}
	if hist.Days != 2 {
		t.Fatalf("expected a 2 day window, got %d", hist.Days)
	}
	if len(hist.Series) != len(climate.DefaultZones) {
		t.Fatalf("expected %d series, got %d", len(climate.DefaultZones), len(hist.Series))
	}
	if hist.Series[0].Zone != climate.DefaultZones[0] {
		t.Fatalf("expected first series %q, got %q", climate.DefaultZones[0], hist.Series[0].Zone)
	}
}

func TestHistoryDaysValidation(t *testing.T) {
	app, _ := newTestApp(t)

	for _, days := range []string{"0", "31", "abc"} {
		for _, path := range []string{"/api/v1/readings/history", "/chart.svg"} {
			resp, _ := do(t, app, http.MethodGet, path+"?days="+days)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("%s days=%s: expected status %d, got %d", path, days, http.StatusBadRequest, resp.StatusCode)
			}
		}
	}
}

func TestChartEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	// No readings yet.
	resp, body := do(t, app, http.MethodGet, "/chart.svg")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
	if !strings.Contains(body, `"error":true`) {
		t.Fatalf("expected JSON error body, got %s", body)
	}

	do(t, app, http.MethodPost, "/api/v1/refresh")
	do(t, app, http.MethodPost, "/api/v1/refresh")

	resp, body = do(t, app, http.MethodGet, "/chart.svg")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, resp.StatusCode, body)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); !strings.HasPrefix(ct, "image/svg+xml") {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestLatestReadingAPI(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := do(t, app, http.MethodGet, "/api/v1/readings/latest")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing zone: expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	target := "/api/v1/readings/latest?zone=" + url.QueryEscape("San Isidro")
	resp, _ = do(t, app, http.MethodGet, target)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("empty store: expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}

	do(t, app, http.MethodPost, "/api/v1/refresh")

	resp, body := do(t, app, http.MethodGet, target)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, resp.StatusCode, body)
	}
	var r climate.Reading
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatalf("decoding reading: %v", err)
	}
	if r.Zone != "San Isidro" {
		t.Fatalf("expected zone San Isidro, got %q", r.Zone)
	}
}

func TestZonesAndAlertsAPI(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := do(t, app, http.MethodGet, "/api/v1/zones")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	var zones struct {
		Zones []climate.Zone `json:"zones"`
	}
	if err := json.Unmarshal([]byte(body), &zones); err != nil {
		t.Fatalf("decoding zones: %v", err)
	}
	if len(zones.Zones) != 5 {
		t.Fatalf("expected 5 zones, got %v", zones.Zones)
	}

	resp, body = do(t, app, http.MethodGet, "/api/v1/alerts")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	var alerts struct {
		Alerts []climate.Alert `json:"alerts"`
	}
	if err := json.Unmarshal([]byte(body), &alerts); err != nil {
		t.Fatalf("decoding alerts: %v", err)
	}
	if len(alerts.Alerts) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(alerts.Alerts))
	}
}
