package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Alias1177/signalbot/internal/engine"
	"github.com/Alias1177/signalbot/internal/model"
	"github.com/prometheus/client_golang/prometheus"
)

type fakeStatus struct {
	status engine.Status
	cfg    model.BotConfig
}

func (f fakeStatus) Status() engine.Status { return f.status }
func (f fakeStatus) Config() model.BotConfig { return f.cfg }

type fakeHistory struct {
	records   []model.SignalRecord
	err       error
	gotSymbol string
	gotLimit  int
}

func (f *fakeHistory) RecentSignals(ctx context.Context, symbol string, limit int) ([]model.SignalRecord, error) {
	f.gotSymbol, f.gotLimit = symbol, limit
	return f.records, f.err
}

func serve(s *Server, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(New(":0", fakeStatus{}), "/healthz")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestStatus(t *testing.T) {
	provider := fakeStatus{
		status: engine.Status{Running: true, Ticks: 3, LastError: "fetch binance: timeout"},
		cfg:    model.BotConfig{Symbol: "BTCUSDT", Interval: "5m", BuyThreshold: 0.62},
	}
	rec := serve(New(":0", provider), "/status")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["running"] != true || body["ticks"] != float64(3) {
		t.Errorf("unexpected status fields %v", body)
	}
	if body["last_error"] != "fetch binance: timeout" {
		t.Errorf("last_error = %v", body["last_error"])
	}
	cfg, ok := body["config"].(map[string]any)
	if !ok || cfg["symbol"] != "BTCUSDT" || cfg["buy_threshold"] != 0.62 {
		t.Errorf("unexpected config %v", body["config"])
	}
}

func TestMetricsUsesGatherer(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "signalbot_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	rec := serve(New(":0", fakeStatus{}, WithGatherer(reg)), "/metrics")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "signalbot_test_total 1") {
		t.Errorf("metric missing from body:\n%s", rec.Body.String())
	}
}

func TestSignals(t *testing.T) {
	provider := fakeStatus{cfg: model.BotConfig{Symbol: "ETHUSDT"}}

	tests := []struct {
		name      string
		target    string
		history   *fakeHistory
		wantCode  int
		wantLimit int
	}{
		{name: "default limit", target: "/signals", history: &fakeHistory{}, wantCode: http.StatusOK, wantLimit: defaultSignalLimit},
		{name: "explicit limit", target: "/signals?limit=5", history: &fakeHistory{}, wantCode: http.StatusOK, wantLimit: 5},
		{name: "invalid limit", target: "/signals?limit=abc", history: &fakeHistory{}, wantCode: http.StatusBadRequest},
		{name: "limit too large", target: "/signals?limit=501", history: &fakeHistory{}, wantCode: http.StatusBadRequest},
		{name: "store failure", target: "/signals", history: &fakeHistory{err: errors.New("db down")}, wantCode: http.StatusInternalServerError, wantLimit: defaultSignalLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(New(":0", provider, WithSignalHistory(tt.history)), tt.target)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.history.gotLimit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", tt.history.gotLimit, tt.wantLimit)
			}
			if tt.wantLimit > 0 && tt.history.gotSymbol != "ETHUSDT" {
				t.Errorf("symbol = %q, want ETHUSDT", tt.history.gotSymbol)
			}
		})
	}
}

func TestSignalsEmptyListIsArray(t *testing.T) {
	rec := serve(New(":0", fakeStatus{}, WithSignalHistory(&fakeHistory{})), "/signals")

	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("body = %q, want []", rec.Body.String())
	}
}

func TestSignalsRouteRequiresHistory(t *testing.T) {
	rec := serve(New(":0", fakeStatus{}), "/signals")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
