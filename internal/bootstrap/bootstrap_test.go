package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Alias1177/signalbot/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("CONFIG_FILE", "")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	return cfg
}

func TestOpenWithNothingEnabled(t *testing.T) {
	res := Open(context.Background(), testConfig(t))
	defer res.Close()

	if res.DB != nil || res.Cache != nil {
		t.Errorf("expected no backends, got %+v", res)
	}
}

func TestCalibratorWithoutBackends(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"trades":[{"profit_ratio":0.02},{"profit_ratio":-0.01},{"profit_ratio":0.03}]}`)
	}))
	defer srv.Close()

	cfg := testConfig(t)
	b, err := Calibrator(cfg, &Resources{}).Calibrate(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Calibrate() error = %v", err)
	}
	if b.TotalTrades != 3 {
		t.Errorf("TotalTrades = %d, want 3", b.TotalTrades)
	}
}

func TestStoredBaselineWithoutDatabase(t *testing.T) {
	if b := StoredBaseline(context.Background(), testConfig(t), &Resources{}); b != nil {
		t.Errorf("StoredBaseline() = %+v, want nil", b)
	}
}
