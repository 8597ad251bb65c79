package baseline

import (
	"errors"
	"testing"

	"github.com/Alias1177/signalbot/internal/model"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected []float64
	}{
		{
			name:     "trades object",
			payload:  `{"trades":[{"profit_ratio":0.03},{"profit_ratio":-0.01}]}`,
			expected: []float64{0.03, -0.01},
		},
		{
			name:     "results object",
			payload:  `{"results":[{"profit_ratio":0.1}]}`,
			expected: []float64{0.1},
		},
		{
			name:     "bare list",
			payload:  `[{"profit_ratio":0.02},{"profit_ratio":-0.04}]`,
			expected: []float64{0.02, -0.04},
		},
		{
			name:     "trades wins over results",
			payload:  `{"trades":[{"profit_ratio":1}],"results":[{"profit_ratio":2}]}`,
			expected: []float64{1},
		},
		{
			name:     "trades not a list falls back to results",
			payload:  `{"trades":"n/a","results":[{"profit_ratio":2}]}`,
			expected: []float64{2},
		},
		{
			name: "coercion and fallbacks",
			payload: `[
				{"profit_ratio":"0.05"},
				{"profit_abs":2},
				{},
				{"profit_ratio":null,"profit_abs":1},
				"x",
				{"profit_ratio":"abc"},
				{"profit_ratio":true},
				{"profit_ratio":[1]},
				{"profit_ratio":"NaN"}
			]`,
			expected: []float64{0.05, 2, 0, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trades, err := Parse([]byte(tt.payload))
			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			if len(trades) != len(tt.expected) {
				t.Fatalf("Parse() = %d trades, want %d", len(trades), len(tt.expected))
			}
			for i, want := range tt.expected {
				if trades[i].ProfitRatio != want {
					t.Errorf("trade %d ProfitRatio = %v, want %v", i, trades[i].ProfitRatio, want)
				}
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    error
	}{
		{name: "unknown object", payload: `{"data":[{"profit_ratio":1}]}`, want: model.ErrDataFormat},
		{name: "scalar", payload: `42`, want: model.ErrDataFormat},
		{name: "string", payload: `"trades"`, want: model.ErrDataFormat},
		{name: "invalid json", payload: `{"trades":[`, want: model.ErrDataFormat},
		{name: "empty list", payload: `[]`, want: model.ErrNoValidTrades},
		{name: "nothing usable", payload: `{"trades":[1,"a",{"profit_ratio":"bad"}]}`, want: model.ErrNoValidTrades},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.payload))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}
