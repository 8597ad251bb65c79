package baseline

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/Alias1177/signalbot/internal/model"
)

// Parse extracts trade metrics from a Freqtrade-style payload.
//
// Accepted shapes are a bare list of trade records, {"trades": [...]} and
// {"results": [...]}. Each record contributes profit_ratio, falling back to
// profit_abs when profit_ratio is absent, and to 0 when both are absent.
// Records whose value cannot be read as a finite float are skipped.
func Parse(payload []byte) ([]model.TradeMetric, error) {
	if !gjson.ValidBytes(payload) {
		return nil, fmt.Errorf("%w: invalid JSON", model.ErrDataFormat)
	}

	records, err := tradeRecords(gjson.ParseBytes(payload))
	if err != nil {
		return nil, err
	}

	trades := make([]model.TradeMetric, 0, len(records))
	for _, rec := range records {
		if !rec.IsObject() {
			continue
		}
		ratio, ok := profitRatio(rec)
		if !ok {
			continue
		}
		trades = append(trades, model.TradeMetric{ProfitRatio: ratio})
	}

	if len(trades) == 0 {
		return nil, model.ErrNoValidTrades
	}
	return trades, nil
}

func tradeRecords(root gjson.Result) ([]gjson.Result, error) {
	switch {
	case root.IsArray():
		return root.Array(), nil
	case root.IsObject():
		for _, key := range []string{"trades", "results"} {
			if list := root.Get(key); list.IsArray() {
				return list.Array(), nil
			}
		}
		return nil, fmt.Errorf("%w: object has no trades or results list", model.ErrDataFormat)
	default:
		return nil, fmt.Errorf("%w: unexpected %s payload", model.ErrDataFormat, root.Type)
	}
}

func profitRatio(rec gjson.Result) (float64, bool) {
	v := rec.Get("profit_ratio")
	if !v.Exists() {
		v = rec.Get("profit_abs")
	}
	if !v.Exists() {
		return 0, true
	}

	var f float64
	switch v.Type {
	case gjson.Number:
		f = v.Num
	case gjson.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case gjson.True:
		f = 1
	case gjson.False:
		f = 0
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
