package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData is returned when fewer than MinCandles values are scored.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrMisalignedSeries is returned when closes and volumes differ in length.
	ErrMisalignedSeries = errors.New("closes and volumes are not aligned")
	// ErrDataFormat is returned for an unrecognized trade-history payload.
	ErrDataFormat = errors.New("unrecognized trade payload format")
	// ErrNoValidTrades is returned when a payload yields no usable trades.
	ErrNoValidTrades = errors.New("no valid trades found")
)

// FetchError wraps a network or HTTP failure from an external data source.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
