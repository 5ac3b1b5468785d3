// Package navis decodes Navis live-data sensor records and reduces batches of
// them into wind statistics.
package navis

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
)

var (
	// ErrShortRecord is returned for records shorter than eight hex characters
	ErrShortRecord = errors.New("record shorter than 8 hex characters")
	// ErrInvalidHex is returned when a record contains a non-hex character
	ErrInvalidHex = errors.New("record contains non-hex characters")
	// ErrMalformedLive is returned when a live response has fewer than three fields
	ErrMalformedLive = errors.New("live response is not in a:b:hex form")
)

// DecodeError reports a record that could not be decoded.
type DecodeError struct {
	Record string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("navis: cannot decode %q: %v", e.Record, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// RawFields holds the integer fields exactly as extracted from the record
type RawFields struct {
	Temperature uint64 `json:"temperature"`
	Speed       uint32 `json:"speed"`
	Direction   uint32 `json:"direction"`
	Signal      uint32 `json:"signal"`
}

// Reading is one decoded sensor snapshot.
type Reading struct {
	SpeedMS      float64   `json:"speed_ms"`
	SpeedKnots   float64   `json:"speed_knots"`
	Direction    int       `json:"direction"`
	TemperatureC float64   `json:"temperature"`
	Signal       int       `json:"rssi"`
	Raw          RawFields `json:"-"`
}

// Decode unpacks a hex-encoded record. The last eight characters form the low
// word; anything before them is the high word, which may be arbitrarily long.
func Decode(record string) (Reading, error) {
	if len(record) < lowWordChars {
		return Reading{}, &DecodeError{Record: record, Err: ErrShortRecord}
	}
	for i := 0; i < len(record); i++ {
		if !isHex(record[i]) {
			return Reading{}, &DecodeError{Record: record, Err: ErrInvalidHex}
		}
	}

	split := len(record) - lowWordChars

	high := new(big.Int)
	if split > 0 {
		if _, ok := high.SetString(record[:split], 16); !ok {
			return Reading{}, &DecodeError{Record: record, Err: ErrInvalidHex}
		}
	}

	low, err := strconv.ParseUint(record[split:], 16, 32)
	if err != nil {
		return Reading{}, &DecodeError{Record: record, Err: ErrInvalidHex}
	}

	raw := RawFields{
		Temperature: new(big.Int).And(high, big.NewInt(temperatureMask)).Uint64(),
		Speed:       uint32(low >> speedShift),
		Direction:   uint32((low >> directionShift) & directionMask),
		Signal:      uint32(low & signalMask),
	}

	return fromRaw(raw), nil
}

func fromRaw(raw RawFields) Reading {
	speedMS := float64(raw.Speed) / 10.0
	return Reading{
		SpeedMS:      speedMS,
		SpeedKnots:   speedMS * KnotsPerMS,
		Direction:    int(raw.Direction),
		TemperatureC: (float64(raw.Temperature) - TemperatureOffset) / 10.0,
		Signal:       int(raw.Signal),
		Raw:          raw,
	}
}

// TemperatureValid reports whether the temperature is within the plausible range
func (r Reading) TemperatureValid() bool {
	return r.TemperatureC >= MinTemperatureC && r.TemperatureC <= MaxTemperatureC
}

// DirectionValid reports whether the direction falls within rng
func (r Reading) DirectionValid(rng DirectionRange) bool {
	return r.Direction >= MinDirection && r.Direction <= rng.Max()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
