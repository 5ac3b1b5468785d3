package navis

import "fmt"

// Protocol constants for the Navis telemetry record. These are fixed by the
// sensor firmware and must not be tuned.
const (
	// KnotsPerMS converts meters per second to knots
	KnotsPerMS = 1.94384449

	// TemperatureOffset is subtracted from the raw temperature before scaling
	TemperatureOffset = 400

	temperatureMask = 0x7FF
	directionMask   = 0x1FF
	signalMask      = 0x7F
	speedShift      = 16
	directionShift  = 7

	// lowWordChars is the number of trailing hex characters holding the low word
	lowWordChars = 8
)

// Plausibility limits applied before a reading contributes to statistics
const (
	MinValidSpeed       = 0.0
	MinTemperatureC     = -20.0
	MaxTemperatureC     = 50.0
	MinDirection        = 0
	MaxCompassDirection = 360
	MaxRawDirection     = 511
)

// DirectionRange selects the upper bound used when filtering wind direction.
type DirectionRange int

const (
	// DirectionCompass keeps directions in [0, 360]
	DirectionCompass DirectionRange = iota
	// DirectionRaw keeps the full 9-bit field, [0, 511]
	DirectionRaw
)

// Max returns the inclusive upper bound for the range
func (d DirectionRange) Max() int {
	if d == DirectionRaw {
		return MaxRawDirection
	}
	return MaxCompassDirection
}

func (d DirectionRange) String() string {
	if d == DirectionRaw {
		return "raw"
	}
	return "compass"
}

// ParseDirectionRange maps a configuration string to a DirectionRange.
// An empty string selects DirectionCompass.
func ParseDirectionRange(s string) (DirectionRange, error) {
	switch s {
	case "", "compass":
		return DirectionCompass, nil
	case "raw":
		return DirectionRaw, nil
	default:
		return DirectionCompass, fmt.Errorf("unknown direction range %q (use 'compass' or 'raw')", s)
	}
}
