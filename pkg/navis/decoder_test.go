package navis

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		record    string
		speedMS   float64
		direction int
		tempC     float64
		signal    int
	}{
		{"all zero", "0000000000000000", 0, 0, -40.0, 0},
		{"low word only", "0034872D", 5.2, 270, -40.0, 45},
		// high 0x258 = 600 raw, low: speed 52, direction 270, rssi 45
		{"typical reading", "000002580034872D", 5.2, 270, 20.0, 45},
		{"lower case hex", "000002580034872d", 5.2, 270, 20.0, 45},
		// only the low 11 bits of the high word carry temperature
		{"wide high word", "ffffffff000002580034872d", 5.2, 270, 20.0, 45},
		{"high word bits above the temperature mask", "0000271000000000", 0, 0, (0x710 - 400) / 10.0, 0},
		{"direction beyond compass range", "000002580064C800", 10.0, 400, 20.0, 0},
		{"all bits set in low word", "FFFFFFFF", 6553.5, 511, -40.0, 127},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Decode(tt.record)
			if err != nil {
				t.Fatalf("Decode(%q) returned error: %v", tt.record, err)
			}
			if !almostEqual(r.SpeedMS, tt.speedMS) {
				t.Errorf("SpeedMS = %v, expected %v", r.SpeedMS, tt.speedMS)
			}
			if r.Direction != tt.direction {
				t.Errorf("Direction = %d, expected %d", r.Direction, tt.direction)
			}
			if !almostEqual(r.TemperatureC, tt.tempC) {
				t.Errorf("TemperatureC = %v, expected %v", r.TemperatureC, tt.tempC)
			}
			if r.Signal != tt.signal {
				t.Errorf("Signal = %d, expected %d", r.Signal, tt.signal)
			}
		})
	}
}

func TestDecodeDerivedFields(t *testing.T) {
	records := []string{
		"00000000",
		"0034872D",
		"000002580034872D",
		"7ff00064C800",
		"abcdef0123456789",
		"FFFFFFFFFFFFFFFF",
	}

	for _, rec := range records {
		r, err := Decode(rec)
		if err != nil {
			t.Fatalf("Decode(%q) returned error: %v", rec, err)
		}
		if !almostEqual(r.SpeedKnots, r.SpeedMS*KnotsPerMS) {
			t.Errorf("%s: SpeedKnots = %v, expected %v", rec, r.SpeedKnots, r.SpeedMS*KnotsPerMS)
		}
		expectedTemp := (float64(r.Raw.Temperature) - TemperatureOffset) / 10
		if !almostEqual(r.TemperatureC, expectedTemp) {
			t.Errorf("%s: TemperatureC = %v, expected %v", rec, r.TemperatureC, expectedTemp)
		}
		if r.Raw.Temperature > temperatureMask {
			t.Errorf("%s: raw temperature %d exceeds 11 bits", rec, r.Raw.Temperature)
		}
		if r.Direction < 0 || r.Direction > MaxRawDirection {
			t.Errorf("%s: direction %d outside 9-bit range", rec, r.Direction)
		}

		again, _ := Decode(rec)
		if again != r {
			t.Errorf("%s: decode is not deterministic: %+v vs %+v", rec, r, again)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		record   string
		expected error
	}{
		{"empty", "", ErrShortRecord},
		{"seven characters", "1234567", ErrShortRecord},
		{"non-hex in low word", "0000zz00", ErrInvalidHex},
		{"non-hex in high word", "g00000000000", ErrInvalidHex},
		{"hex prefix", "0x123456", ErrInvalidHex},
		{"embedded space", "0000 0000", ErrInvalidHex},
		{"sign", "+00000000", ErrInvalidHex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Decode(tt.record)
			if err == nil {
				t.Fatalf("Decode(%q) = %+v, expected error", tt.record, r)
			}
			if !errors.Is(err, tt.expected) {
				t.Errorf("error = %v, expected %v", err, tt.expected)
			}
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Errorf("error %T is not a *DecodeError", err)
			} else if de.Record != tt.record {
				t.Errorf("DecodeError.Record = %q, expected %q", de.Record, tt.record)
			}
			if r != (Reading{}) {
				t.Errorf("expected zero Reading on error, got %+v", r)
			}
		})
	}
}

func TestParseDirectionRange(t *testing.T) {
	tests := []struct {
		in       string
		expected DirectionRange
		max      int
		wantErr  bool
	}{
		{"", DirectionCompass, 360, false},
		{"compass", DirectionCompass, 360, false},
		{"raw", DirectionRaw, 511, false},
		{"circular", DirectionCompass, 360, true},
	}

	for _, tt := range tests {
		got, err := ParseDirectionRange(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDirectionRange(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.expected || got.Max() != tt.max {
			t.Errorf("ParseDirectionRange(%q) = %v (max %d), expected %v (max %d)", tt.in, got, got.Max(), tt.expected, tt.max)
		}
	}
}
