package navis

import (
	"errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrNoData is returned when no record in a batch survives decoding and
// the speed filter.
var ErrNoData = errors.New("navis: no valid readings")

// AggregateOptions controls the plausibility filters. The zero value filters
// direction to the compass range and includes both direction and temperature.
type AggregateOptions struct {
	DirectionRange  DirectionRange
	SkipDirection   bool
	SkipTemperature bool
}

// Statistics summarises the valid readings of a batch. Count is always
// greater than zero. AvgDirection and AvgTemperature are nil when no reading
// passed their filter.
type Statistics struct {
	AvgSpeedKnots  float64  `json:"avg_speed_knots"`
	AvgSpeedMS     float64  `json:"avg_speed_ms"`
	PeakSpeedKnots float64  `json:"peak_speed_knots"`
	PeakSpeedMS    float64  `json:"peak_speed_ms"`
	MinSpeedKnots  float64  `json:"min_speed_knots"`
	MinSpeedMS     float64  `json:"min_speed_ms"`
	AvgDirection   *float64 `json:"avg_direction,omitempty"`
	AvgTemperature *float64 `json:"avg_temperature,omitempty"`
	Count          int      `json:"data_points"`
	Rejected       int      `json:"rejected"`
}

// Aggregate decodes records and reduces them to Statistics. Records that fail
// to decode are excluded and counted in Rejected. Each quantity is filtered
// on its own, so a reading with an implausible direction still contributes
// its speed.
//
// Direction is averaged arithmetically, so readings either side of north
// average towards south.
func Aggregate(records []Record, opts AggregateOptions) (*Statistics, error) {
	var (
		knots, ms    []float64
		directions   []float64
		temperatures []float64
		rejected     int
	)

	for _, rec := range records {
		r, err := Decode(rec.Hex)
		if err != nil {
			rejected++
			continue
		}

		if r.SpeedKnots >= MinValidSpeed {
			knots = append(knots, r.SpeedKnots)
		}
		if r.SpeedMS >= MinValidSpeed {
			ms = append(ms, r.SpeedMS)
		}
		if !opts.SkipDirection && r.DirectionValid(opts.DirectionRange) {
			directions = append(directions, float64(r.Direction))
		}
		if !opts.SkipTemperature && r.TemperatureValid() {
			temperatures = append(temperatures, r.TemperatureC)
		}
	}

	if len(knots) == 0 || len(ms) == 0 {
		return nil, ErrNoData
	}

	s := &Statistics{
		AvgSpeedKnots:  stat.Mean(knots, nil),
		AvgSpeedMS:     stat.Mean(ms, nil),
		PeakSpeedKnots: floats.Max(knots),
		PeakSpeedMS:    floats.Max(ms),
		MinSpeedKnots:  floats.Min(knots),
		MinSpeedMS:     floats.Min(ms),
		Count:          len(knots),
		Rejected:       rejected,
	}

	if len(directions) > 0 {
		avg := stat.Mean(directions, nil)
		s.AvgDirection = &avg
	}
	if len(temperatures) > 0 {
		avg := stat.Mean(temperatures, nil)
		s.AvgTemperature = &avg
	}

	return s, nil
}

// Summarize parses a raw historical batch and aggregates it.
func Summarize(raw string, opts AggregateOptions) (*Statistics, error) {
	return Aggregate(ParseBatch(raw), opts)
}
