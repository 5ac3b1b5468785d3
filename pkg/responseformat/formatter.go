// Package responseformat writes station reports and decoded readings as
// console text, JSON or MessagePack.
package responseformat

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	stations "github.com/chrissnell/marinewx/internal/weatherstations/navis"
	"github.com/chrissnell/marinewx/pkg/navis"
)

// Supported output formats
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatMsgPack = "msgpack"
)

// Formatter encodes values in one of the supported formats
type Formatter struct {
	format string
}

// NewFormatter creates a formatter. An empty format selects text.
func NewFormatter(format string) (*Formatter, error) {
	switch format {
	case "":
		format = FormatText
	case FormatText, FormatJSON, FormatMsgPack:
	default:
		return nil, fmt.Errorf("unsupported format %q. Use 'text', 'json' or 'msgpack'", format)
	}
	return &Formatter{format: format}, nil
}

// Write encodes data to w. Text output understands *stations.Report,
// *navis.Statistics and navis.Reading; other values fall back to JSON.
func (f *Formatter) Write(w io.Writer, data any) error {
	switch f.format {
	case FormatMsgPack:
		return f.writeMsgPack(w, data)
	case FormatJSON:
		return f.writeJSON(w, data)
	}

	switch v := data.(type) {
	case *stations.Report:
		_, err := io.WriteString(w, Report(v))
		return err
	case *navis.Statistics:
		_, err := io.WriteString(w, Statistics(v))
		return err
	case navis.Reading:
		_, err := io.WriteString(w, Reading(v, true))
		return err
	default:
		return f.writeJSON(w, data)
	}
}

func (f *Formatter) writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (f *Formatter) writeMsgPack(w io.Writer, data any) error {
	encoder := msgpack.NewEncoder(w)
	encoder.SetCustomStructTag("json") // Use json tags for MessagePack
	return encoder.Encode(data)
}

// Statistics renders a summary the way it is shown on the console
func Statistics(s *navis.Statistics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Data Points: %d\n", s.Count)
	fmt.Fprintf(&b, "Average Wind Speed: %.1f knots (%.1f m/s)\n", s.AvgSpeedKnots, s.AvgSpeedMS)
	fmt.Fprintf(&b, "Peak Wind Speed: %.1f knots (%.1f m/s)\n", s.PeakSpeedKnots, s.PeakSpeedMS)
	fmt.Fprintf(&b, "Min Wind Speed: %.1f knots (%.1f m/s)\n", s.MinSpeedKnots, s.MinSpeedMS)
	if s.AvgDirection != nil {
		fmt.Fprintf(&b, "Average Direction: %.0f°\n", *s.AvgDirection)
	}
	if s.AvgTemperature != nil {
		fmt.Fprintf(&b, "Average Temperature: %.1f°C\n", *s.AvgTemperature)
	}
	return b.String()
}

// Reading renders one decoded reading. The temperature line is omitted when
// showTemp is false.
func Reading(r navis.Reading, showTemp bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Instantaneous Speed: %.1f knots (%.1f m/s)\n", r.SpeedKnots, r.SpeedMS)
	fmt.Fprintf(&b, "Direction: %d°\n", r.Direction)
	if showTemp {
		fmt.Fprintf(&b, "Temperature: %.1f°C\n", r.TemperatureC)
	}
	fmt.Fprintf(&b, "Signal: %d\n", r.Signal)
	return b.String()
}

// Report renders a station report
func Report(r *stations.Report) string {
	var b strings.Builder
	minutes := int(r.To.Sub(r.From) / time.Minute)

	fmt.Fprintf(&b, "%s WEATHER STATISTICS (Last %d minutes)\n", strings.ToUpper(r.Station), minutes)
	b.WriteString(strings.Repeat("=", 50) + "\n")

	if r.Statistics != nil {
		b.WriteString(Statistics(r.Statistics))
	} else {
		b.WriteString("No historical data available\n")
	}

	if r.Live != nil {
		b.WriteString("\nCurrent Live Reading:\n")
		b.WriteString(Reading(*r.Live, r.LiveTemperatureValid))
	}

	return b.String()
}
