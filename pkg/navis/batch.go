package navis

import (
	"strconv"
	"strings"
	"time"
)

const (
	recordDelimiter = "|"
	fieldSeparator  = ":"
	timestampMarker = ","
)

// Record is one segment of a historical batch. Timestamp and Interval are
// informational; they are zero when the segment did not carry them or they
// were not numeric.
type Record struct {
	Timestamp time.Time
	Interval  int
	Hex       string
}

// ParseBatch splits a historical response of the form
// "[timestamp,]interval:hex|interval:hex|..." into records, preserving order.
// Segments without a field separator are skipped.
func ParseBatch(raw string) []Record {
	segments := strings.Split(raw, recordDelimiter)
	records := make([]Record, 0, len(segments))

	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" || !strings.Contains(seg, fieldSeparator) {
			continue
		}

		var rec Record
		if ts, rest, ok := strings.Cut(seg, timestampMarker); ok {
			if epoch, err := strconv.ParseInt(strings.TrimSpace(ts), 10, 64); err == nil {
				rec.Timestamp = time.Unix(epoch, 0).UTC()
			}
			seg = rest
		}

		interval, hex, ok := strings.Cut(seg, fieldSeparator)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(interval)); err == nil {
			rec.Interval = n
		}
		rec.Hex = strings.TrimSpace(hex)

		records = append(records, rec)
	}

	return records
}

// ParseLive decodes the body of a live query, which looks like "a:b:hex".
func ParseLive(body string) (Reading, error) {
	body = strings.TrimSpace(body)
	parts := strings.Split(body, fieldSeparator)
	if len(parts) < 3 {
		return Reading{}, &DecodeError{Record: body, Err: ErrMalformedLive}
	}
	return Decode(strings.TrimSpace(parts[2]))
}
