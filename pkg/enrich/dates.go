package enrich

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order against a raw date string. time.Parse
// requires an exact match so every accepted shape needs its own
// reference layout.
var dateLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
	"2006",
	"02.01.2006",
}

// NormalizeDate parses a raw date value in any of the accepted
// shapes (ISO-8601 with/without timezone and fractional seconds,
// DD/MM/YYYY, DD-MM-YYYY, YYYY/MM/DD, YYYY, DD.MM.YYYY, or a numeric Unix
// timestamp in integer/fractional/scientific form) and returns the
// canonical "YYYY-MM-DD" form plus a human-readable expressed date using
// fixed English month names ('s reimplementation decision
// to drop the source's localized month names). ok is false for any input
// that matches none of the accepted shapes.
func NormalizeDate(raw string) (iso string, expressed string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", false
	}

	// Calendar layouts are tried first: a bare year ("2025") or a
	// DD.MM.YYYY date must not be misread as a Unix timestamp just
	// because it parses as a number.
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return formatDate(t)
		}
	}

	if t, ok := parseUnixTimestamp(raw); ok {
		return formatDate(t)
	}

	return "", "", false
}

func parseUnixTimestamp(raw string) (time.Time, bool) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, false
	}
	sec := int64(f)
	nsec := int64((f - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).UTC(), true
}

func formatDate(t time.Time) (string, string, bool) {
	return t.Format("2006-01-02"), t.Format("02 January 2006"), true
}
