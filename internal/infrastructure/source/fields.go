package source

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var errNegativePrice = errors.New("negative price")

//nolint:gochecknoglobals
var freeWords = map[string]bool{"gratis": true, "kostenlos": true, "free": true, "umsonst": true}

//nolint:gochecknoglobals
var vienna = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Vienna")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// parsePrice understands "1.299,99 €", "19,99", "19.99" and "gratis". A
// single dot followed by exactly three digits is a thousands separator.
// Blank input is a missing price, not an error.
func parsePrice(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return decimal.NullDecimal{}, nil
	}

	if freeWords[strings.ToLower(s)] {
		return decimal.NewNullDecimal(decimal.Zero), nil
	}

	var sb strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			sb.WriteRune(r)
		}
	}
	num := sb.String()
	if num == "" {
		return decimal.NullDecimal{}, fmt.Errorf("parse price %q: no digits", s)
	}

	lastComma, lastDot := strings.LastIndex(num, ","), strings.LastIndex(num, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			num = strings.ReplaceAll(num, ".", "")
			num = strings.Replace(num, ",", ".", 1)
		} else {
			num = strings.ReplaceAll(num, ",", "")
		}
	case lastComma >= 0:
		num = strings.ReplaceAll(num, ",", ".")
	case strings.Count(num, ".") > 1 || (lastDot >= 0 && len(num)-lastDot-1 == 3):
		num = strings.ReplaceAll(num, ".", "")
	}

	// German notation "19,-" leaves a trailing separator.
	num = strings.TrimSuffix(num, "-")
	num = strings.TrimSuffix(num, ".")

	d, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("parse price %q: %w", s, err)
	}

	if d.IsNegative() {
		return decimal.NullDecimal{}, fmt.Errorf("parse price %q: %w", s, errNegativePrice)
	}

	return decimal.NewNullDecimal(d), nil
}

//nolint:gochecknoglobals
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02.01.2006 15:04",
	"02.01.2006",
	time.DateOnly,
}

// parseTime accepts RFC 3339, a few local layouts (read as Vienna time) and
// unix seconds. Blank input yields the zero time.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}

	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}

	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, vienna); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("parse time %q: unknown layout", s)
}

// cleanLabels drops blank labels and keeps the order.
func cleanLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}

	return out
}
