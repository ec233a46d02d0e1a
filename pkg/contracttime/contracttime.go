// Package contracttime converts between calendar dates entered by users and
// the UTC-midnight second timestamps the rental contract stores.
package contracttime

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	SecondsPerDay int64 = 24 * 60 * 60
	DateLayout          = "2006-01-02"
)

var (
	ErrInvalidDate = errors.New("invalid date")
	ErrBeforeEpoch = errors.New("date before 1970-01-01")
)

var acceptedLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ToContractTimestamp parses a calendar date and returns the seconds since
// epoch of that day's UTC midnight.
func ToContractTimestamp(text string) (int64, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	for _, layout := range acceptedLayouts {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		midnight := StartOfDay(parsed)
		if midnight.Unix() < 0 {
			return 0, fmt.Errorf("%w: %s", ErrBeforeEpoch, raw)
		}
		return midnight.Unix(), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

// FromContractTimestamp renders the UTC date portion of seconds.
func FromContractTimestamp(seconds int64) string {
	return time.Unix(seconds, 0).UTC().Format(DateLayout)
}

// StartOfDay normalizes t to midnight UTC of the same UTC calendar day.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the contract timestamp of now's UTC day.
func Today(now time.Time) int64 {
	return StartOfDay(now).Unix()
}

// Nights is floor((checkOut - checkIn) / SecondsPerDay).
func Nights(checkIn, checkOut int64) int64 {
	diff := checkOut - checkIn
	nights := diff / SecondsPerDay
	if diff%SecondsPerDay != 0 && diff < 0 {
		nights--
	}
	return nights
}

// TotalPrice multiplies nights by the per-night price in wei. Non-positive
// nights or a nil price yield zero.
func TotalPrice(nights int64, pricePerNight *big.Int) *big.Int {
	if nights <= 0 || pricePerNight == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(pricePerNight, big.NewInt(nights))
}
