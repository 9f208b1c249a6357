package models

import (
	"fmt"
	"regexp"
	"time"
)

const (
	slotDateLayout = "2_1_2006"
	slotTimeLayout = "03:04 PM"
)

var (
	slotDatePattern = regexp.MustCompile(`^([1-9]|[12][0-9]|3[01])_([1-9]|1[0-2])_[0-9]{4}$`)
	slotTimePattern = regexp.MustCompile(`^(0[1-9]|1[0-2]):[0-5][0-9] (AM|PM)$`)
)

// FormatSlotDate renders t as a ledger date key, e.g. "5_3_2025".
func FormatSlotDate(t time.Time) string {
	return t.Format(slotDateLayout)
}

// ParseSlotDate parses a ledger date key in loc. It rejects padded or impossible dates.
func ParseSlotDate(s string, loc *time.Location) (time.Time, error) {
	if !slotDatePattern.MatchString(s) {
		return time.Time{}, fmt.Errorf("invalid slot date %q: expected D_M_YYYY", s)
	}
	t, err := time.ParseInLocation(slotDateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid slot date %q: %w", s, err)
	}
	return t, nil
}

// FormatSlotTime renders t as a slot time, e.g. "10:00 AM".
func FormatSlotTime(t time.Time) string {
	return t.Format(slotTimeLayout)
}

// ParseSlotTime returns the minutes after midnight a slot time stands for.
func ParseSlotTime(s string) (int, error) {
	if !slotTimePattern.MatchString(s) {
		return 0, fmt.Errorf("invalid slot time %q: expected HH:MM AM/PM", s)
	}
	t, err := time.Parse(slotTimeLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid slot time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ValidSlotDate and ValidSlotTime back the request validators.
func ValidSlotDate(s string) bool {
	_, err := ParseSlotDate(s, time.UTC)
	return err == nil
}

func ValidSlotTime(s string) bool {
	_, err := ParseSlotTime(s)
	return err == nil
}
