package discord

import (
	"errors"
	"strings"
	"time"
)

var ErrBadDate = errors.New("invalid date")

var dateLayouts = []string{
	"02.01.2006 15:04",
	"02/01/2006 15:04",
	"2006-01-02 15:04",
	"02.01.2006",
	"02/01/2006",
	"2006-01-02",
}

// ParseEventDateTime reads a wall-clock date in loc. A date without a time is midnight.
func ParseEventDateTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return time.Time{}, ErrBadDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrBadDate
}

func FormatEventDateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format("02.01.2006 15:04")
}
