package discord

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"prostavabot/internal/domain/entities"
)

var ErrBadCost = errors.New("invalid cost")

// ParseCost reads "1500", "1500 ₽" or "12.5$". The currency defaults to
// defaultCurrency when the text carries none.
func ParseCost(s, defaultCurrency string) (entities.Cost, error) {
	s = strings.TrimSpace(s)
	end := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.' && r != ','
	})
	number, currency := s, ""
	if end >= 0 {
		number, currency = s[:end], strings.TrimSpace(s[end:])
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(number, ",", "."), 64)
	if err != nil || amount <= 0 {
		return entities.Cost{}, ErrBadCost
	}
	if currency == "" {
		currency = defaultCurrency
	}
	return entities.Cost{Amount: amount, Currency: currency}, nil
}

// ParseLocation reads "lat, lon". ok is false when s is not a coordinate pair.
func ParseLocation(s string) (loc *entities.Location, ok bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || lon < -180 || lon > 180 {
		return nil, false
	}
	return &entities.Location{Latitude: lat, Longitude: lon}, true
}
