package discord

import (
	"errors"

	"prostavabot/internal/domain"
)

// ErrorKey maps err to the translation key shown to the user.
func ErrorKey(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrBadDate):
		return "error.bad_date"
	case errors.Is(err, ErrBadCost):
		return "error.bad_cost"
	}
	if code := domain.Code(err); code != "" {
		return "error." + code
	}
	return "error.unknown"
}
