package domain

import "errors"

// Domain errors.
var (
	ErrIncompleteRecord       = errors.New("record is missing required fields")
	ErrIllegalTransition      = errors.New("transition not allowed from the current status")
	ErrConcurrentModification = errors.New("record was modified concurrently")
	ErrStoreUnavailable       = errors.New("record store unavailable")
	ErrDispatchFailed         = errors.New("notification dispatch failed")

	ErrRecordNotFound  = errors.New("record not found")
	ErrGroupNotFound   = errors.New("group not found")
	ErrRatingUnchanged = errors.New("rating unchanged")
	ErrInvalidRating   = errors.New("rating must be -1 or between 1 and 5")
	ErrSelfRating      = errors.New("the owner cannot rate their own record")
	ErrPendingExists   = errors.New("author already has a pending record")
	ErrNotAuthor       = errors.New("only the record owner can perform this action")
	ErrAlreadyClaimed  = errors.New("record already has an author")
	ErrDateOutOfRange  = errors.New("record date is too far in the past")
	ErrVotingClosed    = errors.New("record no longer accepts new ratings")
	ErrInvalidSettings = errors.New("invalid group settings")
)

var codes = map[error]string{
	ErrIncompleteRecord:       "incomplete_record",
	ErrIllegalTransition:      "illegal_transition",
	ErrConcurrentModification: "concurrent_modification",
	ErrStoreUnavailable:       "store_unavailable",
	ErrDispatchFailed:         "dispatch_failed",
	ErrRecordNotFound:         "record_not_found",
	ErrGroupNotFound:          "group_not_found",
	ErrRatingUnchanged:        "rating_unchanged",
	ErrInvalidRating:          "invalid_rating",
	ErrSelfRating:             "self_rating",
	ErrPendingExists:          "pending_exists",
	ErrNotAuthor:              "not_author",
	ErrAlreadyClaimed:         "already_claimed",
	ErrDateOutOfRange:         "date_out_of_range",
	ErrVotingClosed:           "voting_closed",
	ErrInvalidSettings:        "invalid_settings",
}

// Code returns the stable code of the first domain error found in err's chain,
// or "" when err carries none.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for sentinel, code := range codes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ""
}
