// Package lifecycle holds the legal status transitions of a record and
// their side effects. Functions mutate the record in place and never touch
// storage; callers persist the result with a compare-and-set.
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"prostavabot/internal/domain"
	"prostavabot/internal/domain/entities"
	"prostavabot/internal/domain/quorum"
)

// Outcome tells which branch Finalize took.
type Outcome int

const (
	OutcomeApproved Outcome = iota + 1
	OutcomeRejected
	OutcomeRequestAccepted
	OutcomeRequestDeclined
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApproved:
		return "approved"
	case OutcomeRejected:
		return "rejected"
	case OutcomeRequestAccepted:
		return "request_accepted"
	case OutcomeRequestDeclined:
		return "request_declined"
	default:
		return "unknown"
	}
}

// CanManage reports whether userID may edit, announce or withdraw the record.
func CanManage(r *entities.Record, userID string) bool {
	return userID != "" && (userID == r.Author || userID == r.Creator)
}

// Validate checks that a record carries everything announce needs.
func Validate(r *entities.Record, s entities.GroupSettings, now time.Time) error {
	if strings.TrimSpace(r.Creator) == "" {
		return fmt.Errorf("%w: creator", domain.ErrIncompleteRecord)
	}
	if r.IsRequest {
		if r.Author == r.Creator {
			return fmt.Errorf("%w: a request must name someone other than its creator", domain.ErrIncompleteRecord)
		}
		return checkDate(r.Data.Date, s, now)
	}
	switch {
	case strings.TrimSpace(r.Author) == "":
		return fmt.Errorf("%w: author", domain.ErrIncompleteRecord)
	case strings.TrimSpace(r.Data.Title) == "":
		return fmt.Errorf("%w: title", domain.ErrIncompleteRecord)
	case r.Data.Date.IsZero():
		return fmt.Errorf("%w: date", domain.ErrIncompleteRecord)
	case strings.TrimSpace(r.Data.Venue.Title) == "" && r.Data.Venue.Location == nil:
		return fmt.Errorf("%w: venue", domain.ErrIncompleteRecord)
	case r.Data.Cost.Amount <= 0 || r.Data.Cost.Currency == "":
		return fmt.Errorf("%w: cost", domain.ErrIncompleteRecord)
	}
	return checkDate(r.Data.Date, s, now)
}

func checkDate(date time.Time, s entities.GroupSettings, now time.Time) error {
	if date.IsZero() {
		return nil
	}
	y, m, d := now.Date()
	earliest := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -s.CreateDaysAgo)
	if date.Before(earliest) {
		return domain.ErrDateOutOfRange
	}
	return nil
}

// UpdateData replaces the event data of a draft.
func UpdateData(r *entities.Record, data entities.EventData) error {
	if r.Status != entities.StatusNew {
		return illegal(r.Status, "edit")
	}
	r.Data = data
	return nil
}

// Claim assigns an author to a draft that has none.
func Claim(r *entities.Record, userID string) error {
	if r.Status != entities.StatusNew {
		return illegal(r.Status, "claim")
	}
	if r.Author != "" {
		return domain.ErrAlreadyClaimed
	}
	if r.IsRequest && userID == r.Creator {
		return fmt.Errorf("%w: a request creator cannot claim it", domain.ErrIllegalTransition)
	}
	r.Author = userID
	return nil
}

// Announce moves a complete draft to Pending and opens its rating window.
func Announce(r *entities.Record, s entities.GroupSettings, now time.Time) error {
	if r.Status != entities.StatusNew {
		return illegal(r.Status, "announce")
	}
	if err := Validate(r, s, now); err != nil {
		return err
	}
	r.ParticipantsMinCount, r.ParticipantsMaxCount = quorum.Bounds(s)
	r.ClosingDate = now.Add(time.Duration(s.PendingHours) * time.Hour)
	r.Rating = quorum.AggregateRating(r.Participants)
	r.Status = entities.StatusPending
	return nil
}

// Withdraw returns a pending record to draft and drops every rating.
func Withdraw(r *entities.Record, now time.Time) error {
	if r.Status != entities.StatusPending {
		return illegal(r.Status, "withdraw")
	}
	reset(r, now)
	return nil
}

func reset(r *entities.Record, now time.Time) {
	r.Status = entities.StatusNew
	r.Participants = []entities.Participant{}
	r.Rating = 0
	r.ParticipantsMinCount = 0
	r.ParticipantsMaxCount = 0
	r.ClosingDate = now
}

// Finalize closes a pending record. A request is never approved or rejected:
// whatever the quorum, it drops the request flag and becomes a regular draft
// waiting for a manual announce. The outcome still tells the two apart.
func Finalize(r *entities.Record, now time.Time) (Outcome, error) {
	if r.Status != entities.StatusPending {
		return 0, illegal(r.Status, "finalize")
	}
	var outcome Outcome
	switch {
	case r.IsRequest:
		outcome = OutcomeRequestDeclined
		if quorum.CanApprove(r) {
			outcome = OutcomeRequestAccepted
		}
		r.IsRequest = false
		reset(r, now)
	case quorum.CanApprove(r):
		r.Status = entities.StatusApproved
		outcome = OutcomeApproved
	default:
		r.Status = entities.StatusRejected
		outcome = OutcomeRejected
	}
	r.ClosingDate = now
	return outcome, nil
}

// Rate records userID's rating and recomputes the aggregate.
func Rate(r *entities.Record, userID string, rating int, now time.Time) error {
	if r.Status != entities.StatusPending {
		return illegal(r.Status, "rate")
	}
	if rating != entities.RatingAbsent && (rating < entities.RatingMin || rating > entities.RatingMax) {
		return domain.ErrInvalidRating
	}
	if userID == r.Author {
		return domain.ErrSelfRating
	}
	if p := r.Participant(userID); p != nil {
		if p.Rating == rating {
			return domain.ErrRatingUnchanged
		}
		p.Rating = rating
	} else {
		if quorum.AllResponded(r) || quorum.IsClosed(r, now) {
			return domain.ErrVotingClosed
		}
		r.Participants = append(r.Participants, entities.Participant{UserID: userID, Rating: rating})
	}
	r.Rating = quorum.AggregateRating(r.Participants)
	return nil
}

func illegal(from entities.Status, action string) error {
	return fmt.Errorf("%w: cannot %s a %s record", domain.ErrIllegalTransition, action, from)
}
