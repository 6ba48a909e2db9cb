package entities

import (
	"strconv"
	"time"
)

// Status is the lifecycle state of a Record.
type Status string

const (
	StatusNew      Status = "new"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Rating markers stored on a participant row.
const (
	RatingAbsent  = -1 // did not attend
	RatingUnrated = 0
	RatingMin     = 1
	RatingMax     = 5
)

// Record is a group-scoped event proposal that participants attest by rating it.
type Record struct {
	ID        string
	GroupID   string
	Author    string // empty while a request has no author yet
	Creator   string
	IsRequest bool
	Status    Status
	Data      EventData

	Participants         []Participant
	Rating               float64
	ParticipantsMinCount int
	ParticipantsMaxCount int
	ClosingDate          time.Time // zero = not set

	// Version is bumped on every committed write; stores use it for optimistic checks.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Participant is one user's attestation of a record.
type Participant struct {
	UserID string
	Rating int
}

type EventData struct {
	Title string
	Date  time.Time
	Venue Venue
	Cost  Cost
}

type Venue struct {
	Title    string
	Address  string
	Location *Location
}

type Location struct {
	Latitude  float64
	Longitude float64
}

type Cost struct {
	Amount   float64
	Currency string
}

// Owner returns the user a record's notifications are addressed to:
// the creator for requests, the author otherwise.
func (r *Record) Owner() string {
	if r.IsRequest {
		return r.Creator
	}
	return r.Author
}

// Participant returns the row for userID, or nil.
func (r *Record) Participant(userID string) *Participant {
	for i := range r.Participants {
		if r.Participants[i].UserID == userID {
			return &r.Participants[i]
		}
	}
	return nil
}

// Clone returns a deep copy so callers can mutate without aliasing store state.
func (r *Record) Clone() *Record {
	c := *r
	c.Participants = append([]Participant(nil), r.Participants...)
	if r.Data.Venue.Location != nil {
		loc := *r.Data.Venue.Location
		c.Data.Venue.Location = &loc
	}
	return &c
}

func (c Cost) String() string {
	if c.Amount == 0 {
		return ""
	}
	return strconv.FormatFloat(c.Amount, 'f', -1, 64) + c.Currency
}

func (v Venue) String() string {
	s := v.Title
	if v.Location != nil {
		if s != "" {
			s += " "
		}
		s += "📌"
	}
	return s
}
