// Package quorum computes participation quorum and aggregate ratings.
// Every function is pure and works on fully resolved in-memory records.
package quorum

import (
	"math"
	"strconv"
	"strings"
	"time"

	"prostavabot/internal/domain/entities"
)

// ParticipantsWere returns the participants whose rating confirms attendance.
func ParticipantsWere(participants []entities.Participant) []entities.Participant {
	were := make([]entities.Participant, 0, len(participants))
	for _, p := range participants {
		if p.Rating > 0 {
			were = append(were, p)
		}
	}
	return were
}

// AggregateRating is the mean rating over ParticipantsWere, or 0 when nobody attended.
func AggregateRating(participants []entities.Participant) float64 {
	were := ParticipantsWere(participants)
	if len(were) == 0 {
		return 0
	}
	sum := 0
	for _, p := range were {
		sum += p.Rating
	}
	return float64(sum) / float64(len(were))
}

// CanApprove reports whether enough participants attended.
func CanApprove(r *entities.Record) bool {
	if r.ParticipantsMinCount == 0 {
		return true
	}
	return len(ParticipantsWere(r.Participants)) >= r.ParticipantsMinCount
}

// IsNumericallyComplete reports whether every possible rater answered or the window closed.
func IsNumericallyComplete(r *entities.Record, now time.Time) bool {
	return AllResponded(r) || IsClosed(r, now)
}

// AllResponded reports whether the participant list reached its maximum.
func AllResponded(r *entities.Record) bool {
	return len(r.Participants) == r.ParticipantsMaxCount
}

// IsClosed reports whether the pending window has ended.
func IsClosed(r *entities.Record, now time.Time) bool {
	return !r.ClosingDate.IsZero() && !r.ClosingDate.After(now)
}

// Bounds derives the quorum bounds announce stores on a record.
func Bounds(s entities.GroupSettings) (minCount, maxCount int) {
	maxCount = s.ChatMembersCount - 1
	if maxCount < 0 {
		maxCount = 0
	}
	minCount = int(math.Ceil(float64(maxCount) * float64(s.ParticipantsMinPercent) / 100))
	return minCount, maxCount
}

// RatingString renders the aggregate as a row of mugs followed by the value.
func RatingString(rating float64) string {
	var b strings.Builder
	rounded := int(math.Round(rating))
	for i := entities.RatingMin; i <= entities.RatingMax; i++ {
		if i <= rounded {
			b.WriteString("🍺")
		} else {
			b.WriteString("🥛")
		}
	}
	b.WriteString(" ")
	b.WriteString(strconv.FormatFloat(rating, 'f', -1, 64))
	return b.String()
}

// ParticipantsVotesString renders "answered/max".
func ParticipantsVotesString(r *entities.Record) string {
	return strconv.Itoa(len(r.Participants)) + "/" + strconv.Itoa(r.ParticipantsMaxCount)
}
