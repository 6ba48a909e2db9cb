package database

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"

	"prostavabot/internal/domain/entities"
)

func TestTimeConversion(t *testing.T) {
	assert.False(t, timeToPgtype(time.Time{}).Valid)
	assert.True(t, pgtypeTimestamptzToTime(pgtype.Timestamptz{}).IsZero())

	now := time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC)
	ts := timeToPgtype(now)
	assert.True(t, ts.Valid)
	assert.Equal(t, now, pgtypeTimestamptzToTime(ts))
}

func TestRecordRow_ToEntity(t *testing.T) {
	closing := time.Date(2026, 6, 3, 20, 0, 0, 0, time.UTC)
	row := recordRow{
		ID:                   "rec-1",
		GroupID:              "group-1",
		Author:               "alice",
		Creator:              "alice",
		Status:               "pending",
		Title:                "Birthday",
		VenueTitle:           "Pub",
		VenueLatitude:        pgtype.Float8{Float64: 55.75, Valid: true},
		VenueLongitude:       pgtype.Float8{Float64: 37.61, Valid: true},
		CostAmount:           1500,
		CostCurrency:         "₽",
		ParticipantsMinCount: 3,
		ParticipantsMaxCount: 5,
		ClosingDate:          pgtype.Timestamptz{Time: closing, Valid: true},
		Version:              4,
	}

	r := row.toEntity()

	assert.Equal(t, entities.StatusPending, r.Status)
	assert.Equal(t, "Pub", r.Data.Venue.Title)
	if assert.NotNil(t, r.Data.Venue.Location) {
		assert.Equal(t, 55.75, r.Data.Venue.Location.Latitude)
	}
	assert.Equal(t, entities.Cost{Amount: 1500, Currency: "₽"}, r.Data.Cost)
	assert.Equal(t, 3, r.ParticipantsMinCount)
	assert.Equal(t, 5, r.ParticipantsMaxCount)
	assert.Equal(t, closing, r.ClosingDate)
	assert.True(t, r.Data.Date.IsZero())
	assert.NotNil(t, r.Participants)
	assert.EqualValues(t, 4, r.Version)
}

func TestRecordRow_ToEntity_PartialLocation(t *testing.T) {
	row := recordRow{VenueLatitude: pgtype.Float8{Float64: 1, Valid: true}}
	assert.Nil(t, row.toEntity().Data.Venue.Location)
}

func TestRecordArgs(t *testing.T) {
	r := &entities.Record{
		GroupID: "group-1",
		Creator: "bob",
		Status:  entities.StatusNew,
		Data:    entities.EventData{Title: "Dinner"},
	}
	args := recordArgs(r)

	assert.Len(t, args, 17)
	assert.Equal(t, "new", args[4])
	lat := args[9].(pgtype.Float8)
	assert.False(t, lat.Valid)
	closing := args[16].(pgtype.Timestamptz)
	assert.False(t, closing.Valid)
}
