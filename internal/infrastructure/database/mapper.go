package database

import (
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"prostavabot/internal/domain/entities"
)

var recordColumnList = []string{
	"id", "group_id", "author", "creator", "is_request", "status",
	"title", "event_date", "venue_title", "venue_address", "venue_latitude", "venue_longitude",
	"cost_amount", "cost_currency", "rating", "participants_min_count", "participants_max_count",
	"closing_date", "version", "created_at", "updated_at",
}

var (
	recordColumns = strings.Join(recordColumnList, ", ")
	// aliasedRecordColumns qualifies every column with the "r." alias used by list queries.
	aliasedRecordColumns = "r." + strings.Join(recordColumnList, ", r.")
)

type scanner interface {
	Scan(dest ...any) error
}

type recordRow struct {
	ID                   string
	GroupID              string
	Author               string
	Creator              string
	IsRequest            bool
	Status               string
	Title                string
	EventDate            pgtype.Timestamptz
	VenueTitle           string
	VenueAddress         string
	VenueLatitude        pgtype.Float8
	VenueLongitude       pgtype.Float8
	CostAmount           float64
	CostCurrency         string
	Rating               float64
	ParticipantsMinCount int32
	ParticipantsMaxCount int32
	ClosingDate          pgtype.Timestamptz
	Version              int64
	CreatedAt            pgtype.Timestamptz
	UpdatedAt            pgtype.Timestamptz
}

func scanRecord(s scanner) (*recordRow, error) {
	var row recordRow
	err := s.Scan(
		&row.ID, &row.GroupID, &row.Author, &row.Creator, &row.IsRequest, &row.Status,
		&row.Title, &row.EventDate, &row.VenueTitle, &row.VenueAddress, &row.VenueLatitude, &row.VenueLongitude,
		&row.CostAmount, &row.CostCurrency, &row.Rating, &row.ParticipantsMinCount, &row.ParticipantsMaxCount,
		&row.ClosingDate, &row.Version, &row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *recordRow) toEntity() entities.Record {
	var loc *entities.Location
	if r.VenueLatitude.Valid && r.VenueLongitude.Valid {
		loc = &entities.Location{Latitude: r.VenueLatitude.Float64, Longitude: r.VenueLongitude.Float64}
	}
	return entities.Record{
		ID:        r.ID,
		GroupID:   r.GroupID,
		Author:    r.Author,
		Creator:   r.Creator,
		IsRequest: r.IsRequest,
		Status:    entities.Status(r.Status),
		Data: entities.EventData{
			Title: r.Title,
			Date:  pgtypeTimestamptzToTime(r.EventDate),
			Venue: entities.Venue{Title: r.VenueTitle, Address: r.VenueAddress, Location: loc},
			Cost:  entities.Cost{Amount: r.CostAmount, Currency: r.CostCurrency},
		},
		Participants:         []entities.Participant{},
		Rating:               r.Rating,
		ParticipantsMinCount: int(r.ParticipantsMinCount),
		ParticipantsMaxCount: int(r.ParticipantsMaxCount),
		ClosingDate:          pgtypeTimestamptzToTime(r.ClosingDate),
		Version:              r.Version,
		CreatedAt:            pgtypeTimestamptzToTime(r.CreatedAt),
		UpdatedAt:            pgtypeTimestamptzToTime(r.UpdatedAt),
	}
}

// recordArgs returns the column values after id in recordColumns order, minus
// version and the timestamps which the statements set themselves.
func recordArgs(r *entities.Record) []any {
	lat, lng := locationToPg(r.Data.Venue.Location)
	return []any{
		r.GroupID, r.Author, r.Creator, r.IsRequest, string(r.Status),
		r.Data.Title, timeToPgtype(r.Data.Date), r.Data.Venue.Title, r.Data.Venue.Address, lat, lng,
		r.Data.Cost.Amount, r.Data.Cost.Currency, r.Rating, int32(r.ParticipantsMinCount), int32(r.ParticipantsMaxCount),
		timeToPgtype(r.ClosingDate),
	}
}

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

// timeToPgtype maps the zero time to NULL.
func timeToPgtype(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func locationToPg(loc *entities.Location) (lat, lng pgtype.Float8) {
	if loc == nil {
		return pgtype.Float8{}, pgtype.Float8{}
	}
	return pgtype.Float8{Float64: loc.Latitude, Valid: true}, pgtype.Float8{Float64: loc.Longitude, Valid: true}
}
