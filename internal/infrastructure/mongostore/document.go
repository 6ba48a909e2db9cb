package mongostore

import (
	"time"

	"prostavabot/internal/domain/entities"
)

type recordDoc struct {
	ID                   string           `bson:"_id"`
	GroupID              string           `bson:"group_id"`
	Author               string           `bson:"author"`
	Creator              string           `bson:"creator"`
	IsRequest            bool             `bson:"is_request"`
	Status               string           `bson:"status"`
	Data                 eventDoc         `bson:"data"`
	Participants         []participantDoc `bson:"participants"`
	Rating               float64          `bson:"rating"`
	ParticipantsMinCount int              `bson:"participants_min_count"`
	ParticipantsMaxCount int              `bson:"participants_max_count"`
	ClosingDate          *time.Time       `bson:"closing_date"`
	Version              int64            `bson:"version"`
	CreatedAt            time.Time        `bson:"created_at"`
	UpdatedAt            time.Time        `bson:"updated_at"`
}

type participantDoc struct {
	UserID string `bson:"user_id"`
	Rating int    `bson:"rating"`
}

type eventDoc struct {
	Title string     `bson:"title"`
	Date  *time.Time `bson:"date"`
	Venue venueDoc   `bson:"venue"`
	Cost  costDoc    `bson:"cost"`
}

type venueDoc struct {
	Title    string       `bson:"title"`
	Address  string       `bson:"address"`
	Location *locationDoc `bson:"location,omitempty"`
}

type locationDoc struct {
	Latitude  float64 `bson:"latitude"`
	Longitude float64 `bson:"longitude"`
}

type costDoc struct {
	Amount   float64 `bson:"amount"`
	Currency string  `bson:"currency"`
}

type groupDoc struct {
	ID       string           `bson:"_id"`
	Settings groupSettingsDoc `bson:"settings"`
}

type groupSettingsDoc struct {
	Name                   string `bson:"name"`
	Language               string `bson:"language"`
	Currency               string `bson:"currency"`
	Timezone               string `bson:"timezone"`
	ChatMembersCount       int    `bson:"chat_members_count"`
	ParticipantsMinPercent int    `bson:"participants_min_percent"`
	PendingHours           int    `bson:"pending_hours"`
	CreateDaysAgo          int    `bson:"create_days_ago"`
}

func toRecordDoc(r *entities.Record) recordDoc {
	// participants is always an array; the sweep filters take its $size.
	participants := make([]participantDoc, len(r.Participants))
	for i, p := range r.Participants {
		participants[i] = participantDoc{UserID: p.UserID, Rating: p.Rating}
	}
	var loc *locationDoc
	if l := r.Data.Venue.Location; l != nil {
		loc = &locationDoc{Latitude: l.Latitude, Longitude: l.Longitude}
	}
	return recordDoc{
		ID:        r.ID,
		GroupID:   r.GroupID,
		Author:    r.Author,
		Creator:   r.Creator,
		IsRequest: r.IsRequest,
		Status:    string(r.Status),
		Data: eventDoc{
			Title: r.Data.Title,
			Date:  timePtr(r.Data.Date),
			Venue: venueDoc{Title: r.Data.Venue.Title, Address: r.Data.Venue.Address, Location: loc},
			Cost:  costDoc{Amount: r.Data.Cost.Amount, Currency: r.Data.Cost.Currency},
		},
		Participants:         participants,
		Rating:               r.Rating,
		ParticipantsMinCount: r.ParticipantsMinCount,
		ParticipantsMaxCount: r.ParticipantsMaxCount,
		ClosingDate:          timePtr(r.ClosingDate),
		Version:              r.Version,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

func (d *recordDoc) toEntity() entities.Record {
	participants := make([]entities.Participant, len(d.Participants))
	for i, p := range d.Participants {
		participants[i] = entities.Participant{UserID: p.UserID, Rating: p.Rating}
	}
	var loc *entities.Location
	if l := d.Data.Venue.Location; l != nil {
		loc = &entities.Location{Latitude: l.Latitude, Longitude: l.Longitude}
	}
	return entities.Record{
		ID:        d.ID,
		GroupID:   d.GroupID,
		Author:    d.Author,
		Creator:   d.Creator,
		IsRequest: d.IsRequest,
		Status:    entities.Status(d.Status),
		Data: entities.EventData{
			Title: d.Data.Title,
			Date:  timeValue(d.Data.Date),
			Venue: entities.Venue{Title: d.Data.Venue.Title, Address: d.Data.Venue.Address, Location: loc},
			Cost:  entities.Cost{Amount: d.Data.Cost.Amount, Currency: d.Data.Cost.Currency},
		},
		Participants:         participants,
		Rating:               d.Rating,
		ParticipantsMinCount: d.ParticipantsMinCount,
		ParticipantsMaxCount: d.ParticipantsMaxCount,
		ClosingDate:          timeValue(d.ClosingDate),
		Version:              d.Version,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
}

func toGroupDoc(g *entities.Group) groupDoc {
	return groupDoc{ID: g.ID, Settings: groupSettingsDoc(g.Settings)}
}

func (d *groupDoc) toEntity() entities.Group {
	return entities.Group{ID: d.ID, Settings: entities.GroupSettings(d.Settings)}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func timeValue(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
