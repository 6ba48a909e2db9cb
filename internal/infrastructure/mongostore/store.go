package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"prostavabot/internal/domain"
	"prostavabot/internal/domain/entities"
	"prostavabot/internal/ports/output"
)

var (
	_ output.RecordRepository = (*RecordRepository)(nil)
	_ output.GroupRepository  = (*GroupRepository)(nil)
)

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}

// participantCount is the aggregation expression for the embedded list length.
var participantCount = bson.M{"$size": "$participants"}

type RecordRepository struct {
	coll *mongo.Collection
}

func NewRecordRepository(db *mongo.Database) *RecordRepository {
	return &RecordRepository{coll: db.Collection(recordsCollection)}
}

func (r *RecordRepository) Create(ctx context.Context, record *entities.Record) error {
	if _, err := r.coll.InsertOne(ctx, toRecordDoc(record)); err != nil {
		return unavailable("create record", err)
	}
	return nil
}

func (r *RecordRepository) FindByID(ctx context.Context, id string) (*entities.Record, error) {
	var doc recordDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, unavailable("get record", err)
	}
	rec := doc.toEntity()
	return &rec, nil
}

func (r *RecordRepository) FindByGroupID(ctx context.Context, groupID string) ([]entities.Record, error) {
	return r.find(ctx, "list group records", bson.M{"group_id": groupID})
}

func (r *RecordRepository) FindPendingByAuthor(ctx context.Context, groupID, author string) (*entities.Record, error) {
	found, err := r.find(ctx, "find pending by author", bson.M{
		"group_id": groupID,
		"author":   author,
		"status":   string(entities.StatusPending),
	})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, domain.ErrRecordNotFound
	}
	return &found[0], nil
}

func (r *RecordRepository) FindPendingCompleted(ctx context.Context, now time.Time) ([]entities.Record, error) {
	return r.find(ctx, "find pending completed", bson.M{
		"status": string(entities.StatusPending),
		"$or": bson.A{
			bson.M{"closing_date": bson.M{"$ne": nil, "$lte": now}},
			bson.M{"$expr": bson.M{"$eq": bson.A{participantCount, "$participants_max_count"}}},
		},
	})
}

func (r *RecordRepository) FindPendingUncompleted(ctx context.Context) ([]entities.Record, error) {
	return r.find(ctx, "find pending uncompleted", bson.M{
		"status": string(entities.StatusPending),
		"$expr":  bson.M{"$lt": bson.A{participantCount, "$participants_max_count"}},
	})
}

// CompareAndSet replaces the document only if both its status and version are
// unchanged since the read.
func (r *RecordRepository) CompareAndSet(ctx context.Context, id string, expected entities.Status, mutation output.Mutation) (bool, error) {
	current, err := r.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if current.Status != expected {
		return false, nil
	}
	readVersion := current.Version
	if err := mutation(current); err != nil {
		return false, err
	}
	current.Version = readVersion + 1
	current.UpdatedAt = time.Now()

	res, err := r.coll.ReplaceOne(ctx, bson.M{
		"_id":     id,
		"status":  string(expected),
		"version": readVersion,
	}, toRecordDoc(current))
	if mongo.IsDuplicateKeyError(err) {
		return false, domain.ErrPendingExists
	}
	if err != nil {
		return false, unavailable("compare and set", err)
	}
	return res.MatchedCount == 1, nil
}

func (r *RecordRepository) find(ctx context.Context, op string, filter bson.M) ([]entities.Record, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, unavailable(op, err)
	}
	var docs []recordDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, unavailable(op, err)
	}
	out := make([]entities.Record, len(docs))
	for i := range docs {
		out[i] = docs[i].toEntity()
	}
	return out, nil
}

type GroupRepository struct {
	coll *mongo.Collection
}

func NewGroupRepository(db *mongo.Database) *GroupRepository {
	return &GroupRepository{coll: db.Collection(groupsCollection)}
}

func (g *GroupRepository) FindByID(ctx context.Context, id string) (*entities.Group, error) {
	var doc groupDoc
	err := g.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrGroupNotFound
	}
	if err != nil {
		return nil, unavailable("get group", err)
	}
	group := doc.toEntity()
	return &group, nil
}

func (g *GroupRepository) Save(ctx context.Context, group *entities.Group) error {
	_, err := g.coll.ReplaceOne(ctx, bson.M{"_id": group.ID}, toGroupDoc(group), options.Replace().SetUpsert(true))
	if err != nil {
		return unavailable("save group", err)
	}
	return nil
}
