package mongostore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"prostavabot/internal/domain"
	"prostavabot/internal/domain/entities"
)

func testDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	client, db, err := Connect(ctx, uri, "prostava_test_"+uuid.NewString()[:8])
	if err != nil {
		t.Skip("MongoDB not available")
	}
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func pending(groupID string, closing time.Time, participants ...entities.Participant) *entities.Record {
	if participants == nil {
		participants = []entities.Participant{}
	}
	author := "alice-" + uuid.NewString()[:8]
	return &entities.Record{
		ID:                   uuid.NewString(),
		GroupID:              groupID,
		Author:               author,
		Creator:              author,
		Status:               entities.StatusPending,
		Participants:         participants,
		ParticipantsMinCount: 1,
		ParticipantsMaxCount: 2,
		ClosingDate:          closing,
		CreatedAt:            time.Now(),
	}
}

func TestRecordRepository(t *testing.T) {
	db := testDB(t)
	repo := NewRecordRepository(db)
	ctx := context.Background()
	future := time.Now().Add(48 * time.Hour)

	t.Run("missing record", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	t.Run("compare and set bumps version", func(t *testing.T) {
		rec := pending("group-1", future)
		require.NoError(t, repo.Create(ctx, rec))

		ok, err := repo.CompareAndSet(ctx, rec.ID, entities.StatusPending, func(r *entities.Record) error {
			r.Participants = append(r.Participants, entities.Participant{UserID: "bob", Rating: 5})
			return nil
		})
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := repo.FindByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, got.Version)
		assert.Len(t, got.Participants, 1)

		ok, err = repo.CompareAndSet(ctx, rec.ID, entities.StatusNew, func(*entities.Record) error { return nil })
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("stale version loses", func(t *testing.T) {
		rec := pending("group-1", future)
		require.NoError(t, repo.Create(ctx, rec))

		ok, err := repo.CompareAndSet(ctx, rec.ID, entities.StatusPending, func(r *entities.Record) error {
			// a competing writer commits between our read and our replace
			won, err := repo.CompareAndSet(ctx, rec.ID, entities.StatusPending, func(r *entities.Record) error {
				r.Status = entities.StatusApproved
				return nil
			})
			require.NoError(t, err)
			require.True(t, won)
			r.Status = entities.StatusRejected
			return nil
		})
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := repo.FindByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.StatusApproved, got.Status)
	})

	t.Run("sweep selections", func(t *testing.T) {
		closed := pending("group-2", time.Now().Add(-time.Minute))
		open := pending("group-2", future)
		full := pending("group-2", future,
			entities.Participant{UserID: "bob", Rating: 4},
			entities.Participant{UserID: "carol", Rating: 3})
		for _, r := range []*entities.Record{closed, open, full} {
			require.NoError(t, repo.Create(ctx, r))
		}

		completed, err := repo.FindPendingCompleted(ctx, time.Now())
		require.NoError(t, err)
		var ids []string
		for _, r := range completed {
			ids = append(ids, r.ID)
		}
		assert.Contains(t, ids, closed.ID)
		assert.Contains(t, ids, full.ID)
		assert.NotContains(t, ids, open.ID)

		uncompleted, err := repo.FindPendingUncompleted(ctx)
		require.NoError(t, err)
		ids = ids[:0]
		for _, r := range uncompleted {
			ids = append(ids, r.ID)
		}
		assert.Contains(t, ids, open.ID)
		assert.NotContains(t, ids, full.ID)
	})

	t.Run("second pending record of an author is refused", func(t *testing.T) {
		first := pending("group-3", future)
		require.NoError(t, repo.Create(ctx, first))
		second := pending("group-3", future)
		second.Author = first.Author
		second.Status = entities.StatusNew
		require.NoError(t, repo.Create(ctx, second))

		ok, err := repo.CompareAndSet(ctx, second.ID, entities.StatusNew, func(r *entities.Record) error {
			r.Status = entities.StatusPending
			return nil
		})

		assert.ErrorIs(t, err, domain.ErrPendingExists)
		assert.False(t, ok)
	})
}

func TestGroupRepository(t *testing.T) {
	repo := NewGroupRepository(testDB(t))
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "group-x")
	assert.ErrorIs(t, err, domain.ErrGroupNotFound)

	g := &entities.Group{ID: "group-x", Settings: entities.DefaultGroupSettings("Friends")}
	require.NoError(t, repo.Save(ctx, g))
	g.Settings.ChatMembersCount = 10
	require.NoError(t, repo.Save(ctx, g))

	got, err := repo.FindByID(ctx, "group-x")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Settings.ChatMembersCount)
}
