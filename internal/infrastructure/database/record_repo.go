package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"prostavabot/internal/domain"
	"prostavabot/internal/domain/entities"
	"prostavabot/internal/ports/output"
)

var _ output.RecordRepository = (*RecordRepository)(nil)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type RecordRepository struct {
	pool *pgxpool.Pool
}

func NewRecordRepository(pool *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{pool: pool}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}

// pendingAuthorIndex allows one pending record per author and group.
const pendingAuthorIndex = "records_one_pending_per_author"

func isPendingAuthorConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == pendingAuthorIndex
}

func (r *RecordRepository) Create(ctx context.Context, record *entities.Record) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return unavailable("create record", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	args := append([]any{record.ID}, recordArgs(record)...)
	args = append(args, record.Version, record.CreatedAt, record.UpdatedAt)
	_, err = tx.Exec(ctx, `INSERT INTO records (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`, args...)
	if isPendingAuthorConflict(err) {
		return domain.ErrPendingExists
	}
	if err != nil {
		return unavailable("create record", err)
	}
	if err := writeParticipants(ctx, tx, record); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return unavailable("create record", err)
	}
	return nil
}

func (r *RecordRepository) FindByID(ctx context.Context, id string) (*entities.Record, error) {
	row, err := scanRecord(r.pool.QueryRow(ctx, `SELECT `+recordColumns+` FROM records WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, unavailable("get record", err)
	}
	records := []entities.Record{row.toEntity()}
	if err := attachParticipants(ctx, r.pool, records); err != nil {
		return nil, err
	}
	return &records[0], nil
}

func (r *RecordRepository) FindByGroupID(ctx context.Context, groupID string) ([]entities.Record, error) {
	return r.list(ctx, "list group records", `WHERE r.group_id = $1 ORDER BY r.created_at`, groupID)
}

func (r *RecordRepository) FindPendingByAuthor(ctx context.Context, groupID, author string) (*entities.Record, error) {
	records, err := r.list(ctx, "find pending by author",
		`WHERE r.group_id = $1 AND r.author = $2 AND r.status = 'pending' ORDER BY r.created_at LIMIT 1`,
		groupID, author)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrRecordNotFound
	}
	return &records[0], nil
}

func (r *RecordRepository) FindPendingCompleted(ctx context.Context, now time.Time) ([]entities.Record, error) {
	return r.list(ctx, "find pending completed", `WHERE r.status = 'pending' AND (
			(r.closing_date IS NOT NULL AND r.closing_date <= $1)
			OR (SELECT count(*) FROM record_participants p WHERE p.record_id = r.id) = r.participants_max_count
		) ORDER BY r.created_at`, now)
}

func (r *RecordRepository) FindPendingUncompleted(ctx context.Context) ([]entities.Record, error) {
	return r.list(ctx, "find pending uncompleted", `WHERE r.status = 'pending'
		AND (SELECT count(*) FROM record_participants p WHERE p.record_id = r.id) < r.participants_max_count
		ORDER BY r.created_at`)
}

// CompareAndSet locks the row, checks the status, applies mutation and writes
// the result back in one transaction. The version predicate on the UPDATE
// guards against writers that bypass the row lock.
func (r *RecordRepository) CompareAndSet(ctx context.Context, id string, expected entities.Status, mutation output.Mutation) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, unavailable("compare and set", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	row, err := scanRecord(tx.QueryRow(ctx, `SELECT `+recordColumns+` FROM records WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return false, domain.ErrRecordNotFound
	}
	if err != nil {
		return false, unavailable("compare and set", err)
	}
	if entities.Status(row.Status) != expected {
		return false, nil
	}

	records := []entities.Record{row.toEntity()}
	if err := attachParticipants(ctx, tx, records); err != nil {
		return false, err
	}
	next := &records[0]
	if err := mutation(next); err != nil {
		return false, err
	}

	args := append([]any{id}, recordArgs(next)...)
	args = append(args, row.Version)
	tag, err := tx.Exec(ctx, `UPDATE records SET
			group_id = $2, author = $3, creator = $4, is_request = $5, status = $6,
			title = $7, event_date = $8, venue_title = $9, venue_address = $10,
			venue_latitude = $11, venue_longitude = $12, cost_amount = $13, cost_currency = $14,
			rating = $15, participants_min_count = $16, participants_max_count = $17, closing_date = $18,
			version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $19`, args...)
	if isPendingAuthorConflict(err) {
		return false, domain.ErrPendingExists
	}
	if err != nil {
		return false, unavailable("compare and set", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := tx.Exec(ctx, `DELETE FROM record_participants WHERE record_id = $1`, id); err != nil {
		return false, unavailable("compare and set", err)
	}
	if err := writeParticipants(ctx, tx, next); err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, unavailable("compare and set", err)
	}
	return true, nil
}

func (r *RecordRepository) list(ctx context.Context, op, where string, args ...any) ([]entities.Record, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+aliasedRecordColumns+` FROM records r `+where, args...)
	if err != nil {
		return nil, unavailable(op, err)
	}
	defer rows.Close()

	records := make([]entities.Record, 0)
	for rows.Next() {
		row, err := scanRecord(rows)
		if err != nil {
			return nil, unavailable(op, err)
		}
		records = append(records, row.toEntity())
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(op, err)
	}
	if err := attachParticipants(ctx, r.pool, records); err != nil {
		return nil, err
	}
	return records, nil
}

// attachParticipants loads the participant rows of every record in one query.
func attachParticipants(ctx context.Context, q querier, records []entities.Record) error {
	if len(records) == 0 {
		return nil
	}
	ids := make([]string, len(records))
	index := make(map[string]int, len(records))
	for i := range records {
		ids[i] = records[i].ID
		index[records[i].ID] = i
	}

	rows, err := q.Query(ctx, `SELECT record_id, user_id, rating FROM record_participants
		WHERE record_id = ANY($1) ORDER BY record_id, position`, ids)
	if err != nil {
		return unavailable("load participants", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			recordID string
			p        entities.Participant
			rating   int16
		)
		if err := rows.Scan(&recordID, &p.UserID, &rating); err != nil {
			return unavailable("load participants", err)
		}
		p.Rating = int(rating)
		i := index[recordID]
		records[i].Participants = append(records[i].Participants, p)
	}
	if err := rows.Err(); err != nil {
		return unavailable("load participants", err)
	}
	return nil
}

func writeParticipants(ctx context.Context, tx pgx.Tx, record *entities.Record) error {
	if len(record.Participants) == 0 {
		return nil
	}
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"record_participants"},
		[]string{"record_id", "user_id", "rating", "position"},
		pgx.CopyFromSlice(len(record.Participants), func(i int) ([]any, error) {
			p := record.Participants[i]
			return []any{record.ID, p.UserID, int16(p.Rating), int32(i)}, nil
		}),
	)
	if err != nil {
		return unavailable("write participants", err)
	}
	return nil
}
