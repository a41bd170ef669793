// Package repositories holds the PostgreSQL implementations of the domain
// repositories.
package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/turtacn/sds-wizard/internal/domain/sds"
	"github.com/turtacn/sds-wizard/internal/infrastructure/database/postgres"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sds-wizard/pkg/errors"
)

const uniqueViolation = "23505"

// queryExecutor is satisfied by both *sql.DB and *sql.Tx.
type queryExecutor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// SDSRepository stores completed records as one JSONB document per row with
// the identifying columns broken out for lookups.
type SDSRepository struct {
	conn     *postgres.Connection
	log      logging.Logger
	executor queryExecutor
	now      func() time.Time
}

var _ sds.Repository = (*SDSRepository)(nil)

func NewPostgresSDSRepo(conn *postgres.Connection, log logging.Logger) *SDSRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &SDSRepository{
		conn:     conn,
		log:      log.Named("sds_repo"),
		executor: conn.DB(),
		now:      time.Now,
	}
}

// WithTx runs fn against a repository bound to a single transaction.
func (r *SDSRepository) WithTx(ctx context.Context, fn func(*SDSRepository) error) error {
	tx, err := r.conn.DB().BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to begin transaction")
	}

	txRepo := &SDSRepository{conn: r.conn, log: r.log, executor: tx, now: r.now}
	if err := fn(txRepo); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to commit transaction")
	}
	return nil
}

// Save inserts rec, assigning ID and CreatedAt when unset.
func (r *SDSRepository) Save(ctx context.Context, rec *sds.Record) (uuid.UUID, error) {
	if rec == nil {
		return uuid.Nil, errors.InvalidParam("record is required")
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now().UTC()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, errors.ErrCodeSDSPersist, "failed to encode record")
	}

	query := `
		INSERT INTO sds_records (id, cas_number, product_name, version, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err = r.executor.QueryRowContext(ctx, query,
		rec.ID, rec.CASNumber, rec.ProductName, rec.Version, data, rec.CreatedAt,
	).Scan(&rec.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if stderrors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return uuid.Nil, errors.Wrap(err, errors.ErrCodeConflict, "record already exists").WithDetail(rec.ID.String())
		}
		r.log.Error("failed to insert sds record", logging.String("id", rec.ID.String()), logging.Err(err))
		return uuid.Nil, errors.Wrap(err, errors.ErrCodeSDSPersist, "failed to save safety data sheet")
	}

	r.log.Debug("sds record saved", logging.String("id", rec.ID.String()), logging.String("cas", rec.CASNumber))
	return rec.ID, nil
}

// FindByID loads one record.  A missing row is ErrCodeSDSNotFound.
func (r *SDSRepository) FindByID(ctx context.Context, id uuid.UUID) (*sds.Record, error) {
	query := `SELECT id, data, created_at FROM sds_records WHERE id = $1`
	rec, err := scanRecord(r.executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.New(errors.ErrCodeSDSNotFound, "safety data sheet not found").WithDetail(id.String())
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load safety data sheet")
	}
	return rec, nil
}

// ListByCAS returns the newest records for a CAS number, newest first.
func (r *SDSRepository) ListByCAS(ctx context.Context, cas string, limit int) ([]*sds.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, data, created_at FROM sds_records
		WHERE cas_number = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.executor.QueryContext(ctx, query, cas, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list safety data sheets")
	}
	defer rows.Close()

	var out []*sds.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan safety data sheet")
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate safety data sheets")
	}
	return out, nil
}

// MarkArchived records where the rendered PDF was stored.
func (r *SDSRepository) MarkArchived(ctx context.Context, id uuid.UUID, key string) error {
	res, err := r.executor.ExecContext(ctx,
		`UPDATE sds_records SET archive_key = $2, archived_at = $3 WHERE id = $1`,
		id, key, r.now().UTC())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to mark record archived")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeSDSNotFound, "safety data sheet not found").WithDetail(id.String())
	}
	return nil
}

func scanRecord(row scanner) (*sds.Record, error) {
	var (
		id        uuid.UUID
		data      []byte
		createdAt time.Time
	)
	if err := row.Scan(&id, &data, &createdAt); err != nil {
		return nil, err
	}
	rec := &sds.Record{}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "corrupt record document")
	}
	rec.ID = id
	rec.CreatedAt = createdAt
	return rec, nil
}

//Personal.AI order the ending
