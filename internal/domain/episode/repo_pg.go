package episode

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rsmarcelinoo/surgical-patient-hub/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const episodeCols = `id, patient_id, hospital_id, reason, status, opened_at, closed_at, created_at, updated_at`

func (r *repoPG) scanEpisode(row pgx.Row) (*Episode, error) {
	var e Episode
	err := row.Scan(&e.ID, &e.PatientID, &e.HospitalID, &e.Reason, &e.Status,
		&e.OpenedAt, &e.ClosedAt, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

func (r *repoPG) Create(ctx context.Context, e *Episode) error {
	e.ID = uuid.New()
	var openedAt *time.Time
	if !e.OpenedAt.IsZero() {
		openedAt = &e.OpenedAt
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO episode (id, patient_id, hospital_id, reason, status, opened_at)
		VALUES ($1,$2,$3,$4,$5, COALESCE($6, NOW()))`,
		e.ID, e.PatientID, e.HospitalID, e.Reason, e.Status, openedAt)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Episode, error) {
	return r.scanEpisode(r.conn(ctx).QueryRow(ctx, `SELECT `+episodeCols+` FROM episode WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, e *Episode) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE episode SET reason=$2, status=$3, closed_at=$4
		WHERE id = $1`,
		e.ID, e.Reason, e.Status, e.ClosedAt)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM episode WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Episode, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM episode WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+episodeCols+` FROM episode
		WHERE patient_id = $1
		ORDER BY opened_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Episode
	for rows.Next() {
		e, err := r.scanEpisode(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, nil
}
