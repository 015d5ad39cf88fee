package consultation

import (
	"context"

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

const consultationCols = `id, patient_id, episode_id, consultant, specialty,
	scheduled_at, outcome, note, created_at, updated_at`

func (r *repoPG) scanConsultation(row pgx.Row) (*Consultation, error) {
	var cn Consultation
	err := row.Scan(&cn.ID, &cn.PatientID, &cn.EpisodeID, &cn.Consultant, &cn.Specialty,
		&cn.ScheduledAt, &cn.Outcome, &cn.Note, &cn.CreatedAt, &cn.UpdatedAt)
	return &cn, err
}

func (r *repoPG) Create(ctx context.Context, cn *Consultation) error {
	cn.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO consultation (id, patient_id, episode_id, consultant, specialty,
			scheduled_at, outcome, note)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		cn.ID, cn.PatientID, cn.EpisodeID, cn.Consultant, cn.Specialty,
		cn.ScheduledAt, cn.Outcome, cn.Note)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	return r.scanConsultation(r.conn(ctx).QueryRow(ctx, `SELECT `+consultationCols+` FROM consultation WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, cn *Consultation) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE consultation SET episode_id=$2, consultant=$3, specialty=$4,
			scheduled_at=$5, outcome=$6, note=$7
		WHERE id = $1`,
		cn.ID, cn.EpisodeID, cn.Consultant, cn.Specialty, cn.ScheduledAt, cn.Outcome, cn.Note)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM consultation WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Consultation, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM consultation WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+consultationCols+` FROM consultation
		WHERE patient_id = $1
		ORDER BY scheduled_at DESC NULLS LAST, created_at DESC
		LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Consultation
	for rows.Next() {
		cn, err := r.scanConsultation(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, cn)
	}
	return items, total, nil
}
