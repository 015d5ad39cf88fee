package comment

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

const commentCols = `id, card_id, patient_id, author, body, created_at, updated_at`

func (r *repoPG) scanComment(row pgx.Row) (*Comment, error) {
	var cm Comment
	err := row.Scan(&cm.ID, &cm.CardID, &cm.PatientID, &cm.Author, &cm.Body, &cm.CreatedAt, &cm.UpdatedAt)
	return &cm, err
}

func (r *repoPG) Create(ctx context.Context, cm *Comment) error {
	cm.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO comment (id, card_id, patient_id, author, body)
		VALUES ($1,$2,$3,$4,$5)`,
		cm.ID, cm.CardID, cm.PatientID, cm.Author, cm.Body)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Comment, error) {
	return r.scanComment(r.conn(ctx).QueryRow(ctx, `SELECT `+commentCols+` FROM comment WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, cm *Comment) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE comment SET body=$2 WHERE id = $1`, cm.ID, cm.Body)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM comment WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByCard(ctx context.Context, cardID uuid.UUID, limit, offset int) ([]*Comment, int, error) {
	return r.list(ctx, `card_id`, cardID, limit, offset)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Comment, int, error) {
	return r.list(ctx, `patient_id`, patientID, limit, offset)
}

func (r *repoPG) list(ctx context.Context, col string, parentID uuid.UUID, limit, offset int) ([]*Comment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM comment WHERE `+col+` = $1`, parentID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+commentCols+` FROM comment
		WHERE `+col+` = $1
		ORDER BY created_at ASC LIMIT $2 OFFSET $3`, parentID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Comment
	for rows.Next() {
		cm, err := r.scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, cm)
	}
	return items, total, nil
}
