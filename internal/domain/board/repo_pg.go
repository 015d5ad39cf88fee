package board

import (
	"context"
	"errors"

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

const boardCols = `id, name, hospital_id, service, columns, created_at, updated_at`

func (r *repoPG) scanBoard(row pgx.Row) (*Board, error) {
	var b Board
	err := row.Scan(&b.ID, &b.Name, &b.HospitalID, &b.Service, &b.Columns, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &b, err
}

func (r *repoPG) CreateBoard(ctx context.Context, b *Board) error {
	b.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO board (id, name, hospital_id, service, columns)
		VALUES ($1,$2,$3,$4,$5)`,
		b.ID, b.Name, b.HospitalID, b.Service, b.Columns)
	return err
}

func (r *repoPG) GetBoard(ctx context.Context, id uuid.UUID) (*Board, error) {
	return r.scanBoard(r.conn(ctx).QueryRow(ctx, `SELECT `+boardCols+` FROM board WHERE id = $1`, id))
}

func (r *repoPG) UpdateBoard(ctx context.Context, b *Board) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE board SET name=$2, hospital_id=$3, service=$4, columns=$5
		WHERE id = $1`,
		b.ID, b.Name, b.HospitalID, b.Service, b.Columns)
	return err
}

func (r *repoPG) DeleteBoard(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM board WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListBoards(ctx context.Context, limit, offset int) ([]*Board, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM board`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+boardCols+` FROM board ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Board
	for rows.Next() {
		b, err := r.scanBoard(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, b)
	}
	return items, total, nil
}

const cardCols = `id, board_id, patient_id, column_id, position, priority, scheduled_date,
	surgery_type, note, checklist, manual_override, created_at, updated_at`

func (r *repoPG) scanCard(row pgx.Row) (*Card, error) {
	var c Card
	err := row.Scan(&c.ID, &c.BoardID, &c.PatientID, &c.ColumnID, &c.Position, &c.Priority,
		&c.ScheduledDate, &c.SurgeryType, &c.Note, &c.Checklist, &c.ManualOverride,
		&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &c, err
}

func (r *repoPG) CreateCard(ctx context.Context, c *Card) error {
	c.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO card (id, board_id, patient_id, column_id, position, priority,
			scheduled_date, surgery_type, note, checklist, manual_override)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		c.ID, c.BoardID, c.PatientID, c.ColumnID, c.Position, c.Priority,
		c.ScheduledDate, c.SurgeryType, c.Note, c.Checklist, c.ManualOverride)
	return err
}

func (r *repoPG) GetCard(ctx context.Context, id uuid.UUID) (*Card, error) {
	return r.scanCard(r.conn(ctx).QueryRow(ctx, `SELECT `+cardCols+` FROM card WHERE id = $1`, id))
}

func (r *repoPG) GetCardByBoardPatient(ctx context.Context, boardID, patientID uuid.UUID) (*Card, error) {
	return r.scanCard(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cardCols+` FROM card WHERE board_id = $1 AND patient_id = $2`, boardID, patientID))
}

func (r *repoPG) UpdateCard(ctx context.Context, c *Card) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE card SET column_id=$2, position=$3, priority=$4, scheduled_date=$5,
			surgery_type=$6, note=$7, checklist=$8, manual_override=$9
		WHERE id = $1`,
		c.ID, c.ColumnID, c.Position, c.Priority, c.ScheduledDate,
		c.SurgeryType, c.Note, c.Checklist, c.ManualOverride)
	return err
}

func (r *repoPG) DeleteCard(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM card WHERE id = $1`, id)
	return err
}

func (r *repoPG) DeleteCardsByBoard(ctx context.Context, boardID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM card WHERE board_id = $1`, boardID)
	return err
}

func (r *repoPG) ListCardsInColumn(ctx context.Context, boardID uuid.UUID, columnID string) ([]*Card, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT c.id, c.board_id, c.patient_id, c.column_id, c.position, c.priority,
			c.scheduled_date, c.surgery_type, c.note, c.checklist, c.manual_override,
			c.created_at, c.updated_at,
			p.given_name || ' ' || p.family_name, p.medical_record_number
		FROM card c
		JOIN patient p ON p.id = c.patient_id
		WHERE c.board_id = $1 AND c.column_id = $2
		ORDER BY c.position ASC`, boardID, columnID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Card
	for rows.Next() {
		var c Card
		if err := rows.Scan(&c.ID, &c.BoardID, &c.PatientID, &c.ColumnID, &c.Position, &c.Priority,
			&c.ScheduledDate, &c.SurgeryType, &c.Note, &c.Checklist, &c.ManualOverride,
			&c.CreatedAt, &c.UpdatedAt, &c.PatientName, &c.PatientMRN); err != nil {
			return nil, err
		}
		items = append(items, &c)
	}
	return items, nil
}

func (r *repoPG) ListCardsByBoard(ctx context.Context, boardID uuid.UUID) ([]*Card, error) {
	return r.listCards(ctx, `board_id`, boardID)
}

func (r *repoPG) ListCardsByPatient(ctx context.Context, patientID uuid.UUID) ([]*Card, error) {
	return r.listCards(ctx, `patient_id`, patientID)
}

func (r *repoPG) listCards(ctx context.Context, col string, id uuid.UUID) ([]*Card, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+cardCols+` FROM card
		WHERE `+col+` = $1
		ORDER BY column_id, position ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Card
	for rows.Next() {
		c, err := r.scanCard(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, nil
}

func (r *repoPG) CountCardsInColumn(ctx context.Context, boardID uuid.UUID, columnID string) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM card WHERE board_id = $1 AND column_id = $2`, boardID, columnID).Scan(&n)
	return n, err
}
