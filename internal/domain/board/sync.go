package board

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SurgeryInfo is the slice of a surgery row the sync policy needs.
type SurgeryInfo struct {
	ID            uuid.UUID
	PatientID     uuid.UUID
	Status        string
	ScheduledDate *time.Time
}

// SurgerySource feeds surgical state into the sync engine. Implemented
// by an adapter over the surgery repository, wired in main.
type SurgerySource interface {
	PatientSurgeries(ctx context.Context, patientID uuid.UUID) ([]SurgeryInfo, error)
	// OverdueScheduled returns surgeries in status scheduled whose date
	// is strictly before now.
	OverdueScheduled(ctx context.Context, now time.Time) ([]SurgeryInfo, error)
	MarkPending(ctx context.Context, ids []uuid.UUID) error
}

// Syncer keeps card columns in agreement with surgical status. It runs
// as a sweep, not an event trigger: per-patient after surgery writes,
// and globally for overdue surgeries at startup or on demand.
type Syncer struct {
	boards    Repository
	surgeries SurgerySource
	logger    zerolog.Logger
}

func NewSyncer(boards Repository, surgeries SurgerySource, logger zerolog.Logger) *Syncer {
	return &Syncer{boards: boards, surgeries: surgeries, logger: logger}
}

// DeriveTargetColumn computes the column a patient's cards belong in,
// from the patient's soonest surgery with a non-terminal status. With
// no non-terminal surgery left, a completed surgery parks the card in
// operated; cancelled-only or no surgeries at all mean waiting.
func DeriveTargetColumn(surgeries []SurgeryInfo, now time.Time) string {
	var pick *SurgeryInfo
	for i := range surgeries {
		s := &surgeries[i]
		if s.Status == "completed" || s.Status == "cancelled" {
			continue
		}
		if pick == nil || sooner(s, pick) {
			pick = s
		}
	}
	if pick == nil {
		for i := range surgeries {
			if surgeries[i].Status == "completed" {
				return ColumnOperated
			}
		}
		return ColumnWaiting
	}
	switch pick.Status {
	case "scheduled":
		if pick.ScheduledDate != nil && pick.ScheduledDate.Before(now) {
			return ColumnPending
		}
		return ColumnScheduled
	default: // pending, in_progress
		return ColumnPending
	}
}

// sooner orders surgeries by scheduled date ascending, undated last.
func sooner(a, b *SurgeryInfo) bool {
	switch {
	case a.ScheduledDate == nil:
		return false
	case b.ScheduledDate == nil:
		return true
	default:
		return a.ScheduledDate.Before(*b.ScheduledDate)
	}
}

// ResyncPatient recomputes the target column and writes it to all of
// the patient's cards, skipping any card with the manual latch set.
// Errors propagate: this path is user-triggered via a surgery edit.
func (sy *Syncer) ResyncPatient(ctx context.Context, patientID uuid.UUID) error {
	surgeries, err := sy.surgeries.PatientSurgeries(ctx, patientID)
	if err != nil {
		return fmt.Errorf("load surgeries: %w", err)
	}
	target := DeriveTargetColumn(surgeries, time.Now())

	cards, err := sy.boards.ListCardsByPatient(ctx, patientID)
	if err != nil {
		return fmt.Errorf("load cards: %w", err)
	}
	boards := make(map[uuid.UUID]*Board)
	for _, c := range cards {
		if c.ManualOverride || c.ColumnID == target {
			continue
		}
		b, ok := boards[c.BoardID]
		if !ok {
			b, err = sy.boards.GetBoard(ctx, c.BoardID)
			if err != nil {
				return fmt.Errorf("load board %s: %w", c.BoardID, err)
			}
			boards[c.BoardID] = b
		}
		// A board with custom columns may not carry the derived target.
		// The card stays where it is rather than moving into a column
		// the board cannot display.
		if !b.HasColumn(target) {
			sy.logger.Warn().
				Str("card_id", c.ID.String()).
				Str("board_id", c.BoardID.String()).
				Str("column", target).
				Msg("board lacks the derived column, card left in place")
			continue
		}
		count, err := sy.boards.CountCardsInColumn(ctx, c.BoardID, target)
		if err != nil {
			return fmt.Errorf("count cards: %w", err)
		}
		c.ColumnID = target
		c.Position = count
		if err := sy.boards.UpdateCard(ctx, c); err != nil {
			return fmt.Errorf("update card %s: %w", c.ID, err)
		}
	}
	return nil
}

// RunOverdueSweep flips overdue scheduled surgeries to pending and
// pushes the affected patients' cards out of the scheduled column, even
// past a manual latch: the sweep is a status correction, not a
// placement opinion. Best-effort throughout; every failure is logged
// and swallowed. Returns the number of cards moved.
func (sy *Syncer) RunOverdueSweep(ctx context.Context, now time.Time) int {
	overdue, err := sy.surgeries.OverdueScheduled(ctx, now)
	if err != nil {
		sy.logger.Error().Err(err).Msg("overdue sweep: listing surgeries failed")
		return 0
	}
	if len(overdue) == 0 {
		return 0
	}

	ids := make([]uuid.UUID, 0, len(overdue))
	patients := make(map[uuid.UUID]bool)
	for _, s := range overdue {
		ids = append(ids, s.ID)
		patients[s.PatientID] = true
	}
	if err := sy.surgeries.MarkPending(ctx, ids); err != nil {
		sy.logger.Error().Err(err).Int("surgeries", len(ids)).Msg("overdue sweep: flipping surgeries failed")
	}

	moved := 0
	boards := make(map[uuid.UUID]*Board)
	for patientID := range patients {
		cards, err := sy.boards.ListCardsByPatient(ctx, patientID)
		if err != nil {
			sy.logger.Error().Err(err).Str("patient_id", patientID.String()).Msg("overdue sweep: loading cards failed")
			continue
		}
		for _, c := range cards {
			if c.ColumnID != ColumnScheduled {
				continue
			}
			b, ok := boards[c.BoardID]
			if !ok {
				b, err = sy.boards.GetBoard(ctx, c.BoardID)
				if err != nil {
					sy.logger.Error().Err(err).Str("board_id", c.BoardID.String()).Msg("overdue sweep: loading board failed")
					continue
				}
				boards[c.BoardID] = b
			}
			if !b.HasColumn(ColumnPending) {
				sy.logger.Warn().
					Str("card_id", c.ID.String()).
					Str("board_id", c.BoardID.String()).
					Msg("overdue sweep: board has no pending column, card left in place")
				continue
			}
			count, err := sy.boards.CountCardsInColumn(ctx, c.BoardID, ColumnPending)
			if err != nil {
				sy.logger.Error().Err(err).Str("card_id", c.ID.String()).Msg("overdue sweep: counting cards failed")
				continue
			}
			c.ColumnID = ColumnPending
			c.Position = count
			if err := sy.boards.UpdateCard(ctx, c); err != nil {
				sy.logger.Error().Err(err).Str("card_id", c.ID.String()).Msg("overdue sweep: moving card failed")
				continue
			}
			moved++
		}
	}
	sy.logger.Info().Int("surgeries", len(ids)).Int("cards_moved", moved).Msg("overdue sweep complete")
	return moved
}
