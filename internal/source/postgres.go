package source

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/notifyhub/assignment-queue/internal/domain"
)

// Postgres loads the batch from the assignments table.
// Rows are read in insertion order; the queue orders them by due date and
// priority once they are pushed.
type Postgres struct {
	pool  *pgxpool.Pool
	limit int
}

func NewPostgres(pool *pgxpool.Pool, limit int) *Postgres {
	return &Postgres{pool: pool, limit: limit}
}

const selectBatch = `
	SELECT description, due_at, priority
	FROM assignments
	ORDER BY id
	LIMIT $1`

// Batch reads up to limit rows. A row that fails construction rejects the
// whole batch.
func (p *Postgres) Batch(ctx context.Context) ([]domain.Assignment, error) {
	rows, err := p.pool.Query(ctx, selectBatch, p.limit)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}

	type row struct {
		Description string
		DueAt       time.Time
		Priority    string
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByPos[row])
	if err != nil {
		return nil, fmt.Errorf("scan assignments: %w", err)
	}

	out := make([]domain.Assignment, 0, len(records))
	for i, r := range records {
		prio, err := domain.ParsePriority(r.Priority)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		a, err := domain.NewAssignment(r.Description, r.DueAt, prio)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, a)
	}
	return out, nil
}

// Seed inserts the given specs relative to now. Used to populate an empty
// table on first run.
func (p *Postgres) Seed(ctx context.Context, specs []Spec, now time.Time) error {
	batch := &pgx.Batch{}
	for _, s := range specs {
		batch.Queue(
			`INSERT INTO assignments (description, due_at, priority) VALUES ($1, $2, $3)`,
			s.Description, DaysFrom(now, s.DueInDays), s.Priority.String(),
		)
	}
	if err := p.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("seed assignments: %w", err)
	}
	return nil
}

// Count returns the number of stored assignments.
func (p *Postgres) Count(ctx context.Context) (int, error) {
	var n int
	if err := p.pool.QueryRow(ctx, `SELECT count(*) FROM assignments`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count assignments: %w", err)
	}
	return n, nil
}

var _ Source = (*Postgres)(nil)
