package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/antelcha/itsm-playground/internal/domain"
)

// LabelCount is one slice of a rollup, ordered by the classification
// entity's sort_order.
type LabelCount struct {
	Label string
	Count int64
}

// Overview partitions the whole store by status.is_closed.
type Overview struct {
	Total  int64
	Open   int64
	Closed int64
}

// DashboardRepository runs read-only rollups over the entire ticket
// store, deliberately ignoring per-record visibility.
type DashboardRepository interface {
	Overview(ctx context.Context) (*Overview, error)
	CountsByKind(ctx context.Context, kind domain.ClassificationKind) ([]LabelCount, error)
}

type dashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository instantiates repository.
func NewDashboardRepository(pool *pgxpool.Pool) DashboardRepository {
	return &dashboardRepository{pool: pool}
}

func (r *dashboardRepository) Overview(ctx context.Context) (*Overview, error) {
	const query = `
        SELECT COUNT(*) AS total,
               COUNT(*) FILTER (WHERE NOT s.is_closed) AS open,
               COUNT(*) FILTER (WHERE s.is_closed) AS closed
        FROM tickets t
        JOIN statuses s ON s.id = t.status_id`
	var overview Overview
	if err := r.pool.QueryRow(ctx, query).Scan(&overview.Total, &overview.Open, &overview.Closed); err != nil {
		return nil, err
	}
	return &overview, nil
}

func (r *dashboardRepository) CountsByKind(ctx context.Context, kind domain.ClassificationKind) ([]LabelCount, error) {
	var fk string
	switch kind {
	case domain.KindStatus:
		fk = "status_id"
	case domain.KindPriority:
		fk = "priority_id"
	case domain.KindCategory:
		fk = "category_id"
	default:
		return nil, fmt.Errorf("unknown classification kind %q", kind)
	}

	query := fmt.Sprintf(`
        SELECT c.name, COUNT(t.id)
        FROM %s c
        LEFT JOIN tickets t ON t.%s = c.id
        GROUP BY c.id, c.name, c.sort_order
        ORDER BY c.sort_order ASC, c.name ASC`, tableFor(kind), fk)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LabelCount
	for rows.Next() {
		var entry LabelCount
		if err := rows.Scan(&entry.Label, &entry.Count); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
