package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/antelcha/itsm-playground/internal/domain"
)

// ClassificationRepository serves the three reference-data tables
// through one parameterized implementation. The shared capability set
// is {id, name, description, is_active, sort_order}; color and
// is_closed are selected as constants where the table lacks them so
// every row scans into the same struct.
type ClassificationRepository interface {
	List(ctx context.Context, kind domain.ClassificationKind) ([]domain.Classification, error)
	GetByID(ctx context.Context, kind domain.ClassificationKind, id string) (*domain.Classification, error)
	Create(ctx context.Context, entity *domain.Classification) error
	Update(ctx context.Context, entity *domain.Classification) error
	Delete(ctx context.Context, kind domain.ClassificationKind, id string) error
	ActiveExists(ctx context.Context, kind domain.ClassificationKind, id string) (bool, error)
}

type classificationRepository struct {
	pool *pgxpool.Pool
}

// NewClassificationRepository instantiates repository.
func NewClassificationRepository(pool *pgxpool.Pool) ClassificationRepository {
	return &classificationRepository{pool: pool}
}

func tableFor(kind domain.ClassificationKind) string {
	switch kind {
	case domain.KindStatus:
		return "statuses"
	case domain.KindPriority:
		return "priorities"
	default:
		return "categories"
	}
}

func selectClause(kind domain.ClassificationKind) string {
	colorExpr := "''"
	if kind.HasColor() {
		colorExpr = "color"
	}
	closedExpr := "FALSE"
	if kind.HasClosedFlag() {
		closedExpr = "is_closed"
	}
	return fmt.Sprintf(
		"SELECT id, name, description, is_active, sort_order, %s, %s FROM %s",
		colorExpr, closedExpr, tableFor(kind))
}

func scanClassification(row pgx.Row, kind domain.ClassificationKind) (*domain.Classification, error) {
	entity := domain.Classification{Kind: kind}
	if err := row.Scan(
		&entity.ID,
		&entity.Name,
		&entity.Description,
		&entity.IsActive,
		&entity.SortOrder,
		&entity.Color,
		&entity.IsClosed,
	); err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *classificationRepository) List(ctx context.Context, kind domain.ClassificationKind) ([]domain.Classification, error) {
	rows, err := r.pool.Query(ctx, selectClause(kind)+" ORDER BY sort_order ASC, name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Classification
	for rows.Next() {
		entity, err := scanClassification(rows, kind)
		if err != nil {
			return nil, err
		}
		result = append(result, *entity)
	}
	return result, rows.Err()
}

func (r *classificationRepository) GetByID(ctx context.Context, kind domain.ClassificationKind, id string) (*domain.Classification, error) {
	row := r.pool.QueryRow(ctx, selectClause(kind)+" WHERE id=$1", id)
	return scanClassification(row, kind)
}

func (r *classificationRepository) Create(ctx context.Context, entity *domain.Classification) error {
	cols := []string{"name", "description", "is_active", "sort_order"}
	args := []any{entity.Name, entity.Description, entity.IsActive, entity.SortOrder}
	if entity.Kind.HasColor() {
		cols = append(cols, "color")
		args = append(args, entity.Color)
	}
	if entity.Kind.HasClosedFlag() {
		cols = append(cols, "is_closed")
		args = append(args, entity.IsClosed)
	}

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		tableFor(entity.Kind), strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	return r.pool.QueryRow(ctx, query, args...).Scan(&entity.ID)
}

func (r *classificationRepository) Update(ctx context.Context, entity *domain.Classification) error {
	sets := []string{"name=$1", "description=$2", "is_active=$3", "sort_order=$4"}
	args := []any{entity.Name, entity.Description, entity.IsActive, entity.SortOrder}
	if entity.Kind.HasColor() {
		args = append(args, entity.Color)
		sets = append(sets, fmt.Sprintf("color=$%d", len(args)))
	}
	if entity.Kind.HasClosedFlag() {
		args = append(args, entity.IsClosed)
		sets = append(sets, fmt.Sprintf("is_closed=$%d", len(args)))
	}
	args = append(args, entity.ID)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id=$%d", tableFor(entity.Kind), strings.Join(sets, ", "), len(args))
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *classificationRepository) Delete(ctx context.Context, kind domain.ClassificationKind, id string) error {
	cmd, err := r.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id=$1", tableFor(kind)), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *classificationRepository) ActiveExists(ctx context.Context, kind domain.ClassificationKind, id string) (bool, error) {
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE id=$1 AND is_active)", tableFor(kind))
	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
