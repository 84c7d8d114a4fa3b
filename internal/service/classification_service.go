package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/antelcha/itsm-playground/internal/domain"
	"github.com/antelcha/itsm-playground/internal/policy"
	"github.com/antelcha/itsm-playground/internal/repository"
	apperrors "github.com/antelcha/itsm-playground/pkg/util"
)

// ClassificationService serves status, priority and category reference
// data through one parameterized implementation. Reads are open to any
// authenticated principal; writes are gated to agents and admins with
// an explicit forbidden (reference data does not hide its existence).
type ClassificationService struct {
	classifications repository.ClassificationRepository
}

// ClassificationInput is the write payload shared by all three kinds.
// Color is ignored for categories, IsClosed for everything but
// statuses.
type ClassificationInput struct {
	Name        string
	Description string
	IsActive    bool
	SortOrder   int
	Color       string
	IsClosed    bool
}

// NewClassificationService constructs the service.
func NewClassificationService(repo repository.ClassificationRepository) *ClassificationService {
	return &ClassificationService{classifications: repo}
}

// List returns all entities of the kind in presentation order.
func (s *ClassificationService) List(ctx context.Context, p domain.Principal, kind domain.ClassificationKind) ([]domain.Classification, error) {
	items, err := s.classifications.List(ctx, kind)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// Get fetches one entity.
func (s *ClassificationService) Get(ctx context.Context, p domain.Principal, kind domain.ClassificationKind, id string) (*domain.Classification, error) {
	entity, err := s.classifications.GetByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(string(kind))
		}
		return nil, apperrors.MapError(err)
	}
	return entity, nil
}

// Create adds a new classification entity.
func (s *ClassificationService) Create(ctx context.Context, p domain.Principal, kind domain.ClassificationKind, input ClassificationInput) (*domain.Classification, error) {
	if !policy.CanManageClassifications(p.Role) {
		return nil, apperrors.NewForbidden("staff role required")
	}
	entity, err := buildClassification(kind, input)
	if err != nil {
		return nil, err
	}
	if err := s.classifications.Create(ctx, entity); err != nil {
		return nil, apperrors.MapError(err)
	}
	return entity, nil
}

// Update replaces the mutable fields of an entity.
func (s *ClassificationService) Update(ctx context.Context, p domain.Principal, kind domain.ClassificationKind, id string, input ClassificationInput) (*domain.Classification, error) {
	if !policy.CanManageClassifications(p.Role) {
		return nil, apperrors.NewForbidden("staff role required")
	}
	entity, err := buildClassification(kind, input)
	if err != nil {
		return nil, err
	}
	entity.ID = id
	if err := s.classifications.Update(ctx, entity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(string(kind))
		}
		return nil, apperrors.MapError(err)
	}
	return entity, nil
}

// Delete removes an entity. Tickets referencing it are removed by the
// schema's cascade, matching the store layout contract.
func (s *ClassificationService) Delete(ctx context.Context, p domain.Principal, kind domain.ClassificationKind, id string) error {
	if !policy.CanManageClassifications(p.Role) {
		return apperrors.NewForbidden("staff role required")
	}
	if err := s.classifications.Delete(ctx, kind, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound(string(kind))
		}
		return apperrors.MapError(err)
	}
	return nil
}

func buildClassification(kind domain.ClassificationKind, input ClassificationInput) (*domain.Classification, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("invalid "+string(kind), map[string]any{"name": "required"})
	}
	entity := &domain.Classification{
		Kind:        kind,
		Name:        name,
		Description: input.Description,
		IsActive:    input.IsActive,
		SortOrder:   input.SortOrder,
	}
	if kind.HasColor() {
		entity.Color = input.Color
	}
	if kind.HasClosedFlag() {
		entity.IsClosed = input.IsClosed
	}
	return entity, nil
}
