package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/antelcha/itsm-playground/internal/api/dto"
	"github.com/antelcha/itsm-playground/internal/auth"
	"github.com/antelcha/itsm-playground/internal/domain"
	"github.com/antelcha/itsm-playground/internal/service"
	apperrors "github.com/antelcha/itsm-playground/pkg/util"
)

// ClassificationsHandler serves one reference-data kind. The same
// handler type backs /statuses, /priorities and /categories; only the
// kind differs per instance.
type ClassificationsHandler struct {
	kind    domain.ClassificationKind
	service *service.ClassificationService
}

// NewClassificationsHandler constructs a handler bound to a kind.
func NewClassificationsHandler(kind domain.ClassificationKind, svc *service.ClassificationService) *ClassificationsHandler {
	return &ClassificationsHandler{kind: kind, service: svc}
}

// List GET /<kind>s.
func (h *ClassificationsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	items, err := h.service.List(c.UserContext(), principal, h.kind)
	if err != nil {
		return err
	}
	resp := make([]dto.ClassificationResponse, 0, len(items))
	for i := range items {
		resp = append(resp, dto.NewClassificationResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get GET /<kind>s/:id.
func (h *ClassificationsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	entity, err := h.service.Get(c.UserContext(), principal, h.kind, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClassificationResponse(entity)})
}

// Create POST /<kind>s.
func (h *ClassificationsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	input, err := h.parseInput(c)
	if err != nil {
		return err
	}
	entity, err := h.service.Create(c.UserContext(), principal, h.kind, *input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewClassificationResponse(entity)})
}

// Update PUT /<kind>s/:id.
func (h *ClassificationsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	input, err := h.parseInput(c)
	if err != nil {
		return err
	}
	entity, err := h.service.Update(c.UserContext(), principal, h.kind, c.Params("id"), *input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClassificationResponse(entity)})
}

// Delete DELETE /<kind>s/:id.
func (h *ClassificationsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.Delete(c.UserContext(), principal, h.kind, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *ClassificationsHandler) parseInput(c *fiber.Ctx) (*service.ClassificationInput, error) {
	var req dto.ClassificationRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, apperrors.NewValidationError("invalid payload", nil)
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return &service.ClassificationInput{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    active,
		SortOrder:   req.Order,
		Color:       req.Color,
		IsClosed:    req.IsClosed,
	}, nil
}
