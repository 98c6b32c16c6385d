package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/freshplate/recipe-service/internal/api/dto"
	"github.com/freshplate/recipe-service/internal/service"
	apperrors "github.com/freshplate/recipe-service/pkg/util/errorutil"
)

// TagsHandler exposes tag listing, rename and delete. Tags have no create
// endpoint: they come into existence through recipe writes.
type TagsHandler struct {
	attributes *service.AttributeService
}

// NewTagsHandler constructs handler.
func NewTagsHandler(attributes *service.AttributeService) *TagsHandler {
	return &TagsHandler{attributes: attributes}
}

// List handles GET /api/tags/.
func (h *TagsHandler) List(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	tags, err := h.attributes.ListTags(c.Context(), user.ID, c.Query("assigned_only"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTagResponses(tags))
}

// Update handles PATCH /api/tags/:id/.
func (h *TagsHandler) Update(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "tag")
	if err != nil {
		return err
	}

	var req dto.AttributeUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	tag, err := h.attributes.UpdateTag(c.Context(), user.ID, id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(dto.AttributeResponse{ID: tag.ID, Name: tag.Name})
}

// Delete handles DELETE /api/tags/:id/.
func (h *TagsHandler) Delete(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "tag")
	if err != nil {
		return err
	}

	if err := h.attributes.DeleteTag(c.Context(), user.ID, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
