package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/freshplate/recipe-service/internal/api/dto"
	"github.com/freshplate/recipe-service/internal/service"
	apperrors "github.com/freshplate/recipe-service/pkg/util/errorutil"
)

// IngredientsHandler mirrors TagsHandler for ingredients.
type IngredientsHandler struct {
	attributes *service.AttributeService
}

// NewIngredientsHandler constructs handler.
func NewIngredientsHandler(attributes *service.AttributeService) *IngredientsHandler {
	return &IngredientsHandler{attributes: attributes}
}

// List handles GET /api/ingredients/.
func (h *IngredientsHandler) List(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	ingredients, err := h.attributes.ListIngredients(c.Context(), user.ID, c.Query("assigned_only"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewIngredientResponses(ingredients))
}

// Update handles PATCH /api/ingredients/:id/.
func (h *IngredientsHandler) Update(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "ingredient")
	if err != nil {
		return err
	}

	var req dto.AttributeUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ingredient, err := h.attributes.UpdateIngredient(c.Context(), user.ID, id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(dto.AttributeResponse{ID: ingredient.ID, Name: ingredient.Name})
}

// Delete handles DELETE /api/ingredients/:id/.
func (h *IngredientsHandler) Delete(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "ingredient")
	if err != nil {
		return err
	}

	if err := h.attributes.DeleteIngredient(c.Context(), user.ID, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
