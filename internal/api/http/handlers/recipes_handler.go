package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/freshplate/recipe-service/internal/api/dto"
	"github.com/freshplate/recipe-service/internal/auth"
	"github.com/freshplate/recipe-service/internal/domain"
	"github.com/freshplate/recipe-service/internal/service"
	apperrors "github.com/freshplate/recipe-service/pkg/util/errorutil"
)

// RecipesHandler exposes recipe CRUD and the image upload endpoint.
type RecipesHandler struct {
	recipes *service.RecipeService
}

// NewRecipesHandler constructs handler.
func NewRecipesHandler(recipes *service.RecipeService) *RecipesHandler {
	return &RecipesHandler{recipes: recipes}
}

func currentUser(c *fiber.Ctx) (*domain.User, error) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("not authenticated")
	}
	return user, nil
}

// parseID resolves the path id. A non-numeric id cannot name any row, so it
// reads as not found rather than a validation problem.
func parseID(c *fiber.Ctx, resource string) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewNotFound(resource, nil)
	}
	return id, nil
}

// List handles GET /api/recipes/.
func (h *RecipesHandler) List(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	recipes, err := h.recipes.List(c.Context(), user.ID, service.ListFilter{
		Tags:        c.Query("tags"),
		Ingredients: c.Query("ingredients"),
	})
	if err != nil {
		return err
	}

	items := make([]dto.RecipeListItem, 0, len(recipes))
	for i := range recipes {
		items = append(items, dto.NewRecipeListItem(&recipes[i]))
	}
	return c.JSON(items)
}

// Create handles POST /api/recipes/.
func (h *RecipesHandler) Create(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req dto.RecipeCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	recipe, err := h.recipes.Create(c.Context(), user.ID, req.ToRecipeInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewRecipeDetail(recipe))
}

// Get handles GET /api/recipes/:id/.
func (h *RecipesHandler) Get(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "recipe")
	if err != nil {
		return err
	}

	recipe, err := h.recipes.Get(c.Context(), user.ID, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewRecipeDetail(recipe))
}

// Update handles PATCH /api/recipes/:id/.
func (h *RecipesHandler) Update(c *fiber.Ctx) error {
	return h.update(c, false)
}

// Replace handles PUT /api/recipes/:id/. Scalars are required; an absent
// tags or ingredients key still means "leave that relation alone".
func (h *RecipesHandler) Replace(c *fiber.Ctx) error {
	return h.update(c, true)
}

func (h *RecipesHandler) update(c *fiber.Ctx, full bool) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "recipe")
	if err != nil {
		return err
	}

	var req dto.RecipeUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if full {
		details := map[string]any{}
		if req.Title == nil {
			details["title"] = "this field is required"
		}
		if req.TimeMinutes == nil {
			details["time_minutes"] = "this field is required"
		}
		if req.Price == nil {
			details["price"] = "this field is required"
		}
		if len(details) > 0 {
			return apperrors.NewValidationError("missing required fields", details)
		}
	}

	recipe, err := h.recipes.Update(c.Context(), user.ID, id, req.ToRecipePatch())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewRecipeDetail(recipe))
}

// Delete handles DELETE /api/recipes/:id/.
func (h *RecipesHandler) Delete(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "recipe")
	if err != nil {
		return err
	}

	if err := h.recipes.Delete(c.Context(), user.ID, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// UploadImage handles POST /api/recipes/:id/upload-image/.
func (h *RecipesHandler) UploadImage(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "recipe")
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return apperrors.NewValidationError("image file required", map[string]any{
			"image": "no file was submitted",
		})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.MapError(err)
	}
	defer file.Close()

	content := make([]byte, fileHeader.Size)
	if _, err := io.ReadFull(file, content); err != nil {
		return apperrors.MapError(err)
	}

	ref, err := h.recipes.AttachImage(c.Context(), user.ID, id, fileHeader.Filename, content)
	if err != nil {
		return err
	}
	return c.JSON(dto.RecipeImageResponse{ID: id, Image: ref})
}
