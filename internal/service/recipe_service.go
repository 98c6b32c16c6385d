package service

import (
	"bytes"
	"context"
	"image"
	"strconv"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshplate/recipe-service/internal/domain"
	"github.com/freshplate/recipe-service/internal/events"
	"github.com/freshplate/recipe-service/internal/repository"
	"github.com/freshplate/recipe-service/internal/storage"
	apperrors "github.com/freshplate/recipe-service/pkg/util/errorutil"
)

// RecipeService coordinates recipe workflows. The owning user comes from the
// authenticated request on every call; payloads never pick the owner.
type RecipeService struct {
	recipes    repository.RecipeRepository
	store      storage.ImageStore
	dispatcher events.Dispatcher
}

// RecipeDependencies bundles collaborators for the recipe service.
type RecipeDependencies struct {
	RecipeRepo repository.RecipeRepository
	ImageStore storage.ImageStore
	Dispatcher events.Dispatcher
}

// NewRecipeService constructs the service.
func NewRecipeService(deps RecipeDependencies) *RecipeService {
	return &RecipeService{
		recipes:    deps.RecipeRepo,
		store:      deps.ImageStore,
		dispatcher: deps.Dispatcher,
	}
}

// RecipeInput describes a full recipe payload.
type RecipeInput struct {
	Title       string
	TimeMinutes int
	Price       decimal.Decimal
	Link        string
	Description string
	Tags        []string
	Ingredients []string
}

// RecipePatch describes a partial update; nil fields stay untouched. A
// non-nil empty Tags/Ingredients slice clears that relation.
type RecipePatch struct {
	Title       *string
	TimeMinutes *int
	Price       *decimal.Decimal
	Link        *string
	Description *string
	Tags        *[]string
	Ingredients *[]string
}

// ListFilter carries the raw, unparsed query parameters.
type ListFilter struct {
	Tags        string
	Ingredients string
}

func validateRecipeFields(title string, timeMinutes int, price decimal.Decimal) error {
	details := map[string]any{}
	if strings.TrimSpace(title) == "" {
		details["title"] = "this field may not be blank"
	}
	if timeMinutes < 0 {
		details["time_minutes"] = "ensure this value is greater than or equal to 0"
	}
	if price.IsNegative() {
		details["price"] = "ensure this value is greater than or equal to 0"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid recipe payload", details)
	}
	return nil
}

// Create persists a recipe for the user together with its nested tag and
// ingredient lists.
func (s *RecipeService) Create(ctx context.Context, userID int64, input RecipeInput) (*domain.Recipe, error) {
	if err := validateRecipeFields(input.Title, input.TimeMinutes, input.Price); err != nil {
		return nil, err
	}

	recipe := &domain.Recipe{
		UserID:      userID,
		Title:       strings.TrimSpace(input.Title),
		TimeMinutes: input.TimeMinutes,
		Price:       input.Price,
		Link:        input.Link,
		Description: input.Description,
	}
	if err := s.recipes.Create(ctx, recipe, input.Tags, input.Ingredients); err != nil {
		return nil, apperrors.MapError(err)
	}
	return recipe, nil
}

// Update applies a partial update to an owned recipe. Relations named in the
// patch are replaced wholly; absent ones stay as they are.
func (s *RecipeService) Update(ctx context.Context, userID, id int64, patch RecipePatch) (*domain.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, userID, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if patch.Title != nil {
		recipe.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.TimeMinutes != nil {
		recipe.TimeMinutes = *patch.TimeMinutes
	}
	if patch.Price != nil {
		recipe.Price = *patch.Price
	}
	if patch.Link != nil {
		recipe.Link = *patch.Link
	}
	if patch.Description != nil {
		recipe.Description = *patch.Description
	}
	if err := validateRecipeFields(recipe.Title, recipe.TimeMinutes, recipe.Price); err != nil {
		return nil, err
	}

	if err := s.recipes.Update(ctx, recipe, patch.Tags, patch.Ingredients); err != nil {
		return nil, apperrors.MapError(err)
	}
	return recipe, nil
}

// Get fetches one owned recipe.
func (s *RecipeService) Get(ctx context.Context, userID, id int64) (*domain.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, userID, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return recipe, nil
}

// List returns the user's recipes, optionally narrowed to those linked to
// any of the given tag or ingredient ids.
func (s *RecipeService) List(ctx context.Context, userID int64, filter ListFilter) ([]domain.Recipe, error) {
	tagIDs, err := parseIDList("tags", filter.Tags)
	if err != nil {
		return nil, err
	}
	ingredientIDs, err := parseIDList("ingredients", filter.Ingredients)
	if err != nil {
		return nil, err
	}

	recipes, err := s.recipes.List(ctx, userID, repository.RecipeFilter{
		TagIDs:        tagIDs,
		IngredientIDs: ingredientIDs,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return recipes, nil
}

// Delete removes an owned recipe and schedules cleanup of its image file.
func (s *RecipeService) Delete(ctx context.Context, userID, id int64) error {
	imageRef, err := s.recipes.Delete(ctx, userID, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if imageRef != "" {
		s.publish(ctx, events.Event{
			Type:     events.EventRecipeDeleted,
			RecipeID: id,
			UserID:   userID,
			Payload:  events.RecipeDeletedPayload{ImageRef: imageRef},
		})
	}
	return nil
}

// AttachImage validates and stores an uploaded image, pointing the recipe at
// the new file. The payload must decode as a real image; an image-shaped
// field name around arbitrary bytes is rejected.
func (s *RecipeService) AttachImage(ctx context.Context, userID, id int64, filename string, content []byte) (string, error) {
	if _, err := s.recipes.GetByID(ctx, userID, id); err != nil {
		return "", apperrors.MapError(err)
	}

	if _, _, err := image.Decode(bytes.NewReader(content)); err != nil {
		return "", apperrors.NewValidationError("invalid image", map[string]any{
			"image": "upload a valid image; the file you uploaded was either not an image or corrupted",
		})
	}

	ref, err := s.store.Save(ctx, filename, bytes.NewReader(content))
	if err != nil {
		return "", apperrors.MapError(err)
	}

	previous, err := s.recipes.SetImage(ctx, userID, id, ref)
	if err != nil {
		_ = s.store.Remove(ctx, ref)
		return "", apperrors.MapError(err)
	}
	if previous != "" && previous != ref {
		s.publish(ctx, events.Event{
			Type:     events.EventRecipeImageReplaced,
			RecipeID: id,
			UserID:   userID,
			Payload:  events.RecipeImageReplacedPayload{OldImageRef: previous, NewImageRef: ref},
		})
	}
	return ref, nil
}

func (s *RecipeService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}

// parseIDList turns a comma-separated id parameter into int64s. Any
// malformed segment fails the whole parameter with a validation error.
func parseIDList(param, raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid filter value", map[string]any{
				param: "expected a comma separated list of ids",
			})
		}
		ids = append(ids, id)
	}
	return ids, nil
}
