package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/freshplate/recipe-service/internal/domain"
	"github.com/freshplate/recipe-service/internal/repository"
	apperrors "github.com/freshplate/recipe-service/pkg/util/errorutil"
)

// AttributeService covers the tag and ingredient operations: list with the
// assigned-only filter, rename, delete. Attributes are only ever created
// through recipe writes.
type AttributeService struct {
	tags        repository.TagRepository
	ingredients repository.IngredientRepository
}

// NewAttributeService constructs the service.
func NewAttributeService(tags repository.TagRepository, ingredients repository.IngredientRepository) *AttributeService {
	return &AttributeService{tags: tags, ingredients: ingredients}
}

// parseAssignedOnly reads the assigned_only flag, defaulting to false.
func parseAssignedOnly(raw string) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, nil
	}
	assigned, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.NewValidationError("invalid filter value", map[string]any{
			"assigned_only": "expected 0 or 1",
		})
	}
	return assigned, nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.NewValidationError("invalid payload", map[string]any{
			"name": "this field may not be blank",
		})
	}
	return nil
}

// ListTags returns the user's tags ordered by name; with assignedOnly only
// those linked to at least one recipe, each exactly once.
func (s *AttributeService) ListTags(ctx context.Context, userID int64, assignedOnlyRaw string) ([]domain.Tag, error) {
	assignedOnly, err := parseAssignedOnly(assignedOnlyRaw)
	if err != nil {
		return nil, err
	}
	tags, err := s.tags.List(ctx, userID, assignedOnly)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tags, nil
}

// UpdateTag renames an owned tag.
func (s *AttributeService) UpdateTag(ctx context.Context, userID, id int64, name string) (*domain.Tag, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	tag := &domain.Tag{ID: id, Name: strings.TrimSpace(name)}
	if err := s.tags.Update(ctx, userID, tag); err != nil {
		return nil, apperrors.MapError(err)
	}
	return tag, nil
}

// DeleteTag removes an owned tag; recipes linked to it simply lose the link.
func (s *AttributeService) DeleteTag(ctx context.Context, userID, id int64) error {
	if err := s.tags.Delete(ctx, userID, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ListIngredients mirrors ListTags for ingredients.
func (s *AttributeService) ListIngredients(ctx context.Context, userID int64, assignedOnlyRaw string) ([]domain.Ingredient, error) {
	assignedOnly, err := parseAssignedOnly(assignedOnlyRaw)
	if err != nil {
		return nil, err
	}
	ingredients, err := s.ingredients.List(ctx, userID, assignedOnly)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return ingredients, nil
}

// UpdateIngredient renames an owned ingredient.
func (s *AttributeService) UpdateIngredient(ctx context.Context, userID, id int64, name string) (*domain.Ingredient, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	ingredient := &domain.Ingredient{ID: id, Name: strings.TrimSpace(name)}
	if err := s.ingredients.Update(ctx, userID, ingredient); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ingredient, nil
}

// DeleteIngredient removes an owned ingredient.
func (s *AttributeService) DeleteIngredient(ctx context.Context, userID, id int64) error {
	if err := s.ingredients.Delete(ctx, userID, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
