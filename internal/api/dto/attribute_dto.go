package dto

import "github.com/freshplate/recipe-service/internal/domain"

// AttributeUpdateRequest renames a tag or ingredient.
type AttributeUpdateRequest struct {
	Name string `json:"name"`
}

// AttributeResponse is the standalone tag/ingredient shape.
type AttributeResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewTagResponses maps a tag list.
func NewTagResponses(tags []domain.Tag) []AttributeResponse {
	out := make([]AttributeResponse, 0, len(tags))
	for _, tag := range tags {
		out = append(out, AttributeResponse{ID: tag.ID, Name: tag.Name})
	}
	return out
}

// NewIngredientResponses maps an ingredient list.
func NewIngredientResponses(ingredients []domain.Ingredient) []AttributeResponse {
	out := make([]AttributeResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		out = append(out, AttributeResponse{ID: ingredient.ID, Name: ingredient.Name})
	}
	return out
}
