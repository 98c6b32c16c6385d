package dto

import (
	"github.com/shopspring/decimal"

	"github.com/freshplate/recipe-service/internal/domain"
	"github.com/freshplate/recipe-service/internal/service"
)

// AttributeRef is a nested tag or ingredient in recipe payloads. Writes only
// look at the name: rows are resolved per (owner, name), never by id.
type AttributeRef struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// RecipeCreateRequest is the full create payload. An extraneous "user" key
// is accepted and dropped during decoding; the owner always comes from the
// token.
type RecipeCreateRequest struct {
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price"`
	Link        string          `json:"link"`
	Description string          `json:"description"`
	Tags        []AttributeRef  `json:"tags"`
	Ingredients []AttributeRef  `json:"ingredients"`
}

// RecipeUpdateRequest is the partial update payload; nil means key absent.
type RecipeUpdateRequest struct {
	Title       *string          `json:"title"`
	TimeMinutes *int             `json:"time_minutes"`
	Price       *decimal.Decimal `json:"price"`
	Link        *string          `json:"link"`
	Description *string          `json:"description"`
	Tags        *[]AttributeRef  `json:"tags"`
	Ingredients *[]AttributeRef  `json:"ingredients"`
}

// RecipeListItem is the listing shape: scalars plus relations, without the
// long description or image reference.
type RecipeListItem struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price"`
	Link        string          `json:"link"`
	Tags        []AttributeRef  `json:"tags"`
	Ingredients []AttributeRef  `json:"ingredients"`
}

// RecipeDetail is the single-object shape.
type RecipeDetail struct {
	RecipeListItem
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

// RecipeImageResponse answers an image upload.
type RecipeImageResponse struct {
	ID    int64  `json:"id"`
	Image string `json:"image"`
}

// AttributeNames flattens refs into the name list the service consumes.
func AttributeNames(refs []AttributeRef) []string {
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Name)
	}
	return names
}

// AttributeNamesPtr keeps absent-vs-empty intact for partial updates.
func AttributeNamesPtr(refs *[]AttributeRef) *[]string {
	if refs == nil {
		return nil
	}
	names := AttributeNames(*refs)
	return &names
}

func tagRefs(tags []domain.Tag) []AttributeRef {
	refs := make([]AttributeRef, 0, len(tags))
	for _, tag := range tags {
		refs = append(refs, AttributeRef{ID: tag.ID, Name: tag.Name})
	}
	return refs
}

func ingredientRefs(ingredients []domain.Ingredient) []AttributeRef {
	refs := make([]AttributeRef, 0, len(ingredients))
	for _, ingredient := range ingredients {
		refs = append(refs, AttributeRef{ID: ingredient.ID, Name: ingredient.Name})
	}
	return refs
}

// NewRecipeListItem maps a domain recipe to the listing shape.
func NewRecipeListItem(recipe *domain.Recipe) RecipeListItem {
	return RecipeListItem{
		ID:          recipe.ID,
		Title:       recipe.Title,
		TimeMinutes: recipe.TimeMinutes,
		Price:       recipe.Price,
		Link:        recipe.Link,
		Tags:        tagRefs(recipe.Tags),
		Ingredients: ingredientRefs(recipe.Ingredients),
	}
}

// NewRecipeDetail maps a domain recipe to the detail shape.
func NewRecipeDetail(recipe *domain.Recipe) RecipeDetail {
	return RecipeDetail{
		RecipeListItem: NewRecipeListItem(recipe),
		Description:    recipe.Description,
		Image:          recipe.Image,
	}
}

// ToRecipeInput converts a create request for the service layer.
func (r RecipeCreateRequest) ToRecipeInput() service.RecipeInput {
	return service.RecipeInput{
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Description: r.Description,
		Tags:        AttributeNames(r.Tags),
		Ingredients: AttributeNames(r.Ingredients),
	}
}

// ToRecipePatch converts an update request for the service layer.
func (r RecipeUpdateRequest) ToRecipePatch() service.RecipePatch {
	return service.RecipePatch{
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Description: r.Description,
		Tags:        AttributeNamesPtr(r.Tags),
		Ingredients: AttributeNamesPtr(r.Ingredients),
	}
}
