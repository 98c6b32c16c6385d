package service

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/freshplate/recipe-service/internal/domain"
	"github.com/freshplate/recipe-service/internal/repository"
)

// In-memory fakes implementing the repository interfaces, shared by the
// service tests in this package.

type fakeUsers struct {
	nextID int64
	users  map[int64]*domain.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[int64]*domain.User{}}
}

func (f *fakeUsers) Create(ctx context.Context, user *domain.User) error {
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUsers) Update(ctx context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeRevocationStore struct {
	revoked map[int64]time.Time
}

func newFakeRevocationStore() *fakeRevocationStore {
	return &fakeRevocationStore{revoked: map[int64]time.Time{}}
}

func (f *fakeRevocationStore) Revoke(ctx context.Context, userID int64) error {
	f.revoked[userID] = time.Now()
	return nil
}

func (f *fakeRevocationStore) Cutoff(ctx context.Context, userID int64) (time.Time, bool) {
	cutoff, ok := f.revoked[userID]
	return cutoff, ok
}

// fakeRecipes mimics the transactional repository including the per-user
// get-or-create semantics of the relation tables.
type fakeRecipes struct {
	nextRecipeID     int64
	nextAttributeID  int64
	recipes          map[int64]*domain.Recipe
	tags             map[int64]*domain.Tag
	ingredients      map[int64]*domain.Ingredient
	lastCreateTags   []string
	lastCreateIngred []string
}

func newFakeRecipes() *fakeRecipes {
	return &fakeRecipes{
		recipes:     map[int64]*domain.Recipe{},
		tags:        map[int64]*domain.Tag{},
		ingredients: map[int64]*domain.Ingredient{},
	}
}

func (f *fakeRecipes) getOrCreateTag(userID int64, name string) domain.Tag {
	for _, tag := range f.tags {
		if tag.UserID == userID && tag.Name == name {
			return *tag
		}
	}
	f.nextAttributeID++
	tag := &domain.Tag{ID: f.nextAttributeID, UserID: userID, Name: name}
	f.tags[tag.ID] = tag
	return *tag
}

func (f *fakeRecipes) getOrCreateIngredient(userID int64, name string) domain.Ingredient {
	for _, ingredient := range f.ingredients {
		if ingredient.UserID == userID && ingredient.Name == name {
			return *ingredient
		}
	}
	f.nextAttributeID++
	ingredient := &domain.Ingredient{ID: f.nextAttributeID, UserID: userID, Name: name}
	f.ingredients[ingredient.ID] = ingredient
	return *ingredient
}

func (f *fakeRecipes) resolveTags(userID int64, names []string) []domain.Tag {
	out := []domain.Tag{}
	seen := map[int64]bool{}
	for _, name := range names {
		tag := f.getOrCreateTag(userID, name)
		if !seen[tag.ID] {
			seen[tag.ID] = true
			out = append(out, tag)
		}
	}
	return out
}

func (f *fakeRecipes) resolveIngredients(userID int64, names []string) []domain.Ingredient {
	out := []domain.Ingredient{}
	seen := map[int64]bool{}
	for _, name := range names {
		ingredient := f.getOrCreateIngredient(userID, name)
		if !seen[ingredient.ID] {
			seen[ingredient.ID] = true
			out = append(out, ingredient)
		}
	}
	return out
}

func (f *fakeRecipes) Create(ctx context.Context, recipe *domain.Recipe, tags, ingredients []string) error {
	f.nextRecipeID++
	recipe.ID = f.nextRecipeID
	recipe.CreatedAt = time.Now()
	recipe.UpdatedAt = recipe.CreatedAt
	recipe.Tags = f.resolveTags(recipe.UserID, tags)
	recipe.Ingredients = f.resolveIngredients(recipe.UserID, ingredients)
	f.lastCreateTags = tags
	f.lastCreateIngred = ingredients
	clone := *recipe
	f.recipes[recipe.ID] = &clone
	return nil
}

func (f *fakeRecipes) Update(ctx context.Context, recipe *domain.Recipe, tags, ingredients *[]string) error {
	stored, ok := f.recipes[recipe.ID]
	if !ok || stored.UserID != recipe.UserID {
		return pgx.ErrNoRows
	}
	if tags != nil {
		recipe.Tags = f.resolveTags(recipe.UserID, *tags)
	} else {
		recipe.Tags = stored.Tags
	}
	if ingredients != nil {
		recipe.Ingredients = f.resolveIngredients(recipe.UserID, *ingredients)
	} else {
		recipe.Ingredients = stored.Ingredients
	}
	recipe.UpdatedAt = time.Now()
	clone := *recipe
	f.recipes[recipe.ID] = &clone
	return nil
}

func (f *fakeRecipes) GetByID(ctx context.Context, userID, id int64) (*domain.Recipe, error) {
	recipe, ok := f.recipes[id]
	if !ok || recipe.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	clone := *recipe
	return &clone, nil
}

func (f *fakeRecipes) List(ctx context.Context, userID int64, filter repository.RecipeFilter) ([]domain.Recipe, error) {
	out := []domain.Recipe{}
	for _, recipe := range f.recipes {
		if recipe.UserID != userID {
			continue
		}
		if len(filter.TagIDs) > 0 && !linksAnyTag(recipe, filter.TagIDs) {
			continue
		}
		if len(filter.IngredientIDs) > 0 && !linksAnyIngredient(recipe, filter.IngredientIDs) {
			continue
		}
		out = append(out, *recipe)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func linksAnyTag(recipe *domain.Recipe, ids []int64) bool {
	for _, tag := range recipe.Tags {
		for _, id := range ids {
			if tag.ID == id {
				return true
			}
		}
	}
	return false
}

func linksAnyIngredient(recipe *domain.Recipe, ids []int64) bool {
	for _, ingredient := range recipe.Ingredients {
		for _, id := range ids {
			if ingredient.ID == id {
				return true
			}
		}
	}
	return false
}

func (f *fakeRecipes) Delete(ctx context.Context, userID, id int64) (string, error) {
	recipe, ok := f.recipes[id]
	if !ok || recipe.UserID != userID {
		return "", pgx.ErrNoRows
	}
	delete(f.recipes, id)
	return recipe.Image, nil
}

func (f *fakeRecipes) SetImage(ctx context.Context, userID, id int64, path string) (string, error) {
	recipe, ok := f.recipes[id]
	if !ok || recipe.UserID != userID {
		return "", pgx.ErrNoRows
	}
	previous := recipe.Image
	recipe.Image = path
	return previous, nil
}

type fakeTags struct {
	store *fakeRecipes
}

func (f *fakeTags) List(ctx context.Context, userID int64, assignedOnly bool) ([]domain.Tag, error) {
	out := []domain.Tag{}
	for _, tag := range f.store.tags {
		if tag.UserID != userID {
			continue
		}
		if assignedOnly && !f.assigned(tag.ID) {
			continue
		}
		out = append(out, *tag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeTags) assigned(tagID int64) bool {
	for _, recipe := range f.store.recipes {
		for _, tag := range recipe.Tags {
			if tag.ID == tagID {
				return true
			}
		}
	}
	return false
}

func (f *fakeTags) Update(ctx context.Context, userID int64, tag *domain.Tag) error {
	stored, ok := f.store.tags[tag.ID]
	if !ok || stored.UserID != userID {
		return pgx.ErrNoRows
	}
	stored.Name = tag.Name
	tag.UserID = userID
	return nil
}

func (f *fakeTags) Delete(ctx context.Context, userID, id int64) error {
	stored, ok := f.store.tags[id]
	if !ok || stored.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(f.store.tags, id)
	for _, recipe := range f.store.recipes {
		kept := recipe.Tags[:0]
		for _, tag := range recipe.Tags {
			if tag.ID != id {
				kept = append(kept, tag)
			}
		}
		recipe.Tags = kept
	}
	return nil
}

type fakeIngredients struct {
	store *fakeRecipes
}

func (f *fakeIngredients) List(ctx context.Context, userID int64, assignedOnly bool) ([]domain.Ingredient, error) {
	out := []domain.Ingredient{}
	for _, ingredient := range f.store.ingredients {
		if ingredient.UserID != userID {
			continue
		}
		if assignedOnly && !f.assigned(ingredient.ID) {
			continue
		}
		out = append(out, *ingredient)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeIngredients) assigned(ingredientID int64) bool {
	for _, recipe := range f.store.recipes {
		for _, ingredient := range recipe.Ingredients {
			if ingredient.ID == ingredientID {
				return true
			}
		}
	}
	return false
}

func (f *fakeIngredients) Update(ctx context.Context, userID int64, ingredient *domain.Ingredient) error {
	stored, ok := f.store.ingredients[ingredient.ID]
	if !ok || stored.UserID != userID {
		return pgx.ErrNoRows
	}
	stored.Name = ingredient.Name
	ingredient.UserID = userID
	return nil
}

func (f *fakeIngredients) Delete(ctx context.Context, userID, id int64) error {
	stored, ok := f.store.ingredients[id]
	if !ok || stored.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(f.store.ingredients, id)
	for _, recipe := range f.store.recipes {
		kept := recipe.Ingredients[:0]
		for _, ingredient := range recipe.Ingredients {
			if ingredient.ID != id {
				kept = append(kept, ingredient)
			}
		}
		recipe.Ingredients = kept
	}
	return nil
}
