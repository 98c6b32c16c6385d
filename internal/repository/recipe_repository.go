package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/freshplate/recipe-service/internal/domain"
)

// RecipeFilter captures list-time query parameters. Either id set restricts
// the listing to recipes linked to at least one of the given rows.
type RecipeFilter struct {
	TagIDs        []int64
	IngredientIDs []int64
}

// RecipeRepository encapsulates recipe persistence. Every method takes the
// owning user's id and filters on it, so a row belonging to someone else is
// indistinguishable from a missing one (pgx.ErrNoRows either way).
type RecipeRepository interface {
	Create(ctx context.Context, recipe *domain.Recipe, tags, ingredients []string) error
	Update(ctx context.Context, recipe *domain.Recipe, tags, ingredients *[]string) error
	GetByID(ctx context.Context, userID, id int64) (*domain.Recipe, error)
	List(ctx context.Context, userID int64, filter RecipeFilter) ([]domain.Recipe, error)
	Delete(ctx context.Context, userID, id int64) (string, error)
	SetImage(ctx context.Context, userID, id int64, path string) (string, error)
}

type recipeRepository struct {
	pool *pgxpool.Pool
}

// NewRecipeRepository instantiates repository.
func NewRecipeRepository(pool *pgxpool.Pool) RecipeRepository {
	return &recipeRepository{pool: pool}
}

// attrTables names the pair of tables behind one many-to-many relation.
type attrTables struct {
	table      string
	linkTable  string
	linkColumn string
}

var (
	tagTables        = attrTables{table: "tags", linkTable: "recipe_tags", linkColumn: "tag_id"}
	ingredientTables = attrTables{table: "ingredients", linkTable: "recipe_ingredients", linkColumn: "ingredient_id"}
)

type attrRow struct {
	ID   int64
	Name string
}

// Create persists the recipe and its supplied relation lists in one
// transaction: a failing nested item leaves no partially-linked recipe.
func (r *recipeRepository) Create(ctx context.Context, recipe *domain.Recipe, tags, ingredients []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        INSERT INTO recipes (user_id, title, time_minutes, price, link, description, image)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, query,
		recipe.UserID,
		recipe.Title,
		recipe.TimeMinutes,
		recipe.Price.StringFixed(2),
		recipe.Link,
		recipe.Description,
		recipe.Image,
	).Scan(&recipe.ID, &recipe.CreatedAt, &recipe.UpdatedAt); err != nil {
		return err
	}

	tagRows, err := linkAttributes(ctx, tx, tagTables, recipe.UserID, recipe.ID, tags)
	if err != nil {
		return err
	}
	ingredientRows, err := linkAttributes(ctx, tx, ingredientTables, recipe.UserID, recipe.ID, ingredients)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	recipe.Tags = tagsFromRows(recipe.UserID, tagRows)
	recipe.Ingredients = ingredientsFromRows(recipe.UserID, ingredientRows)
	return nil
}

// Update rewrites the recipe under the same transactional rules as Create.
// A nil tag/ingredient list leaves that relation untouched; a non-nil list,
// empty included, replaces the whole link set.
func (r *recipeRepository) Update(ctx context.Context, recipe *domain.Recipe, tags, ingredients *[]string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Ownership gate first: someone else's recipe id surfaces as no rows.
	var existing int64
	const lockQuery = `SELECT id FROM recipes WHERE id=$1 AND user_id=$2 FOR UPDATE`
	if err := tx.QueryRow(ctx, lockQuery, recipe.ID, recipe.UserID).Scan(&existing); err != nil {
		return err
	}

	var tagRows, ingredientRows []attrRow
	if tags != nil {
		if tagRows, err = replaceAttributes(ctx, tx, tagTables, recipe.UserID, recipe.ID, *tags); err != nil {
			return err
		}
	}
	if ingredients != nil {
		if ingredientRows, err = replaceAttributes(ctx, tx, ingredientTables, recipe.UserID, recipe.ID, *ingredients); err != nil {
			return err
		}
	}

	const query = `
        UPDATE recipes SET title=$1, time_minutes=$2, price=$3, link=$4, description=$5, updated_at=NOW()
        WHERE id=$6 AND user_id=$7
        RETURNING updated_at`
	if err := tx.QueryRow(ctx, query,
		recipe.Title,
		recipe.TimeMinutes,
		recipe.Price.StringFixed(2),
		recipe.Link,
		recipe.Description,
		recipe.ID,
		recipe.UserID,
	).Scan(&recipe.UpdatedAt); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	if tags != nil {
		recipe.Tags = tagsFromRows(recipe.UserID, tagRows)
	}
	if ingredients != nil {
		recipe.Ingredients = ingredientsFromRows(recipe.UserID, ingredientRows)
	}
	return nil
}

func (r *recipeRepository) GetByID(ctx context.Context, userID, id int64) (*domain.Recipe, error) {
	const query = `
        SELECT id, user_id, title, time_minutes, price::text, link, description, image, created_at, updated_at
        FROM recipes WHERE id=$1 AND user_id=$2`

	recipe, err := scanRecipe(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, err
	}
	if err := r.loadRelations(ctx, userID, []*domain.Recipe{recipe}); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (r *recipeRepository) List(ctx context.Context, userID int64, filter RecipeFilter) ([]domain.Recipe, error) {
	base := `SELECT DISTINCT r.id, r.user_id, r.title, r.time_minutes, r.price::text, r.link, r.description, r.image, r.created_at, r.updated_at
             FROM recipes r`
	joins := []string{}
	clauses := []string{"r.user_id = $1"}
	args := []any{userID}

	if len(filter.TagIDs) > 0 {
		joins = append(joins, "JOIN recipe_tags rt ON rt.recipe_id = r.id")
		args = append(args, filter.TagIDs)
		clauses = append(clauses, "rt.tag_id = ANY($"+strconv.Itoa(len(args))+")")
	}
	if len(filter.IngredientIDs) > 0 {
		joins = append(joins, "JOIN recipe_ingredients ri ON ri.recipe_id = r.id")
		args = append(args, filter.IngredientIDs)
		clauses = append(clauses, "ri.ingredient_id = ANY($"+strconv.Itoa(len(args))+")")
	}

	query := base
	if len(joins) > 0 {
		query += " " + strings.Join(joins, " ")
	}
	query += " WHERE " + strings.Join(clauses, " AND ") + " ORDER BY r.id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []domain.Recipe{}
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, *recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	refs := make([]*domain.Recipe, len(recipes))
	for i := range recipes {
		refs[i] = &recipes[i]
	}
	if err := r.loadRelations(ctx, userID, refs); err != nil {
		return nil, err
	}
	return recipes, nil
}

// Delete removes the recipe and reports the stored image path, if any, so
// the caller can schedule file cleanup.
func (r *recipeRepository) Delete(ctx context.Context, userID, id int64) (string, error) {
	const query = `DELETE FROM recipes WHERE id=$1 AND user_id=$2 RETURNING image`
	var image string
	if err := r.pool.QueryRow(ctx, query, id, userID).Scan(&image); err != nil {
		return "", err
	}
	return image, nil
}

// SetImage swaps the stored image reference and returns the previous one.
func (r *recipeRepository) SetImage(ctx context.Context, userID, id int64, path string) (string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var previous string
	const selectQuery = `SELECT image FROM recipes WHERE id=$1 AND user_id=$2 FOR UPDATE`
	if err := tx.QueryRow(ctx, selectQuery, id, userID).Scan(&previous); err != nil {
		return "", err
	}
	const updateQuery = `UPDATE recipes SET image=$1, updated_at=NOW() WHERE id=$2 AND user_id=$3`
	if _, err := tx.Exec(ctx, updateQuery, path, id, userID); err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return previous, nil
}

// linkAttributes resolves each name against (user, name) and attaches the
// row to the recipe. A name the user already owns is reused, never
// duplicated; repeated names in one list resolve to the same row and the
// link table's primary key keeps the attach a set operation.
func linkAttributes(ctx context.Context, tx pgx.Tx, tables attrTables, userID, recipeID int64, names []string) ([]attrRow, error) {
	linked := []attrRow{}
	seen := map[int64]bool{}
	for _, name := range names {
		row, err := getOrCreateAttribute(ctx, tx, tables, userID, name)
		if err != nil {
			return nil, err
		}
		linkQuery := `INSERT INTO ` + tables.linkTable + ` (recipe_id, ` + tables.linkColumn + `) VALUES ($1, $2) ON CONFLICT DO NOTHING`
		if _, err := tx.Exec(ctx, linkQuery, recipeID, row.ID); err != nil {
			return nil, err
		}
		if !seen[row.ID] {
			seen[row.ID] = true
			linked = append(linked, row)
		}
	}
	return linked, nil
}

// replaceAttributes clears the recipe's link set before re-attaching.
func replaceAttributes(ctx context.Context, tx pgx.Tx, tables attrTables, userID, recipeID int64, names []string) ([]attrRow, error) {
	clearQuery := `DELETE FROM ` + tables.linkTable + ` WHERE recipe_id=$1`
	if _, err := tx.Exec(ctx, clearQuery, recipeID); err != nil {
		return nil, err
	}
	return linkAttributes(ctx, tx, tables, userID, recipeID, names)
}

func getOrCreateAttribute(ctx context.Context, tx pgx.Tx, tables attrTables, userID int64, name string) (attrRow, error) {
	row := attrRow{Name: name}
	selectQuery := `SELECT id FROM ` + tables.table + ` WHERE user_id=$1 AND name=$2`
	err := tx.QueryRow(ctx, selectQuery, userID, name).Scan(&row.ID)
	if err == nil {
		return row, nil
	}
	if err != pgx.ErrNoRows {
		return attrRow{}, err
	}
	insertQuery := `INSERT INTO ` + tables.table + ` (user_id, name) VALUES ($1, $2) RETURNING id`
	if err := tx.QueryRow(ctx, insertQuery, userID, name).Scan(&row.ID); err != nil {
		return attrRow{}, err
	}
	return row, nil
}

func (r *recipeRepository) loadRelations(ctx context.Context, userID int64, recipes []*domain.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(recipes))
	byID := make(map[int64]*domain.Recipe, len(recipes))
	for _, recipe := range recipes {
		recipe.Tags = []domain.Tag{}
		recipe.Ingredients = []domain.Ingredient{}
		ids = append(ids, recipe.ID)
		byID[recipe.ID] = recipe
	}

	const tagQuery = `
        SELECT rt.recipe_id, t.id, t.user_id, t.name
        FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
        WHERE rt.recipe_id = ANY($1) ORDER BY t.name ASC`
	rows, err := r.pool.Query(ctx, tagQuery, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var recipeID int64
		var tag domain.Tag
		if err := rows.Scan(&recipeID, &tag.ID, &tag.UserID, &tag.Name); err != nil {
			return err
		}
		byID[recipeID].Tags = append(byID[recipeID].Tags, tag)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	const ingredientQuery = `
        SELECT ri.recipe_id, i.id, i.user_id, i.name
        FROM recipe_ingredients ri JOIN ingredients i ON i.id = ri.ingredient_id
        WHERE ri.recipe_id = ANY($1) ORDER BY i.name ASC`
	rows, err = r.pool.Query(ctx, ingredientQuery, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var recipeID int64
		var ingredient domain.Ingredient
		if err := rows.Scan(&recipeID, &ingredient.ID, &ingredient.UserID, &ingredient.Name); err != nil {
			return err
		}
		byID[recipeID].Ingredients = append(byID[recipeID].Ingredients, ingredient)
	}
	return rows.Err()
}

func scanRecipe(row pgx.Row) (*domain.Recipe, error) {
	var recipe domain.Recipe
	var price string
	if err := row.Scan(
		&recipe.ID,
		&recipe.UserID,
		&recipe.Title,
		&recipe.TimeMinutes,
		&price,
		&recipe.Link,
		&recipe.Description,
		&recipe.Image,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	recipe.Price = parsed
	return &recipe, nil
}

func tagsFromRows(userID int64, rows []attrRow) []domain.Tag {
	tags := make([]domain.Tag, 0, len(rows))
	for _, row := range rows {
		tags = append(tags, domain.Tag{ID: row.ID, UserID: userID, Name: row.Name})
	}
	return tags
}

func ingredientsFromRows(userID int64, rows []attrRow) []domain.Ingredient {
	ingredients := make([]domain.Ingredient, 0, len(rows))
	for _, row := range rows {
		ingredients = append(ingredients, domain.Ingredient{ID: row.ID, UserID: userID, Name: row.Name})
	}
	return ingredients
}
