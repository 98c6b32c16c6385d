package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freshplate/recipe-service/internal/domain"
)

// IngredientRepository encapsulates ingredient persistence, always scoped to
// one user.
type IngredientRepository interface {
	List(ctx context.Context, userID int64, assignedOnly bool) ([]domain.Ingredient, error)
	Update(ctx context.Context, userID int64, ingredient *domain.Ingredient) error
	Delete(ctx context.Context, userID, id int64) error
}

type ingredientRepository struct {
	pool *pgxpool.Pool
}

// NewIngredientRepository instantiates repository.
func NewIngredientRepository(pool *pgxpool.Pool) IngredientRepository {
	return &ingredientRepository{pool: pool}
}

func (r *ingredientRepository) List(ctx context.Context, userID int64, assignedOnly bool) ([]domain.Ingredient, error) {
	query := `SELECT DISTINCT i.id, i.user_id, i.name FROM ingredients i`
	if assignedOnly {
		query += ` JOIN recipe_ingredients ri ON ri.ingredient_id = i.id`
	}
	query += ` WHERE i.user_id=$1 ORDER BY i.name ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ingredients := []domain.Ingredient{}
	for rows.Next() {
		var ingredient domain.Ingredient
		if err := rows.Scan(&ingredient.ID, &ingredient.UserID, &ingredient.Name); err != nil {
			return nil, err
		}
		ingredients = append(ingredients, ingredient)
	}
	return ingredients, rows.Err()
}

func (r *ingredientRepository) Update(ctx context.Context, userID int64, ingredient *domain.Ingredient) error {
	const query = `UPDATE ingredients SET name=$1 WHERE id=$2 AND user_id=$3`
	cmd, err := r.pool.Exec(ctx, query, ingredient.Name, ingredient.ID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	ingredient.UserID = userID
	return nil
}

func (r *ingredientRepository) Delete(ctx context.Context, userID, id int64) error {
	const query = `DELETE FROM ingredients WHERE id=$1 AND user_id=$2`
	cmd, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
