package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freshplate/recipe-service/internal/domain"
)

// TagRepository encapsulates tag persistence, always scoped to one user.
type TagRepository interface {
	List(ctx context.Context, userID int64, assignedOnly bool) ([]domain.Tag, error)
	Update(ctx context.Context, userID int64, tag *domain.Tag) error
	Delete(ctx context.Context, userID, id int64) error
}

type tagRepository struct {
	pool *pgxpool.Pool
}

// NewTagRepository instantiates repository.
func NewTagRepository(pool *pgxpool.Pool) TagRepository {
	return &tagRepository{pool: pool}
}

func (r *tagRepository) List(ctx context.Context, userID int64, assignedOnly bool) ([]domain.Tag, error) {
	query := `SELECT DISTINCT t.id, t.user_id, t.name FROM tags t`
	if assignedOnly {
		query += ` JOIN recipe_tags rt ON rt.tag_id = t.id`
	}
	query += ` WHERE t.user_id=$1 ORDER BY t.name ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.UserID, &tag.Name); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (r *tagRepository) Update(ctx context.Context, userID int64, tag *domain.Tag) error {
	const query = `UPDATE tags SET name=$1 WHERE id=$2 AND user_id=$3`
	cmd, err := r.pool.Exec(ctx, query, tag.Name, tag.ID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	tag.UserID = userID
	return nil
}

// Delete removes the tag; link rows go with it via cascade, so the tag
// disappears from every recipe that referenced it.
func (r *tagRepository) Delete(ctx context.Context, userID, id int64) error {
	const query = `DELETE FROM tags WHERE id=$1 AND user_id=$2`
	cmd, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
