package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/technova-labs/inductbot/internal/domain"
)

type CategoryRepository struct {
	db dbtx
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: pool}
}

func NewCategoryRepositoryWithTx(tx pgx.Tx) *CategoryRepository {
	return &CategoryRepository{db: tx}
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO categories (name, department, enabled, disabled_message, position, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.Name, c.Department, c.Enabled, nullableString(c.DisabledMessage), c.Position, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	var c domain.Category
	var disabledMessage *string
	err := r.db.QueryRow(ctx,
		`SELECT name, department, enabled, disabled_message, position, created_at, updated_at
		 FROM categories WHERE name = $1`,
		name,
	).Scan(&c.Name, &c.Department, &c.Enabled, &disabledMessage, &c.Position, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	if disabledMessage != nil {
		c.DisabledMessage = *disabledMessage
	}
	return &c, nil
}

// ListWithItems returns all categories ordered by registration position, each
// with its items in insertion order.
func (r *CategoryRepository) ListWithItems(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx,
		`SELECT name, department, enabled, disabled_message, position, created_at, updated_at
		 FROM categories ORDER BY position, name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	index := make(map[string]int)
	for rows.Next() {
		var c domain.Category
		var disabledMessage *string
		if err := rows.Scan(&c.Name, &c.Department, &c.Enabled, &disabledMessage, &c.Position, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if disabledMessage != nil {
			c.DisabledMessage = *disabledMessage
		}
		index[c.Name] = len(categories)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := r.db.Query(ctx,
		`SELECT id, category_name, position, question, answer, created_at
		 FROM category_items ORDER BY category_name, position`,
	)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item domain.KnowledgeItem
		if err := itemRows.Scan(&item.ID, &item.Category, &item.Position, &item.Question, &item.Answer, &item.CreatedAt); err != nil {
			return nil, err
		}
		if ci, ok := index[item.Category]; ok {
			categories[ci].Items = append(categories[ci].Items, item)
		}
	}
	return categories, itemRows.Err()
}

// ReplaceItems swaps the full item list of a category.
func (r *CategoryRepository) ReplaceItems(ctx context.Context, categoryName string, items []domain.KnowledgeItem) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM category_items WHERE category_name = $1`, categoryName,
	); err != nil {
		return err
	}
	for _, item := range items {
		if err := r.AddItem(ctx, &item); err != nil {
			return err
		}
	}
	_, err := r.db.Exec(ctx,
		`UPDATE categories SET updated_at = $1 WHERE name = $2`,
		time.Now().UTC(), categoryName,
	)
	return err
}

func (r *CategoryRepository) AddItem(ctx context.Context, item *domain.KnowledgeItem) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO category_items (id, category_name, position, question, answer, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		item.ID, item.Category, item.Position, item.Question, item.Answer, item.CreatedAt,
	)
	return err
}

func (r *CategoryRepository) DeleteItem(ctx context.Context, categoryName, itemID string) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM category_items WHERE category_name = $1 AND id = $2`,
		categoryName, itemID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// NextItemPosition returns the position for appending a new item.
func (r *CategoryRepository) NextItemPosition(ctx context.Context, categoryName string) (int, error) {
	var next int
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(position), -1) + 1 FROM category_items WHERE category_name = $1`,
		categoryName,
	).Scan(&next)
	return next, err
}

func (r *CategoryRepository) UpdateSettings(ctx context.Context, name string, settings domain.CategorySettings) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE categories SET enabled = $1, disabled_message = $2, updated_at = $3 WHERE name = $4`,
		settings.Enabled, nullableString(settings.Message), time.Now().UTC(), name,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, name string) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM categories WHERE name = $1`, name,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}
