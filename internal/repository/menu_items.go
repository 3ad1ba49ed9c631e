package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fjod/sandwich_shop/internal/domain"
	"github.com/jackc/pgx/v5"
)

const menuItemColumns = `id, name, description, price, calories, category, is_vegetarian, is_active, created_at, updated_at`

func scanMenuItem(row pgx.Row) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Price,
		&item.Calories,
		&item.Category,
		&item.IsVegetarian,
		&item.IsActive,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.CreatedAt = item.CreatedAt.UTC()
	item.UpdatedAt = item.UpdatedAt.UTC()
	return &item, nil
}

func (r *Repository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	query := `INSERT INTO menu_items (name, description, price, calories, category, is_vegetarian, is_active)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		item.Name,
		item.Description,
		item.Price,
		item.Calories,
		item.Category,
		item.IsVegetarian,
		item.IsActive,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert menu item: %w", err)
	}
	return nil
}

func (r *Repository) GetMenuItem(ctx context.Context, id int64) (*domain.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = $1`

	item, err := scanMenuItem(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFoundError("menu item", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query menu item by id: %w", err)
	}
	return item, nil
}

// GetMenuItemsByIDs resolves ids in one round trip. Unknown ids are omitted.
func (r *Repository) GetMenuItemsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.MenuItem, error) {
	items := make(map[int64]*domain.MenuItem, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("query menu items by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item row: %w", err)
		}
		items[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

func (r *Repository) ListMenuItems(ctx context.Context, filter domain.MenuFilter) ([]*domain.MenuItem, error) {
	var (
		where []string
		args  []any
	)
	if !filter.IncludeInactive {
		where = append(where, "is_active")
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Vegetarian != nil {
		args = append(args, *filter.Vegetarian)
		where = append(where, fmt.Sprintf("is_vegetarian = $%d", len(args)))
	}

	query := `SELECT ` + menuItemColumns + ` FROM menu_items`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY category, name, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query menu items: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.MenuItem, 0)
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

func (r *Repository) UpdateMenuItem(ctx context.Context, id int64, patch domain.MenuItemPatch) (*domain.MenuItem, error) {
	var updated *domain.MenuItem
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		item, err := scanMenuItem(tx.QueryRow(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = $1 FOR UPDATE`, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewNotFoundError("menu item", id)
		}
		if err != nil {
			return fmt.Errorf("lock menu item: %w", err)
		}

		patch.Apply(item)
		if err := item.Validate(); err != nil {
			return err
		}

		query := `UPDATE menu_items
		          SET name = $2, description = $3, price = $4, calories = $5, category = $6,
		              is_vegetarian = $7, is_active = $8, updated_at = NOW()
		          WHERE id = $1
		          RETURNING updated_at`
		if err := tx.QueryRow(ctx, query,
			id,
			item.Name,
			item.Description,
			item.Price,
			item.Calories,
			item.Category,
			item.IsVegetarian,
			item.IsActive,
		).Scan(&item.UpdatedAt); err != nil {
			return fmt.Errorf("update menu item: %w", err)
		}

		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *Repository) DeleteMenuItem(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgForeignKeyViolation {
			return ErrMenuItemInUse
		}
		return fmt.Errorf("delete menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("menu item", id)
	}
	return nil
}
