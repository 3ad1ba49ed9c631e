package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fjod/sandwich_shop/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const promotionColumns = `id, code, description, discount_type, discount_value, min_order_amount, max_discount_amount,
	usage_limit, usage_count, is_active, start_date, expiration_date, created_at`

func scanPromotion(row pgx.Row) (*domain.Promotion, error) {
	var (
		p           domain.Promotion
		maxDiscount decimal.NullDecimal
	)
	err := row.Scan(
		&p.ID,
		&p.Code,
		&p.Description,
		&p.DiscountType,
		&p.DiscountValue,
		&p.MinOrderAmount,
		&maxDiscount,
		&p.UsageLimit,
		&p.UsageCount,
		&p.IsActive,
		&p.StartDate,
		&p.ExpirationDate,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if maxDiscount.Valid {
		p.MaxDiscountAmount = &maxDiscount.Decimal
	}
	p.StartDate = p.StartDate.UTC()
	p.ExpirationDate = p.ExpirationDate.UTC()
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func NormalizePromotionCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (r *Repository) CreatePromotion(ctx context.Context, p *domain.Promotion) error {
	p.Code = NormalizePromotionCode(p.Code)

	query := `INSERT INTO promotions (code, description, discount_type, discount_value, min_order_amount,
	                                  max_discount_amount, usage_limit, is_active, start_date, expiration_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id, usage_count, created_at`

	err := r.pool.QueryRow(ctx, query,
		p.Code,
		p.Description,
		p.DiscountType,
		p.DiscountValue,
		p.MinOrderAmount,
		nullDecimal(p.MaxDiscountAmount),
		p.UsageLimit,
		p.IsActive,
		p.StartDate.UTC(),
		p.ExpirationDate.UTC(),
	).Scan(&p.ID, &p.UsageCount, &p.CreatedAt)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgUniqueViolation {
			return ErrDuplicatePromotionCode
		}
		return fmt.Errorf("insert promotion: %w", err)
	}
	return nil
}

func (r *Repository) GetPromotionByID(ctx context.Context, id int64) (*domain.Promotion, error) {
	p, err := scanPromotion(r.pool.QueryRow(ctx, `SELECT `+promotionColumns+` FROM promotions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFoundError("promotion", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query promotion by id: %w", err)
	}
	return p, nil
}

func (r *Repository) GetPromotionByCode(ctx context.Context, code string) (*domain.Promotion, error) {
	code = NormalizePromotionCode(code)
	p, err := scanPromotion(r.pool.QueryRow(ctx, `SELECT `+promotionColumns+` FROM promotions WHERE code = $1`, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFoundError("promotion", code)
	}
	if err != nil {
		return nil, fmt.Errorf("query promotion by code: %w", err)
	}
	return p, nil
}

func (r *Repository) ListPromotions(ctx context.Context) ([]*domain.Promotion, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+promotionColumns+` FROM promotions ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query promotions: %w", err)
	}
	defer rows.Close()

	promos := make([]*domain.Promotion, 0)
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan promotion row: %w", err)
		}
		promos = append(promos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return promos, nil
}

// UpdatePromotion locks the row so the usage invariant is checked against the
// current counter, not a stale read.
func (r *Repository) UpdatePromotion(ctx context.Context, id int64, patch domain.PromotionPatch) (*domain.Promotion, error) {
	var updated *domain.Promotion
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		p, err := scanPromotion(tx.QueryRow(ctx, `SELECT `+promotionColumns+` FROM promotions WHERE id = $1 FOR UPDATE`, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewNotFoundError("promotion", id)
		}
		if err != nil {
			return fmt.Errorf("lock promotion: %w", err)
		}

		patch.Apply(p)
		if err := p.Validate(); err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE promotions
			 SET description = $2, discount_value = $3, min_order_amount = $4, max_discount_amount = $5,
			     usage_limit = $6, is_active = $7, expiration_date = $8
			 WHERE id = $1`,
			id,
			p.Description,
			p.DiscountValue,
			p.MinOrderAmount,
			nullDecimal(p.MaxDiscountAmount),
			p.UsageLimit,
			p.IsActive,
			p.ExpirationDate,
		)
		if err != nil {
			return fmt.Errorf("update promotion: %w", err)
		}

		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *Repository) DeletePromotion(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete promotion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("promotion", id)
	}
	return nil
}
