package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fjod/sandwich_shop/internal/domain"
	"github.com/jackc/pgx/v5"
)

const orderColumns = `id, customer_id, delivery_address, special_instructions, metadata, tracking_token, status,
	subtotal, tax_amount, discount_amount, total_price, promotion_id, promotion_code,
	estimated_delivery_time, actual_delivery_time, created_at, updated_at`

const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
)

type orderEventLine struct {
	MenuItemID int64  `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
	UnitPrice  string `json:"unit_price"`
}

type orderEvent struct {
	OrderID       int64            `json:"order_id"`
	CustomerID    int64            `json:"customer_id"`
	TrackingToken string           `json:"tracking_token"`
	Status        string           `json:"status"`
	Total         string           `json:"total_price"`
	PromotionCode string           `json:"promotion_code,omitempty"`
	Lines         []orderEventLine `json:"lines,omitempty"`
	OccurredAt    time.Time        `json:"occurred_at"`
}

func newOrderEvent(o *domain.Order, withLines bool) orderEvent {
	ev := orderEvent{
		OrderID:       o.ID,
		CustomerID:    o.CustomerID,
		TrackingToken: o.TrackingToken,
		Status:        o.Status.String(),
		Total:         o.TotalPrice.StringFixed(2),
		PromotionCode: o.PromotionCode,
		OccurredAt:    o.UpdatedAt,
	}
	if withLines {
		for _, l := range o.Lines {
			ev.Lines = append(ev.Lines, orderEventLine{
				MenuItemID: l.MenuItemID,
				Quantity:   l.Quantity,
				UnitPrice:  l.UnitPrice.StringFixed(2),
			})
		}
	}
	return ev
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID,
		&o.CustomerID,
		&o.DeliveryAddress,
		&o.SpecialInstructions,
		&o.Metadata,
		&o.TrackingToken,
		&o.Status,
		&o.Subtotal,
		&o.TaxAmount,
		&o.DiscountAmount,
		&o.TotalPrice,
		&o.PromotionID,
		&o.PromotionCode,
		&o.EstimatedDeliveryTime,
		&o.ActualDeliveryTime,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.CreatedAt = o.CreatedAt.UTC()
	o.UpdatedAt = o.UpdatedAt.UTC()
	return &o, nil
}

// CreateOrder persists the order, its lines, the promotion usage claim and the
// order.placed event in one transaction. The order's ID, timestamps and line
// IDs are filled in on success.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if order.PromotionID != nil {
			if err := claimPromotionUsage(ctx, tx, *order.PromotionID, order.PromotionCode); err != nil {
				return err
			}
		}

		query := `INSERT INTO orders (customer_id, delivery_address, special_instructions, metadata, tracking_token, status,
		                              subtotal, tax_amount, discount_amount, total_price, promotion_id, promotion_code,
		                              estimated_delivery_time)
		          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		          RETURNING id, created_at, updated_at`

		err := tx.QueryRow(ctx, query,
			order.CustomerID,
			order.DeliveryAddress,
			order.SpecialInstructions,
			order.Metadata,
			order.TrackingToken,
			order.Status,
			order.Subtotal,
			order.TaxAmount,
			order.DiscountAmount,
			order.TotalPrice,
			order.PromotionID,
			order.PromotionCode,
			order.EstimatedDeliveryTime,
		).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return mapOrderWriteError("insert order", err)
		}

		batch := &pgx.Batch{}
		for i := range order.Lines {
			line := &order.Lines[i]
			batch.Queue(`INSERT INTO order_lines (order_id, menu_item_id, item_name, quantity, unit_price, line_subtotal, special_requests)
			             VALUES ($1, $2, $3, $4, $5, $6, $7)
			             RETURNING id`,
				order.ID,
				line.MenuItemID,
				line.ItemName,
				line.Quantity,
				line.UnitPrice,
				line.LineSubtotal,
				line.SpecialRequests,
			).QueryRow(func(row pgx.Row) error {
				return row.Scan(&line.ID)
			})
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return mapOrderWriteError("insert order lines", err)
		}

		return insertOutboxEvent(ctx, tx, fmt.Sprint(order.ID), EventOrderPlaced, newOrderEvent(order, true))
	})
}

// claimPromotionUsage increments usage_count only while the limit has headroom.
// Zero affected rows means another order took the last use, or the promotion
// was switched off after validation.
func claimPromotionUsage(ctx context.Context, tx pgx.Tx, promotionID int64, code string) error {
	tag, err := tx.Exec(ctx,
		`UPDATE promotions
		 SET usage_count = usage_count + 1
		 WHERE id = $1 AND is_active AND (usage_limit IS NULL OR usage_count < usage_limit)`,
		promotionID)
	if err != nil {
		return fmt.Errorf("claim promotion usage: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var active bool
	err = tx.QueryRow(ctx, `SELECT is_active FROM promotions WHERE id = $1`, promotionID).Scan(&active)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewNotFoundError("promotion", code)
	}
	if err != nil {
		return fmt.Errorf("recheck promotion: %w", err)
	}
	if !active {
		return &domain.PromotionRuleError{Code: code, Rule: domain.RuleInactive}
	}
	return &domain.PromotionRuleError{Code: code, Rule: domain.RuleExhausted}
}

func mapOrderWriteError(op string, err error) error {
	code, constraint := pgErrorCode(err)
	switch {
	case code == pgUniqueViolation && constraint == "orders_tracking_token_key":
		return ErrDuplicateTrackingToken
	case code == pgForeignKeyViolation:
		return fmt.Errorf("%s: referenced record vanished before commit (%s): %w", op, constraint, domain.ErrIntegrity)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (r *Repository) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	return r.getOrder(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id, domain.NewNotFoundError("order", id))
}

func (r *Repository) GetOrderByTrackingToken(ctx context.Context, token string) (*domain.Order, error) {
	return r.getOrder(ctx, `SELECT `+orderColumns+` FROM orders WHERE tracking_token = $1`, token, domain.NewNotFoundError("order", token))
}

func (r *Repository) getOrder(ctx context.Context, query string, arg any, notFound error) (*domain.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	lines, err := r.getOrderLines(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Lines = lines
	return order, nil
}

func (r *Repository) getOrderLines(ctx context.Context, orderID int64) ([]domain.OrderLine, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, menu_item_id, item_name, quantity, unit_price, line_subtotal, special_requests
		 FROM order_lines WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order lines: %w", err)
	}
	defer rows.Close()

	lines := make([]domain.OrderLine, 0)
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(
			&l.ID,
			&l.MenuItemID,
			&l.ItemName,
			&l.Quantity,
			&l.UnitPrice,
			&l.LineSubtotal,
			&l.SpecialRequests,
		); err != nil {
			return nil, fmt.Errorf("scan order line row: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return lines, nil
}

// ListOrders returns orders newest first, without their lines.
func (r *Repository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, filter.Limit, filter.Skip)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return orders, nil
}

// UpdateOrderStatus applies a lifecycle transition under a row lock.
func (r *Repository) UpdateOrderStatus(ctx context.Context, id int64, change domain.StatusChange) (*domain.Order, error) {
	var updated *domain.Order
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		order, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewNotFoundError("order", id)
		}
		if err != nil {
			return fmt.Errorf("lock order: %w", err)
		}

		if change.Status != order.Status && !order.Status.CanTransitionTo(change.Status) {
			return &domain.IllegalTransitionError{Entity: "order", From: order.Status.String(), To: change.Status.String()}
		}

		if change.EstimatedDeliveryTime != nil {
			eta := change.EstimatedDeliveryTime.UTC()
			order.EstimatedDeliveryTime = &eta
		}
		statusChanged := change.Status != order.Status
		order.Status = change.Status

		err = tx.QueryRow(ctx,
			`UPDATE orders
			 SET status = $2,
			     estimated_delivery_time = $3,
			     actual_delivery_time = CASE WHEN $2 = 'DELIVERED' THEN NOW() ELSE actual_delivery_time END,
			     updated_at = NOW()
			 WHERE id = $1
			 RETURNING actual_delivery_time, updated_at`,
			id, order.Status, order.EstimatedDeliveryTime,
		).Scan(&order.ActualDeliveryTime, &order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update order status: %w", err)
		}

		if statusChanged {
			if err := insertOutboxEvent(ctx, tx, fmt.Sprint(order.ID), EventOrderStatusChanged, newOrderEvent(order, false)); err != nil {
				return err
			}
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	lines, err := r.getOrderLines(ctx, id)
	if err != nil {
		return nil, err
	}
	updated.Lines = lines
	return updated, nil
}
