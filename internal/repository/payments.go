package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/sandwich_shop/internal/domain"
	"github.com/jackc/pgx/v5"
)

const EventPaymentStatusChanged = "payment.status_changed"

const paymentColumns = `id, order_id, payment_type, card_type, card_last_four, amount, status, transaction_id, created_at, updated_at`

type paymentEvent struct {
	PaymentID  int64     `json:"payment_id"`
	OrderID    int64     `json:"order_id"`
	Status     string    `json:"status"`
	Amount     string    `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.ID,
		&p.OrderID,
		&p.PaymentType,
		&p.CardType,
		&p.CardLastFour,
		&p.Amount,
		&p.Status,
		&p.TransactionID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

func (r *Repository) CreatePayment(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (order_id, payment_type, card_type, card_last_four, amount, status, transaction_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		p.OrderID,
		p.PaymentType,
		p.CardType,
		p.CardLastFour,
		p.Amount,
		p.Status,
		p.TransactionID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		switch code, _ := pgErrorCode(err); code {
		case pgUniqueViolation:
			return ErrPaymentExists
		case pgForeignKeyViolation:
			return domain.NewNotFoundError("order", p.OrderID)
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *Repository) GetPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	p, err := scanPayment(r.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFoundError("payment", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query payment by id: %w", err)
	}
	return p, nil
}

func (r *Repository) GetPaymentByOrderID(ctx context.Context, orderID int64) (*domain.Payment, error) {
	p, err := scanPayment(r.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE order_id = $1`, orderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "payment", Key: fmt.Sprintf("for order %d", orderID)}
	}
	if err != nil {
		return nil, fmt.Errorf("query payment by order id: %w", err)
	}
	return p, nil
}

func (r *Repository) UpdatePayment(ctx context.Context, id int64, update domain.PaymentUpdate) (*domain.Payment, error) {
	var updated *domain.Payment
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		p, err := scanPayment(tx.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1 FOR UPDATE`, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewNotFoundError("payment", id)
		}
		if err != nil {
			return fmt.Errorf("lock payment: %w", err)
		}

		statusChanged := false
		if update.Status != nil && *update.Status != p.Status {
			if !p.Status.CanTransitionTo(*update.Status) {
				return &domain.IllegalTransitionError{Entity: "payment", From: string(p.Status), To: string(*update.Status)}
			}
			p.Status = *update.Status
			statusChanged = true
		}
		if update.TransactionID != nil {
			p.TransactionID = *update.TransactionID
		}

		err = tx.QueryRow(ctx,
			`UPDATE payments SET status = $2, transaction_id = $3, updated_at = NOW()
			 WHERE id = $1
			 RETURNING updated_at`,
			id, p.Status, p.TransactionID,
		).Scan(&p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update payment: %w", err)
		}

		if statusChanged {
			ev := paymentEvent{
				PaymentID:  p.ID,
				OrderID:    p.OrderID,
				Status:     string(p.Status),
				Amount:     p.Amount.StringFixed(2),
				OccurredAt: p.UpdatedAt,
			}
			if err := insertOutboxEvent(ctx, tx, fmt.Sprint(p.OrderID), EventPaymentStatusChanged, ev); err != nil {
				return err
			}
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
