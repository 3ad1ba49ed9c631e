package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentType string

const (
	PaymentTypeCreditCard PaymentType = "credit_card"
	PaymentTypeDebitCard  PaymentType = "debit_card"
	PaymentTypePaypal     PaymentType = "paypal"
	PaymentTypeCash       PaymentType = "cash"
)

func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeCreditCard, PaymentTypeDebitCard, PaymentTypePaypal, PaymentTypeCash:
		return true
	}
	return false
}

func (t PaymentType) IsCard() bool {
	return t == PaymentTypeCreditCard || t == PaymentTypeDebitCard
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:   {PaymentStatusCompleted, PaymentStatusFailed},
	PaymentStatusFailed:    {PaymentStatusPending},
	PaymentStatusCompleted: {PaymentStatusRefunded},
}

func (s PaymentStatus) IsValid() bool {
	_, ok := paymentTransitions[s]
	return ok || s == PaymentStatusRefunded
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Payment struct {
	ID            int64           `json:"id"`
	OrderID       int64           `json:"order_id"`
	PaymentType   PaymentType     `json:"payment_type"`
	CardType      string          `json:"card_type,omitempty"`
	CardLastFour  string          `json:"card_last_four,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Status        PaymentStatus   `json:"status"`
	TransactionID string          `json:"transaction_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type PaymentUpdate struct {
	Status        *PaymentStatus
	TransactionID *string
}
