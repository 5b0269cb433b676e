package order

import "time"

// Status is Order's state machine position. PENDING is the only entry
// state; PROCESSING is reached once Risk approves; CONFIRMED and CANCELLED
// are terminal.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusCancelled  Status = "CANCELLED"
	StatusFailed     Status = "FAILED"
)

// terminal reports whether status allows no further transition.
func (s Status) terminal() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusFailed:
		return true
	default:
		return false
	}
}

// PaymentMethod enumerates the payment instruments a request may name.
type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard    PaymentMethod = "DEBIT_CARD"
	PaymentMethodPaypal       PaymentMethod = "PAYPAL"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
)

// Item is one line of the order's basket, persisted as JSON alongside the
// order row rather than as its own table — no operation in this service
// ever queries into the basket, only echoes it back.
type Item struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Order is the record Order owns. SagaID is the saga identity and carries a
// unique index; OrderID is the local primary key.
type Order struct {
	OrderID            string        `gorm:"primaryKey" json:"orderId"`
	SagaID             string        `gorm:"uniqueIndex" json:"sagaId"`
	UserID             string        `gorm:"index" json:"userId"`
	Amount             float64       `json:"amount"`
	Currency           string        `json:"currency"`
	Status             Status        `json:"status"`
	PaymentMethod      PaymentMethod `json:"paymentMethod"`
	Items              []Item        `gorm:"serializer:json" json:"items"`
	CancellationReason string        `json:"cancellationReason,omitempty"`
	TransactionID      string        `json:"transactionId,omitempty"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}
