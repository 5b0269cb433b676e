package payment

import "time"

// Status is PaymentTransaction's state machine position.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
	StatusRefunded   Status = "REFUNDED"
)

func (s Status) terminal() bool {
	switch s {
	case StatusFailed, StatusRefunded:
		return true
	default:
		return false
	}
}

// Transaction is the record Payment owns, one per saga.
type Transaction struct {
	TransactionID        string    `gorm:"primaryKey" json:"transactionId"`
	OrderID              string    `json:"orderId"`
	SagaID               string    `gorm:"uniqueIndex" json:"sagaId"`
	Amount               float64   `json:"amount"`
	Currency             string    `json:"currency"`
	Status               Status    `json:"status"`
	GatewayTransactionID string    `json:"gatewayTransactionId,omitempty"`
	AuthCode             string    `json:"authCode,omitempty"`
	RefundID             string    `json:"refundId,omitempty"`
	ErrorMessage         string    `json:"errorMessage,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// TableName maps Transaction onto the payment_transactions table.
func (Transaction) TableName() string { return "payment_transactions" }
