// Copyright © 2025 pitchireddy1980
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package events

import "time"

// LineItem is one entry of a payment request's basket.
type LineItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// PaymentInitiatedPayload is carried by PAYMENT_INITIATED.
type PaymentInitiatedPayload struct {
	OrderID       string     `json:"orderId"`
	UserID        string     `json:"userId"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	PaymentMethod string     `json:"paymentMethod"`
	Items         []LineItem `json:"items"`
}

// RiskChecks is the breakdown behind a risk assessment's approval verdict.
type RiskChecks struct {
	FraudCheck     bool `json:"fraudCheck"`
	VelocityCheck  bool `json:"velocityCheck"`
	BlacklistCheck bool `json:"blacklistCheck"`
}

// RiskCheckCompletedPayload is carried by RISK_CHECK_COMPLETED.
type RiskCheckCompletedPayload struct {
	OrderID   string     `json:"orderId"`
	RiskScore int        `json:"riskScore"`
	Approved  bool       `json:"approved"`
	Checks    RiskChecks `json:"checks"`
}

// RiskCheckFailedPayload is carried by RISK_CHECK_FAILED.
type RiskCheckFailedPayload struct {
	OrderID   string `json:"orderId"`
	Reason    string `json:"reason"`
	RiskScore int    `json:"riskScore"`
}

// RiskCheckRollbackPayload is carried by RISK_CHECK_ROLLBACK.
type RiskCheckRollbackPayload struct {
	OrderID string `json:"orderId"`
	Reason  string `json:"reason"`
}

// PaymentProcessedPayload is carried by PAYMENT_PROCESSED.
type PaymentProcessedPayload struct {
	OrderID       string    `json:"orderId"`
	TransactionID string    `json:"transactionId"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	ProcessedAt   time.Time `json:"processedAt"`
}

// PaymentFailedPayload is carried by PAYMENT_FAILED.
type PaymentFailedPayload struct {
	OrderID   string `json:"orderId"`
	Reason    string `json:"reason"`
	ErrorCode string `json:"errorCode"`
}

// PaymentRefundedPayload is carried by PAYMENT_REFUNDED.
type PaymentRefundedPayload struct {
	OrderID       string  `json:"orderId"`
	TransactionID string  `json:"transactionId"`
	RefundID      string  `json:"refundId"`
	Amount        float64 `json:"amount"`
	Reason        string  `json:"reason"`
}

// OrderCancelledPayload is carried by ORDER_CANCELLED. OrderID is populated
// whenever the publisher has it in hand; consumers must key strictly on the
// envelope's sagaId regardless (see design notes on the reference
// implementation's nullable orderId).
type OrderCancelledPayload struct {
	OrderID     string    `json:"orderId,omitempty"`
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelledAt"`
}

// NotificationSentPayload is carried by NOTIFICATION_SENT.
type NotificationSentPayload struct {
	OrderID  string `json:"orderId"`
	Category string `json:"category"`
	Channel  string `json:"channel"`
}

// NotificationFailedPayload is carried by NOTIFICATION_FAILED.
type NotificationFailedPayload struct {
	OrderID  string `json:"orderId"`
	Category string `json:"category"`
	Reason   string `json:"reason"`
}
