package risk

import "time"

// Assessment is the record Risk owns, one per saga.
type Assessment struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	OrderID        string    `json:"orderId"`
	SagaID         string    `gorm:"uniqueIndex" json:"sagaId"`
	UserID         string    `json:"userId"`
	RiskScore      int       `json:"riskScore"`
	Approved       bool      `json:"approved"`
	FraudCheck     bool      `json:"fraudCheck"`
	VelocityCheck  bool      `json:"velocityCheck"`
	BlacklistCheck bool      `json:"blacklistCheck"`
	RolledBack     bool      `json:"rolledBack"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TableName maps Assessment onto the risk_assessments table.
func (Assessment) TableName() string { return "risk_assessments" }
