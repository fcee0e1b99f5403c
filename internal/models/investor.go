package models

import "time"

// InvestorStatus represents the lifecycle state of an investor.
type InvestorStatus string

const (
	InvestorStatusActive    InvestorStatus = "active"
	InvestorStatusInactive  InvestorStatus = "inactive"
	InvestorStatusSuspended InvestorStatus = "suspended"
)

// Investor represents a person or entity owning one or more accounts.
// The ID is assigned by the store on creation and is immutable; only
// Name and Status may change, via explicit updates.
type Investor struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string         `gorm:"not null;index" json:"name"`
	Status    InvestorStatus `gorm:"not null;default:'active'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	// Relationships
	Accounts []Account `gorm:"foreignKey:InvestorID" json:"accounts,omitempty"`
}
