package model

import (
	"time"

	"gorm.io/gorm"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
)

// Need is an NGO-posted request for resources. Priority is not a column; it
// is derived from QuantityCommitted on every read.
type Need struct {
	ID                string    `gorm:"type:varchar(36);primaryKey"`
	NGOID             uint64    `gorm:"column:ngo_id;not null;index"`
	Title             string    `gorm:"type:varchar(255);not null"`
	Domain            string    `gorm:"type:varchar(128);not null"`
	DomainSlug        string    `gorm:"type:varchar(128);not null;index"`
	State             string    `gorm:"type:varchar(128);not null"`
	District          string    `gorm:"type:varchar(128);not null"`
	LocalArea         string    `gorm:"type:varchar(255)"`
	PeopleAffected    int       `gorm:"default:0;not null"`
	ResourceType      string    `gorm:"type:varchar(128);not null"`
	UrgencyReason     string    `gorm:"type:varchar(255)"`
	Timeline          string    `gorm:"type:varchar(64)"`
	Description       string    `gorm:"type:text"`
	Status            Status    `gorm:"type:varchar(16);not null;default:pending;index"`
	QuantityCommitted int       `gorm:"default:0;not null"`
	Version           int       `gorm:"default:1;not null"`
	CreatedAt         time.Time `gorm:"index;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (Need) TableName() string {
	return "needs"
}

func (n Need) Priority() Priority {
	return DerivePriority(n.QuantityCommitted)
}

func (n Need) IsOpen() bool {
	return n.Status != StatusFulfilled
}

// Commitment is a donor's pledge against one need. (NeedID, DonorID) is
// unique: a donor commits to a need at most once.
type Commitment struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	NeedID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_commitment_need_donor"`
	DonorID   uint64    `gorm:"not null;uniqueIndex:idx_commitment_need_donor;index"`
	Quantity  int       `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"index;autoCreateTime"`
}

func (Commitment) TableName() string {
	return "commitments"
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Need{}, &Commitment{})
}
