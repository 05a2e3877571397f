package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role 用户角色
type Role string

const (
	RoleDonor     Role = "Donor"
	RoleNGO       Role = "NGO"
	RoleVolunteer Role = "Volunteer"
)

var roles = []Role{RoleDonor, RoleNGO, RoleVolunteer}

// ParseRole matches case-insensitively and returns the canonical spelling.
func ParseRole(s string) (Role, bool) {
	for _, r := range roles {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, true
		}
	}
	return "", false
}

type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         Role      `gorm:"type:varchar(32);not null;index"`
	Bio          string    `gorm:"type:text"`
	City         string    `gorm:"type:varchar(128)"`
	Skills       string    `gorm:"type:text"` // ", " 分隔
	Interests    string    `gorm:"type:text"` // ", " 分隔
	CurrentBadge *string   `gorm:"type:varchar(255)"`
	CIS          int       `gorm:"column:cis;default:0;not null"`
	Version      int       `gorm:"default:1;not null"` // 乐观锁版本号
	CreatedAt    time.Time `gorm:"index;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// TableName 定义映射表名
func (User) TableName() string {
	return "users"
}

// ProfileFields is the set overwritten by a profile update, already encoded
// for storage.
type ProfileFields struct {
	Bio       string
	City      string
	Skills    string
	Interests string
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{})
}
