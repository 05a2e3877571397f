// Package schema owns the table set of the service.
package schema

import (
	"fmt"

	"gorm.io/gorm"

	needmodel "samaajseva/pkg/core/need/model"
	usermodel "samaajseva/pkg/core/user/model"
)

// AutoMigrate creates or updates every table, including the unique indexes
// that enforce email and commitment uniqueness.
func AutoMigrate(db *gorm.DB) error {
	if err := usermodel.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}
	if err := needmodel.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate needs: %w", err)
	}
	return nil
}
