package database

import (
	"gorm.io/gorm"
)

// OwnedBy restricts a task query to the tasks of one user.
func OwnedBy(userID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// InsertionOrder sorts rows by their auto-assigned id.
func InsertionOrder(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}
