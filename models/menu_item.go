package models

import (
	"time"

	"gorm.io/gorm"
)

type MenuItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    string    `gorm:"type:varchar(100);index" json:"category"`
	Available   bool      `gorm:"not null" json:"available"`
	Image       string    `gorm:"type:varchar(500)" json:"image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	// soft delete keeps historical order lines pointing at a row
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
