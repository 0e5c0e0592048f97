package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Game represents the canonical catalog listing.
type Game struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Title       string          `gorm:"column:title;type:text;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	// Description is optional; "" means no description. The column stays
	// NOT NULL so readers never have to distinguish NULL from empty.
	Description string `gorm:"column:description;type:text;not null;default:''"`
	Tags        string          `gorm:"column:tags;type:text;not null;default:''"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the table name stable across drivers.
func (Game) TableName() string {
	return "games"
}
