package models

import "time"

// WishlistItem links a user to a saved game. The composite primary key keeps
// the pair unique without a surrogate id.
type WishlistItem struct {
	UserID    int64     `gorm:"column:user_id;primaryKey"`
	GameID    int64     `gorm:"column:game_id;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}
