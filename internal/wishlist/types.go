package wishlist

import (
	"github.com/pixelcrate/gameshelf-backend/internal/catalog"
)

// ToggleResultDTO reports the wishlist membership state after a toggle.
type ToggleResultDTO struct {
	GameID     int64 `json:"game_id"`
	InWishlist bool  `json:"in_wishlist"`
}

// WishlistDTO is the full wishlist view for a user.
type WishlistDTO struct {
	Items []catalog.GameSummaryDTO `json:"items"`
	Total int                      `json:"total"`
}
