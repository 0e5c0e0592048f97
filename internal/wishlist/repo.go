package wishlist

import (
	"context"

	"gorm.io/gorm"

	"github.com/pixelcrate/gameshelf-backend/pkg/db/models"
)

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// AddItem inserts a wishlist entry and ignores duplicates.
func (r *Repository) AddItem(ctx context.Context, userID, gameID int64) error {
	return r.db.WithContext(ctx).
		Exec(`INSERT INTO wishlist_items (user_id, game_id) VALUES (?, ?) ON CONFLICT (user_id, game_id) DO NOTHING`, userID, gameID).
		Error
}

// RemoveItem deletes the user-game pair and reports whether a row existed.
func (r *Repository) RemoveItem(ctx context.Context, userID, gameID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Delete(&models.WishlistItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Contains reports whether the user has saved the game.
func (r *Repository) Contains(ctx context.Context, userID, gameID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListGameIDs returns the game ids the user has saved, most recent first.
func (r *Repository) ListGameIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("game_id DESC").
		Pluck("game_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// CountItems returns the number of wishlist rows for the user.
func (r *Repository) CountItems(ctx context.Context, userID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
