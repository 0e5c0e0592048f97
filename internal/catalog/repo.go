package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/pixelcrate/gameshelf-backend/pkg/db/models"
)

// Repository encapsulates catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// List returns every game ordered by title, id for a stable listing.
func (r *Repository) List(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	if err := r.db.WithContext(ctx).
		Order("title ASC").
		Order("id ASC").
		Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}

// FindByID loads a single game.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Game, error) {
	var game models.Game
	if err := r.db.WithContext(ctx).First(&game, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

// FindByIDs loads the games matching ids, preserving no particular order.
func (r *Repository) FindByIDs(ctx context.Context, ids []int64) ([]models.Game, error) {
	if len(ids) == 0 {
		return []models.Game{}, nil
	}
	var games []models.Game
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("title ASC").
		Order("id ASC").
		Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}

// Create inserts a new game and returns the persisted model.
func (r *Repository) Create(ctx context.Context, game *models.Game) (*models.Game, error) {
	if err := r.db.WithContext(ctx).Create(game).Error; err != nil {
		return nil, err
	}
	return game, nil
}

// CountByTitle reports how many games carry the exact title. The seed CLI
// uses it to stay idempotent.
func (r *Repository) CountByTitle(ctx context.Context, title string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Game{}).
		Where("title = ?", title).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
