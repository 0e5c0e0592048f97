package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pixelcrate/gameshelf-backend/pkg/db/models"
)

// GameSummaryDTO is the list-view projection of a catalog entry. InWishlist
// is only populated for signed-in viewers.
type GameSummaryDTO struct {
	ID         int64           `json:"id"`
	Title      string          `json:"title"`
	Price      decimal.Decimal `json:"price"`
	Tags       []string        `json:"tags"`
	InWishlist *bool           `json:"in_wishlist,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// GameDetailDTO is the full projection for a single catalog entry. InWishlist
// is only populated for signed-in viewers.
type GameDetailDTO struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Tags        []string        `json:"tags"`
	InWishlist  *bool           `json:"in_wishlist,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SplitTags parses the semicolon-delimited tags column into a slice,
// dropping empty fragments.
func SplitTags(raw string) []string {
	tags := []string{}
	for _, part := range strings.Split(raw, ";") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// JoinTags renders a tag slice back into the stored column format.
func JoinTags(tags []string) string {
	clean := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		clean = append(clean, trimmed)
	}
	return strings.Join(clean, ";")
}

// GameSummaryFromModel projects a stored game into its list-view DTO.
// The wishlist read path reuses it to render saved games.
func GameSummaryFromModel(game models.Game) GameSummaryDTO {
	return toSummaryDTO(game)
}

func toSummaryDTO(game models.Game) GameSummaryDTO {
	return GameSummaryDTO{
		ID:        game.ID,
		Title:     game.Title,
		Price:     game.Price,
		Tags:      SplitTags(game.Tags),
		CreatedAt: game.CreatedAt,
	}
}

func toDetailDTO(game models.Game) GameDetailDTO {
	return GameDetailDTO{
		ID:          game.ID,
		Title:       game.Title,
		Price:       game.Price,
		Description: game.Description,
		Tags:        SplitTags(game.Tags),
		CreatedAt:   game.CreatedAt,
		UpdatedAt:   game.UpdatedAt,
	}
}
