// Package items persists watch-list records.
package items

import (
	"context"

	"github.com/dmitrijs2005/watchkeeper/internal/models"
)

type Repository interface {
	// List returns at most limit records ordered by id.
	List(ctx context.Context, limit int) ([]models.WatchListItem, error)
	// ExistsByName reports whether a record with the same trimmed,
	// case-folded name and media type is already stored.
	ExistsByName(ctx context.Context, name string, mediaType models.MediaType) (bool, error)
	// Create stores item and returns the assigned id.
	Create(ctx context.Context, item *models.WatchListItem) (int64, error)
	// DeleteByIDs removes the given records and returns how many were removed.
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
}
