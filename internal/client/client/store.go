package client

import (
	"context"

	"github.com/dmitrijs2005/watchkeeper/internal/models"
)

// Store is the remote watch-list store.
type Store interface {
	Authenticate(ctx context.Context, creds models.Credentials) (*models.Envelope, error)
	Logout(ctx context.Context) (*models.Envelope, error)
	ListItems(ctx context.Context) (*models.Envelope, error)
	InsertItem(ctx context.Context, draft models.Draft) (*models.Envelope, error)
	DeleteItems(ctx context.Context, ids []int64) (*models.Envelope, error)
	Close() error
}
