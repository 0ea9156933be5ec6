package repository

import (
	"context"

	"github.com/Kosench/go-shortlink/internal/model"
)

// LinkRepository is the storage contract for short links. Uniqueness of
// Short is enforced here, not by callers.
type LinkRepository interface {
	// Create inserts link and sets its ID. Returns ErrDuplicateKey when the
	// short code is already stored.
	Create(ctx context.Context, link *model.Link) error
	GetByShortCode(ctx context.Context, shortCode string) (*model.Link, error)
	// ExistsByShortCode is advisory only.
	ExistsByShortCode(ctx context.Context, shortCode string) (bool, error)
	// IncrementVisits adds one visit atomically and returns the updated link.
	IncrementVisits(ctx context.Context, shortCode string) (*model.Link, error)
}

var (
	_ LinkRepository = (*SQLLinkRepository)(nil)
	_ LinkRepository = (*CachedLinkRepository)(nil)
)
