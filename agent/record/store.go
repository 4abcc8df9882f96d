package record

import (
	"context"
	"errors"
)

// ErrNotFound is returned by lookups that match no contract.
var ErrNotFound = errors.New("contract not found")

// Store is the persistence contract the operation executor depends on.
// Every method maps to one logical statement; implementations guarantee
// per-statement atomicity but nothing across calls.
type Store interface {
	// GetAll returns every contract, newest creation first.
	GetAll(ctx context.Context) ([]Contract, error)
	GetByID(ctx context.Context, id string) (Contract, error)
	Insert(ctx context.Context, c Contract) error
	// UpdateByID applies the non-nil patch fields and returns the updated
	// contract. ErrNotFound when the id does not exist.
	UpdateByID(ctx context.Context, id string, patch Patch) (Contract, error)
	// FindFirstByNameContains does a case-insensitive containment match on
	// the contract name and returns the first hit in GetAll order.
	FindFirstByNameContains(ctx context.Context, text string) (Contract, error)
	DeleteByID(ctx context.Context, id string) error
	// DeleteByIDs removes all listed ids and returns how many rows went away.
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}
