package repository

import (
	"context"

	"github.com/sakif/checkin-bot/internal/model"
)

// Store is the durable home of the check-in data: load once at startup,
// save synchronously after every mutation. A failed Load degrades to an
// empty store and a failed Save leaves in-memory state authoritative;
// both are logged by the caller, never surfaced to a user.
type Store interface {
	Load(ctx context.Context) (*model.ContextStore, error)
	Save(ctx context.Context, store *model.ContextStore) error
	Close() error
}
