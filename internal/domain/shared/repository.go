package shared

import "context"

// Store is the backing store of a movable collection.
// FindByID returns ErrNotFound when no record has the id.
type Store[T Movable] interface {
	FindAll(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id int) (T, error)
	Save(ctx context.Context, entity T) (T, error)
	SaveAll(ctx context.Context, entities []T) ([]T, error)
	Delete(ctx context.Context, entity T) error
	DeleteAll(ctx context.Context) error
}

// AccountStore is a store whose records can be read and reset per owning account.
// Ownership is the audit creator.
type AccountStore[T Movable] interface {
	Store[T]
	FindAllForAccount(ctx context.Context, owner string) ([]T, error)
	DeleteAllForAccount(ctx context.Context, owner string) error
}

// ListCache keeps complete ordered lists of a collection under logical keys.
// Get reports a miss with found == false; an error means the cache itself failed.
type ListCache[T any] interface {
	Get(ctx context.Context, key string) (items []T, found bool, err error)
	Put(ctx context.Context, key string, items []T) error
	Evict(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
