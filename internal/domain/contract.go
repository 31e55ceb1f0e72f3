package domain

import "context"

// Repository is the storage contract every entity satisfies.
//
// GetByID and GetByNaturalKey return (nil, nil) when the record is absent or
// soft-deleted. Update and Delete report ErrNotFound for absent records, and
// Create reports ErrConstraintViolation when a unique constraint trips.
type Repository[T any] interface {
	GetAll(ctx context.Context, filter Filter) (*PaginatedResult[T], error)
	GetByID(ctx context.Context, id uint) (*T, error)
	GetByNaturalKey(ctx context.Context, key string) (*T, error)
	Create(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uint, actingUserID uint) error
	Exists(ctx context.Context, id uint) (bool, error)
	ExistsByNaturalKey(ctx context.Context, key string, excludeID *uint) (bool, error)
}

// Service is the business contract exposed to handlers. C and U are the
// create and update inputs, D the transfer object returned to API consumers.
type Service[C, U, D any] interface {
	GetAll(ctx context.Context, filter Filter) (*PaginatedResult[D], error)
	GetByID(ctx context.Context, id uint) (D, error)
	GetByNaturalKey(ctx context.Context, key string) (D, error)
	Create(ctx context.Context, in C, actingUserID uint) (D, error)
	Update(ctx context.Context, id uint, in U, actingUserID uint) (D, error)
	Delete(ctx context.Context, id uint, actingUserID uint) error
}
