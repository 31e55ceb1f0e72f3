package user

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/backoffice/internal/crud"
	"github.com/simp-lee/backoffice/internal/domain"
	"github.com/simp-lee/backoffice/internal/pkg"
)

// Spec describes how users are queried and stored. Emails are the natural
// key and are stored lower case.
var Spec = crud.Spec{
	Name:          "user",
	Resource:      "users",
	KeyColumn:     "email",
	KeyField:      "email",
	SearchColumns: []string{"name", "email"},
	SortFields: map[string]string{
		"name": "name",
	},
	Delete:   crud.SoftDelete,
	Preloads: []string{"Roles"},
}

// Repository adds email lookup to the generic user repository.
type Repository struct {
	*crud.Repository[domain.User, *domain.User]
}

// NewRepository creates a user repository backed by db.
func NewRepository(db *gorm.DB, clock pkg.Clock) *Repository {
	return &Repository{Repository: crud.NewRepository[domain.User](db, Spec, clock)}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Repository: r.Repository.WithTx(tx)}
}

// WithLimits returns a repository that pages with l.
func (r *Repository) WithLimits(l pkg.PageLimits) *Repository {
	return &Repository{Repository: r.Repository.WithLimits(l)}
}

// GetByEmail returns the live user with email, matched case-insensitively,
// or nil when there is none.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.GetByNaturalKey(ctx, strings.ToLower(strings.TrimSpace(email)))
}
