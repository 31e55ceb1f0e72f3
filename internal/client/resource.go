package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/simp-lee/backoffice/internal/domain"
)

// Resource is the uniform REST surface of one entity. T is the record shape
// the caller decodes into; map[string]any works for any entity.
type Resource[T any] struct {
	c    *Client
	name string
}

// NewResource binds the entity collection name, e.g. "customers".
func NewResource[T any](c *Client, name string) *Resource[T] {
	return &Resource[T]{c: c, name: name}
}

// Name returns the collection name.
func (r *Resource[T]) Name() string { return r.name }

// List fetches the page described by state.
func (r *Resource[T]) List(ctx context.Context, state ListState) (*domain.PaginatedResult[T], error) {
	return do[*domain.PaginatedResult[T]](ctx, r.c, http.MethodGet, "/"+r.name, state.Values(), nil)
}

// Get fetches the full record, children included.
func (r *Resource[T]) Get(ctx context.Context, id uint) (T, error) {
	return do[T](ctx, r.c, http.MethodGet, r.path(id), nil, nil)
}

// GetByCode fetches a record by its natural key.
func (r *Resource[T]) GetByCode(ctx context.Context, code string) (T, error) {
	return do[T](ctx, r.c, http.MethodGet, fmt.Sprintf("/%s/code/%s", r.name, url.PathEscape(code)), nil, nil)
}

// Create posts body and returns the stored record.
func (r *Resource[T]) Create(ctx context.Context, body any) (T, error) {
	return do[T](ctx, r.c, http.MethodPost, "/"+r.name, nil, body)
}

// Update replaces the record's editable fields with body.
func (r *Resource[T]) Update(ctx context.Context, id uint, body any) (T, error) {
	return do[T](ctx, r.c, http.MethodPut, r.path(id), nil, body)
}

// Delete removes the record; soft or hard per entity policy.
func (r *Resource[T]) Delete(ctx context.Context, id uint) error {
	_, err := do[struct{}](ctx, r.c, http.MethodDelete, r.path(id), nil, nil)
	return err
}

func (r *Resource[T]) path(id uint) string {
	return fmt.Sprintf("/%s/%d", r.name, id)
}
