// Package crud implements the paginated, filtered list contract shared by
// every back-office entity: a generic GORM repository, a service that enforces
// natural-key uniqueness and translates storage errors, and a REST handler.
package crud

import (
	"maps"

	"github.com/simp-lee/backoffice/internal/domain"
)

// DeletePolicy selects how Delete removes a record.
type DeletePolicy int

const (
	// SoftDelete flags the row as deleted and hides it from reads.
	SoftDelete DeletePolicy = iota
	// HardDelete removes the row and its owned children.
	HardDelete
)

// Entity constrains P to be a pointer to T that carries audit fields and a natural key.
type Entity[T any] interface {
	*T
	domain.Record
}

// Spec describes how one entity is queried and stored.
//
// Map keys are API field names as they appear in query strings; values are
// database columns.
type Spec struct {
	// Name is the human-readable entity name used in error messages.
	Name string
	// Resource is the permission resource and route segment, e.g. "customers".
	Resource string
	// KeyColumn and KeyField name the natural key in storage and in the API.
	KeyColumn string
	KeyField  string

	SearchColumns []string
	EqualFilters  map[string]string
	IntFilters    map[string]string
	RangeFilters  map[string]string
	SortFields    map[string]string

	Delete DeletePolicy
	// Preloads are associations loaded for single-record reads. List rows never
	// carry children.
	Preloads []string
}

// SoftDeletes reports whether the entity uses soft delete.
func (s Spec) SoftDeletes() bool {
	return s.Delete == SoftDelete
}

// sortFields returns SortFields plus the columns every audited entity can sort by.
func (s Spec) sortFields() map[string]string {
	fields := map[string]string{
		"id":        "id",
		"isActive":  "is_active",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	}
	if s.KeyField != "" && s.KeyColumn != "" {
		fields[s.KeyField] = s.KeyColumn
	}
	maps.Copy(fields, s.SortFields)
	return fields
}
