package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditedEntity is the common base struct for all audited records.
// It replaces gorm.Model to avoid the implicit soft delete behavior of DeletedAt:
// deletion is an explicit IsDeleted flag that list and get queries exclude.
//
// UpdatedAt is not auto-managed by GORM so it stays nil until the first update.
type AuditedEntity struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	IsActive  bool       `gorm:"not null" json:"isActive"`
	IsDeleted bool       `gorm:"not null;index" json:"isDeleted"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime:false" json:"createdAt"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
	CreatedBy *uint      `json:"createdBy"`
	UpdatedBy *uint      `json:"updatedBy"`
}

// Audit returns the embedded audit fields. Promoted to every entity embedding
// AuditedEntity, it lets generic code stamp audit columns.
func (a *AuditedEntity) Audit() *AuditedEntity {
	return a
}

// Record is implemented by every entity handled through the generic
// repository and service.
type Record interface {
	Audit() *AuditedEntity
	NaturalKey() string
}

// SortOrder is the direction of a list sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Range is an inclusive numeric range; nil bounds are open.
type Range struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

// Filter holds list search, filter, sort, and pagination parameters.
// Equals and Ranges are keyed by API field name; each entity decides which
// names it honors.
type Filter struct {
	SearchTerm     string
	IsActive       *bool
	Equals         map[string]string
	Ranges         map[string]Range
	IncludeDeleted bool
	PageNumber     int
	PageSize       int
	SortBy         string
	SortOrder      SortOrder
}

// Offset returns the number of rows skipped before the current page.
func (f Filter) Offset() int {
	if f.PageNumber < 1 {
		return 0
	}
	return (f.PageNumber - 1) * f.PageSize
}

// PaginatedResult is the envelope for one page of a list.
type PaginatedResult[T any] struct {
	Items           []T   `json:"items"`
	TotalCount      int64 `json:"totalCount"`
	PageNumber      int   `json:"pageNumber"`
	PageSize        int   `json:"pageSize"`
	TotalPages      int   `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// NewPaginatedResult builds a PaginatedResult and computes the derived page fields.
func NewPaginatedResult[T any](items []T, totalCount int64, pageNumber, pageSize int) *PaginatedResult[T] {
	if items == nil {
		items = []T{}
	}

	totalPages := 0
	if pageSize > 0 {
		totalPages = int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	}

	return &PaginatedResult[T]{
		Items:           items,
		TotalCount:      totalCount,
		PageNumber:      pageNumber,
		PageSize:        pageSize,
		TotalPages:      totalPages,
		HasNextPage:     pageNumber < totalPages,
		HasPreviousPage: pageNumber > 1,
	}
}

// MapPage converts every item of a page, keeping the pagination metadata.
func MapPage[T, D any](page *PaginatedResult[T], fn func(*T) D) *PaginatedResult[D] {
	if page == nil {
		return nil
	}
	items := make([]D, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, fn(&page.Items[i]))
	}
	return &PaginatedResult[D]{
		Items:           items,
		TotalCount:      page.TotalCount,
		PageNumber:      page.PageNumber,
		PageSize:        page.PageSize,
		TotalPages:      page.TotalPages,
		HasNextPage:     page.HasNextPage,
		HasPreviousPage: page.HasPreviousPage,
	}
}
