package pkg

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/simp-lee/backoffice/internal/domain"
)

const (
	defaultPageNumber = 1
	defaultPageSize   = 20
	maxPageSize       = 100
	fallbackSort      = "id"
)

// PageLimits bounds the page size accepted from clients.
type PageLimits struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultPageLimits returns the built-in page size limits.
func DefaultPageLimits() PageLimits {
	return PageLimits{DefaultPageSize: defaultPageSize, MaxPageSize: maxPageSize}
}

// Apply fills in missing paging values and clamps oversized pages.
func (l PageLimits) Apply(f domain.Filter) domain.Filter {
	if l.DefaultPageSize < 1 {
		l.DefaultPageSize = defaultPageSize
	}
	if l.MaxPageSize < l.DefaultPageSize {
		l.MaxPageSize = l.DefaultPageSize
	}
	if f.PageNumber < 1 {
		f.PageNumber = defaultPageNumber
	}
	if f.PageSize < 1 {
		f.PageSize = l.DefaultPageSize
	}
	f.PageSize = min(f.PageSize, l.MaxPageSize)
	return f
}

// reservedParams lists query parameter names used for search/paging/sorting, not for field filters.
var reservedParams = map[string]bool{
	"searchTerm":     true,
	"isActive":       true,
	"includeDeleted": true,
	"pageNumber":     true,
	"pageSize":       true,
	"sortBy":         true,
	"sortOrder":      true,
}

// validFieldName matches only alphanumeric characters and underscores.
var validFieldName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ParseFilter extracts search, field filters, ranges, sorting, and paging from query params.
//
// Malformed paging values fall back to defaults and oversized pages are clamped.
// A malformed isActive, includeDeleted, or min*/max* value is a validation error.
// Parameters of the form minFoo/maxFoo become Ranges["foo"]; every other
// non-reserved, non-empty parameter becomes Equals[name].
func ParseFilter(c *gin.Context, limits PageLimits) (domain.Filter, error) {
	if limits.DefaultPageSize < 1 {
		limits.DefaultPageSize = defaultPageSize
	}
	if limits.MaxPageSize < limits.DefaultPageSize {
		limits.MaxPageSize = limits.DefaultPageSize
	}

	f := domain.Filter{
		SearchTerm: strings.TrimSpace(c.Query("searchTerm")),
		PageNumber: defaultPageNumber,
		PageSize:   limits.DefaultPageSize,
		SortBy:     strings.TrimSpace(c.Query("sortBy")),
		SortOrder:  domain.SortAsc,
		Equals:     map[string]string{},
		Ranges:     map[string]domain.Range{},
	}

	if n, err := strconv.Atoi(c.Query("pageNumber")); err == nil && n >= 1 {
		f.PageNumber = n
	}
	if n, err := strconv.Atoi(c.Query("pageSize")); err == nil && n >= 1 {
		f.PageSize = min(n, limits.MaxPageSize)
	}
	if strings.EqualFold(strings.TrimSpace(c.Query("sortOrder")), string(domain.SortDesc)) {
		f.SortOrder = domain.SortDesc
	}

	if v := strings.TrimSpace(c.Query("isActive")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return domain.Filter{}, domain.NewAppError(domain.CodeValidation, "isActive must be true or false", err)
		}
		f.IsActive = &b
	}
	if v := strings.TrimSpace(c.Query("includeDeleted")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return domain.Filter{}, domain.NewAppError(domain.CodeValidation, "includeDeleted must be true or false", err)
		}
		f.IncludeDeleted = b
	}

	for key, values := range c.Request.URL.Query() {
		if reservedParams[key] || len(values) == 0 {
			continue
		}
		value := strings.TrimSpace(values[0])
		if value == "" {
			continue
		}

		if field, isMin, ok := rangeField(key); ok {
			d, err := decimal.NewFromString(value)
			if err != nil {
				return domain.Filter{}, domain.NewAppError(domain.CodeValidation,
					fmt.Sprintf("%s must be a number", key), err)
			}
			r := f.Ranges[field]
			if isMin {
				r.Min = &d
			} else {
				r.Max = &d
			}
			f.Ranges[field] = r
			continue
		}

		f.Equals[key] = value
	}

	return f, nil
}

// rangeField splits "minUnitPrice" into ("unitPrice", true). Keys must have an
// upper-case letter after the prefix so plain names like "minute" stay filters.
func rangeField(key string) (field string, isMin bool, ok bool) {
	var rest string
	switch {
	case strings.HasPrefix(key, "min"):
		rest, isMin = key[3:], true
	case strings.HasPrefix(key, "max"):
		rest = key[3:]
	default:
		return "", false, false
	}
	r, size := utf8.DecodeRuneInString(rest)
	if size == 0 || !unicode.IsUpper(r) {
		return "", false, false
	}
	return string(unicode.ToLower(r)) + rest[size:], isMin, true
}

// Paginate returns a GORM scope that applies LIMIT and OFFSET based on the filter.
func Paginate(f domain.Filter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(f.Offset()).Limit(f.PageSize)
	}
}

// Sort returns a GORM scope that applies ORDER BY based on the filter.
//
// sortBy is looked up in allowed (API field name -> column). Unknown or unsafe
// fields fall back to the primary key. The primary key is always appended as a
// tie-breaker so pages stay stable when the sort column has duplicates.
func Sort(f domain.Filter, allowed map[string]string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		direction := "asc"
		if f.SortOrder == domain.SortDesc {
			direction = "desc"
		}

		column, ok := allowed[f.SortBy]
		if !ok || !validFieldName.MatchString(column) {
			return db.Order(fallbackSort + " asc")
		}
		if column == fallbackSort {
			return db.Order(fallbackSort + " " + direction)
		}
		return db.Order(column + " " + direction).Order(fallbackSort + " asc")
	}
}

// likeEscaper makes LIKE wildcards in a search term match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Search returns a GORM scope matching term as a case-insensitive substring
// of any of the given columns. % and _ in term match themselves.
func Search(term string, columns []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"

		conds := make([]string, 0, len(columns))
		args := make([]any, 0, len(columns))
		for _, col := range columns {
			if !validFieldName.MatchString(col) {
				continue
			}
			conds = append(conds, "LOWER("+col+`) LIKE ? ESCAPE '\'`)
			args = append(args, pattern)
		}
		if len(conds) == 0 {
			return db
		}
		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}

// Filter returns a GORM scope that applies equality conditions for the filter's
// Equals entries. Only names present in allowed (API field name -> column) are
// applied; others are silently ignored.
func Filter(f domain.Filter, allowed map[string]string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, key := range sortedKeys(f.Equals) {
			column, ok := allowed[key]
			if !ok || !validFieldName.MatchString(column) {
				continue
			}
			db = db.Where(column+" = ?", f.Equals[key])
		}
		return db
	}
}

// FilterInt is Filter for integer columns such as foreign keys. Values that do
// not parse as integers are skipped; callers validate them up front with
// IntFilterError.
func FilterInt(f domain.Filter, allowed map[string]string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, key := range sortedKeys(f.Equals) {
			column, ok := allowed[key]
			if !ok || !validFieldName.MatchString(column) {
				continue
			}
			n, err := strconv.ParseInt(f.Equals[key], 10, 64)
			if err != nil {
				continue
			}
			db = db.Where(column+" = ?", n)
		}
		return db
	}
}

// IntFilterError returns a validation error for the first integer filter in
// allowed whose value is not an integer.
func IntFilterError(f domain.Filter, allowed map[string]string) error {
	for _, key := range sortedKeys(f.Equals) {
		if _, ok := allowed[key]; !ok {
			continue
		}
		if _, err := strconv.ParseInt(f.Equals[key], 10, 64); err != nil {
			return domain.NewAppError(domain.CodeValidation, fmt.Sprintf("%s must be an integer", key), err)
		}
	}
	return nil
}

// Ranges returns a GORM scope that applies inclusive min/max bounds for the
// filter's Ranges entries whose names are present in allowed.
func Ranges(f domain.Filter, allowed map[string]string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, key := range sortedKeys(f.Ranges) {
			column, ok := allowed[key]
			if !ok || !validFieldName.MatchString(column) {
				continue
			}
			r := f.Ranges[key]
			if r.Min != nil {
				db = db.Where(column+" >= ?", *r.Min)
			}
			if r.Max != nil {
				db = db.Where(column+" <= ?", *r.Max)
			}
		}
		return db
	}
}

// Lifecycle returns a GORM scope for the isActive tri-state and the soft-delete
// exclusion. softDelete is false for tables without soft delete.
func Lifecycle(f domain.Filter, softDelete bool) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.IsActive != nil {
			db = db.Where("is_active = ?", *f.IsActive)
		}
		if softDelete && !f.IncludeDeleted {
			db = db.Where("is_deleted = ?", false)
		}
		return db
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
