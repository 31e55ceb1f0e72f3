package client

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/simp-lee/backoffice/internal/domain"
)

// ListState is the filter bar and table state of one list screen. It
// round-trips through URL query parameters so a view can be bookmarked.
type ListState struct {
	SearchTerm     string
	IsActive       *bool
	IncludeDeleted bool
	PageNumber     int
	PageSize       int
	SortBy         string
	SortOrder      domain.SortOrder
	// Filters holds entity filters and minX/maxX range bounds by parameter name.
	Filters map[string]string
}

// NewListState returns the first page with the given size. A size below 1
// leaves the choice to the server.
func NewListState(pageSize int) ListState {
	if pageSize < 0 {
		pageSize = 0
	}
	return ListState{PageNumber: 1, PageSize: pageSize, SortOrder: domain.SortAsc}
}

// ParseListState reads state back from query parameters. Malformed values
// are dropped rather than rejected; the server validates what is sent.
func ParseListState(q url.Values) ListState {
	s := NewListState(0)
	for key, values := range q {
		if len(values) == 0 {
			continue
		}
		v := strings.TrimSpace(values[0])
		if v == "" {
			continue
		}
		switch key {
		case "searchTerm":
			s.SearchTerm = v
		case "isActive":
			if b, err := strconv.ParseBool(v); err == nil {
				s.IsActive = &b
			}
		case "includeDeleted":
			s.IncludeDeleted, _ = strconv.ParseBool(v)
		case "pageNumber":
			if n, err := strconv.Atoi(v); err == nil && n >= 1 {
				s.PageNumber = n
			}
		case "pageSize":
			if n, err := strconv.Atoi(v); err == nil && n >= 1 {
				s.PageSize = n
			}
		case "sortBy":
			s.SortBy = v
		case "sortOrder":
			if strings.EqualFold(v, string(domain.SortDesc)) {
				s.SortOrder = domain.SortDesc
			}
		default:
			s.setFilter(key, v)
		}
	}
	return s
}

// Values renders the state as query parameters. Defaults are omitted.
func (s ListState) Values() url.Values {
	q := url.Values{}
	if s.SearchTerm != "" {
		q.Set("searchTerm", s.SearchTerm)
	}
	if s.IsActive != nil {
		q.Set("isActive", strconv.FormatBool(*s.IsActive))
	}
	if s.IncludeDeleted {
		q.Set("includeDeleted", "true")
	}
	if s.PageNumber > 1 {
		q.Set("pageNumber", strconv.Itoa(s.PageNumber))
	}
	if s.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(s.PageSize))
	}
	if s.SortBy != "" {
		q.Set("sortBy", s.SortBy)
		if s.SortOrder == domain.SortDesc {
			q.Set("sortOrder", string(domain.SortDesc))
		}
	}
	for k, v := range s.Filters {
		q.Set(k, v)
	}
	return q
}

// Encode returns the query string, keys sorted.
func (s ListState) Encode() string {
	return s.Values().Encode()
}

// SetFilter changes one filter and goes back to the first page. An empty
// value clears the filter. searchTerm and isActive are routed to their
// own fields.
func (s *ListState) SetFilter(key, value string) {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	switch key {
	case "":
		return
	case "searchTerm":
		s.SearchTerm = value
	case "isActive":
		s.IsActive = nil
		if b, err := strconv.ParseBool(value); err == nil {
			s.IsActive = &b
		}
	case "includeDeleted":
		s.IncludeDeleted, _ = strconv.ParseBool(value)
	default:
		s.setFilter(key, value)
	}
	s.PageNumber = 1
}

// SetSearch is SetFilter for the free-text search box.
func (s *ListState) SetSearch(term string) {
	s.SetFilter("searchTerm", term)
}

func (s *ListState) setFilter(key, value string) {
	if value == "" {
		delete(s.Filters, key)
		return
	}
	if s.Filters == nil {
		s.Filters = map[string]string{}
	}
	s.Filters[key] = value
}

// FilterKeys returns the set entity filter names, sorted.
func (s ListState) FilterKeys() []string {
	keys := make([]string, 0, len(s.Filters))
	for k := range s.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetPageIndex moves to the 0-based page index used by table widgets.
func (s *ListState) SetPageIndex(i int) {
	s.PageNumber = max(i, 0) + 1
}

// PageIndex is the 0-based counterpart of PageNumber.
func (s ListState) PageIndex() int {
	return max(s.PageNumber, 1) - 1
}

// ToggleSort handles a column header click: the same column flips
// direction, a new column starts ascending. The page resets to 1 since the
// server re-sorts the whole result.
func (s *ListState) ToggleSort(field string) {
	field = strings.TrimSpace(field)
	if field == "" {
		return
	}
	if s.SortBy == field && s.SortOrder != domain.SortDesc {
		s.SortOrder = domain.SortDesc
	} else {
		s.SortBy = field
		s.SortOrder = domain.SortAsc
	}
	s.PageNumber = 1
}
