package catalog

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultPageSize is the number of products shown per catalog page.
const DefaultPageSize = 9

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	SortByName      SortKey = "nombre"
	SortByPriceAsc  SortKey = "precio-asc"
	SortByPriceDesc SortKey = "precio-desc"
)

const defaultSortKey = SortByName

// ParseSortKey maps unknown or empty values to name-ascending.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortByPriceAsc, SortByPriceDesc:
		return SortKey(s)
	default:
		return defaultSortKey
	}
}

// Criteria holds the user-selected filter, sort and page parameters of the catalog view.
// Page is 1-based. Every With* filter setter resets Page to 1.
type Criteria struct {
	Search   string
	Category string
	Brand    string
	Sort     SortKey
	Page     int
	PageSize int
}

func NewCriteria(pageSize int) Criteria {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Criteria{Sort: defaultSortKey, Page: 1, PageSize: pageSize}
}

func (c Criteria) WithSearch(term string) Criteria {
	c.Search = term
	c.Page = 1
	return c
}

func (c Criteria) WithCategory(category string) Criteria {
	c.Category = category
	c.Page = 1
	return c
}

func (c Criteria) WithBrand(brand string) Criteria {
	c.Brand = brand
	c.Page = 1
	return c
}

func (c Criteria) WithSort(key SortKey) Criteria {
	c.Sort = ParseSortKey(string(key))
	c.Page = 1
	return c
}

func (c Criteria) WithPage(page int) Criteria {
	c.Page = page
	return c
}

// IsFiltered reports whether any filter narrows the list.
func (c Criteria) IsFiltered() bool {
	return c.Search != "" || c.Category != "" || c.Brand != ""
}

// FromQuery reads criteria from catalog URL parameters (q, tipo, marca, sort, page).
// A missing or invalid page means page 1, which is what a filter form submission
// produces since it never carries the page parameter.
func FromQuery(q url.Values, pageSize int) Criteria {
	c := NewCriteria(pageSize)
	c.Search = strings.TrimSpace(q.Get("q"))
	c.Category = q.Get("tipo")
	c.Brand = q.Get("marca")
	c.Sort = ParseSortKey(q.Get("sort"))
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		c.Page = p
	}
	return c
}

// Query encodes the criteria back into URL parameters, omitting defaults.
func (c Criteria) Query() url.Values {
	q := url.Values{}
	if c.Search != "" {
		q.Set("q", c.Search)
	}
	if c.Category != "" {
		q.Set("tipo", c.Category)
	}
	if c.Brand != "" {
		q.Set("marca", c.Brand)
	}
	if c.Sort != "" && c.Sort != defaultSortKey {
		q.Set("sort", string(c.Sort))
	}
	if c.Page > 1 {
		q.Set("page", strconv.Itoa(c.Page))
	}
	return q
}

// PageURL returns the catalog URL for page n under the same filters.
func (c Criteria) PageURL(path string, n int) string {
	q := c.WithPage(n).Query()
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
