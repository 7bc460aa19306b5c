package catalog

import (
	"slices"
	"strings"

	"github.com/rogerio-castellano/capri-storefront/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Result is the page of products to render plus the counts derived from the filtered set.
type Result struct {
	Items      []models.Product
	Total      int
	TotalPages int
	Page       int
	PageSize   int
}

// Empty reports a filtered set with no matches ("no results", not a phantom page).
func (r Result) Empty() bool {
	return r.Total == 0
}

// Pages lists the page numbers 1..TotalPages for pagination controls.
func (r Result) Pages() []int {
	pages := make([]int, r.TotalPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// Pipeline filters, sorts and paginates product lists. Names are ordered with the
// collation rules of its locale.
type Pipeline struct {
	locale language.Tag
}

// NewPipeline builds a pipeline for a BCP 47 locale; unparseable locales fall back to Spanish.
func NewPipeline(locale string) *Pipeline {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Spanish
	}
	return &Pipeline{locale: tag}
}

// Apply runs search, category, brand, sort and paginate over products in that order.
// The input slice is never modified.
func (p *Pipeline) Apply(products []models.Product, c Criteria) Result {
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}

	filtered := make([]models.Product, 0, len(products))
	needle := strings.ToLower(c.Search)
	for _, prod := range products {
		if matchesCriteria(prod, needle, c) {
			filtered = append(filtered, prod)
		}
	}

	p.sort(filtered, c.Sort)
	return paginate(filtered, c.Page, c.PageSize)
}

// Apply uses a Spanish-collated pipeline.
func Apply(products []models.Product, c Criteria) Result {
	return NewPipeline("es").Apply(products, c)
}

func matchesCriteria(p models.Product, needle string, c Criteria) bool {
	if needle != "" && !matchesSearch(p, needle) {
		return false
	}
	if c.Category != "" && p.Category != c.Category {
		return false
	}
	if c.Brand != "" && p.Brand != c.Brand {
		return false
	}
	return true
}

// matchesSearch expects needle already lower-cased.
func matchesSearch(p models.Product, needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) {
		return true
	}
	return p.Brand != "" && strings.Contains(strings.ToLower(p.Brand), needle)
}

func (p *Pipeline) sort(products []models.Product, key SortKey) {
	switch ParseSortKey(string(key)) {
	case SortByPriceAsc:
		slices.SortStableFunc(products, func(a, b models.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortByPriceDesc:
		slices.SortStableFunc(products, func(a, b models.Product) int {
			return b.Price.Cmp(a.Price)
		})
	default:
		// Collator keeps internal buffers and is not safe to share between goroutines.
		col := collate.New(p.locale)
		slices.SortStableFunc(products, func(a, b models.Product) int {
			return col.CompareString(a.Name, b.Name)
		})
	}
}

func paginate(products []models.Product, page, size int) Result {
	total := len(products)
	totalPages := (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	page = clamp(page, 1, totalPages)

	start := clamp((page-1)*size, 0, total)
	end := clamp(start+size, start, total)

	return Result{
		Items:      products[start:end],
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   size,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
