package catalog

import "github.com/rogerio-castellano/capri-storefront/internal/models"

// Options are the values offered by the category and brand selectors.
type Options struct {
	Categories []string `json:"tipos"`
	Brands     []string `json:"marcas"`
}

// BuildOptions collects the distinct non-empty categories and brands of an unfiltered list.
func BuildOptions(products []models.Product) Options {
	opts := Options{Categories: []string{}, Brands: []string{}}
	seenCategory := map[string]bool{}
	seenBrand := map[string]bool{}

	for _, p := range products {
		if p.Category != "" && !seenCategory[p.Category] {
			seenCategory[p.Category] = true
			opts.Categories = append(opts.Categories, p.Category)
		}
		if p.Brand != "" && !seenBrand[p.Brand] {
			seenBrand[p.Brand] = true
			opts.Brands = append(opts.Brands, p.Brand)
		}
	}
	return opts
}
