package catalog

import (
	"math/rand/v2"

	"github.com/rogerio-castellano/capri-storefront/internal/models"
)

// DefaultFeaturedCount is how many products the home page highlights.
const DefaultFeaturedCount = 9

// Featured returns up to n products picked uniformly at random, without duplicates.
// The input slice is not reordered.
func Featured(products []models.Product, rng *rand.Rand, n int) []models.Product {
	shuffled := make([]models.Product, len(products))
	copy(shuffled, products)

	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if n < 0 {
		n = 0
	}
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
