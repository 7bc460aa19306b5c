package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/rogerio-castellano/capri-storefront/internal/models"
)

// DefaultFetchSize is the page size used when pulling the whole catalog.
const DefaultFetchSize = 100

// maxPages bounds a single load in case the backend ignores the page parameter.
const maxPages = 1000

// ProductSource is the part of the catalog backend the loader needs.
type ProductSource interface {
	All(ctx context.Context, page, size int) ([]models.Product, error)
}

// Snapshot is the product list of the most recently started fetch that completed.
type Snapshot struct {
	Products  []models.Product
	FetchedAt time.Time
	token     uint64
}

// Loader fetches the full product list on every call. Each fetch takes a request token;
// a fetch that completes after a newer one has been recorded is returned to its caller
// but never replaces the shared snapshot.
type Loader struct {
	source    ProductSource
	fetchSize int
	now       func() time.Time

	mu     sync.Mutex
	issued uint64
	latest Snapshot
}

func NewLoader(source ProductSource, fetchSize int) *Loader {
	if fetchSize <= 0 {
		fetchSize = DefaultFetchSize
	}
	return &Loader{source: source, fetchSize: fetchSize, now: time.Now}
}

// Load returns the freshly fetched list, reading pages until the backend returns a short
// one. On error the list is nil: callers render an empty catalog and show the error,
// never a stale or partial list.
func (l *Loader) Load(ctx context.Context) ([]models.Product, error) {
	token := l.begin()

	products := []models.Product{}
	for page := 0; page < maxPages; page++ {
		batch, err := l.source.All(ctx, page, l.fetchSize)
		if err != nil {
			return nil, err
		}
		products = append(products, batch...)
		if len(batch) < l.fetchSize {
			break
		}
	}

	l.commit(token, products)
	return products, nil
}

// Snapshot returns the latest recorded list, if any fetch has completed.
func (l *Loader) Snapshot() (Snapshot, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.latest, l.latest.token != 0
}

func (l *Loader) begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.issued++
	return l.issued
}

func (l *Loader) commit(token uint64, products []models.Product) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if token <= l.latest.token {
		return false
	}
	l.latest = Snapshot{Products: products, FetchedAt: l.now(), token: token}
	return true
}
