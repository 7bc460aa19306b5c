package handlers

import (
	"context"
	"io"
	"math/rand/v2"
	"time"

	"github.com/rogerio-castellano/capri-storefront/internal/catalog"
	"github.com/rogerio-castellano/capri-storefront/internal/gateway"
	"github.com/rogerio-castellano/capri-storefront/internal/models"
	"github.com/rogerio-castellano/capri-storefront/internal/session"
	"github.com/sirupsen/logrus"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (models.Identity, error)
	Register(ctx context.Context, u models.User) (models.Identity, error)
	ListUsers(ctx context.Context, page, size int) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
	UpdateUser(ctx context.Context, u models.User) (models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type ProductService interface {
	catalog.ProductSource
	ByID(ctx context.Context, id int64) (models.Product, error)
	SearchBy(ctx context.Context, field gateway.SearchField, value string, page, size int) ([]models.Product, error)
	Create(ctx context.Context, p models.Product) (models.Product, error)
	Update(ctx context.Context, p models.Product) (models.Product, error)
	Delete(ctx context.Context, id int64) error
	Restock(ctx context.Context, productID int64, qty int) error
}

type CartService interface {
	Add(ctx context.Context, userID, productID int64, qty int) (models.Cart, error)
	View(ctx context.Context, userID int64) (models.Cart, error)
	Clear(ctx context.Context, userID int64) error
	Remove(ctx context.Context, userID, productID int64) (models.Cart, error)
}

type OrderService interface {
	Create(ctx context.Context, userID int64, address string) (models.Order, error)
	ByID(ctx context.Context, id int64) (models.Order, error)
	ForUser(ctx context.Context, userID int64) gateway.OrdersResult
	Payment(ctx context.Context, id int64) (models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id int64, state string) (models.Payment, error)
	SetPaymentReference(ctx context.Context, id int64, ref string) (models.Payment, error)
}

type ImageUploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Deps are the collaborators a Server renders on top of. Images may be nil, which
// disables file uploads in the product form.
type Deps struct {
	Sessions *session.Store
	Auth     AuthService
	Products ProductService
	Cart     CartService
	Orders   OrderService
	Images   ImageUploader
	Logger   logrus.FieldLogger
}

type Options struct {
	PageSize      int
	FetchSize     int
	FeaturedCount int
	AdminPageSize int
	Locale        string
	RedirectDelay time.Duration
	// NewRand seeds the home page shuffle. Defaults to a time-seeded PCG.
	NewRand func() *rand.Rand
}

const defaultAdminPageSize = 10

type Server struct {
	sessions *session.Store
	auth     AuthService
	products ProductService
	cart     CartService
	orders   OrderService
	images   ImageUploader
	log      logrus.FieldLogger

	loader   *catalog.Loader
	pipeline *catalog.Pipeline
	views    *views
	opts     Options
}

func NewServer(deps Deps, opts Options) (*Server, error) {
	if opts.PageSize <= 0 {
		opts.PageSize = catalog.DefaultPageSize
	}
	if opts.FeaturedCount <= 0 {
		opts.FeaturedCount = catalog.DefaultFeaturedCount
	}
	if opts.AdminPageSize <= 0 {
		opts.AdminPageSize = defaultAdminPageSize
	}
	if opts.RedirectDelay <= 0 {
		opts.RedirectDelay = 3 * time.Second
	}
	if opts.NewRand == nil {
		opts.NewRand = func() *rand.Rand {
			return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
		}
	}

	v, err := loadViews()
	if err != nil {
		return nil, err
	}

	return &Server{
		sessions: deps.Sessions,
		auth:     deps.Auth,
		products: deps.Products,
		cart:     deps.Cart,
		orders:   deps.Orders,
		images:   deps.Images,
		log:      deps.Logger,
		loader:   catalog.NewLoader(deps.Products, opts.FetchSize),
		pipeline: catalog.NewPipeline(opts.Locale),
		views:    v,
		opts:     opts,
	}, nil
}
