package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rogerio-castellano/capri-storefront/internal/config"
	"github.com/rogerio-castellano/capri-storefront/internal/db"
	"github.com/rogerio-castellano/capri-storefront/internal/gateway"
	"github.com/rogerio-castellano/capri-storefront/internal/http/handlers"
	rl "github.com/rogerio-castellano/capri-storefront/internal/http/rate_limiter"
	"github.com/rogerio-castellano/capri-storefront/internal/http/router"
	"github.com/rogerio-castellano/capri-storefront/internal/logging"
	"github.com/rogerio-castellano/capri-storefront/internal/redissvc"
	"github.com/rogerio-castellano/capri-storefront/internal/session"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

// @title Capri Storefront API
// @version 1.0
// @description JSON endpoints of the Capri perfumery storefront.
// @host localhost:8080
// @BasePath /
func main() {
	app := &cli.App{
		Name:  "storefront",
		Usage: "Capri perfumery storefront",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a config file (defaults to ./config.yaml when present)",
				EnvVars: []string{"STOREFRONT_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the storefront web server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "create the postgres session table",
				Action: migrate,
			},
		},
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("storefront stopped")
	}
}

func load(c *cli.Context) (*config.Config, *logrus.Logger, error) {
	bootstrap := logging.New("info", "text")
	cfg, err := config.Load(c.String("config"), bootstrap)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(cfg.Log.Level, cfg.Log.Format), nil
}

func migrate(c *cli.Context) error {
	cfg, logger, err := load(c)
	if err != nil {
		return err
	}

	database, err := db.Connect(c.Context, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := session.EnsureSchema(c.Context, database); err != nil {
		return err
	}
	logger.Info("Session table ready")
	return nil
}

func serve(c *cli.Context) error {
	cfg, logger, err := load(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slot, closeSlot, err := sessionSlot(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSlot()
	sessions := session.NewStore(slot, logger)

	gw := gateway.New(cfg.Gateways(), logger)
	deps := handlers.Deps{
		Sessions: sessions,
		Auth:     gw.Auth,
		Products: gw.Products,
		Cart:     gw.Cart,
		Orders:   gw.Orders,
		Logger:   logger,
	}
	if url := cfg.ImageUploadURL(); url != "" {
		deps.Images = gateway.NewImageHost(url, cfg.Images.UploadPreset, nil, logger)
	} else {
		logger.Warn("Image uploads disabled: images.cloud_name is not set")
	}

	srv, err := handlers.NewServer(deps, handlers.Options{
		PageSize:      cfg.Catalog.PageSize,
		FetchSize:     cfg.Catalog.FetchSize,
		FeaturedCount: cfg.Catalog.Featured,
		Locale:        cfg.Catalog.Locale,
		RedirectDelay: cfg.Checkout.RedirectDelay,
	})
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	limiter := rl.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst, logger, cfg.RateLimit.TrustedProxies...)
	httpServer := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: router.NewRouter(router.Config{
			Server:       srv,
			Session:      sessions,
			LoginLimiter: limiter,
			Logger:       logger,
		}),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.WithFields(logrus.Fields{
			"addr":    cfg.Server.Addr,
			"session": cfg.Session.Backend,
		}).Info("Server running")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return limiter.StartVisitorCleanupLoop(gctx, rl.DefaultCleanupInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Warn("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// sessionSlot builds the slot for session.backend together with a func releasing
// whatever connection it holds.
func sessionSlot(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (session.Slot, func(), error) {
	cookie := session.CookieOptions{Name: cfg.Session.CookieName, Secure: cfg.Session.Secure}
	noop := func() {}

	switch cfg.Session.Backend {
	case config.SessionRedis:
		svc, err := redissvc.Connect(ctx, redissvc.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		slot := session.NewServerSlot(session.NewRedisBackend(svc.Rdb()), cookie, logger)
		return slot, func() { svc.Close() }, nil

	case config.SessionPostgres:
		database, err := db.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		if err := session.EnsureSchema(ctx, database); err != nil {
			database.Close()
			return nil, nil, err
		}
		slot := session.NewServerSlot(session.NewPostgresBackend(database), cookie, logger)
		return slot, closer(database), nil

	case config.SessionMemory:
		return session.NewServerSlot(session.NewMemoryBackend(), cookie, logger), noop, nil

	default:
		slot, err := session.NewCookieSlot(cookie, cfg.Session.Secret)
		if err != nil {
			return nil, nil, err
		}
		return slot, noop, nil
	}
}

func closer(database *sql.DB) func() {
	return func() { database.Close() }
}
