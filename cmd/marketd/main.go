package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-tokenauth"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Store is the combined persistence surface the service needs
type Store interface {
	tokenauth.IdentityStore
	tokenauth.ItemStore
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("marketd"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)
	logger := lgr.GetLogger("main")

	cfg, err := LoadConfig()
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	store, err := buildStore(ctx, cfg)
	if err != nil {
		logger.Error("store initialization failed", "error", err)
		os.Exit(1)
	}

	auther := tokenauth.NewAuthenticator(store, cfg).
		WithLogger(lgr.GetLogger("auth"))

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			AppName:       "marketd",
			StrictRouting: false,
		}))
	})

	srv.Router().WithLogger(lgr.GetLogger("router"))

	api := tokenauth.RegisterAPIRoutes(srv.Router(),
		tokenauth.WithAuthenticator(auther),
		tokenauth.WithItemStore(store),
		tokenauth.WithConfig(cfg),
		tokenauth.WithControllerLogger(lgr.GetLogger("api")),
	)
	api.Debug = cfg.Debug

	logger.Info("serving", "addr", cfg.Addr)
	srv.Serve(cfg.Addr)

	WaitExitSignal()
}

func buildStore(ctx context.Context, cfg *Config) (Store, error) {
	if cfg.DSN == "" {
		return tokenauth.NewMemoryStore().
			SeedUsers(fixtureUsers()...).
			SeedItems(fixtureItems()...), nil
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "unable to open database")
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	store := tokenauth.NewBunStore(db)
	if err := store.CreateSchema(ctx); err != nil {
		return nil, err
	}
	if err := store.Seed(ctx, fixtureUsers(), fixtureItems()); err != nil {
		return nil, err
	}

	return store, nil
}

func fixtureUsers() []*tokenauth.User {
	return []*tokenauth.User{
		{Email: "masgus2gd@example.com", Password: "12345", DisplayName: "User One"},
		{Email: "user2@example.com", Password: "pass456", DisplayName: "User Two"},
	}
}

func fixtureItems() []tokenauth.Item {
	return []tokenauth.Item{
		{Name: "Keyboard", Price: 250000},
		{Name: "Mouse", Price: 150000},
		{Name: "Monitor", Price: 1200000},
	}
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
