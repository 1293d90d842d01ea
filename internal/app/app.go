// Package app is the composition root: it turns a Config into a ready HTTP
// handler with every store, service and middleware wired in.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/octodock/marketplace-api/internal/api"
	"github.com/octodock/marketplace-api/internal/api/handler"
	"github.com/octodock/marketplace-api/internal/core/ports"
	"github.com/octodock/marketplace-api/internal/core/service"
	"github.com/octodock/marketplace-api/internal/infrastructure/db/memory"
	mongostore "github.com/octodock/marketplace-api/internal/infrastructure/db/mongo"
	redisstore "github.com/octodock/marketplace-api/internal/infrastructure/db/redis"
	"github.com/octodock/marketplace-api/internal/pkg/config"
)

// App holds the router and the connections it owns.
type App struct {
	Echo    *echo.Echo
	log     zerolog.Logger
	closers []func(context.Context) error
}

type options struct {
	store    ports.Store
	hashCost int
}

// Option customises New.
type Option func(*options)

// WithStore uses store instead of the one selected by configuration.
func WithStore(store ports.Store) Option {
	return func(o *options) { o.store = store }
}

// WithHashCost overrides the bcrypt cost for password hashing.
func WithHashCost(cost int) Option {
	return func(o *options) { o.hashCost = cost }
}

// New connects the configured stores and builds the router.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{log: log}
	health := map[string]handler.Pinger{}

	store := o.store
	if store == nil {
		s, err := a.openStore(ctx, cfg)
		if err != nil {
			_ = a.Close(ctx)
			return nil, err
		}
		store = s
	}
	health["store"] = store

	authOpts := []service.AuthOption{}
	if o.hashCost > 0 {
		authOpts = append(authOpts, service.WithHashCost(o.hashCost))
	}
	if cfg.Redis.Addr != "" {
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			_ = a.Close(ctx)
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
		health["redis"] = handler.PingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })

		limiter := redisstore.NewLoginLimiter(client, cfg.Login.MaxAttempts, cfg.Login.Window)
		authOpts = append(authOpts, service.WithLoginLimiter(limiter))
		log.Info().Str("addr", cfg.Redis.Addr).Int("max_attempts", cfg.Login.MaxAttempts).Msg("login limiter enabled")
	}

	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	users := store.Users()

	a.Echo = api.NewRouter(api.Deps{
		Log:            log,
		Production:     cfg.IsProduction(),
		Tokens:         tokens,
		Users:          users,
		Auth:           service.NewAuthService(users, tokens, log, authOpts...),
		Accommodations: service.NewAccommodationService(store.Accommodations(), log),
		Bookings:       service.NewBookingService(store.Bookings(), store.Accommodations(), log),
		Reviews:        service.NewReviewService(store.Reviews(), store.Accommodations(), log),
		Messages:       service.NewMessageService(store.Messages(), users, log),
		Wishlist:       service.NewWishlistService(store.Wishlist(), store.Accommodations(), log),
		Health:         health,
	})
	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config) (ports.Store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		a.log.Warn().Msg("using in-memory store, data is lost on restart")
		return memory.NewStore(), nil
	case config.StoreMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Disconnect)

		store := mongostore.NewStore(db)
		if err := store.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		a.log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// Close releases every connection in reverse order of opening.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
