package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskmanager-api/internal/config"
	"github.com/phrazzld/taskmanager-api/internal/platform/cache"
	"github.com/phrazzld/taskmanager-api/internal/platform/gemini"
	"github.com/phrazzld/taskmanager-api/internal/platform/mongodb"
	"github.com/phrazzld/taskmanager-api/internal/platform/postgres"
	"github.com/phrazzld/taskmanager-api/internal/service"
	"github.com/phrazzld/taskmanager-api/internal/store"
	"github.com/phrazzld/taskmanager-api/internal/suggest"
	"github.com/redis/go-redis/v9"
)

// closeTimeout bounds how long each resource may take to shut down.
const closeTimeout = 5 * time.Second

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	documents   store.DocumentStore
	taskService service.TaskService
	suggester   suggest.Suggester

	// closers release connections in reverse order of acquisition.
	closers []namedCloser
}

type namedCloser struct {
	name  string
	close func(ctx context.Context) error
}

// newApplication connects to the configured backends and wires the services.
// Everything acquired before a failure is released again.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{config: cfg, logger: logger}

	if err := app.connect(ctx); err != nil {
		app.cleanup()
		return nil, err
	}
	if err := app.wire(); err != nil {
		app.cleanup()
		return nil, err
	}
	return app, nil
}

// connect opens the document store, the optional list cache and the
// suggestion engine.
func (app *application) connect(ctx context.Context) error {
	cfg := app.config

	documents, err := app.openStore(ctx)
	if err != nil {
		return err
	}
	app.documents = documents

	if cfg.Cache.Enabled() {
		client, err := cache.Connect(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.addCloser("redis", func(context.Context) error { return client.Close() })
		app.useListCache(client)
	}

	app.suggester, err = newSuggester(ctx, cfg, app.logger)
	return err
}

// useListCache wraps app.documents in a Redis list cache. The cache counters
// are logged on shutdown, before the client is closed.
func (app *application) useListCache(client redis.UniversalClient) {
	ttl := app.config.Cache.TTL
	listCache := cache.NewListCache(app.documents, client, cache.DefaultPrefix, ttl, app.logger)
	app.documents = listCache

	app.addCloser("list_cache", func(context.Context) error {
		stats := listCache.Stats()
		app.logger.Info("list cache stats",
			slog.Uint64("hits", stats.Hits),
			slog.Uint64("misses", stats.Misses),
			slog.Uint64("sets", stats.Sets),
			slog.Uint64("invalidations", stats.Invalidations),
			slog.Uint64("errors", stats.Errors))
		return nil
	})
	app.logger.Info("list cache enabled", slog.Duration("ttl", ttl))
}

// wire builds the services on top of app.documents and app.suggester.
func (app *application) wire() error {
	taskService, err := service.NewTaskService(app.documents, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create task service: %w", err)
	}
	app.taskService = taskService

	app.logger.Info("application initialized",
		slog.String("store_driver", app.config.Store.Driver),
		slog.String("suggest_provider", app.config.Suggest.Provider),
		slog.Bool("cache_enabled", app.config.Cache.Enabled()))
	return nil
}

// openStore connects to the document database selected by store.driver.
func (app *application) openStore(ctx context.Context) (store.DocumentStore, error) {
	cfg := app.config.Store

	switch cfg.Driver {
	case config.DriverMongo:
		client, err := mongodb.Connect(ctx, cfg.URL, app.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
		}
		app.addCloser("mongodb", client.Disconnect)

		db := client.Database(cfg.Database)
		if err := mongodb.EnsureIndexes(ctx, db, service.TaskCollection); err != nil {
			return nil, err
		}
		return mongodb.NewDocumentStore(db, app.logger), nil

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.URL, app.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		app.addCloser("postgres", func(context.Context) error { return db.Close() })

		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, db, app.logger); err != nil {
				return nil, err
			}
		}
		return postgres.NewDocumentStore(db, app.logger), nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}

// newSuggester returns the suggestion engine selected by suggest.provider.
func newSuggester(ctx context.Context, cfg *config.Config, logger *slog.Logger) (suggest.Suggester, error) {
	switch cfg.Suggest.Provider {
	case config.ProviderGemini:
		s, err := gemini.NewSuggester(ctx, logger, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize gemini suggester: %w", err)
		}
		logger.Info("gemini suggester initialized", slog.String("model", cfg.LLM.ModelName))
		return s, nil
	case config.ProviderRules, "":
		return suggest.NewRuleSuggester(nil), nil
	default:
		return nil, fmt.Errorf("unsupported suggest provider %q", cfg.Suggest.Provider)
	}
}

// runMigrations applies the PostgreSQL migrations for the configured store.
func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.Store.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations require store driver %q, got %q", config.DriverPostgres, cfg.Store.Driver)
	}

	db, err := postgres.Open(ctx, cfg.Store.URL, logger)
	if err != nil {
		return err
	}
	defer closeDB(db, logger)

	return postgres.Migrate(ctx, db, logger)
}

func closeDB(db *sql.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("error closing database connection", slog.String("error", err.Error()))
	}
}

func (app *application) addCloser(name string, fn func(ctx context.Context) error) {
	app.closers = append(app.closers, namedCloser{name: name, close: fn})
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns when ctx is cancelled or the server fails.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		c := app.closers[i]
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		if err := c.close(ctx); err != nil {
			app.logger.Error("error closing resource",
				slog.String("resource", c.name),
				slog.String("error", err.Error()))
			errs = append(errs, err)
		}
		cancel()
	}
	app.closers = nil

	if err := errors.Join(errs...); err != nil {
		app.logger.Warn("application shutdown completed with errors")
		return
	}
	app.logger.Info("application shutdown completed")
}
