package contentd

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/lumenworks/contentkit/contrib/contentd/pkg/store"
	"github.com/lumenworks/contentkit/contrib/contentd/pkg/store/memory"
	"github.com/lumenworks/contentkit/contrib/contentd/pkg/store/postgres"
	"github.com/lumenworks/contentkit/contrib/contentd/pkg/store/surrealdb"
	"github.com/lumenworks/contentkit/contrib/contentd/pkg/upload"
	"github.com/lumenworks/contentkit/internal/metrics"
	"github.com/lumenworks/contentkit/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

// App wires the store, upload service, event hub and metrics of one server.
type App struct {
	backend  store.Backend
	store    store.Store
	uploads  *upload.Service
	hub      *Hub
	config   *Config
	readOnly atomic.Bool

	registry *prometheus.Registry
	metrics  *metrics.Metrics
	logData  *logger.LogData
	logger   zerolog.Logger
}

// New opens the configured backend and upload storage.
func New(config *Config) (*App, error) {
	logData, err := logger.New().
		FromPath(config.LogFile).
		WithLevel(config.LogLevel).
		Pretty(config.LogPretty).
		Make()
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}

	app, err := newApp(config, logData)
	if err != nil {
		_ = logData.Close()
		return nil, err
	}
	return app, nil
}

func newApp(config *Config, logData *logger.LogData) (*App, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app := &App{
		config:   config,
		registry: registry,
		metrics:  metrics.New(registry),
		logData:  logData,
		logger:   logData.Logger,
	}
	app.readOnly.Store(config.ReadOnly)

	backend, err := app.openBackend(context.Background())
	if err != nil {
		return nil, err
	}
	app.backend = backend
	docs := store.New(backend,
		store.WithMetrics(app.metrics),
		store.WithLogger(logger.Component(app.logger, "store")),
	)
	app.store = store.NewReadOnlyStore(docs, app.IsReadOnly)

	storage, err := app.openStorage(context.Background())
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	uploadOpts := []upload.Option{
		upload.WithMetrics(app.metrics),
		upload.WithLogger(logger.Component(app.logger, "upload")),
	}
	if config.MaxUploadSize > 0 {
		uploadOpts = append(uploadOpts, upload.WithMaxBytes(config.MaxUploadSize))
	}
	app.uploads = upload.NewService(storage, uploadOpts...)
	app.hub = NewHub(logger.Component(app.logger, "events"), app.metrics)

	return app, nil
}

func (a *App) openBackend(ctx context.Context) (store.Backend, error) {
	switch a.config.Backend {
	case BackendPostgres:
		b, err := postgres.New(a.config.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		a.logger.Info().Msg("Connected to PostgreSQL")
		return b, nil
	case BackendSurrealDB:
		b, err := surrealdb.New(ctx, surrealdb.Config{
			URL:       a.config.SurrealDBURL,
			Namespace: a.config.SurrealDBNS,
			Database:  a.config.SurrealDBDB,
			Username:  a.config.SurrealDBUser,
			Password:  a.config.SurrealDBPass,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
		}
		a.logger.Info().Str("url", a.config.SurrealDBURL).Msg("Connected to SurrealDB")
		return b, nil
	default:
		a.logger.Info().Msg("Using in-memory store")
		return memory.New(), nil
	}
}

func (a *App) openStorage(ctx context.Context) (upload.Storage, error) {
	if a.config.Storage == StorageS3 {
		s, err := upload.NewS3Storage(ctx, a.config.S3())
		if err != nil {
			return nil, fmt.Errorf("failed to configure s3 storage: %w", err)
		}
		return s, nil
	}
	s, err := upload.NewLocalStorage(a.config.UploadDir, uploadsPrefix)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the event hub, the store and the log file.
func (a *App) Close() error {
	var errs []error
	if a.hub != nil {
		a.hub.Close()
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.logData != nil {
		errs = append(errs, a.logData.Close())
	}
	return errors.Join(errs...)
}

func (a *App) Store() store.Store {
	return a.store
}

// Logger returns the application logger.
func (a *App) Logger() zerolog.Logger {
	return a.logger
}

// SetReadOnly switches read-only mode at runtime.
func (a *App) SetReadOnly(readOnly bool) {
	a.readOnly.Store(readOnly)
	a.logger.Info().Bool("read_only", readOnly).Msg("Application read-only mode changed")
}

func (a *App) IsReadOnly() bool {
	return a.readOnly.Load()
}
