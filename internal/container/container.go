package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"restaurant/ordering/internal/catalog"
	"restaurant/ordering/internal/client"
	"restaurant/ordering/internal/config"
	"restaurant/ordering/internal/domain"
	"restaurant/ordering/internal/notify"
	"restaurant/ordering/internal/order"
	"restaurant/ordering/internal/server"
	"restaurant/ordering/internal/session"
	"restaurant/ordering/internal/state"
	"restaurant/ordering/internal/view"

	"github.com/benbjohnson/clock"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const flushTimeout = 5 * time.Second

// Container holds all initialized components
type Container struct {
	Config *config.Config
	Client client.CatalogClient
	Store  state.Store
	Toasts *notify.Queue

	// Set by Boot.
	Catalog  *domain.Catalog
	Index    *catalog.Index
	Session  *session.Session
	Renderer *view.Renderer
	BootErr  error

	clock     clock.Clock
	persister *state.Persister
	db        *pgxpool.Pool
	redis     *redis.Client
}

type Option func(*Container)

// WithStore replaces the configured storage backend.
func WithStore(store state.Store) Option {
	return func(c *Container) {
		c.Store = store
	}
}

// WithCatalogClient replaces the HTTP catalog client.
func WithCatalogClient(cl client.CatalogClient) Option {
	return func(c *Container) {
		c.Client = cl
	}
}

func WithClock(clk clock.Clock) Option {
	return func(c *Container) {
		c.clock = clk
	}
}

// New creates a new container with storage and the catalog client initialized
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	container := &Container{
		Config: cfg,
		Toasts: notify.NewQueue(notify.LogNotifier{}),
		clock:  clock.New(),
	}
	for _, opt := range opts {
		opt(container)
	}

	if container.Store == nil {
		store, err := container.openStore(ctx)
		if err != nil {
			container.Close()
			return nil, err
		}
		container.Store = store
	}

	if container.Client == nil {
		container.Client = client.NewCatalogClient(cfg.Catalog)
	}

	return container, nil
}

func (c *Container) openStore(ctx context.Context) (state.Store, error) {
	cfg := c.Config
	switch cfg.Storage.Driver {
	case "memory":
		log.Info("💾 Using in-memory storage, nothing survives this process")
		return state.NewMemoryStore(), nil

	case "postgres":
		db, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		c.db = db
		if err := db.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		if err := state.EnsureSchema(ctx, db); err != nil {
			return nil, err
		}
		log.Info("✅ Connected to Postgres successfully")
		return state.NewPostgresStore(db, cfg.Storage.Namespace), nil

	default:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})
		c.redis = rdb

		// Test connection
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")
		return state.NewRedisStore(rdb, cfg.Storage.Namespace), nil
	}
}

// Boot fetches the catalog and builds the session over it. Nothing
// session-related exists when the fetch fails; the error is also kept in BootErr.
func (c *Container) Boot(ctx context.Context) error {
	cat, err := c.Client.Load(ctx)
	if err != nil {
		c.BootErr = err
		log.Errorf("❌ Failed to load catalog: %v", err)
		return err
	}

	fee, err := c.Config.Order.Fee()
	if err != nil {
		c.BootErr = err
		log.Errorf("❌ Invalid delivery fee: %v", err)
		return err
	}

	whatsapp := cat.Settings.WhatsApp
	if c.Config.Order.WhatsApp != "" {
		whatsapp = c.Config.Order.WhatsApp
	}

	composer := order.NewComposer(order.Options{
		SiteName:    cat.Settings.SiteName,
		WhatsApp:    whatsapp,
		Currency:    c.Config.Order.Currency,
		Locale:      c.Config.Order.Locale,
		DeliveryFee: fee,
		StrictPhone: c.Config.Order.StrictPhone,
	})

	snapshots := state.NewSnapshots(c.Store)
	c.persister = state.NewPersister(snapshots, c.clock, c.Config.Storage.Debounce)

	c.Catalog = cat
	c.Index = catalog.NewIndex(cat.Products)
	c.Session = session.New(c.Index, snapshots, c.persister, c.Toasts, composer,
		session.WithClearOnCheckout(c.Config.Order.ClearCartOnCheckout))
	c.Session.Load(ctx)
	c.Renderer = view.NewRenderer(cat.Settings, cat.Categories, c.Index, composer.Money())

	return nil
}

// Handler is the site, or the unavailable page when Boot failed.
func (c *Container) Handler() (http.Handler, func()) {
	if c.Session == nil {
		cause := c.BootErr
		if cause == nil {
			cause = errors.New("catalog not loaded")
		}
		return server.Unavailable(cause), func() {}
	}
	srv := server.New(c.Session, c.Renderer, c.Toasts)
	return srv.Handler(), srv.Close
}

// Serve boots and runs the HTTP server until ctx is cancelled. A failed boot
// still serves, answering every route with the error page.
func (c *Container) Serve(ctx context.Context) error {
	if c.Session == nil && c.BootErr == nil {
		_ = c.Boot(ctx)
	}
	handler, closeHandler := c.Handler()
	defer closeHandler()

	return server.Run(ctx, c.Config.Server.Addr(), handler)
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Debug("Shutting down container...")

	if c.Session != nil {
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		c.Session.Flush(ctx)
		cancel()
	}
	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	log.Debug("Container shut down successfully")
	return nil
}
