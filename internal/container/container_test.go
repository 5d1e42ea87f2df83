package container

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"restaurant/ordering/internal/config"
	"restaurant/ordering/internal/domain"
	"restaurant/ordering/internal/state"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	catalog *domain.Catalog
	err     error
}

func (s stubClient) Load(context.Context) (*domain.Catalog, error) {
	return s.catalog, s.err
}

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Host: "localhost", Port: 0},
		Catalog: config.CatalogConfig{Timeout: time.Second, MaxRetries: 1},
		Storage: config.StorageConfig{Driver: "memory", Namespace: "test", Debounce: time.Hour},
		Order:   config.OrderConfig{StrictPhone: true, Currency: "EGP", Locale: "en", ClearCartOnCheckout: true, DeliveryFee: "10"},
	}
}

func testCatalog() *domain.Catalog {
	return &domain.Catalog{
		Settings: domain.Settings{SiteName: "Mam's Pizza", WhatsApp: "201000000000"},
		Products: []domain.Product{{ID: 2, Name: "Cola", Price: decimal.NewFromInt(15)}},
	}
}

func TestBoot_BuildsSessionOverPersistedState(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	require.NoError(t, store.Save(ctx, state.CartKey, []byte(`[{"id":2,"size":null,"qty":2}]`)))

	c, err := New(ctx, testConfig(), WithStore(store), WithCatalogClient(stubClient{catalog: testCatalog()}))
	require.NoError(t, err)
	require.NoError(t, c.Boot(ctx))

	assert.Equal(t, 1, c.Index.Len())
	assert.Equal(t, 2, c.Session.CartCount())

	msg, err := c.Session.Checkout(ctx, domain.Contact{Name: "Sara", Phone: "01012345678", Address: "12 Nile St"})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(40).Equal(msg.Total), "delivery fee is added")

	require.NoError(t, c.Close())
	val, err := store.Load(ctx, state.CartKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(val))
}

func TestBoot_WhatsAppOverride(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.Order.WhatsApp = "209999999999"

	c, err := New(ctx, cfg, WithStore(state.NewMemoryStore()), WithCatalogClient(stubClient{catalog: testCatalog()}))
	require.NoError(t, err)
	require.NoError(t, c.Boot(ctx))

	_, err = c.Session.AddToCart(2, "", 1)
	require.NoError(t, err)
	msg, err := c.Session.Checkout(ctx, domain.Contact{Name: "Sara", Phone: "01012345678", Address: "12 Nile St"})
	require.NoError(t, err)
	assert.Contains(t, msg.Link, "https://wa.me/209999999999?")
}

func TestBoot_FailureServesUnavailable(t *testing.T) {
	ctx := context.Background()
	fetchErr := fmt.Errorf("%w: products.json: timeout", domain.ErrFetchFailure)

	c, err := New(ctx, testConfig(), WithStore(state.NewMemoryStore()), WithCatalogClient(stubClient{err: fetchErr}))
	require.NoError(t, err)

	err = c.Boot(ctx)
	assert.ErrorIs(t, err, domain.ErrFetchFailure)
	assert.Nil(t, c.Session, "no session exists without a catalog")

	h, closeHandler := c.Handler()
	defer closeHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/menu", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NoError(t, c.Close())
}

func TestBoot_InvalidFeeIsKeptAsCause(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.Order.DeliveryFee = "ten"

	c, err := New(ctx, cfg, WithStore(state.NewMemoryStore()), WithCatalogClient(stubClient{catalog: testCatalog()}))
	require.NoError(t, err)

	err = c.Boot(ctx)
	require.Error(t, err)
	assert.Equal(t, err, c.BootErr)
	assert.Contains(t, c.BootErr.Error(), "delivery_fee")
	assert.Nil(t, c.Session)

	h, closeHandler := c.Handler()
	defer closeHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NoError(t, c.Close())
}

func TestNew_RedisDriver(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.Storage.Driver = "redis"
	cfg.Redis = config.RedisConfig{Host: mr.Host(), Port: mustPort(t, mr.Port())}

	ctx := context.Background()
	c, err := New(ctx, cfg, WithCatalogClient(stubClient{catalog: testCatalog()}))
	require.NoError(t, err)
	require.NoError(t, c.Boot(ctx))

	_, err = c.Session.ToggleFavorite(2)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	raw, err := mr.Get("restaurant:storage:test:favs")
	require.NoError(t, err)
	assert.Equal(t, "[2]", raw)
}

func TestNew_RedisUnreachable(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Driver = "redis"
	cfg.Redis = config.RedisConfig{Host: "127.0.0.1", Port: 1}

	_, err := New(context.Background(), cfg, WithCatalogClient(stubClient{catalog: testCatalog()}))
	assert.ErrorContains(t, err, "failed to connect to Redis")
}

func mustPort(t *testing.T, port string) int {
	t.Helper()
	n, err := strconv.Atoi(port)
	require.NoError(t, err)
	return n
}
