package cli

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"restaurant/ordering/internal/container"
	"restaurant/ordering/internal/domain"
	"restaurant/ordering/internal/state"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	err error
}

func (s stubClient) Load(context.Context) (*domain.Catalog, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Catalog{
		Settings: domain.Settings{SiteName: "Mam's Pizza", WhatsApp: "201000000000"},
		Categories: domain.Categories{
			Categories: []domain.Category{{ID: "pizza", Name: "Pizza"}, {ID: "drinks", Name: "Drinks"}},
		},
		Products: []domain.Product{
			{
				ID:             1,
				Name:           "Margherita",
				Category:       "pizza",
				OptionsEnabled: true,
				Prices: map[domain.Size]decimal.Decimal{
					domain.SizeSmall:  decimal.NewFromInt(50),
					domain.SizeMedium: decimal.NewFromInt(70),
				},
			},
			{ID: 2, Name: "Cola", Category: "drinks", Price: decimal.NewFromInt(15)},
		},
	}, nil
}

type harness struct {
	t      *testing.T
	store  *state.MemoryStore
	client stubClient
}

func newHarness(t *testing.T) *harness {
	chdir(t, t.TempDir())
	return &harness{t: t, store: state.NewMemoryStore()}
}

func (h *harness) run(args ...string) (string, string, error) {
	h.t.Helper()

	cmd := NewRootCommand(container.WithStore(h.store), container.WithCatalogClient(h.client))
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"serve"}, {"menu"}, {"checkout"},
		{"cart", "list"}, {"cart", "add"}, {"cart", "inc"}, {"cart", "dec"},
		{"cart", "set"}, {"cart", "remove"}, {"cart", "clear"},
		{"fav", "list"}, {"fav", "toggle"},
	}

	for _, path := range commands {
		t.Run(fmt.Sprint(path), func(t *testing.T) {
			sub, _, err := cmd.Find(path)
			require.NoError(t, err)
			assert.Equal(t, path[len(path)-1], sub.Name())
		})
	}

	flag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)
}

func TestMenu(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("menu", "--cat", "pizza")
	require.NoError(t, err)
	assert.Contains(t, out, "Margherita")
	assert.Contains(t, out, "S 50 EGP / M 70 EGP")
	assert.NotContains(t, out, "Cola")
}

func TestCartCommands_PersistAcrossRuns(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("cart", "add", "1", "--size", "M", "--qty", "2")
	require.NoError(t, err)
	out, _, err := h.run("cart", "add", "1", "-s", "m")
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 210 EGP")

	out, _, err = h.run("cart", "add", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "✔ Cola added to cart")

	for i := 0; i < 3; i++ {
		_, _, err = h.run("cart", "dec", "2")
		require.NoError(t, err)
	}
	out, _, err = h.run("cart", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 225 EGP", "decrement clamps at 1")

	_, _, err = h.run("cart", "set", "1:M", "0")
	require.NoError(t, err)
	out, _, err = h.run("cart", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "Margherita")

	_, _, err = h.run("cart", "remove", "1:M")
	assert.Error(t, err, "removing a missing line reports it")

	out, _, err = h.run("cart", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Your cart is empty.")

	val, err := h.store.Load(context.Background(), state.CartKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(val))
}

func TestCartAdd_Errors(t *testing.T) {
	h := newHarness(t)

	_, errOut, err := h.run("cart", "add", "99")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Contains(t, errOut, "✖ Product not found")

	_, _, err = h.run("cart", "add", "1", "--size", "L")
	assert.ErrorIs(t, err, domain.ErrSizeUnavailable)
}

func TestFavorites(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("fav", "toggle", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Cola")

	out, _, err = h.run("fav", "toggle", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "You have no favorites yet.")
}

func TestCheckout(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("checkout", "--name", "Sara", "--phone", "01012345678", "--address", "12 Nile St")
	assert.ErrorIs(t, err, domain.ErrEmptyCart)

	_, _, err = h.run("cart", "add", "2", "-n", "2")
	require.NoError(t, err)

	_, _, err = h.run("checkout", "--name", "Sara", "--phone", "12345", "--address", "12 Nile St")
	assert.ErrorIs(t, err, domain.ErrInvalidPhoneFormat)

	_, _, err = h.run("checkout", "--phone", "01012345678", "--address", "12 Nile St")
	var missing *domain.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "name", missing.Field)

	out, _, err := h.run("checkout", "--name", "Sara", "--phone", "01012345678", "--address", "12 Nile St")
	require.NoError(t, err)
	assert.Contains(t, out, "2× Cola — 30 EGP")
	assert.Contains(t, out, "https://wa.me/201000000000?text=")

	out, _, err = h.run("cart", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Your cart is empty.")
}

func TestBootFailureExitsWithError(t *testing.T) {
	h := newHarness(t)
	h.client = stubClient{err: fmt.Errorf("%w: settings.json: timeout", domain.ErrFetchFailure)}

	_, _, err := h.run("cart", "list")
	assert.ErrorIs(t, err, domain.ErrFetchFailure)
}
