package httpx

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davitran/storefront/internal/catalog"
)

func newCartServer(carts *fakeCarts) http.Handler {
	cat := &fakeCatalog{products: []catalog.Product{
		{ID: "p1", Title: "Widget", PriceCents: 250, Slug: "widget", IsActive: true},
		{ID: "p2", Title: "Gadget", PriceCents: 400, Slug: "gadget", IsActive: true},
	}}
	r := chi.NewRouter()
	h := &CartHandler{Carts: carts, Catalog: cat}
	h.Register(r)
	return r
}

func TestCartAddSameProductTwice(t *testing.T) {
	srv := newCartServer(newFakeCarts())

	body := map[string]any{"product_id": "p1"}
	rec, _ := doJSON(t, srv, http.MethodPost, "/cart", body)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := doJSON(t, srv, http.MethodPost, "/cart", body)
	require.Equal(t, http.StatusOK, rec.Code)

	v := decodeData[cartView](t, env)
	require.Len(t, v.Entries, 1, "same product twice keeps a single line")
	assert.Equal(t, 2, v.Entries[0].Quantity)
	assert.Equal(t, int64(500), v.TotalCents)
}

func TestCartAdd_UnknownProduct(t *testing.T) {
	srv := newCartServer(newFakeCarts())

	rec, env := doJSON(t, srv, http.MethodPost, "/cart", map[string]any{"product_id": "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "product not found", env.Message)
}

func TestCartQuantityFloorsAtOne(t *testing.T) {
	srv := newCartServer(newFakeCarts())

	_, _ = doJSON(t, srv, http.MethodPost, "/cart", map[string]any{"product_id": "p1"})

	rec, env := doJSON(t, srv, http.MethodPatch, "/cart", map[string]any{"product_id": "p1", "delta": -5})
	require.Equal(t, http.StatusOK, rec.Code)

	v := decodeData[cartView](t, env)
	require.Len(t, v.Entries, 1)
	assert.Equal(t, 1, v.Entries[0].Quantity)
}

func TestCartQuantityAbsentProductIsNoop(t *testing.T) {
	carts := newFakeCarts()
	srv := newCartServer(carts)

	_, _ = doJSON(t, srv, http.MethodPost, "/cart", map[string]any{"product_id": "p1"})

	rec, env := doJSON(t, srv, http.MethodPatch, "/cart", map[string]any{"product_id": "ghost", "delta": 3})
	require.Equal(t, http.StatusOK, rec.Code)

	v := decodeData[cartView](t, env)
	require.Len(t, v.Entries, 1)
	assert.Equal(t, "p1", v.Entries[0].Product.ID)
	assert.Equal(t, 1, v.Entries[0].Quantity)
}

func TestCartRemoveItem(t *testing.T) {
	srv := newCartServer(newFakeCarts())

	_, _ = doJSON(t, srv, http.MethodPost, "/cart", map[string]any{"product_id": "p1"})
	_, _ = doJSON(t, srv, http.MethodPost, "/cart", map[string]any{"product_id": "p2"})

	rec, env := doJSON(t, srv, http.MethodDelete, "/cart/p1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	v := decodeData[cartView](t, env)
	require.Len(t, v.Entries, 1)
	assert.Equal(t, "p2", v.Entries[0].Product.ID)
	assert.Equal(t, int64(400), v.TotalCents)
}

func TestCartClearDeletesKey(t *testing.T) {
	carts := newFakeCarts()
	srv := newCartServer(carts)

	_, _ = doJSON(t, srv, http.MethodPost, "/cart", map[string]any{"product_id": "p1"})
	require.True(t, carts.hasKey(GuestIdentity))

	rec, env := doJSON(t, srv, http.MethodDelete, "/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, carts.hasKey(GuestIdentity), "clearing drops the key, not just the entries")

	v := decodeData[cartView](t, env)
	assert.Empty(t, v.Entries)
	assert.Zero(t, v.TotalCents)
}

func TestCartGet_EmptyCart(t *testing.T) {
	srv := newCartServer(newFakeCarts())

	rec, env := doJSON(t, srv, http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	v := decodeData[cartView](t, env)
	assert.NotNil(t, v.Entries)
	assert.Empty(t, v.Entries)
}
