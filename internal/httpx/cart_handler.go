package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/davitran/storefront/internal/cart"
	"github.com/davitran/storefront/internal/catalog"
)

type CartStore interface {
	Load(ctx context.Context, identity string) ([]cart.Entry, error)
	Save(ctx context.Context, identity string, entries []cart.Entry) error
	Clear(ctx context.Context, identity string) error
}

type ProductGetter interface {
	Get(ctx context.Context, id string) (catalog.Product, error)
}

type CartHandler struct {
	Carts   CartStore
	Catalog ProductGetter
}

type cartItemReq struct {
	ProductID string `json:"product_id"`
	Delta     int    `json:"delta"`
}

type cartView struct {
	Entries    []cart.Entry `json:"entries"`
	TotalCents int64        `json:"total_cents"`
}

// Register mounts the cart routes; the caller wraps the group in the optional
// auth middleware so guests keep a cart too.
func (h *CartHandler) Register(r chi.Router) {
	r.Get("/cart", h.get)
	r.Post("/cart", h.add)
	r.Patch("/cart", h.updateQuantity)
	r.Delete("/cart", h.clear)
	r.Delete("/cart/{productId}", h.remove)
}

func view(entries []cart.Entry) cartView {
	if entries == nil {
		entries = []cart.Entry{}
	}
	return cartView{Entries: entries, TotalCents: cart.TotalCents(entries)}
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	_, ident := identity(r)
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	entries, err := h.Carts.Load(ctx, ident)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, view(entries))
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request) {
	var req cartItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "missing product_id")
		return
	}

	_, ident := identity(r)
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Catalog.Get(ctx, req.ProductID)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	entries, err := h.Carts.Load(ctx, ident)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	entries = cart.Add(entries, p)
	if err := h.Carts.Save(ctx, ident, entries); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, view(entries))
}

func (h *CartHandler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var req cartItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "missing product_id")
		return
	}

	_, ident := identity(r)
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	entries, err := h.Carts.Load(ctx, ident)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// absent product id is a no-op, but the snapshot is persisted regardless
	entries = cart.ApplyDelta(entries, req.ProductID, req.Delta)
	if err := h.Carts.Save(ctx, ident, entries); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, view(entries))
}

func (h *CartHandler) remove(w http.ResponseWriter, r *http.Request) {
	_, ident := identity(r)
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	entries, err := h.Carts.Load(ctx, ident)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	entries = cart.Remove(entries, chi.URLParam(r, "productId"))
	if err := h.Carts.Save(ctx, ident, entries); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, view(entries))
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	_, ident := identity(r)
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Carts.Clear(ctx, ident); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, view(nil))
}
