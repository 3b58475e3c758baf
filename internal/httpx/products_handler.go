package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/davitran/storefront/internal/catalog"
)

const defaultThumbnail = "https://via.placeholder.com/400x600?text=Product"

type CatalogStore interface {
	List(ctx context.Context) ([]catalog.Product, error)
	Get(ctx context.Context, id string) (catalog.Product, error)
	Create(ctx context.Context, in catalog.ProductInput) (catalog.Product, error)
	Update(ctx context.Context, id string, in catalog.ProductInput) (catalog.Product, error)
	Delete(ctx context.Context, id string) error
}

type ProductsHandler struct{ Store CatalogStore }

type productReq struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	PriceCents         int64   `json:"price_cents"`
	DiscountPercentage float64 `json:"discount_percentage"`
	Rating             float64 `json:"rating"`
	Stock              int     `json:"stock"`
	Thumbnail          string  `json:"thumbnail"`
	IsActive           *bool   `json:"is_active"`
	Slug               string  `json:"slug"`
}

func (h *ProductsHandler) Register(r chi.Router) {
	r.Get("/products", h.list)
	r.Get("/products/{id}", h.get)
}

// RegisterAdmin mounts the catalog mutations; the caller wraps the router in
// the admin auth middleware.
func (h *ProductsHandler) RegisterAdmin(r chi.Router) {
	r.Post("/products/new", h.create)
	r.Patch("/products/edit", h.update)
	r.Delete("/products/delete/{id}", h.del)
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Store.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if ps == nil {
		ps = []catalog.Product{}
	}
	writeData(w, http.StatusOK, ps)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Store.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeCatalogErr(w, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Title == "" || req.Description == "" || req.PriceCents <= 0 {
		writeError(w, http.StatusBadRequest, "title, description and price are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Store.Create(ctx, req.toInput())
	if err != nil {
		writeCatalogErr(w, err)
		return
	}
	writeData(w, http.StatusCreated, p)
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "missing id")
		return
	}
	if req.Title == "" || req.Description == "" || req.PriceCents <= 0 {
		writeError(w, http.StatusBadRequest, "title, description and price are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Store.Update(ctx, req.ID, req.toInput())
	if err != nil {
		writeCatalogErr(w, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

func (h *ProductsHandler) del(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Store.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		writeCatalogErr(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "product deleted")
}

func (req productReq) toInput() catalog.ProductInput {
	in := catalog.ProductInput{
		Title:              req.Title,
		Description:        req.Description,
		PriceCents:         req.PriceCents,
		DiscountPercentage: req.DiscountPercentage,
		Rating:             req.Rating,
		Stock:              req.Stock,
		Thumbnail:          req.Thumbnail,
		IsActive:           true,
		Slug:               req.Slug,
	}
	if req.IsActive != nil {
		in.IsActive = *req.IsActive
	}
	if in.Slug == "" {
		in.Slug = catalog.Slugify(req.Title)
	}
	if in.Thumbnail == "" {
		in.Thumbnail = defaultThumbnail
	}
	return in
}

func writeCatalogErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, catalog.ErrDuplicateSlug):
		writeError(w, http.StatusConflict, "slug already exists")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
