package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/davitran/storefront/internal/invoices"
	kafkax "github.com/davitran/storefront/internal/kafka"
)

type InvoiceStore interface {
	Checkout(ctx context.Context, userID, username string, items []invoices.CheckoutItem) (invoices.Invoice, error)
	GetStatus(ctx context.Context, id string) (invoices.Status, error)
	ListByUsername(ctx context.Context, username string) ([]invoices.Invoice, error)
	ListAll(ctx context.Context, status invoices.Status, query string) ([]invoices.Invoice, error)
	UpdateStatus(ctx context.Context, id string, to invoices.Status) (invoices.Invoice, invoices.Status, error)
}

type EventPublisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type StatusCache interface {
	SetStatus(ctx context.Context, invoiceID, status string) error
	GetStatus(ctx context.Context, invoiceID string) (string, error)
}

type InvoicesHandler struct {
	Store         InvoiceStore
	Carts         CartStore
	Created       EventPublisher // invoice.created topic
	StatusChanged EventPublisher // invoice.status topic
	Cache         StatusCache
	Service       string
}

type updateStatusReq struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (h *InvoicesHandler) Register(r chi.Router) {
	r.Post("/checkout", h.checkout)
	r.Get("/invoices", h.listMine)
	r.Get("/invoices/{id}/status", h.getStatus)
}

func (h *InvoicesHandler) RegisterAdmin(r chi.Router) {
	r.Get("/invoices", h.adminList)
	r.Patch("/invoices/status", h.adminUpdateStatus)
}

// checkout turns the caller's cart into a pending invoice, clears the cart and
// announces the new invoice on the created topic.
func (h *InvoicesHandler) checkout(w http.ResponseWriter, r *http.Request) {
	userID, ident := identity(r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	entries, err := h.Carts.Load(ctx, ident)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(entries) == 0 {
		writeError(w, http.StatusBadRequest, "cart is empty")
		return
	}

	items := make([]invoices.CheckoutItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, invoices.CheckoutItem{ProductID: e.Product.ID, Quantity: e.Quantity})
	}

	inv, err := h.Store.Checkout(ctx, userID, ident, items)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	_ = h.Carts.Clear(ctx, ident)
	_ = h.Cache.SetStatus(ctx, inv.ID, string(inv.Status))

	itemPrices := make([]invoices.ItemPrice, 0, len(inv.Items))
	for _, it := range inv.Items {
		itemPrices = append(itemPrices, invoices.ItemPrice{
			ProductID: it.ProductID, Qty: it.Quantity, PriceCents: it.PriceCents,
		})
	}
	h.publish(h.Created, r, inv.ID, invoices.EventInvoiceCreated, invoices.InvoiceCreatedPayload{
		InvoiceID:  inv.ID,
		UserID:     inv.UserID,
		Username:   inv.Username,
		Items:      itemPrices,
		TotalCents: inv.TotalCents,
	})

	writeData(w, http.StatusCreated, inv)
}

func (h *InvoicesHandler) listMine(w http.ResponseWriter, r *http.Request) {
	_, ident := identity(r)
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	invs, err := h.Store.ListByUsername(ctx, ident)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if invs == nil {
		invs = []invoices.Invoice{}
	}
	writeData(w, http.StatusOK, invs)
}

func (h *InvoicesHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if s, err := h.Cache.GetStatus(ctx, id); err == nil && s != "" {
		writeData(w, http.StatusOK, map[string]string{"status": s})
		return
	}

	status, err := h.Store.GetStatus(ctx, id)
	if errors.Is(err, invoices.ErrNotFound) {
		writeError(w, http.StatusNotFound, "invoice not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	_ = h.Cache.SetStatus(ctx, id, string(status))
	writeData(w, http.StatusOK, map[string]string{"status": string(status)})
}

func (h *InvoicesHandler) adminList(w http.ResponseWriter, r *http.Request) {
	status := invoices.Status(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	invs, err := h.Store.ListAll(ctx, status, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if invs == nil {
		invs = []invoices.Invoice{}
	}
	writeData(w, http.StatusOK, invs)
}

func (h *InvoicesHandler) adminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeError(w, http.StatusBadRequest, "missing id")
		return
	}
	to := invoices.Status(req.Status)
	if !to.Valid() {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	inv, from, err := h.Store.UpdateStatus(ctx, req.ID, to)
	switch {
	case errors.Is(err, invoices.ErrNotFound):
		writeError(w, http.StatusNotFound, "invoice not found")
		return
	case errors.Is(err, invoices.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	_ = h.Cache.SetStatus(ctx, inv.ID, string(inv.Status))
	h.publish(h.StatusChanged, r, inv.ID, invoices.EventInvoiceStatusChanged, invoices.InvoiceStatusChangedPayload{
		InvoiceID: inv.ID,
		From:      from,
		To:        inv.Status,
	})

	writeData(w, http.StatusOK, inv)
}

func (h *InvoicesHandler) publish(p EventPublisher, r *http.Request, invoiceID, eventType string, payload any) {
	ev := invoices.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: invoiceID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(invoices.PartitionKey(invoiceID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
