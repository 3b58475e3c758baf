package httpx

import (
	"context"
	"fmt"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/davitran/storefront/internal/cart"
	"github.com/davitran/storefront/internal/catalog"
	"github.com/davitran/storefront/internal/invoices"
)

// fakeCatalog is an in-memory CatalogStore with the same sentinel behavior as
// the postgres repo.
type fakeCatalog struct {
	seq      int
	products []catalog.Product
}

func (f *fakeCatalog) List(ctx context.Context) ([]catalog.Product, error) {
	out := make([]catalog.Product, len(f.products))
	copy(out, f.products)
	return out, nil
}

func (f *fakeCatalog) Get(ctx context.Context, id string) (catalog.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return catalog.Product{}, catalog.ErrNotFound
}

func (f *fakeCatalog) Create(ctx context.Context, in catalog.ProductInput) (catalog.Product, error) {
	for _, p := range f.products {
		if p.Slug == in.Slug {
			return catalog.Product{}, catalog.ErrDuplicateSlug
		}
	}
	f.seq++
	now := time.Now()
	p := catalog.Product{
		ID:                 fmt.Sprintf("p%d", f.seq),
		Title:              in.Title,
		Description:        in.Description,
		PriceCents:         in.PriceCents,
		DiscountPercentage: in.DiscountPercentage,
		Rating:             in.Rating,
		Stock:              in.Stock,
		Thumbnail:          in.Thumbnail,
		IsActive:           in.IsActive,
		Slug:               in.Slug,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	f.products = append(f.products, p)
	return p, nil
}

func (f *fakeCatalog) Update(ctx context.Context, id string, in catalog.ProductInput) (catalog.Product, error) {
	for i, p := range f.products {
		if p.ID == id {
			p.Title = in.Title
			p.Description = in.Description
			p.PriceCents = in.PriceCents
			p.DiscountPercentage = in.DiscountPercentage
			p.Rating = in.Rating
			p.Stock = in.Stock
			p.Thumbnail = in.Thumbnail
			p.IsActive = in.IsActive
			p.Slug = in.Slug
			p.UpdatedAt = time.Now()
			f.products[i] = p
			return p, nil
		}
	}
	return catalog.Product{}, catalog.ErrNotFound
}

func (f *fakeCatalog) Delete(ctx context.Context, id string) error {
	for i, p := range f.products {
		if p.ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return catalog.ErrNotFound
}

func (f *fakeCatalog) Count(ctx context.Context) (int64, error) {
	return int64(len(f.products)), nil
}

// fakeCarts mirrors the redis store: carts exist only while their key does.
type fakeCarts struct {
	byIdentity map[string][]cart.Entry
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{byIdentity: map[string][]cart.Entry{}}
}

func (f *fakeCarts) Load(ctx context.Context, identity string) ([]cart.Entry, error) {
	return f.byIdentity[identity], nil
}

func (f *fakeCarts) Save(ctx context.Context, identity string, entries []cart.Entry) error {
	f.byIdentity[identity] = entries
	return nil
}

func (f *fakeCarts) Clear(ctx context.Context, identity string) error {
	delete(f.byIdentity, identity)
	return nil
}

func (f *fakeCarts) hasKey(identity string) bool {
	_, ok := f.byIdentity[identity]
	return ok
}

// fakeInvoices re-prices checkouts from its own product price table, like the
// postgres repo does.
type fakeInvoices struct {
	prices   map[string]int64 // product id -> price cents
	seq      int
	invoices []invoices.Invoice

	lastListStatus invoices.Status
	lastListQuery  string
}

func (f *fakeInvoices) Checkout(ctx context.Context, userID, username string, items []invoices.CheckoutItem) (invoices.Invoice, error) {
	if len(items) == 0 {
		return invoices.Invoice{}, invoices.ErrEmptyCheckout
	}
	f.seq++
	now := time.Now()
	inv := invoices.Invoice{
		ID:        fmt.Sprintf("inv%d", f.seq),
		UserID:    userID,
		Username:  username,
		Status:    invoices.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, it := range items {
		price, ok := f.prices[it.ProductID]
		if !ok {
			return invoices.Invoice{}, fmt.Errorf("product not found: %s", it.ProductID)
		}
		inv.Items = append(inv.Items, invoices.Item{
			ProductID: it.ProductID, PriceCents: price, Quantity: it.Quantity,
		})
		inv.TotalCents += price * int64(it.Quantity)
	}
	f.invoices = append(f.invoices, inv)
	return inv, nil
}

func (f *fakeInvoices) GetStatus(ctx context.Context, id string) (invoices.Status, error) {
	for _, inv := range f.invoices {
		if inv.ID == id {
			return inv.Status, nil
		}
	}
	return "", invoices.ErrNotFound
}

func (f *fakeInvoices) ListByUsername(ctx context.Context, username string) ([]invoices.Invoice, error) {
	var out []invoices.Invoice
	for _, inv := range f.invoices {
		if inv.Username == username {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInvoices) ListAll(ctx context.Context, status invoices.Status, query string) ([]invoices.Invoice, error) {
	f.lastListStatus = status
	f.lastListQuery = query
	var out []invoices.Invoice
	for _, inv := range f.invoices {
		if status != "" && inv.Status != status {
			continue
		}
		if query != "" && !strings.Contains(inv.Username, query) && !strings.Contains(inv.ID, query) {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (f *fakeInvoices) UpdateStatus(ctx context.Context, id string, to invoices.Status) (invoices.Invoice, invoices.Status, error) {
	for i, inv := range f.invoices {
		if inv.ID != id {
			continue
		}
		if !invoices.CanTransition(inv.Status, to) {
			return invoices.Invoice{}, "", fmt.Errorf("%w: %s -> %s", invoices.ErrInvalidTransition, inv.Status, to)
		}
		from := inv.Status
		inv.Status = to
		inv.UpdatedAt = time.Now().Add(time.Millisecond) // strictly after create
		f.invoices[i] = inv
		return inv, from, nil
	}
	return invoices.Invoice{}, "", invoices.ErrNotFound
}

// fakePublisher records what would have gone to kafka.
type fakePublisher struct {
	published []kafkago.Message
}

func (f *fakePublisher) Publish(key, value []byte, headers ...kafkago.Header) {
	f.published = append(f.published, kafkago.Message{Key: key, Value: value, Headers: headers})
}

type fakeStatusCache struct {
	statuses map[string]string
}

func newFakeStatusCache() *fakeStatusCache {
	return &fakeStatusCache{statuses: map[string]string{}}
}

func (f *fakeStatusCache) SetStatus(ctx context.Context, invoiceID, status string) error {
	f.statuses[invoiceID] = status
	return nil
}

func (f *fakeStatusCache) GetStatus(ctx context.Context, invoiceID string) (string, error) {
	return f.statuses[invoiceID], nil
}
