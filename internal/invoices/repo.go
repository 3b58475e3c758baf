package invoices

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("invoice not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrEmptyCheckout     = errors.New("no items to checkout")
)

type Repo struct{ DB *pgxpool.Pool }

// CheckoutItem names a product and quantity from the shopper's cart.
type CheckoutItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Checkout converts cart items into a pending invoice in one transaction.
// Unit prices and the item snapshots come from the products table at commit
// time, not from the client, so an admin price edit can never be raced past.
func (r *Repo) Checkout(ctx context.Context, userID, username string, items []CheckoutItem) (Invoice, error) {
	if len(items) == 0 {
		return Invoice{}, ErrEmptyCheckout
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Invoice{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// snapshot title/thumbnail/price per product id
	params := ""
	ids := make([]any, 0, len(items))
	for i, it := range items {
		if i > 0 {
			params += ","
		}
		params += fmt.Sprintf("$%d", i+1)
		ids = append(ids, it.ProductID)
	}
	rows, err := tx.Query(ctx, `SELECT id, title, thumbnail, price_cents FROM products WHERE id IN (`+params+`)`, ids...)
	if err != nil {
		return Invoice{}, err
	}
	defer rows.Close()
	type snap struct {
		title, thumbnail string
		price            int64
	}
	snaps := map[string]snap{}
	for rows.Next() {
		var id string
		var s snap
		if err := rows.Scan(&id, &s.title, &s.thumbnail, &s.price); err != nil {
			return Invoice{}, err
		}
		snaps[id] = s
	}
	if err := rows.Err(); err != nil {
		return Invoice{}, err
	}

	inv := Invoice{
		ID:       uuid.NewString(),
		UserID:   userID,
		Username: username,
		Status:   StatusPending,
	}
	for _, it := range items {
		s, ok := snaps[it.ProductID]
		if !ok {
			return Invoice{}, fmt.Errorf("product not found: %s", it.ProductID)
		}
		if it.Quantity <= 0 {
			return Invoice{}, fmt.Errorf("invalid quantity for product %s", it.ProductID)
		}
		inv.Items = append(inv.Items, Item{
			ProductID:  it.ProductID,
			Title:      s.title,
			Thumbnail:  s.thumbnail,
			PriceCents: s.price,
			Quantity:   it.Quantity,
		})
		inv.TotalCents += s.price * int64(it.Quantity)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO invoices (id, user_id, username, status, total_cents)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		inv.ID, inv.UserID, inv.Username, inv.Status, inv.TotalCents,
	).Scan(&inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return Invoice{}, err
	}

	for _, it := range inv.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO invoice_items (invoice_id, product_id, title, thumbnail, price_cents, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			inv.ID, it.ProductID, it.Title, it.Thumbnail, it.PriceCents, it.Quantity,
		); err != nil {
			return Invoice{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

func (r *Repo) GetStatus(ctx context.Context, id string) (Status, error) {
	var s Status
	err := r.DB.QueryRow(ctx, `SELECT status FROM invoices WHERE id=$1`, id).Scan(&s)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return s, err
}

func (r *Repo) ListByUsername(ctx context.Context, username string) ([]Invoice, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, username, status, total_cents, created_at, updated_at
		FROM invoices WHERE username=$1 ORDER BY created_at DESC`, username)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, rows)
}

// ListAll is the admin view over every user's invoices, newest first, with an
// optional status filter and username/id substring search.
func (r *Repo) ListAll(ctx context.Context, status Status, query string) ([]Invoice, error) {
	q := `SELECT id, user_id, username, status, total_cents, created_at, updated_at
	      FROM invoices WHERE 1=1`
	args := []any{}
	if status != "" {
		args = append(args, status)
		q += fmt.Sprintf(" AND status=$%d", len(args))
	}
	if query != "" {
		args = append(args, "%"+query+"%")
		q += fmt.Sprintf(" AND (username ILIKE $%d OR id::text ILIKE $%d)", len(args), len(args))
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, rows)
}

func (r *Repo) collect(ctx context.Context, rows pgx.Rows) ([]Invoice, error) {
	defer rows.Close()

	var out []Invoice
	index := map[string]int{}
	ids := []string{}
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.UserID, &inv.Username, &inv.Status,
			&inv.TotalCents, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, err
		}
		index[inv.ID] = len(out)
		ids = append(ids, inv.ID)
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	itemRows, err := r.DB.Query(ctx, `
		SELECT invoice_id, product_id, title, thumbnail, price_cents, quantity
		FROM invoice_items WHERE invoice_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var invoiceID string
		var it Item
		if err := itemRows.Scan(&invoiceID, &it.ProductID, &it.Title, &it.Thumbnail,
			&it.PriceCents, &it.Quantity); err != nil {
			return nil, err
		}
		i := index[invoiceID]
		out[i].Items = append(out[i].Items, it)
	}
	return out, itemRows.Err()
}

// UpdateStatus rewrites only status and updated_at, and only along a valid
// transition. The item list and total are untouched. The previous status is
// returned for the status-changed event.
func (r *Repo) UpdateStatus(ctx context.Context, id string, to Status) (Invoice, Status, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Invoice{}, "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var from Status
	err = tx.QueryRow(ctx, `SELECT status FROM invoices WHERE id=$1 FOR UPDATE`, id).Scan(&from)
	if errors.Is(err, pgx.ErrNoRows) {
		return Invoice{}, "", ErrNotFound
	}
	if err != nil {
		return Invoice{}, "", err
	}
	if !CanTransition(from, to) {
		return Invoice{}, "", fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	var inv Invoice
	err = tx.QueryRow(ctx, `
		UPDATE invoices SET status=$2, updated_at=now() WHERE id=$1
		RETURNING id, user_id, username, status, total_cents, created_at, updated_at`, id, to,
	).Scan(&inv.ID, &inv.UserID, &inv.Username, &inv.Status, &inv.TotalCents, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return Invoice{}, "", err
	}

	itemRows, err := tx.Query(ctx, `
		SELECT product_id, title, thumbnail, price_cents, quantity
		FROM invoice_items WHERE invoice_id=$1 ORDER BY id`, id)
	if err != nil {
		return Invoice{}, "", err
	}
	for itemRows.Next() {
		var it Item
		if err := itemRows.Scan(&it.ProductID, &it.Title, &it.Thumbnail, &it.PriceCents, &it.Quantity); err != nil {
			itemRows.Close()
			return Invoice{}, "", err
		}
		inv.Items = append(inv.Items, it)
	}
	itemRows.Close()
	if err := itemRows.Err(); err != nil {
		return Invoice{}, "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return Invoice{}, "", err
	}
	return inv, from, nil
}

func (r *Repo) StatsSnapshot(ctx context.Context) (Stats, error) {
	var s Stats
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status='pending'),
		       COUNT(*) FILTER (WHERE status='completed'),
		       COUNT(*) FILTER (WHERE status='cancelled'),
		       COALESCE(SUM(total_cents), 0)
		FROM invoices`,
	).Scan(&s.TotalOrders, &s.Pending, &s.Completed, &s.Cancelled, &s.RevenueCents)
	return s, err
}
