package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("product not found")
	ErrDuplicateSlug = errors.New("slug already exists")
)

type Repo struct{ DB *pgxpool.Pool }

const productCols = `id, title, description, price_cents, discount_percentage,
	rating, stock, thumbnail, is_active, slug, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.PriceCents, &p.DiscountPercentage,
		&p.Rating, &p.Stock, &p.Thumbnail, &p.IsActive, &p.Slug, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *Repo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productCols+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id string) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id))
	if err != nil {
		return Product{}, mapErr(err)
	}
	return p, nil
}

func (r *Repo) Create(ctx context.Context, in ProductInput) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `
		INSERT INTO products (id, title, description, price_cents, discount_percentage,
		                      rating, stock, thumbnail, is_active, slug)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING `+productCols,
		uuid.NewString(), in.Title, in.Description, in.PriceCents, in.DiscountPercentage,
		in.Rating, in.Stock, in.Thumbnail, in.IsActive, in.Slug))
	if err != nil {
		return Product{}, mapErr(err)
	}
	return p, nil
}

func (r *Repo) Update(ctx context.Context, id string, in ProductInput) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `
		UPDATE products
		SET title=$2, description=$3, price_cents=$4, discount_percentage=$5,
		    rating=$6, stock=$7, thumbnail=$8, is_active=$9, slug=$10, updated_at=now()
		WHERE id=$1
		RETURNING `+productCols,
		id, in.Title, in.Description, in.PriceCents, in.DiscountPercentage,
		in.Rating, in.Stock, in.Thumbnail, in.IsActive, in.Slug))
	if err != nil {
		return Product{}, mapErr(err)
	}
	return p, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return mapErr(err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}

// mapErr translates storage errors into the package sentinels: missing rows
// and malformed uuids become ErrNotFound, a slug unique violation becomes
// ErrDuplicateSlug.
func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicateSlug
		case "22P02": // invalid uuid syntax from a client-supplied id
			return ErrNotFound
		}
	}
	return err
}
