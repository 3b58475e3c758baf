// Package cart holds a shopper's selected products. The cart is an ordered
// list of entries, each embedding a snapshot of the product taken when it was
// first added. All operations are total: mutating an absent entry is a no-op.
package cart

import "github.com/davitran/storefront/internal/catalog"

type Entry struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Add increments the quantity when the product is already present, otherwise
// appends a new entry with quantity 1.
func Add(entries []Entry, p catalog.Product) []Entry {
	for i := range entries {
		if entries[i].Product.ID == p.ID {
			entries[i].Quantity++
			return entries
		}
	}
	return append(entries, Entry{Product: p, Quantity: 1})
}

// ApplyDelta adjusts an entry's quantity, never below 1. Decrementing a
// quantity-1 entry leaves it at 1.
func ApplyDelta(entries []Entry, productID string, delta int) []Entry {
	for i := range entries {
		if entries[i].Product.ID == productID {
			if q := entries[i].Quantity + delta; q > 1 {
				entries[i].Quantity = q
			} else {
				entries[i].Quantity = 1
			}
			return entries
		}
	}
	return entries
}

func Remove(entries []Entry, productID string) []Entry {
	out := entries[:0]
	for _, e := range entries {
		if e.Product.ID != productID {
			out = append(out, e)
		}
	}
	return out
}

// TotalCents sums unit price x quantity over the snapshot prices.
func TotalCents(entries []Entry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Product.PriceCents * int64(e.Quantity)
	}
	return total
}
