package redisx

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// InvoiceStatusCache keeps a short-lived copy of each invoice's status so the
// status endpoint does not have to hit postgres on every poll.
type InvoiceStatusCache struct{ RDB *redis.Client }

func (c *InvoiceStatusCache) SetStatus(ctx context.Context, invoiceID, status string) error {
	key := fmt.Sprintf(KeyInvoiceStatus, invoiceID)
	return c.RDB.Set(ctx, key, status, TTLStatusCache).Err()
}

// GetStatus returns "" on a cache miss.
func (c *InvoiceStatusCache) GetStatus(ctx context.Context, invoiceID string) (string, error) {
	key := fmt.Sprintf(KeyInvoiceStatus, invoiceID)
	s, err := c.RDB.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return s, err
}
