package stats

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/davitran/storefront/internal/invoices"
	"github.com/davitran/storefront/internal/redisx"
)

// Cache reads the aggregate hash the worker maintains. ok is false when the
// hash is cold (worker not running yet, or redis flushed) so callers can fall
// back to a database aggregate.
type Cache struct{ RDB *redis.Client }

func (c *Cache) Snapshot(ctx context.Context) (invoices.Stats, bool, error) {
	vals, err := c.RDB.HGetAll(ctx, redisx.KeyDashboardStats).Result()
	if err != nil {
		return invoices.Stats{}, false, err
	}
	if len(vals) == 0 {
		return invoices.Stats{}, false, nil
	}
	field := func(name string) int64 {
		n, _ := strconv.ParseInt(vals[name], 10, 64)
		return n
	}
	return invoices.Stats{
		TotalOrders:  field(FieldTotalOrders),
		Pending:      field(FieldPending),
		Completed:    field(FieldCompleted),
		Cancelled:    field(FieldCancelled),
		RevenueCents: field(FieldRevenueCents),
	}, true, nil
}
