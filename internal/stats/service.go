// Package stats folds invoice lifecycle events into the dashboard aggregate
// hash in redis, replacing the full rescan the admin dashboard would
// otherwise do.
package stats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/davitran/storefront/internal/invoices"
	"github.com/davitran/storefront/internal/redisx"
)

const (
	FieldTotalOrders  = "total_orders"
	FieldRevenueCents = "revenue_cents"
	FieldPending      = "pending"
	FieldCompleted    = "completed"
	FieldCancelled    = "cancelled"
)

type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// HandleInvoiceEvent is installed as the consumer handler for both invoice
// topics.
func (s *Service) HandleInvoiceEvent(ctx context.Context, m kafkago.Message) error {
	var env invoices.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	deltas, err := deltasFor(env)
	if err != nil {
		return err
	}
	if len(deltas) == 0 {
		return nil // unknown event type, ignore
	}

	// dedup via event id so a redelivered message never double-counts
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	pipe := s.Redis.Pipeline()
	for field, delta := range deltas {
		pipe.HIncrBy(ctx, redisx.KeyDashboardStats, field, delta)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// deltasFor maps one event to the hash increments it implies. A created
// invoice counts as a pending order and adds its total to revenue; a status
// change moves one order between status buckets.
func deltasFor(env invoices.Envelope) (map[string]int64, error) {
	switch env.EventType {
	case invoices.EventInvoiceCreated:
		var p invoices.InvoiceCreatedPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, err
		}
		return map[string]int64{
			FieldTotalOrders:  1,
			FieldRevenueCents: p.TotalCents,
			FieldPending:      1,
		}, nil
	case invoices.EventInvoiceStatusChanged:
		var p invoices.InvoiceStatusChangedPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, err
		}
		deltas := map[string]int64{}
		if f := statusField(p.From); f != "" {
			deltas[f] = deltas[f] - 1
		}
		if f := statusField(p.To); f != "" {
			deltas[f] = deltas[f] + 1
		}
		return deltas, nil
	default:
		return nil, nil
	}
}

func statusField(s invoices.Status) string {
	switch s {
	case invoices.StatusPending:
		return FieldPending
	case invoices.StatusCompleted:
		return FieldCompleted
	case invoices.StatusCancelled:
		return FieldCancelled
	}
	return ""
}
