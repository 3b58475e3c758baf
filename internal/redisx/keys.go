package redisx

import "time"

const (
	// Cart snapshot per identity (username or "guest"): cart:{identity} -> JSON array
	KeyCart = "cart:%s"

	// Free-form contact profile: profile:{username} -> JSON object
	KeyProfile = "profile:%s"

	// Cache invoice status: invoice_status:{invoice_id} -> {"status":"..."}
	KeyInvoiceStatus = "invoice_status:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Dashboard aggregate hash maintained by the stats worker.
	KeyDashboardStats = "stats:dashboard"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
