package invoices

import (
	"encoding/json"
	"time"
)

const (
	EventInvoiceCreated       = "InvoiceCreated"
	EventInvoiceStatusChanged = "InvoiceStatusChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // invoice id
	Payload       json.RawMessage `json:"payload"`
}

type ItemPrice struct {
	ProductID  string `json:"product_id"`
	Qty        int    `json:"qty"`
	PriceCents int64  `json:"price_cents"`
}

type InvoiceCreatedPayload struct {
	InvoiceID  string      `json:"invoice_id"`
	UserID     string      `json:"user_id"`
	Username   string      `json:"username"`
	Items      []ItemPrice `json:"items"`
	TotalCents int64       `json:"total_cents"`
}

type InvoiceStatusChangedPayload struct {
	InvoiceID string `json:"invoice_id"`
	From      Status `json:"from"`
	To        Status `json:"to"`
}
