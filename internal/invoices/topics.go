package invoices

const (
	TopicInvoiceCreated = "invoice.created"
	TopicInvoiceStatus  = "invoice.status"
)

// Partition key = invoice id, so all events for one invoice keep their order.
func PartitionKey(invoiceID string) []byte { return []byte(invoiceID) }
