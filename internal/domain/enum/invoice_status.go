package enum

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

var invoiceStatuses = []InvoiceStatus{
	InvoiceStatusDraft,
	InvoiceStatusSent,
	InvoiceStatusPaid,
	InvoiceStatusOverdue,
	InvoiceStatusCancelled,
}

// InvoiceStatuses returns every status in display order.
func InvoiceStatuses() []InvoiceStatus {
	return append([]InvoiceStatus(nil), invoiceStatuses...)
}

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) IsValid() bool {
	_, ok := match(invoiceStatuses, string(s))
	return ok
}

func ParseInvoiceStatus(s string) (InvoiceStatus, bool) {
	return match(invoiceStatuses, s)
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	return unmarshal(data, invoiceStatuses, "invoice status", s)
}
