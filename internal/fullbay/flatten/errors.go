package flatten

import "fmt"

// MalformedInvoiceError is fatal for the whole invoice: nothing is emitted
// and nothing should be persisted for it. Everything less severe is a
// report warning.
type MalformedInvoiceError struct {
	InvoiceID string
	Reason    string
}

func (e *MalformedInvoiceError) Error() string {
	if e.InvoiceID == "" {
		return fmt.Sprintf("malformed invoice: %s", e.Reason)
	}
	return fmt.Sprintf("malformed invoice %s: %s", e.InvoiceID, e.Reason)
}
