package payments

import (
	"encoding/json"
	"strings"
)

type PaymentRequest struct {
	OrderID     string
	Amount      int64
	Description string
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
}

type PaymentResponse struct {
	// PaymentRef is nil when the gateway response carried none of the known
	// reference fields.
	PaymentRef *string
	PayURL     string
	Raw        json.RawMessage
}

type PaymentStatus struct {
	Status            string
	TransactionStatus string // status of the first transaction, "" when none
	Email             string // buyer email from the payment details
	Raw               json.RawMessage
}

// Completed reports whether the gateway considers the payment done and its
// first transaction succeeded. Both are required.
func (s PaymentStatus) Completed() bool {
	return s.Status == "completed" && s.TransactionStatus == "success"
}

// paymentRefFields lists, in lookup order, the response fields the gateway
// has been seen to use for the payment reference.
var paymentRefFields = []string{"paymentRef", "payment_id"}

// ExtractPaymentRef returns the first non-empty string among the candidate
// reference fields of a create-payment response body.
func ExtractPaymentRef(body map[string]any) *string {
	for _, field := range paymentRefFields {
		v, ok := body[field]
		if !ok || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return &s
		}
	}
	return nil
}
