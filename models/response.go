package models

const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusInvalid = "invalid"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PaymentRequestInput is the body of the payment request endpoint
type PaymentRequestInput struct {
	CheckoutID string `json:"checkout_id"`
}
