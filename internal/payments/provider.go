// Package payments wraps the external payment gateway behind a small
// provider interface so handlers stay independent of the PayPal SDK.
package payments

import "context"

type Order struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	ApprovalURL string `json:"approval_url,omitempty"`
}

type Capture struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type Provider interface {
	// CreateOrder opens an order for the given amount, formatted with two
	// decimal places, in the given currency.
	CreateOrder(ctx context.Context, value, currency, description string) (*Order, error)
	// CaptureOrder captures a previously approved order.
	CaptureOrder(ctx context.Context, orderID string) (*Capture, error)
}
