package payments

import (
	"context"
	"fmt"

	"github.com/plutov/paypal/v4"
)

type PayPalProvider struct {
	client *paypal.Client
}

func NewPayPalProvider(clientID, secret, apiBase string) (*PayPalProvider, error) {
	client, err := paypal.NewClient(clientID, secret, apiBase)
	if err != nil {
		return nil, fmt.Errorf("paypal client: %w", err)
	}
	if _, err := client.GetAccessToken(context.Background()); err != nil {
		return nil, fmt.Errorf("paypal access token: %w", err)
	}
	return &PayPalProvider{client: client}, nil
}

func (p *PayPalProvider) CreateOrder(ctx context.Context, value, currency, description string) (*Order, error) {
	order, err := p.client.CreateOrder(ctx, paypal.OrderIntentCapture, []paypal.PurchaseUnitRequest{
		{
			Amount: &paypal.PurchaseUnitAmount{
				Currency: currency,
				Value:    value,
			},
			Description: description,
		},
	}, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	result := &Order{
		ID:     order.ID,
		Status: string(order.Status),
	}
	for _, link := range order.Links {
		if link.Rel == "approve" {
			result.ApprovalURL = link.Href
			break
		}
	}
	return result, nil
}

func (p *PayPalProvider) CaptureOrder(ctx context.Context, orderID string) (*Capture, error) {
	capture, err := p.client.CaptureOrder(ctx, orderID, paypal.CaptureOrderRequest{})
	if err != nil {
		return nil, fmt.Errorf("capture order: %w", err)
	}
	return &Capture{
		OrderID: capture.ID,
		Status:  capture.Status,
	}, nil
}
