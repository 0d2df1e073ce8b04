package events

import (
	"context"
	"encoding/json"

	"storefront-service/models"
	aws_pkg "storefront-service/pkg/aws"
)

// SQSPublisher enqueues checkout events on a single queue.
type SQSPublisher struct {
	sender aws_pkg.SQSSender
}

func NewSQSPublisher(sender aws_pkg.SQSSender) *SQSPublisher {
	return &SQSPublisher{sender: sender}
}

func (p *SQSPublisher) PublishCheckout(ctx context.Context, event models.CheckoutEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.sender.SendMessage(ctx, string(data), map[string]string{
		"event":   event.Event,
		"orderId": event.OrderID,
	})
}
