package notification

import (
	"context"
	"fmt"

	"github.com/commercekit/storefront/internal/messaging"
)

// AMQPNotifier publishes mail requests onto the broker. Delivery itself is
// handled by the mail worker; past the publish this is fire-and-forget.
type AMQPNotifier struct {
	publisher *messaging.Publisher
}

func NewAMQPNotifier(publisher *messaging.Publisher) *AMQPNotifier {
	return &AMQPNotifier{publisher: publisher}
}

func (n *AMQPNotifier) Send(ctx context.Context, recipient, subject, body string) error {
	event := messaging.MailEvent{
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
	}

	if err := n.publisher.PublishMailEvent(event); err != nil {
		return fmt.Errorf("mail request publish error: %w", err)
	}
	return nil
}
