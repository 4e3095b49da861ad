package messaging

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// RoutingKeyMailRequested routes outbound mail requests to the delivery worker.
const RoutingKeyMailRequested = "mail.requested"

// MailEvent asks the mail worker to deliver one message.
type MailEvent struct {
	ID          uuid.UUID `json:"id"`
	Recipient   string    `json:"recipient"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	RequestedAt time.Time `json:"requested_at"`
}

type Publisher struct {
	client *RabbitMQClient
}

func NewPublisher(client *RabbitMQClient) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) PublishMailEvent(event MailEvent) error {
	if !p.client.IsConnected() {
		return fmt.Errorf("no connection to RabbitMQ")
	}

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.RequestedAt.IsZero() {
		event.RequestedAt = time.Now()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("mail event serialization error: %w", err)
	}

	channel := p.client.Channel()
	err = channel.Publish(
		p.client.config.Exchange,
		RoutingKeyMailRequested,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID.String(),
			Timestamp:    event.RequestedAt,
			Headers: amqp.Table{
				"recipient": event.Recipient,
			},
		},
	)
	if err != nil {
		return fmt.Errorf("mail event publish error: %w", err)
	}

	slog.Info("mail event published", "event_id", event.ID, "recipient", event.Recipient)
	return nil
}
