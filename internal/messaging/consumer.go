package messaging

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"
)

type MailEventHandler func(event MailEvent) error

type Consumer struct {
	client       *RabbitMQClient
	queueName    string
	consumerName string
}

func NewConsumer(client *RabbitMQClient, queueName, consumerName string) *Consumer {
	return &Consumer{
		client:       client,
		queueName:    queueName,
		consumerName: consumerName,
	}
}

// ConsumeMailEvents declares the queue, binds the routing keys and starts a
// delivery loop in the background. Failed events are re-published once per
// delivery, up to three attempts, then dead-lettered.
func (c *Consumer) ConsumeMailEvents(routingKeys []string, handler MailEventHandler) error {
	if !c.client.IsConnected() {
		return fmt.Errorf("no connection to RabbitMQ")
	}

	channel := c.client.Channel()

	queue, err := channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("queue declare error: %w", err)
	}

	for _, routingKey := range routingKeys {
		err = channel.QueueBind(
			queue.Name,
			routingKey,
			c.client.config.Exchange,
			false,
			nil,
		)
		if err != nil {
			return fmt.Errorf("queue bind error (%s): %w", routingKey, err)
		}
	}

	messages, err := channel.Consume(
		queue.Name,
		c.consumerName,
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume start error: %w", err)
	}

	slog.Info("consuming mail events", "queue", queue.Name)

	go func() {
		for {
			select {
			case msg := <-messages:
				c.handleMessage(msg, handler)
			case <-c.client.ctx.Done():
				slog.Info("mail consumer stopped", "consumer", c.consumerName)
				return
			}
		}
	}()

	return nil
}

func (c *Consumer) handleMessage(msg amqp.Delivery, handler MailEventHandler) {
	var event MailEvent

	if err := json.Unmarshal(msg.Body, &event); err != nil {
		slog.Error("mail event deserialize error", "error", err)
		msg.Nack(false, false)
		return
	}

	if err := handler(event); err != nil {
		slog.Error("mail event process error", "event_id", event.ID, "error", err)

		if c.shouldRetry(msg) {
			c.republish(msg, event)
		} else {
			slog.Warn("mail event dead-lettered", "event_id", event.ID)
			msg.Nack(false, false)
		}
		return
	}

	msg.Ack(false)
}

func (c *Consumer) shouldRetry(msg amqp.Delivery) bool {
	attempts, ok := msg.Headers["x-delivery-attempts"].(int32)
	if !ok {
		return true
	}
	return attempts < 3
}

func (c *Consumer) republish(msg amqp.Delivery, event MailEvent) {
	channel := c.client.Channel()

	time.Sleep(2 * time.Second)

	headers := amqp.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}
	attempts, _ := msg.Headers["x-delivery-attempts"].(int32)
	headers["x-delivery-attempts"] = attempts + 1

	err := channel.Publish(
		msg.Exchange,
		msg.RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  msg.ContentType,
			Body:         msg.Body,
			DeliveryMode: msg.DeliveryMode,
			Headers:      headers,
		},
	)
	if err != nil {
		slog.Error("mail event retry publish error", "event_id", event.ID, "error", err)
		msg.Nack(false, false)
		return
	}

	msg.Ack(false)
	slog.Info("mail event re-published", "event_id", event.ID)
}
