package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

type RabbitMQClient struct {
	config     *RabbitMQConfig
	connection *amqp.Connection
	channel    *amqp.Channel
	mu         sync.RWMutex
	isClosing  bool
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewRabbitMQClient(config *RabbitMQConfig) *RabbitMQClient {
	ctx, cancel := context.WithCancel(context.Background())

	return &RabbitMQClient{
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (r *RabbitMQClient) Connect() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	for i := 0; i < r.config.RetryCount; i++ {
		r.connection, err = amqp.Dial(r.config.ConnectionURL())
		if err != nil {
			slog.Warn("rabbitmq connection failed",
				"attempt", i+1, "max_attempts", r.config.RetryCount, "error", err)
			if i < r.config.RetryCount-1 {
				time.Sleep(r.config.RetryDelay)
				continue
			}
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}

		r.channel, err = r.connection.Channel()
		if err != nil {
			r.connection.Close()
			return fmt.Errorf("failed to open RabbitMQ channel: %w", err)
		}

		err = r.channel.ExchangeDeclare(
			r.config.Exchange, // name
			"topic",           // type
			true,              // durable
			false,             // auto-deleted
			false,             // internal
			false,             // no-wait
			nil,               // arguments
		)
		if err != nil {
			r.channel.Close()
			r.connection.Close()
			return fmt.Errorf("failed to declare exchange: %w", err)
		}

		slog.Info("connected to rabbitmq", "host", r.config.Host, "exchange", r.config.Exchange)

		go r.handleReconnection()

		return nil
	}

	return err
}

func (r *RabbitMQClient) handleReconnection() {
	notifyClose := make(chan *amqp.Error)
	r.connection.NotifyClose(notifyClose)

	err := <-notifyClose
	if r.isClosing {
		return
	}

	slog.Warn("rabbitmq connection lost, reconnecting", "error", err)
	time.Sleep(time.Second * 2)
	if reconnectErr := r.Connect(); reconnectErr != nil {
		slog.Error("rabbitmq reconnect failed", "error", reconnectErr)
	}
}

func (r *RabbitMQClient) Channel() *amqp.Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.channel
}

func (r *RabbitMQClient) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isClosing {
		return nil
	}

	r.isClosing = true
	r.cancel()

	var closeErr error

	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			closeErr = fmt.Errorf("channel close error: %w", err)
		}
	}

	if r.connection != nil {
		if err := r.connection.Close(); err != nil {
			if closeErr != nil {
				closeErr = fmt.Errorf("%v; connection close error: %w", closeErr, err)
			} else {
				closeErr = fmt.Errorf("connection close error: %w", err)
			}
		}
	}

	return closeErr
}

func (r *RabbitMQClient) IsConnected() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.connection != nil && !r.connection.IsClosed()
}
