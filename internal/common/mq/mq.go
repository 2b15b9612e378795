// Package mq holds the RabbitMQ connection used by the AMQP event bridge.
package mq

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func Dial(host string, port int, user, pass string) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%d/", user, pass, host, port)
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &Client{conn: conn, ch: ch}, nil
}

func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// DeclareExchange sets up the durable fanout exchange terminals-adjacent
// consumers (kitchen printers, reporting jobs) bind their queues to.
func (c *Client) DeclareExchange(exchange string) error {
	if c == nil || c.ch == nil {
		return fmt.Errorf("nil channel")
	}
	return c.ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil)
}

func (c *Client) PublishPersistent(ctx context.Context, exchange, key string, body []byte) error {
	return c.ch.PublishWithContext(ctx, exchange, key, false, false, amqp.Publishing{
		MessageId:    uuid.NewString(),
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		ContentType:  "application/json",
		Body:         body,
	})
}
