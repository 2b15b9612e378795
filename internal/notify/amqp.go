package notify

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"restaurant-pos/internal/common/logging"
	"restaurant-pos/internal/common/mq"
)

// AMQPBridge mirrors every event onto a durable fanout exchange so consumers
// outside the terminal fleet (kitchen printers, reporting jobs) can subscribe.
type AMQPBridge struct {
	client   *mq.Client
	exchange string
}

func NewAMQPBridge(client *mq.Client, exchange string) (*AMQPBridge, error) {
	if err := client.DeclareExchange(exchange); err != nil {
		return nil, err
	}
	return &AMQPBridge{client: client, exchange: exchange}, nil
}

var _ Publisher = (*AMQPBridge)(nil)

func (b *AMQPBridge) Publish(event string, payload any) {
	body, err := json.Marshal(Message{Event: event, Data: payload})
	if err != nil {
		logging.Error().Err(err).Str("event", event).Msg("failed to marshal event for amqp")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := b.client.PublishPersistent(ctx, b.exchange, event, body); err != nil {
		logging.Error().Err(err).Str("event", event).Msg("failed to publish event to amqp")
	}
}
