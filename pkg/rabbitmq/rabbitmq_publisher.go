package rabbitmq

import (
	"context"
	"sync"
	"time"

	"docvault/pkg/logger"
	"docvault/pkg/utilities"

	amqp "github.com/rabbitmq/amqp091-go"
)

type PublisherAlias string

var (
	publisherRegistry map[PublisherAlias]IRabbitmqPublisher
	registryMu        sync.RWMutex
)

func GetPublisher(alias PublisherAlias) IRabbitmqPublisher {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return publisherRegistry[alias]
}

func InitializePublisherRegistry(conn *amqp.Connection, publisherConfig []RabbitmqPublishersConfig) {
	registryMu.Lock()
	defer registryMu.Unlock()

	publisherRegistry = make(map[PublisherAlias]IRabbitmqPublisher)

	for _, publisher := range publisherConfig {
		channel, err := conn.Channel()
		if err != nil {
			logger.Default().Panicf(err, "Could not obtain channel for publisher %s", publisher.PublisherAlias)
		}

		publisherRegistry[publisher.PublisherAlias] = NewPublisher(
			channel,
			publisher.Exchange,
			publisher.RoutingKey,
		)
	}
}

type IRabbitmqPublisher interface {
	Publish(ctx context.Context, body utilities.Serializable) error
}

type RabbitmqPublisher struct {
	Channel    *amqp.Channel
	Exchange   string
	RoutingKey string
}

func NewPublisher(ch *amqp.Channel, exchange, routingKey string) *RabbitmqPublisher {
	return &RabbitmqPublisher{
		Channel:    ch,
		Exchange:   exchange,
		RoutingKey: routingKey,
	}
}

func (rp *RabbitmqPublisher) Publish(ctx context.Context, body utilities.Serializable) error {
	json, err := body.Serialize()
	if err != nil {
		return err
	}

	return rp.Channel.PublishWithContext(
		ctx,
		rp.Exchange,
		rp.RoutingKey,
		false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         json,
			Timestamp:    time.Now(),
			DeliveryMode: amqp.Persistent,
		},
	)
}
