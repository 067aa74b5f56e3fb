// Package events publishes domain notifications to a RabbitMQ fanout
// exchange. Downstream consumers (push notifications, email digests) attach
// their own queues; the API never blocks on delivery.
package events

import (
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

const exchangeName = "ua.events"

// Event kinds consumers can bind on.
const (
	ConnectionRequestCreated   = "connection_request.created"
	ConnectionRequestAccepted  = "connection_request.accepted"
	ConnectionRequestDeclined  = "connection_request.declined"
	ConnectionRequestCancelled = "connection_request.cancelled"
	SessionRequestCreated      = "session_request.created"
	SessionRequestAccepted     = "session_request.accepted"
	SessionRequestDeclined     = "session_request.declined"
	SessionRequestCancelled    = "session_request.cancelled"
	SessionCancelled           = "session.cancelled"
	MessageSent                = "message.sent"
)

type Event struct {
	Kind       string    `json:"kind"`
	SenderID   int64     `json:"sender_id,omitempty"`
	ReceiverID int64     `json:"receiver_id,omitempty"`
	ResourceID int64     `json:"resource_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(event Event) error
	Close() error
}

type AMQPPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *logrus.Logger
}

func NewAMQPPublisher(url string, log *logrus.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := channel.ExchangeDeclare(
		exchangeName,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &AMQPPublisher{conn: conn, channel: channel, log: log}, nil
}

func (p *AMQPPublisher) Publish(event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = p.channel.Publish(
		exchangeName,
		event.Kind, // routing key, ignored by fanout but useful in traces
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		p.log.WithError(err).WithField("kind", event.Kind).Warn("event publish failed")
		return err
	}

	return nil
}

func (p *AMQPPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		return err
	}
	return p.conn.Close()
}

// NoopPublisher drops every event. Used when AMQP_URL is unset and in tests.
type NoopPublisher struct{}

func (NoopPublisher) Publish(Event) error { return nil }
func (NoopPublisher) Close() error        { return nil }
