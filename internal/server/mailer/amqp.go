package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cloudygo/internal/logging"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher is the part of *amqp.Channel used for publishing.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPSender enqueues messages as JSON on a durable queue. The mail relay
// consumes the queue and does the actual delivery.
type AMQPSender struct {
	conn  *amqp.Connection
	ch    Publisher
	queue string
	now   func() time.Time
}

// NewAMQPSender publishes through an existing channel.
func NewAMQPSender(ch Publisher, queue string) *AMQPSender {
	return &AMQPSender{ch: ch, queue: queue, now: time.Now}
}

// DialAMQP connects to the broker, declares the queue and returns a sender
// that owns the connection.
func DialAMQP(url, queue string) (*AMQPSender, error) {
	const op = "mailer.DialAMQP"

	conn, ch, err := openQueue(url, queue)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s := NewAMQPSender(ch, queue)
	s.conn = conn
	return s, nil
}

func (s *AMQPSender) Send(ctx context.Context, msg Message) error {
	const op = "mailer.AMQPSender.Send"

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = s.ch.PublishWithContext(ctx, "", s.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID,
		Timestamp:    s.now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close releases the broker connection if the sender owns one.
func (s *AMQPSender) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func openQueue(url, queue string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, err
	}

	return conn, ch, nil
}

// Consumer drains the mail queue into a Sender.
type Consumer struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	log   logging.Logger
}

// DialConsumer connects to the broker and declares the queue.
func DialConsumer(url, queue string, l logging.Logger) (*Consumer, error) {
	const op = "mailer.DialConsumer"

	conn, ch, err := openQueue(url, queue)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Consumer{conn: conn, ch: ch, queue: queue, log: l.With("module", "mail_relay")}, nil
}

// Run consumes until ctx is done or the broker closes the channel.
func (c *Consumer) Run(ctx context.Context, sender Sender) error {
	deliveries, err := c.ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}
	return Relay(ctx, deliveries, sender, c.log)
}

func (c *Consumer) Close() error {
	_ = c.ch.Close()
	return c.conn.Close()
}

// ErrDeliveriesClosed is returned by Relay when the broker closes the
// delivery channel before ctx is done.
var ErrDeliveriesClosed = errors.New("delivery channel closed")

// Relay delivers every queued message through sender. Undecodable messages
// are rejected and failed deliveries are dropped after logging; nothing is
// requeued. It returns nil once ctx is done.
func Relay(ctx context.Context, deliveries <-chan amqp.Delivery, sender Sender, l logging.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return ErrDeliveriesClosed
			}
			relayOne(ctx, d, sender, l)
		}
	}
}

func relayOne(ctx context.Context, d amqp.Delivery, sender Sender, l logging.Logger) {
	var msg Message
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		l.Error(ctx, "failed to decode mail message", logging.Err(err))
		_ = d.Reject(false)
		return
	}

	if err := sender.Send(ctx, msg); err != nil {
		l.Error(ctx, "failed to deliver mail", "id", msg.ID, "to", msg.To, logging.Err(err))
		_ = d.Nack(false, false)
		return
	}

	l.Info(ctx, "mail delivered", "id", msg.ID, "to", msg.To)
	_ = d.Ack(false)
}
