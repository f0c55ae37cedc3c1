package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/coffee-shop-auth/internal/queue"
)

// defaultDialTimeout bounds the broker dial when ctx has no deadline.
const defaultDialTimeout = 5 * time.Second

// MailPublisher publishes reset mail requests to RabbitMQ. Each publish
// opens its own connection; reset requests are rare enough for that.
type MailPublisher struct {
	URL   string
	Queue string
}

func NewMailPublisher(url, queue string) *MailPublisher {
	if queue == "" {
		queue = q.PasswordResetQueue
	}
	return &MailPublisher{URL: url, Queue: queue}
}

// PublishPasswordReset sends ev as a persistent JSON message to the mail
// queue, declaring it first (idempotent).
func (p *MailPublisher) PublishPasswordReset(ctx context.Context, ev q.PasswordResetRequestedEvent) error {
	timeout, err := dialTimeout(ctx)
	if err != nil {
		return fmt.Errorf("rabbitmq: %w", err)
	}
	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return fmt.Errorf("rabbitmq: dial failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq: channel open failed: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		p.Queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		return fmt.Errorf("rabbitmq: queue declare failed: %w", err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event failed: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		p.Queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		return fmt.Errorf("rabbitmq: publish failed: %w", err)
	}
	return nil
}

// dialTimeout returns the time left before ctx expires, covering both the
// TCP connect and the AMQP handshake.
func dialTimeout(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return defaultDialTimeout, nil
	}
	left := time.Until(deadline)
	if left <= 0 {
		return 0, context.DeadlineExceeded
	}
	return left, nil
}
