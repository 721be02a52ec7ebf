package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher hands orphaned attachments to the broker.  It satisfies the
// catalog's janitor contract; any error is logged and, when Fallback is
// set, the path is handed to it instead so the file is not leaked.
type Publisher struct {
	URL      string
	Queue    string
	Timeout  time.Duration
	Fallback func(ctx context.Context, path string)
}

// Discard publishes an AttachmentOrphanedEvent for path.
func (p *Publisher) Discard(ctx context.Context, path string) {
	ev := AttachmentOrphanedEvent{Path: path, DiscardedAt: time.Now().UTC().Format(time.RFC3339)}
	if err := p.Publish(ctx, ev); err != nil && p.Fallback != nil {
		p.Fallback(ctx, path)
	}
}

// Publish sends ev to the configured queue.  Messages are marked as
// persistent and the queue is declared durable.
func (p *Publisher) Publish(ctx context.Context, ev AttachmentOrphanedEvent) error {
	// Timeout bounds the handshake as well as the publish; a silent broker
	// would otherwise hold the request for amqp's 30s default.
	dialCfg := amqp.Config{Locale: "en_US"}
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
		dialCfg.Dial = amqp.DefaultDial(p.Timeout)
	}
	conn, err := amqp.DialConfig(p.URL, dialCfg)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := declare(ch, p.Queue); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
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
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

func declare(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,  // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	)
}
