// Package queue ships mess activity through RabbitMQ. The service publishes
// every audit record; the consumer persists them into the activity store.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"kampuskart/internal/mess/model"

	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultActivityQueue = "mess.activity"

// Publisher holds one lazily dialed connection. A failed publish drops the
// connection so the next call redials.
type Publisher struct {
	url   string
	queue string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(url, queue string) *Publisher {
	if queue == "" {
		queue = DefaultActivityQueue
	}
	return &Publisher{url: url, queue: queue}
}

func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("channel open: %w", err)
	}
	// Durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}

	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn = nil, nil
}

// Publish sends one activity record as a persistent JSON message.
func (p *Publisher) Publish(ctx context.Context, activity *model.MessActivity) error {
	body, err := encodeActivity(activity)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    activity.ID,
		Type:         activity.Operation,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		p.reset()
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}

func encodeActivity(activity *model.MessActivity) ([]byte, error) {
	if activity == nil || activity.MessID == "" || activity.Operation == "" {
		return nil, fmt.Errorf("activity requires messId and operation")
	}
	return json.Marshal(activity)
}

func decodeActivity(body []byte) (*model.MessActivity, error) {
	var a model.MessActivity
	if err := json.Unmarshal(body, &a); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if a.MessID == "" || a.Operation == "" {
		return nil, fmt.Errorf("activity requires messId and operation")
	}
	return &a, nil
}
