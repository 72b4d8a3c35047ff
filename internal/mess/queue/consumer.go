package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kampuskart/internal/mess/model"
	"kampuskart/internal/mess/util"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ActivityStore is the sink the consumer writes into.
type ActivityStore interface {
	CreateActivity(ctx context.Context, activity *model.MessActivity) error
}

// StartActivityConsumer consumes the activity queue until ctx is cancelled,
// reconnecting with exponential backoff when the broker goes away.
func StartActivityConsumer(ctx context.Context, url, queue string, store ActivityStore) {
	if queue == "" {
		queue = DefaultActivityQueue
	}
	logger := util.GetLogger()

	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := amqp.Dial(url)
		if err != nil {
			logger.Warn("activity consumer: dial failed", "error", err, "retry_in", backoff.String())
			if !sleep(ctx, backoff) {
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, queue, store)
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}
		logger.Warn("activity consumer: loop ended, reconnecting", "error", err)
		if !sleep(ctx, 2*time.Second) {
			return
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, queue string, store ActivityStore) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		util.GetLogger().Warn("activity consumer: set QoS failed", "error", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := handleMessage(ctx, store, d.Body); err != nil {
				util.GetLogger().Error("activity consumer: dropping message", "error", err, "message_id", d.MessageId)
				// No requeue: a store that keeps failing would otherwise redeliver in a tight loop
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

var errMalformed = errors.New("malformed activity")

// storeAttempts bounds the writes per delivery; storeBackoff is the first
// pause between them and doubles after each failure.
var (
	storeAttempts = 3
	storeBackoff  = 500 * time.Millisecond
)

func handleMessage(ctx context.Context, store ActivityStore, body []byte) error {
	a, err := decodeActivity(body)
	if err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}

	backoff := storeBackoff
	for attempt := 1; ; attempt++ {
		wctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = store.CreateActivity(wctx, a)
		cancel()
		if err == nil {
			return nil
		}
		if attempt >= storeAttempts {
			return fmt.Errorf("store activity %s after %d attempts: %w", a.ID, attempt, err)
		}
		util.GetLogger().Warn("activity consumer: store failed, retrying",
			"activity_id", a.ID, "attempt", attempt, "error", err)
		if !sleep(ctx, backoff) {
			return ctx.Err()
		}
		backoff *= 2
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
