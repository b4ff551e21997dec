package queue

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	tasksExchange = "tasks.exchange"
)

// Notifier publishes task ids to RabbitMQ as a wake-up hint so idle workers
// claim immediately instead of waiting out a poll interval. Durable task
// state stays in Postgres; losing a hint only delays pickup until the next
// poll.
type Notifier struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewNotifier(url string) (*Notifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	n := &Notifier{conn: conn, ch: ch}
	if err := n.setupTopology(); err != nil {
		n.Close()
		return nil, err
	}
	return n, nil
}

// setupTopology declares the exchange and one queue per task kind. Idempotent.
func (n *Notifier) setupTopology() error {
	if err := n.ch.ExchangeDeclare(tasksExchange, "direct", true, false, false, false, nil); err != nil {
		return err
	}
	for _, kind := range []TaskKind{KindStandard, KindStrategic} {
		name := hintQueueName(kind)
		if _, err := n.ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return err
		}
		if err := n.ch.QueueBind(name, string(kind), tasksExchange, false, nil); err != nil {
			return err
		}
	}
	return nil
}

func (n *Notifier) Publish(ctx context.Context, kind TaskKind, taskID string) error {
	return n.ch.PublishWithContext(ctx,
		tasksExchange,
		string(kind),
		false,
		false,
		amqp.Publishing{
			ContentType: "text/plain",
			Body:        []byte(taskID),
		})
}

// Consume returns the hint stream for a task kind. Deliveries are auto-acked:
// a hint carries no state worth redelivering.
func (n *Notifier) Consume(kind TaskKind) (<-chan amqp.Delivery, error) {
	return n.ch.Consume(hintQueueName(kind), "", true, false, false, false, nil)
}

func (n *Notifier) Close() {
	if n.ch != nil {
		n.ch.Close()
	}
	if n.conn != nil {
		n.conn.Close()
	}
}

func hintQueueName(kind TaskKind) string {
	return fmt.Sprintf("tasks.queue.%s", kind)
}
