package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	paymentuc "github.com/riolentius/hideki-store-backend/internal/usecase/payment"
)

type OrderEvent struct {
	OrderID     string    `json:"orderId"`
	CartID      string    `json:"cartId"`
	State       string    `json:"state"`
	GrossTotal  int64     `json:"grossTotal"`
	PaymentType string    `json:"paymentType,omitempty"`
	Email       string    `json:"email"`
	Review      bool      `json:"reviewRequired,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher emits order.<state> messages on a topic exchange whenever a
// payment attempt resolves.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	exchange string
	timeout  time.Duration
}

var _ paymentuc.Listener = (*Publisher)(nil)

func Dial(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp exchange declare: %w", err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange, timeout: 5 * time.Second}, nil
}

func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

func RoutingKey(state paymentuc.State) string {
	return "order." + string(state)
}

func (p *Publisher) AttemptResolved(ctx context.Context, a paymentuc.Attempt) error {
	ev := OrderEvent{
		OrderID:    a.OrderID,
		CartID:     a.CartID,
		State:      string(a.State),
		GrossTotal: a.Transaction.GrossTotal,
		Email:      a.Transaction.Customer.Email,
		Review:     a.ReviewRequired,
		OccurredAt: a.UpdatedAt,
	}
	if a.LastOutcome != nil {
		ev.PaymentType = a.LastOutcome.PaymentType
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx,
		p.exchange,          // exchange
		RoutingKey(a.State), // routing key
		false,               // mandatory
		false,               // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    a.OrderID + ":" + string(a.State),
			Timestamp:    ev.OccurredAt,
			Body:         body,
		})
}
