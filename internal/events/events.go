// Package events publishes domain events to RabbitMQ so other services can
// react to expenses logged over chat.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"spendchat/internal/logger"
	"spendchat/internal/models"
)

// RoutingKeyExpenseLogged is the routing key of ExpenseLogged events.
const RoutingKeyExpenseLogged = "expense.logged"

// ExpenseLogged is emitted after an expense is stored from a chat message.
type ExpenseLogged struct {
	ExpenseID   string    `json:"expense_id"`
	UserID      string    `json:"user_id"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	Category    string    `json:"category"`
	SubCategory string    `json:"sub_category"`
	Date        string    `json:"date"`
	LoggedAt    time.Time `json:"logged_at"`
}

// NewExpenseLogged builds the event for expense owned by user.
func NewExpenseLogged(user *models.User, expense *models.Expense) ExpenseLogged {
	return ExpenseLogged{
		ExpenseID:   expense.ID,
		UserID:      user.ID,
		Description: expense.Description,
		Amount:      expense.Amount,
		Currency:    user.Currency,
		Category:    expense.Category,
		SubCategory: expense.SubCategory,
		Date:        expense.Date.Format(models.DateLayout),
		LoggedAt:    time.Now().UTC(),
	}
}

// Publisher sends expense events.
type Publisher interface {
	PublishExpenseLogged(ctx context.Context, event ExpenseLogged) error
	Close() error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

// PublishExpenseLogged discards event.
func (NoopPublisher) PublishExpenseLogged(context.Context, ExpenseLogged) error {
	return nil
}

// Close is a no-op.
func (NoopPublisher) Close() error {
	return nil
}

// channel is the subset of *amqp091.Channel used for publishing.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// AMQPPublisher publishes events to a durable topic exchange.
type AMQPPublisher struct {
	conn     *amqp091.Connection
	ch       channel
	exchange string
}

// NewAMQPPublisher dials url and declares exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// PublishExpenseLogged publishes event as a persistent JSON message.
func (p *AMQPPublisher) PublishExpenseLogged(ctx context.Context, event ExpenseLogged) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.ch.PublishWithContext(
		ctx,
		p.exchange,
		RoutingKeyExpenseLogged,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    event.LoggedAt,
			MessageId:    event.ExpenseID,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	logger.For("events").Debugw("published expense event",
		"expense_id", event.ExpenseID,
		"exchange", p.exchange,
	)
	return nil
}

// Close closes the channel and the connection.
func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
