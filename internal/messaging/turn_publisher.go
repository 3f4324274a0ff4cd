package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ExchangeTurnEvents is the fanout exchange completed turns are published to.
const ExchangeTurnEvents = "gamemaster_turn_events"

// TurnEvent describes one completed narrated turn for downstream consumers
// (analytics, moderation). Fire and forget: publishing must never fail or
// delay the player-facing turn.
type TurnEvent struct {
	SessionID string    `json:"session_id"`
	Mode      string    `json:"mode"`
	UserText  string    `json:"user_text"`
	BotText   string    `json:"bot_text"`
	At        time.Time `json:"at"`
}

// TurnPublisher publishes completed turns.
type TurnPublisher interface {
	PublishTurn(ctx context.Context, event TurnEvent) error
	Close() error
}

// --- AMQP implementation ---

type amqpTurnPublisher struct {
	channel *amqp091.Channel
	logger  *zap.Logger
}

// NewAMQPTurnPublisher opens a channel on the connection and declares the
// turn-event fanout exchange.
func NewAMQPTurnPublisher(conn *amqp091.Connection, logger *zap.Logger) (TurnPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel for turn publisher: %w", err)
	}

	err = ch.ExchangeDeclare(
		ExchangeTurnEvents, // name
		"fanout",           // type
		true,               // durable
		false,              // auto-deleted
		false,              // internal
		false,              // no-wait
		nil,                // arguments
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to declare turn events exchange: %w", err)
	}

	return &amqpTurnPublisher{
		channel: ch,
		logger:  logger.Named("TurnPublisher"),
	}, nil
}

func (p *amqpTurnPublisher) PublishTurn(ctx context.Context, event TurnEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal turn event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx,
		ExchangeTurnEvents, // exchange
		"",                 // routing key (fanout ignores it)
		false,              // mandatory
		false,              // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Timestamp:   event.At,
			Body:        body,
		},
	)
	if err != nil {
		p.logger.Warn("Failed to publish turn event", zap.Error(err), zap.String("sessionID", event.SessionID))
		return fmt.Errorf("failed to publish turn event: %w", err)
	}

	p.logger.Debug("Turn event published", zap.String("sessionID", event.SessionID), zap.String("mode", event.Mode))
	return nil
}

func (p *amqpTurnPublisher) Close() error {
	return p.channel.Close()
}

// --- No-op implementation ---

// noopTurnPublisher is used when no broker is configured.
type noopTurnPublisher struct{}

// NewNoopTurnPublisher returns a TurnPublisher that drops all events.
func NewNoopTurnPublisher() TurnPublisher {
	return noopTurnPublisher{}
}

func (noopTurnPublisher) PublishTurn(context.Context, TurnEvent) error { return nil }
func (noopTurnPublisher) Close() error                                 { return nil }
