//go:build integration

package messaging_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcrabbitmq "github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"gamemaster-server/internal/messaging"
)

// TurnPublisherTestSuite runs the publisher against a real RabbitMQ broker
// started in a container.
type TurnPublisherTestSuite struct {
	suite.Suite
	container *tcrabbitmq.RabbitMQContainer
	conn      *amqp.Connection
	ctx       context.Context
}

func (s *TurnPublisherTestSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := tcrabbitmq.Run(s.ctx,
		"rabbitmq:3-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete"),
		),
	)
	require.NoError(s.T(), err, "Failed to start rabbitmq container")
	s.container = container

	amqpURL, err := container.AmqpURL(s.ctx)
	require.NoError(s.T(), err)

	s.conn, err = amqp.Dial(amqpURL)
	require.NoError(s.T(), err, "Failed to connect to rabbitmq container")
}

func (s *TurnPublisherTestSuite) TearDownSuite() {
	if s.conn != nil {
		_ = s.conn.Close()
	}
	if s.container != nil {
		_ = testcontainers.TerminateContainer(s.container)
	}
}

func (s *TurnPublisherTestSuite) TestPublishedTurnReachesBoundQueue() {
	publisher, err := messaging.NewAMQPTurnPublisher(s.conn, zap.NewNop())
	require.NoError(s.T(), err)
	defer func() { _ = publisher.Close() }()

	// Bind a fresh queue to the fanout exchange to observe deliveries.
	ch, err := s.conn.Channel()
	require.NoError(s.T(), err)
	defer func() { _ = ch.Close() }()

	queue, err := ch.QueueDeclare("", false, true, true, false, nil)
	require.NoError(s.T(), err)
	require.NoError(s.T(), ch.QueueBind(queue.Name, "", messaging.ExchangeTurnEvents, false, nil))

	deliveries, err := ch.Consume(queue.Name, "", true, true, false, false, nil)
	require.NoError(s.T(), err)

	event := messaging.TurnEvent{
		SessionID: uuid.New().String(),
		Mode:      "adventure",
		UserText:  "I open the door",
		BotText:   "The door creaks open onto a torch-lit corridor.",
		At:        time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(s.T(), publisher.PublishTurn(s.ctx, event))

	select {
	case delivery := <-deliveries:
		s.Equal("application/json", delivery.ContentType)

		var received messaging.TurnEvent
		require.NoError(s.T(), json.Unmarshal(delivery.Body, &received))
		s.Equal(event.SessionID, received.SessionID)
		s.Equal(event.Mode, received.Mode)
		s.Equal(event.UserText, received.UserText)
		s.Equal(event.BotText, received.BotText)
		s.True(event.At.Equal(received.At))
	case <-time.After(10 * time.Second):
		s.Fail("No turn event delivered within 10s")
	}
}

func (s *TurnPublisherTestSuite) TestCloseReleasesChannel() {
	publisher, err := messaging.NewAMQPTurnPublisher(s.conn, zap.NewNop())
	require.NoError(s.T(), err)
	require.NoError(s.T(), publisher.Close())

	err = publisher.PublishTurn(s.ctx, messaging.TurnEvent{SessionID: uuid.New().String()})
	s.Error(err, "Publishing on a closed channel must fail")
}

func TestTurnPublisherTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(TurnPublisherTestSuite))
}
