//go:build integration

package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"

	"sub_notifier/internal/domain"
)

type RabbitMQIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *rabbitmq.RabbitMQContainer
	amqpURL   string
	logger    *slog.Logger
}

func (s *RabbitMQIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	container, err := rabbitmq.Run(s.ctx,
		"rabbitmq:3.13-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete").
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	amqpURL, err := container.AmqpURL(s.ctx)
	s.Require().NoError(err)
	s.amqpURL = amqpURL
}

func (s *RabbitMQIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func TestRabbitMQIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RabbitMQIntegrationSuite))
}

func (s *RabbitMQIntegrationSuite) TestPublish_DeliveryEventRoundTrip() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "sub_notifier_test",
		RoutingKey: "deliveries",
		QueueName:  "delivered_posts_test",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	post := domain.Post{
		ID:        "1abc2d",
		Title:     "A post worth pushing",
		SourceID:  "reddit",
		CreatedAt: domain.NewCreatedAt(time.Unix(1700000100, 0)),
	}

	s.Require().NoError(pub.Publish(s.ctx, &post))

	conn, err := amqp.Dial(s.amqpURL)
	s.Require().NoError(err)
	defer conn.Close()

	ch, err := conn.Channel()
	s.Require().NoError(err)
	defer ch.Close()

	deliveries, err := ch.Consume(cfg.QueueName, "", true, false, false, false, nil)
	s.Require().NoError(err)

	select {
	case msg := <-deliveries:
		var event DeliveryEvent
		s.Require().NoError(json.Unmarshal(msg.Body, &event))
		s.Equal("1abc2d", event.PostID)
		s.Equal("A post worth pushing", event.Title)
		s.Equal("https://redd.it/1abc2d", event.URL)
		s.Equal("reddit", event.SourceID)
		s.Equal(int64(1700000100), event.CreatedAt)
		s.False(event.DeliveredAt.IsZero())
	case <-time.After(10 * time.Second):
		s.Fail("no delivery event received")
	}
}
