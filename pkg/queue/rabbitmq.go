package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"blog/pkg/config"
	"blog/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	PostEventsExchange  = "blog"
	PostEventsQueueName = "blog_post_events"
	PostCreatedKey      = "post_created"
)

// PostEvent is the payload published for every stored post.
type PostEvent struct {
	Type      string    `json:"type"`
	PostID    string    `json:"post_id"`
	Title     string    `json:"title"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(channel); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	log.Info("Connected to RabbitMQ at %s:%s, publishing to exchange %s", cfg.RabbitMQHost, cfg.RabbitMQPort, PostEventsExchange)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

// declareTopology sets up a durable direct exchange with one durable queue bound
// for post_created, so events survive until a consumer shows up.
func declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(PostEventsExchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", PostEventsExchange, err)
	}
	if _, err := ch.QueueDeclare(PostEventsQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", PostEventsQueueName, err)
	}
	if err := ch.QueueBind(PostEventsQueueName, PostCreatedKey, PostEventsExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", PostEventsQueueName, err)
	}
	return nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// PublishPostEvent publishes event with routing key event.Type.
func (c *Client) PublishPostEvent(ctx context.Context, event PostEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = c.channel.PublishWithContext(ctx,
		PostEventsExchange, // exchange
		event.Type,         // routing key
		false,              // mandatory
		false,              // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Info("[RABBITMQ] Published %s to exchange=%s: post_id=%s", event.Type, PostEventsExchange, event.PostID)
	return nil
}
