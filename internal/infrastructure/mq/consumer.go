package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"files-manager-api/config"
)

// can scale depends on a parallel worker count
const preFetchCount = 1

var (
	ErrMissingFileID = errors.New("Missing fileId")
	ErrMissingUserID = errors.New("Missing userId")

	// ErrPermanent marks a job that must not be requeued.
	ErrPermanent = errors.New("permanent job failure")
)

type JobHandler interface {
	GenerateVariants(ctx context.Context, job VariantJob) error
}

type Consumer struct {
	cfg        config.MQ
	log        *zap.Logger
	handler    JobHandler
	conn       *amqp091.Connection
	chConsume  *amqp091.Channel
	chDelivery <-chan amqp091.Delivery
}

func NewConsumer(cfg config.MQ, logger *zap.Logger, handler JobHandler) *Consumer {
	return &Consumer{
		cfg:     cfg,
		log:     logger,
		handler: handler,
	}
}

func (c *Consumer) Connect(dsn string) error {
	conn, err := amqp091.Dial(dsn)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("amqp channel: %w", err)
	}
	c.conn, c.chConsume = conn, ch

	c.log.Info("rabbitmq consumer connected successfully")

	return nil
}

func (c *Consumer) Init() error {
	if err := c.chConsume.ExchangeDeclare(
		c.cfg.Exchange,
		c.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	if _, err := c.chConsume.QueueDeclare(
		c.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	if err := c.chConsume.QueueBind(
		c.cfg.QueueName,
		c.cfg.RoutingKey,
		c.cfg.Exchange,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("queue bind %s: %w", c.cfg.RoutingKey, err)
	}

	if err := c.chConsume.Qos(preFetchCount, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}

	var err error
	c.chDelivery, err = c.chConsume.Consume(
		c.cfg.QueueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	return nil
}

func (c *Consumer) DeliveryWorker(ctx context.Context) {
	c.log.Info("starting variant delivery worker")

	defer func() {
		c.log.Info("variant delivery worker gracefully stopped")
	}()

	for {
		select {
		case msg, ok := <-c.chDelivery:
			if !ok {
				return
			}
			c.settle(msg, c.delivery(ctx, msg.Body))
		case <-ctx.Done():
			_ = c.chConsume.Close()
			_ = c.conn.Close()
			return
		}
	}
}

func (c *Consumer) settle(msg amqp091.Delivery, err error) {
	if err == nil {
		_ = msg.Ack(false)
		return
	}

	requeue := !errors.Is(err, ErrPermanent) && !msg.Redelivered
	c.log.Error("variant job failed",
		zap.Error(err),
		zap.String("message_id", msg.MessageId),
		zap.Bool("requeue", requeue),
	)
	_ = msg.Nack(false, requeue)
}

func (c *Consumer) delivery(ctx context.Context, body []byte) error {
	var job VariantJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: decode job: %v", ErrPermanent, err)
	}
	if job.FileID == "" {
		return fmt.Errorf("%w: %w", ErrPermanent, ErrMissingFileID)
	}
	if job.UserID == "" {
		return fmt.Errorf("%w: %w", ErrPermanent, ErrMissingUserID)
	}

	return c.handler.GenerateVariants(ctx, job)
}
