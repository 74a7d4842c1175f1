package mq

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"files-manager-api/config"
)

// "Rely on metrics, not guesses."
const bufferSize = 128

type (
	RabbitMQ struct {
		cfg      config.MQ
		log      *zap.Logger
		mCounter *prometheus.CounterVec
		conn     *amqp091.Connection
		pubCh    *amqp091.Channel
		in       chan VariantJob
		// publish is swapped in tests
		publish func(ctx context.Context, job VariantJob) error
	}

	// VariantJob asks the variant worker to render the size variants of an image.
	VariantJob struct {
		EventID uuid.UUID `json:"event_id"`
		TS      time.Time `json:"time_stamp"`
		UserID  string    `json:"userId"`
		FileID  string    `json:"fileId"`
	}
)

func NewVariantJob(userID string, fileID uuid.UUID) VariantJob {
	return VariantJob{
		EventID: uuid.New(),
		TS:      time.Now().UTC(),
		UserID:  userID,
		FileID:  fileID.String(),
	}
}

func New(cfg config.MQ, logger *zap.Logger, mCounter *prometheus.CounterVec) *RabbitMQ {
	r := &RabbitMQ{
		cfg:      cfg,
		log:      logger,
		mCounter: mCounter,
		in:       make(chan VariantJob, bufferSize),
	}
	r.publish = r.publishAMQP

	return r
}

func (r *RabbitMQ) Connect(ctx context.Context, dsn string) error {
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	amqpCfg := amqp091.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Properties: amqp091.Table{
			"connection_name": "filemanager",
		},
		Dial: func(network, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		},
	}

	var err error
	r.conn, err = amqp091.DialConfig(dsn, amqpCfg)
	if err != nil {
		return err
	}
	r.pubCh, err = r.conn.Channel()
	if err != nil {
		_ = r.conn.Close()
		return err
	}

	r.log.Info("rabbitmq connected successfully")

	return nil
}

func (r *RabbitMQ) Init() error {
	if err := r.pubCh.ExchangeDeclare(
		r.cfg.Exchange,
		r.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = r.pubCh.Close()
		return err
	}
	q, err := r.pubCh.QueueDeclare(
		r.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	return r.pubCh.QueueBind(q.Name, r.cfg.RoutingKey, r.cfg.Exchange, false, nil)
}

// Enqueue hands the job to the publisher worker. The caller is never blocked
// longer than the configured enqueue timeout; jobs that do not fit are dropped.
func (r *RabbitMQ) Enqueue(ctx context.Context, job VariantJob) {
	timer := time.NewTimer(r.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case r.in <- job:
		r.inc("variant_jobs_enqueued_total")
		return
	case <-timer.C:
	case <-ctx.Done():
	}

	r.inc("variant_jobs_dropped_total")
	r.log.Warn("variant job dropped",
		zap.String("user_id", job.UserID),
		zap.String("file_id", job.FileID),
	)
}

func (r *RabbitMQ) PublisherWorker(ctx context.Context) {
	r.log.Info("starting publisher worker")

	defer func() {
		r.log.Info("publisher worker gracefully stopped")
	}()

	for {
		select {
		case job := <-r.in:
			if err := r.publish(ctx, job); err != nil {
				// at-most-once: a failed publish is not retried
				r.inc("variant_jobs_dropped_total")
				r.log.Error("mq publish error", zap.Error(err), zap.String("file_id", job.FileID))
			}
		case <-ctx.Done():
			return
		}
	}
}

func (r *RabbitMQ) publishAMQP(ctx context.Context, job VariantJob) error {
	if r.pubCh == nil {
		return errors.New("publish channel is not open")
	}

	b, err := json.Marshal(job)
	if err != nil {
		return err
	}

	pub := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    job.EventID.String(),
		Timestamp:    job.TS,
		Type:         r.cfg.RoutingKey,
		Body:         b,
	}

	return r.pubCh.PublishWithContext(
		ctx,
		r.cfg.Exchange,
		r.cfg.RoutingKey,
		false,
		false,
		pub,
	)
}

func (r *RabbitMQ) Close() error {
	if r.pubCh != nil {
		_ = r.pubCh.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

func (r *RabbitMQ) inc(label string) {
	if r.mCounter != nil {
		r.mCounter.WithLabelValues(label).Inc()
	}
}
