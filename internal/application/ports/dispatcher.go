package ports

import (
	"context"

	"files-manager-api/internal/infrastructure/mq"
)

type VariantDispatcher interface {
	// Enqueue never fails the caller; jobs that cannot be queued in time are dropped.
	Enqueue(ctx context.Context, job mq.VariantJob)
}

type RabbitMQ interface {
	VariantDispatcher
	Connect(ctx context.Context, dsn string) error
	Init() error
	PublisherWorker(ctx context.Context)
	Close() error
}

type RMQConsumer interface {
	Connect(dsn string) error
	Init() error
	DeliveryWorker(ctx context.Context)
}
