package ports

import (
	"context"

	"files-manager-api/internal/infrastructure/mq"
)

type VariantService interface {
	GenerateVariants(ctx context.Context, job mq.VariantJob) error
}
