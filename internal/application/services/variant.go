package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"files-manager-api/internal/application/ports"
	domain "files-manager-api/internal/domain/file"
	"files-manager-api/internal/infrastructure/mq"
	"files-manager-api/internal/infrastructure/storage"
	"files-manager-api/pkg/thumbnail"
)

type VariantService struct {
	fileRepository domain.Repository
	store          ports.ContentStore
	mCounter       *prometheus.CounterVec
}

func NewVariantService(
	fileRepository domain.Repository,
	store ports.ContentStore,
	mCounter *prometheus.CounterVec,
) ports.VariantService {
	return &VariantService{
		fileRepository: fileRepository,
		store:          store,
		mCounter:       mCounter,
	}
}

// GenerateVariants writes every missing width rendition of the job's image.
// Errors wrapping mq.ErrPermanent will fail again on redelivery.
func (vs *VariantService) GenerateVariants(ctx context.Context, job mq.VariantJob) error {
	id, err := uuid.Parse(job.FileID)
	if err != nil {
		return fmt.Errorf("%w: file id %q: %v", mq.ErrPermanent, job.FileID, err)
	}

	f, err := vs.fileRepository.FetchUserFile(ctx, id, job.UserID)
	if err != nil {
		return err
	}
	if f == nil {
		return fmt.Errorf("%w: file %s: %w", mq.ErrPermanent, id, domain.ErrNotFound)
	}
	if f.Type != domain.TypeImage {
		return fmt.Errorf("%w: file %s is a %s", mq.ErrPermanent, id, f.Type)
	}

	src, err := vs.readOriginal(ctx, f.LocalPath)
	if err != nil {
		return err
	}

	for _, w := range domain.VariantWidths {
		out, err := thumbnail.Resize(bytes.NewReader(src), w)
		if err != nil {
			return fmt.Errorf("%w: %v", mq.ErrPermanent, err)
		}

		err = vs.store.Put(ctx, f.VariantKey(strconv.Itoa(w)), out)
		switch {
		case err == nil:
			vs.inc("variants_generated_total")
		case errors.Is(err, storage.ErrContentExists):
		default:
			return fmt.Errorf("write variant %d: %w", w, err)
		}
	}

	return nil
}

func (vs *VariantService) readOriginal(ctx context.Context, key string) ([]byte, error) {
	rc, _, err := vs.store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrContentNotFound) {
			return nil, fmt.Errorf("%w: %w", mq.ErrPermanent, err)
		}
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

func (vs *VariantService) inc(label string) {
	if vs.mCounter != nil {
		vs.mCounter.WithLabelValues(label).Inc()
	}
}
