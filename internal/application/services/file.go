package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"files-manager-api/internal/application/ports"
	domain "files-manager-api/internal/domain/file"
	"files-manager-api/internal/infrastructure/mq"
)

const (
	PageSize = 20

	defaultWriteTimeout = 30 * time.Second
	cleanupTimeout      = 5 * time.Second
)

type FileService struct {
	logger         *zap.Logger
	fileRepository domain.Repository
	store          ports.ContentStore
	dispatcher     ports.VariantDispatcher
	mCounter       *prometheus.CounterVec
	writeTimeout   time.Duration
}

func NewFileService(
	logger *zap.Logger,
	fileRepository domain.Repository,
	store ports.ContentStore,
	dispatcher ports.VariantDispatcher,
	mCounter *prometheus.CounterVec,
	writeTimeout time.Duration,
) ports.FileService {
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &FileService{
		logger:         logger,
		fileRepository: fileRepository,
		store:          store,
		dispatcher:     dispatcher,
		mCounter:       mCounter,
		writeTimeout:   writeTimeout,
	}
}

func (fs *FileService) CreateFile(
	ctx context.Context,
	userID string,
	in ports.CreateFileParams,
) (*domain.File, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.Name == "" {
		return nil, domain.ErrMissingName
	}
	if !in.Type.Valid() {
		return nil, domain.ErrMissingType
	}
	if in.Type != domain.TypeFolder && (in.Data == nil || *in.Data == "") {
		return nil, domain.ErrMissingData
	}
	if !in.ParentID.IsRoot() {
		parent, err := fs.fileRepository.FetchFileByID(ctx, in.ParentID.ID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, domain.ErrParentNotFound
		}
		if !parent.IsFolder() {
			return nil, domain.ErrParentNotFolder
		}
	}

	f := &domain.File{
		UserID:   userID,
		Name:     in.Name,
		Type:     in.Type,
		IsPublic: in.IsPublic,
		ParentID: in.ParentID,
	}

	if f.IsFolder() {
		out, err := fs.fileRepository.CreateFile(ctx, f)
		if err != nil {
			return nil, err
		}
		fs.inc("folders_created_total")
		return out, nil
	}

	data, err := decodeBase64(*in.Data)
	if err != nil {
		return nil, domain.ErrInvalidData
	}

	f.LocalPath = genStorageKey(in.Name, data)
	if err = fs.writeContent(ctx, f.LocalPath, data); err != nil {
		return nil, err
	}

	out, err := fs.fileRepository.CreateFile(ctx, f)
	if err != nil {
		fs.cleanup(ctx, f.LocalPath)
		return nil, err
	}

	fs.inc("files_created_total")

	if out.Type == domain.TypeImage {
		// the file exists now; a client hang-up must not drop its variants
		fs.dispatcher.Enqueue(context.WithoutCancel(ctx), mq.NewVariantJob(userID, out.ID))
	}

	return out, nil
}

func (fs *FileService) writeContent(ctx context.Context, key string, data []byte) error {
	wctx, cancel := context.WithTimeout(ctx, fs.writeTimeout)
	defer cancel()

	if err := fs.store.Put(wctx, key, data); err != nil {
		return fmt.Errorf("write content: %w", err)
	}
	return nil
}

// cleanup removes content whose metadata never got stored. It outlives a
// cancelled request.
func (fs *FileService) cleanup(ctx context.Context, key string) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	if err := fs.store.Delete(cctx, key); err != nil {
		fs.logger.Warn("orphaned content left behind", zap.String("key", key), zap.Error(err))
		return
	}
	fs.inc("content_cleanup_total")
}

func (fs *FileService) FindUserFile(ctx context.Context, userID string, id domain.ID) (*domain.File, error) {
	f, err := fs.fileRepository.FetchUserFile(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}

	return f, nil
}

func (fs *FileService) FindUserFiles(
	ctx context.Context,
	userID string,
	parent domain.ParentID,
	page int,
) (domain.Files, error) {
	if page < 0 {
		page = 0
	}

	return fs.fileRepository.FetchUserFiles(ctx, userID, parent, PageSize, page*PageSize)
}

func (fs *FileService) SetPublic(ctx context.Context, userID string, id domain.ID, isPublic bool) (*domain.File, error) {
	f, err := fs.fileRepository.SetPublic(ctx, id, userID, isPublic)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}

	return f, nil
}

func (fs *FileService) inc(label string) {
	if fs.mCounter != nil {
		fs.mCounter.WithLabelValues(label).Inc()
	}
}

// decodeBase64 accepts padded and unpadded input in both alphabets.
func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)

	var err error
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		var b []byte
		if b, err = enc.DecodeString(s); err == nil {
			return b, nil
		}
	}

	return nil, err
}
