package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	domain "files-manager-api/internal/domain/file"
	"files-manager-api/internal/infrastructure/mq"
	"files-manager-api/internal/infrastructure/storage"
)

// FakeFileRepository keeps files in insertion order. Any ...Func set
// overrides the in-memory behaviour.
type FakeFileRepository struct {
	mu    sync.Mutex
	files []*domain.File

	CreateFileFunc func(ctx context.Context, req *domain.File) (*domain.File, error)
}

func (r *FakeFileRepository) add(f *domain.File) *domain.File {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *f
	if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
	}
	r.files = append(r.files, &cp)
	out := cp
	return &out
}

func (r *FakeFileRepository) FetchFileByID(_ context.Context, id domain.ID) (*domain.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.files {
		if f.ID == id {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *FakeFileRepository) FetchUserFile(ctx context.Context, id domain.ID, userID string) (*domain.File, error) {
	f, err := r.FetchFileByID(ctx, id)
	if err != nil || f == nil || f.UserID != userID {
		return nil, err
	}
	return f, nil
}

func (r *FakeFileRepository) FetchUserFiles(
	_ context.Context,
	userID string,
	parent domain.ParentID,
	limit, offset int,
) (domain.Files, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := domain.Files{}
	skipped := 0
	for _, f := range r.files {
		if f.UserID != userID || f.ParentID != parent {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if len(out) == limit {
			break
		}
		cp := *f
		out = append(out, &cp)
	}
	return out, nil
}

func (r *FakeFileRepository) CreateFile(ctx context.Context, req *domain.File) (*domain.File, error) {
	if r.CreateFileFunc != nil {
		return r.CreateFileFunc(ctx, req)
	}
	return r.add(req), nil
}

func (r *FakeFileRepository) SetPublic(_ context.Context, id domain.ID, userID string, isPublic bool) (*domain.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.files {
		if f.ID == id && f.UserID == userID {
			f.IsPublic = isPublic
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

type FakeContentStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	PutFunc func(ctx context.Context, key string, data []byte) error
}

func NewFakeContentStore() *FakeContentStore {
	return &FakeContentStore{objects: map[string][]byte{}}
}

func (s *FakeContentStore) Put(ctx context.Context, key string, data []byte) error {
	if s.PutFunc != nil {
		return s.PutFunc(ctx, key, data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; ok {
		return fmt.Errorf("content %s: %w", key, storage.ErrContentExists)
	}
	s.objects[key] = append([]byte(nil), data...)
	return nil
}

func (s *FakeContentStore) Open(_ context.Context, key string) (io.ReadCloser, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[key]
	if !ok {
		return nil, 0, fmt.Errorf("content %s: %w", key, storage.ErrContentNotFound)
	}
	return io.NopCloser(bytes.NewReader(b)), int64(len(b)), nil
}

func (s *FakeContentStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *FakeContentStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

type FakeDispatcher struct {
	mu   sync.Mutex
	jobs []mq.VariantJob
	// ctxErrs holds ctx.Err() as seen by each Enqueue call
	ctxErrs []error
}

func (d *FakeDispatcher) Enqueue(ctx context.Context, job mq.VariantJob) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs = append(d.jobs, job)
	d.ctxErrs = append(d.ctxErrs, ctx.Err())
}

type FakeSessionResolver struct {
	Sessions map[string]string
	Err      error
	Calls    int
}

func (r *FakeSessionResolver) Resolve(_ context.Context, token string) (string, bool, error) {
	r.Calls++
	if r.Err != nil {
		return "", false, r.Err
	}
	id, ok := r.Sessions[token]
	return id, ok, nil
}
