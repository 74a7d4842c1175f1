package services

import (
	"context"
	"errors"
	"fmt"

	"files-manager-api/internal/application/ports"
	domain "files-manager-api/internal/domain/file"
	"files-manager-api/internal/infrastructure/storage"
)

type ContentService struct {
	fileRepository domain.Repository
	store          ports.ContentStore
	sessions       ports.SessionResolver
}

func NewContentService(
	fileRepository domain.Repository,
	store ports.ContentStore,
	sessions ports.SessionResolver,
) ports.ContentService {
	return &ContentService{
		fileRepository: fileRepository,
		store:          store,
		sessions:       sessions,
	}
}

// GetContent reports a private file the caller may not read exactly like a
// missing one.
func (cs *ContentService) GetContent(
	ctx context.Context,
	id domain.ID,
	size string,
	token string,
) (*ports.Content, error) {
	f, err := cs.fileRepository.FetchFileByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}

	var userID string
	if !f.IsPublic {
		var ok bool
		if userID, ok, err = cs.sessions.Resolve(ctx, token); err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrNotFound
		}
	}
	if !f.CanAccess(userID) {
		return nil, domain.ErrNotFound
	}

	if f.IsFolder() {
		return nil, domain.ErrFolderNoContent
	}
	if size != "" && !domain.ValidVariantSize(size) {
		return nil, domain.ErrNotFound
	}

	key := f.VariantKey(size)
	body, n, err := cs.store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrContentNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("open content: %w", err)
	}

	return &ports.Content{
		File:        f,
		Body:        body,
		Size:        n,
		ContentType: contentType(f.Name, f.LocalPath),
		FileName:    sanitizeFileName(f.Name),
	}, nil
}
