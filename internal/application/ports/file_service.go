package ports

import (
	"context"
	"io"

	"files-manager-api/internal/domain/file"
)

type (
	// CreateFileParams is validated once, in the order the reasons are reported.
	CreateFileParams struct {
		Name     string
		Type     file.Type
		ParentID file.ParentID
		IsPublic bool
		// Data is the base64 payload; ignored for folders.
		Data *string
	}

	Content struct {
		File        *file.File
		Body        io.ReadCloser
		Size        int64
		ContentType string
		// FileName is safe to place in a Content-Disposition header.
		FileName string
	}
)

type FileService interface {
	CreateFile(ctx context.Context, userID string, in CreateFileParams) (*file.File, error)
	FindUserFile(ctx context.Context, userID string, id file.ID) (*file.File, error)
	FindUserFiles(ctx context.Context, userID string, parent file.ParentID, page int) (file.Files, error)
	SetPublic(ctx context.Context, userID string, id file.ID, isPublic bool) (*file.File, error)
}

type ContentService interface {
	// GetContent resolves the session token only when the file is private.
	GetContent(ctx context.Context, id file.ID, size string, token string) (*Content, error)
}
