package file

import (
	"context"
)

// Repository returns (nil, nil) when a single-file lookup matches nothing.
type Repository interface {
	FetchFileByID(ctx context.Context, id ID) (*File, error)
	FetchUserFile(ctx context.Context, id ID, userID string) (*File, error)
	FetchUserFiles(ctx context.Context, userID string, parent ParentID, limit, offset int) (Files, error)
	CreateFile(ctx context.Context, req *File) (*File, error)
	SetPublic(ctx context.Context, id ID, userID string, isPublic bool) (*File, error)
}
