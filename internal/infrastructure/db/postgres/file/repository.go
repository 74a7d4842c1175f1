package file

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	domain "files-manager-api/internal/domain/file"
	"files-manager-api/internal/infrastructure/db/postgres"
)

var ErrLocalPathTaken = errors.New("local path already referenced by another file")

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) domain.Repository {
	return &Repository{db: db}
}

func scanFile(row pgx.Row) (*File, error) {
	f := new(File)
	err := row.Scan(
		&f.ID,
		&f.UUID,
		&f.UserID,
		&f.Name,
		&f.Type,
		&f.IsPublic,
		&f.ParentID,
		&f.LocalPath,

		&f.CreatedAt,
	)
	return f, err
}

func (r *Repository) fetchOne(ctx context.Context, sql string, args ...any) (*domain.File, error) {
	f, err := scanFile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(f), nil
}

func (r *Repository) FetchFileByID(ctx context.Context, id domain.ID) (*domain.File, error) {
	return r.fetchOne(ctx, SelectFileByUUID, id)
}

func (r *Repository) FetchUserFile(ctx context.Context, id domain.ID, userID string) (*domain.File, error) {
	return r.fetchOne(ctx, SelectUserFileByUUID, id, userID)
}

func (r *Repository) FetchUserFiles(
	ctx context.Context,
	userID string,
	parent domain.ParentID,
	limit, offset int,
) (domain.Files, error) {
	rows, err := r.db.Query(ctx, SelectUserFiles, userID, parentArg(parent), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fs := Files{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		fs = append(fs, f)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(&fs), nil
}

func (r *Repository) CreateFile(ctx context.Context, req *domain.File) (*domain.File, error) {
	f, err := scanFile(r.db.QueryRow(
		ctx,
		InsertFile,
		req.UserID, req.Name, string(req.Type), req.IsPublic, parentArg(req.ParentID), req.LocalPath,
	))
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, ErrLocalPathTaken
		}
		if postgres.IsPgForeignKeyViolation(err) {
			return nil, fmt.Errorf("insert file: %w", domain.ErrParentNotFound)
		}
		return nil, err
	}

	return fromDBModel(f), nil
}

// SetPublic updates the flag in one statement scoped by owner; a file owned by
// someone else is reported exactly like a missing one, (nil, nil).
func (r *Repository) SetPublic(ctx context.Context, id domain.ID, userID string, isPublic bool) (*domain.File, error) {
	return r.fetchOne(ctx, UpdateFileVisibility, id, userID, isPublic)
}
