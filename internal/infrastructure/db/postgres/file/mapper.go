package file

import (
	"github.com/google/uuid"

	domain "files-manager-api/internal/domain/file"
)

func fromDBModel(model *File) *domain.File {
	var f = &domain.File{
		ID:        model.UUID,
		UserID:    model.UserID,
		Name:      model.Name,
		Type:      domain.Type(model.Type),
		IsPublic:  model.IsPublic,
		LocalPath: model.LocalPath,

		CreatedAt: model.CreatedAt,
	}
	if model.ParentID != nil {
		f.ParentID = domain.ParentOf(*model.ParentID)
	}

	return f
}

func fromDBModels(models *Files) domain.Files {
	fs := make(domain.Files, len(*models))
	for idx, f := range *models {
		fs[idx] = fromDBModel(f)
	}

	return fs
}

// parentArg binds Root as SQL NULL.
func parentArg(p domain.ParentID) *uuid.UUID {
	if p.IsRoot() {
		return nil
	}
	id := p.ID
	return &id
}
