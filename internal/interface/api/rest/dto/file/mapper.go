package file

import (
	"files-manager-api/internal/application/ports"
	"files-manager-api/internal/domain/file"
)

func ToResponseFile(fDomain file.File) File {
	var f = File{
		ID:       fDomain.ID.String(),
		UserID:   fDomain.UserID,
		Name:     fDomain.Name,
		Type:     string(fDomain.Type),
		IsPublic: fDomain.IsPublic,
		ParentID: 0,
	}
	if !fDomain.ParentID.IsRoot() {
		f.ParentID = fDomain.ParentID.ID.String()
	}

	return f
}

func ToResponseFiles(fsDomain file.Files) Files {
	fs := make(Files, len(fsDomain))
	for idx, f := range fsDomain {
		fs[idx] = ToResponseFile(*f)
	}

	return fs
}

func ToResponseDetail(fDomain file.File) Detail {
	return Detail{
		File:      ToResponseFile(fDomain),
		LocalPath: fDomain.LocalPath,
	}
}

// ToCreateParams leaves every check but the parent id shape to the service.
func ToCreateParams(req CreateRequest, parent file.ParentID) ports.CreateFileParams {
	return ports.CreateFileParams{
		Name:     req.Name,
		Type:     file.Type(req.Type),
		ParentID: parent,
		IsPublic: req.IsPublic,
		Data:     req.Data,
	}
}
