package file

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	TypeFolder Type = "folder"
	TypeFile   Type = "file"
	TypeImage  Type = "image"
)

// VariantWidths are the renditions produced for every image, widest first.
var VariantWidths = []int{500, 250, 100}

// Root is the parent of every top-level file and folder.
var Root = ParentID{}

type (
	ID   = uuid.UUID
	Type string

	// ParentID is either Root or the id of a folder. Root is compared by
	// equality, never by parsing an identifier.
	ParentID struct {
		ID    ID
		Valid bool
	}

	File struct {
		ID        ID
		UserID    string
		Name      string
		Type      Type
		IsPublic  bool
		ParentID  ParentID
		LocalPath string

		CreatedAt time.Time
	}
	Files []*File
)

func ParentOf(id ID) ParentID { return ParentID{ID: id, Valid: true} }

func (p ParentID) IsRoot() bool { return !p.Valid }

func (t Type) Valid() bool {
	switch t {
	case TypeFolder, TypeFile, TypeImage:
		return true
	}
	return false
}

func (f *File) IsFolder() bool { return f.Type == TypeFolder }

// VariantKey is the content key of a size rendition of an image.
func (f *File) VariantKey(size string) string {
	if size == "" {
		return f.LocalPath
	}
	return f.LocalPath + "_" + size
}

// CanAccess reports whether userID may read the content of f. userID is empty
// for callers without a resolved session.
func (f *File) CanAccess(userID string) bool {
	return f.IsPublic || (userID != "" && userID == f.UserID)
}

func ValidVariantSize(size string) bool {
	n, err := strconv.Atoi(size)
	if err != nil || strconv.Itoa(n) != size {
		return false
	}
	for _, w := range VariantWidths {
		if n == w {
			return true
		}
	}
	return false
}
