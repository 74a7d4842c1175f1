package file

import (
	"time"

	"github.com/google/uuid"
)

type (
	File struct {
		ID       uint64
		UUID     uuid.UUID
		UserID   string
		Name     string
		Type     string
		IsPublic bool
		// nil for files at the root
		ParentID  *uuid.UUID
		LocalPath string

		CreatedAt time.Time
	}
	Files []*File
)
