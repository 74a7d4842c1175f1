package file

type (
	// File never carries the storage key.
	File struct {
		ID       string `json:"id"`
		UserID   string `json:"userId"`
		Name     string `json:"name"`
		Type     string `json:"type"`
		IsPublic bool   `json:"isPublic"`
		// ParentID is 0 for root, a folder id otherwise.
		ParentID any `json:"parentId"`
	}
	Files []File

	Detail struct {
		File
		LocalPath string `json:"localPath"`
	}
)
