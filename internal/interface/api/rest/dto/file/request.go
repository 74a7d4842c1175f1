package file

import "encoding/json"

type CreateRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
	// ParentID is a folder id string, or 0 / "0" / "" / null for root.
	ParentID json.RawMessage `json:"parentId"`
	IsPublic bool            `json:"isPublic"`
	Data     *string         `json:"data"`
}
