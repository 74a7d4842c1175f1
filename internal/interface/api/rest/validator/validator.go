package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/google/uuid"

	"files-manager-api/internal/domain/file"
)

var ErrInvalidParentID = errors.New("invalid parent id")

// ValidatePage never fails: a missing, malformed or negative page is page 0.
func ValidatePage(page string) int {
	p, err := strconv.Atoi(page)
	if err != nil || p < 0 {
		return 0
	}
	return p
}

func IsUUID(s string) (bool, uuid.UUID) {
	id, err := uuid.Parse(s)
	return err == nil, id
}

// ParseParentID maps "", "0" to Root and anything else to a folder id.
func ParseParentID(s string) (file.ParentID, error) {
	if s == "" || s == "0" {
		return file.Root, nil
	}
	ok, id := IsUUID(s)
	if !ok {
		return file.Root, ErrInvalidParentID
	}
	return file.ParentOf(id), nil
}

// ParseJSONParentID accepts the body forms of a parent id: absent, null, the
// number 0, or a string understood by ParseParentID.
func ParseJSONParentID(raw json.RawMessage) (file.ParentID, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return file.Root, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseParentID(s)
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if f, err := n.Float64(); err == nil && f == 0 {
			return file.Root, nil
		}
	}

	return file.Root, ErrInvalidParentID
}
