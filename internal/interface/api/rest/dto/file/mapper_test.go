package file

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"files-manager-api/internal/domain/file"
)

func TestToResponseFile_OmitsLocalPath(t *testing.T) {
	id, parent := uuid.New(), uuid.New()

	tests := []struct {
		name       string
		in         file.File
		wantParent any
	}{
		{
			name:       "root",
			in:         file.File{ID: id, UserID: "u1", Name: "a.txt", Type: file.TypeFile, LocalPath: "secret.txt"},
			wantParent: float64(0),
		},
		{
			name:       "nested",
			in:         file.File{ID: id, UserID: "u1", Name: "b", Type: file.TypeFolder, ParentID: file.ParentOf(parent)},
			wantParent: parent.String(),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(ToResponseFile(tt.in))
			require.NoError(t, err)

			var got map[string]any
			require.NoError(t, json.Unmarshal(b, &got))

			assert.NotContains(t, got, "localPath")
			assert.Equal(t, id.String(), got["id"])
			assert.Equal(t, "u1", got["userId"])
			assert.Equal(t, false, got["isPublic"])
			assert.Equal(t, tt.wantParent, got["parentId"])
		})
	}
}

func TestToResponseDetail_HasLocalPath(t *testing.T) {
	b, err := json.Marshal(ToResponseDetail(file.File{ID: uuid.New(), LocalPath: "k.txt"}))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"localPath":"k.txt"`)
	assert.Contains(t, string(b), `"parentId":0`)
}
