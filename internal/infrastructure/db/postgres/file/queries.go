package file

const (
	SelectFileByUUID = `
		SELECT id, uuid, user_id, name, type, is_public, parent_id, local_path, created_at
		FROM files
		WHERE uuid = $1
	`
	SelectUserFileByUUID = `
		SELECT id, uuid, user_id, name, type, is_public, parent_id, local_path, created_at
		FROM files
		WHERE uuid = $1 AND user_id = $2
	`
	SelectUserFiles = `
		SELECT id, uuid, user_id, name, type, is_public, parent_id, local_path, created_at
		FROM files
		WHERE user_id = $1 AND parent_id IS NOT DISTINCT FROM $2
		ORDER BY id
		LIMIT $3 OFFSET $4
	`
	InsertFile = `
		INSERT INTO files (user_id, name, type, is_public, parent_id, local_path)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING
		  id, uuid, user_id, name, type, is_public, parent_id, local_path, created_at
	`
	UpdateFileVisibility = `
		UPDATE files
		SET is_public = $3
		WHERE uuid = $1 AND user_id = $2
		RETURNING
		  id, uuid, user_id, name, type, is_public, parent_id, local_path, created_at
	`
)
