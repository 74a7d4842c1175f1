package ports

import "context"

// SessionResolver maps an opaque token to a user id. ok is false when the
// token is unknown or expired.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (userID string, ok bool, err error)
}
