package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// issueToken signs what the authentication service would hand out.
func issueToken(t *testing.T, secret, userID string, expiresIn time.Duration) string {
	t.Helper()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func TestValidate_Success(t *testing.T) {
	s := New("super-secret")

	tok := issueToken(t, "super-secret", "u-123", time.Hour)

	claims, err := s.ValidateToken(tok)
	require.NoError(t, err, "ValidateToken should not error for fresh token")
	require.NotNil(t, claims)

	assert.Equal(t, "u-123", claims.UserID)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.Time.After(time.Now().Add(-1*time.Second)))
}

func TestValidateToken_Table(t *testing.T) {
	makeToken := func(secret string, exp time.Duration) string {
		return issueToken(t, secret, "user-42", exp)
	}
	noUser := func() string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}).SignedString([]byte("k1"))
		require.NoError(t, err)
		return tok
	}

	tests := []struct {
		name   string
		secret string
		token  string
		ok     bool
	}{
		{name: "valid token", secret: "k1", token: makeToken("k1", 5*time.Minute), ok: true},
		{name: "invalid secret (signature mismatch)", secret: "k2", token: makeToken("k1", 5*time.Minute)},
		{name: "expired token", secret: "k1", token: makeToken("k1", -1*time.Minute)},
		{name: "malformed token string", secret: "k1", token: "not-a-jwt"},
		{name: "missing user id", secret: "k1", token: noUser()},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			claims, err := New(tt.secret).ValidateToken(tt.token)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, "user-42", claims.UserID)
				return
			}
			require.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestResolve(t *testing.T) {
	s := New("k1")
	tok := issueToken(t, "k1", "u-7", time.Minute)

	id, ok, err := s.Resolve(context.Background(), tok)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "u-7", id)

	id, ok, err = s.Resolve(context.Background(), "garbage")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, id)

	_, ok, err = s.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
}
