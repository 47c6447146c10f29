package util

import (
	"testing"
	"time"

	"learnify_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Email: "a@example.com", Role: model.Instructor}
	user.ID = 42
	secret := "test-secret-test-secret-test-run"

	token, err := GenerateJWT(user, secret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, secret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, model.Instructor, claims.Role)
	assert.Equal(t, "a@example.com", claims.Email)
}

func TestParseJWTRejectsBadToken(t *testing.T) {
	user := &model.User{Email: "a@example.com", Role: model.Student}
	user.ID = 1
	secret := "test-secret-test-secret-test-run"

	t.Run("密钥不匹配", func(t *testing.T) {
		token, err := GenerateJWT(user, secret, time.Hour)
		require.NoError(t, err)

		_, err = ParseJWT(token, "another-secret")
		assert.Error(t, err)
	})

	t.Run("已过期", func(t *testing.T) {
		token, err := GenerateJWT(user, secret, -time.Minute)
		require.NoError(t, err)

		_, err = ParseJWT(token, secret)
		assert.Error(t, err)
	})

	t.Run("不是令牌", func(t *testing.T) {
		_, err := ParseJWT("not-a-token", secret)
		assert.Error(t, err)
	})
}
