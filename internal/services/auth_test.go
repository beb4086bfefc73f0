package services

import (
	"testing"

	"insightboard/internal/authz"
	"insightboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	cfg := setupTestDB(t)
	auth := NewAuthService(cfg)

	_, err := auth.CreateUser("user@example.com", "User", "password123", authz.RoleViewer)
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := auth.Authenticate("user@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", user.Email)
		assert.Equal(t, authz.RoleViewer, user.Role.Name)
	})

	t.Run("email is case-insensitive", func(t *testing.T) {
		user, err := auth.Authenticate("User@Example.COM", "password123")
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", user.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := auth.Authenticate("user@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := auth.Authenticate("nobody@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive user", func(t *testing.T) {
		require.NoError(t, models.DB.Model(&models.User{}).
			Where("email = ?", "user@example.com").
			Update("active", false).Error)

		_, err := auth.Authenticate("user@example.com", "password123")
		assert.ErrorIs(t, err, ErrUserInactive)
	})
}

func TestResolveSession(t *testing.T) {
	cfg := setupTestDB(t)
	auth := NewAuthService(cfg)

	user, err := auth.CreateUser("editor@example.com", "Editor", "password123", authz.RoleEditor)
	require.NoError(t, err)

	token, expiresAt, err := auth.GenerateToken(user)
	require.NoError(t, err)
	require.NoError(t, auth.CreateSession(user.ID, token, "127.0.0.1", "test", expiresAt))

	t.Run("resolves with fresh permissions", func(t *testing.T) {
		session, err := auth.ResolveSession(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, session.UserID)
		assert.Equal(t, authz.RoleEditor, session.User.Role.Name)
		assert.NotEmpty(t, session.User.Role.Permissions)
	})

	t.Run("role change is visible next request without re-login", func(t *testing.T) {
		var viewer models.Role
		require.NoError(t, models.DB.Where("name = ?", authz.RoleViewer).First(&viewer).Error)
		require.NoError(t, models.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("role_id", viewer.ID).Error)

		session, err := auth.ResolveSession(token)
		require.NoError(t, err)
		assert.Equal(t, authz.RoleViewer, session.User.Role.Name)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := auth.ResolveSession("not-a-token")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := auth.ResolveSession("")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("revoked session", func(t *testing.T) {
		require.NoError(t, auth.DeleteSession(token))
		_, err := auth.ResolveSession(token)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("inactive user is distinct from unauthenticated", func(t *testing.T) {
		token2, exp2, err := auth.GenerateToken(user)
		require.NoError(t, err)
		require.NoError(t, auth.CreateSession(user.ID, token2, "127.0.0.1", "test", exp2))
		require.NoError(t, models.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("active", false).Error)

		_, err = auth.ResolveSession(token2)
		assert.ErrorIs(t, err, ErrUserInactive)
		assert.NotErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestPasswordReset(t *testing.T) {
	cfg := setupTestDB(t)
	auth := NewAuthService(cfg)

	user, err := auth.CreateUser("reset@example.com", "Reset", "oldpassword1", authz.RoleViewer)
	require.NoError(t, err)

	token, err := auth.CreateResetToken("reset@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	t.Run("reset replaces password and kills sessions", func(t *testing.T) {
		sessTok, exp, err := auth.GenerateToken(user)
		require.NoError(t, err)
		require.NoError(t, auth.CreateSession(user.ID, sessTok, "127.0.0.1", "test", exp))

		_, err = auth.ResetPassword(token, "newpassword1")
		require.NoError(t, err)

		_, err = auth.Authenticate("reset@example.com", "oldpassword1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = auth.Authenticate("reset@example.com", "newpassword1")
		assert.NoError(t, err)

		_, err = auth.ResolveSession(sessTok)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("token is single-use", func(t *testing.T) {
		_, err := auth.ResetPassword(token, "anotherpassword1")
		assert.ErrorIs(t, err, ErrInvalidResetToken)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := auth.CreateResetToken("nobody@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestSessionListAndRevoke(t *testing.T) {
	cfg := setupTestDB(t)
	auth := NewAuthService(cfg)

	user, err := auth.CreateUser("multi@example.com", "Multi", "password123", authz.RoleViewer)
	require.NoError(t, err)
	other, err := auth.CreateUser("other@example.com", "Other", "password123", authz.RoleViewer)
	require.NoError(t, err)

	var tokens []string
	for i := 0; i < 2; i++ {
		token, exp, err := auth.GenerateToken(user)
		require.NoError(t, err)
		require.NoError(t, auth.CreateSession(user.ID, token, "127.0.0.1", "device", exp))
		tokens = append(tokens, token)
	}

	sessions, err := auth.GetSessions(user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	var first models.Session
	require.NoError(t, models.DB.Where("token = ?", tokens[0]).First(&first).Error)

	t.Run("cannot revoke another user's session", func(t *testing.T) {
		err := auth.RevokeSession(other.ID, first.ID)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("revoking one session leaves the other usable", func(t *testing.T) {
		require.NoError(t, auth.RevokeSession(user.ID, first.ID))

		_, err := auth.ResolveSession(tokens[0])
		assert.ErrorIs(t, err, ErrUnauthenticated)

		_, err = auth.ResolveSession(tokens[1])
		assert.NoError(t, err)
	})

	t.Run("revoke is not repeatable", func(t *testing.T) {
		err := auth.RevokeSession(user.ID, first.ID)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	cfg := setupTestDB(t)
	auth := NewAuthService(cfg)

	_, err := auth.CreateUser("dup@example.com", "One", "password123", authz.RoleViewer)
	require.NoError(t, err)

	_, err = auth.CreateUser("DUP@example.com", "Two", "password123", authz.RoleViewer)
	assert.ErrorIs(t, err, ErrUserExists)

	t.Run("unique index backstop", func(t *testing.T) {
		// Soft-deleting hides the row from the pre-insert check, but the
		// unique index still holds the email. The violation must surface
		// as ErrUserExists, not a raw driver error.
		require.NoError(t, models.DB.Where("email = ?", "dup@example.com").Delete(&models.User{}).Error)

		_, err := auth.CreateUser("dup@example.com", "Three", "password123", authz.RoleViewer)
		assert.ErrorIs(t, err, ErrUserExists)
	})
}
