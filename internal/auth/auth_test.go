package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/snapextract/snapextract/pkg/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	logger := zap.NewNop()
	db, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.NewMigrator(db, logger).RunMigrations())
	return db
}

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	return NewService(Config{
		Username: "admin",
		Password: "secret",
		TokenTTL: ttl,
	}, newTestDB(t), zap.NewNop())
}

func TestLoginAndVerify(t *testing.T) {
	svc := newTestService(t, time.Hour)
	ctx := context.Background()

	token, err := svc.Login(ctx, "admin", "secret")
	require.NoError(t, err)
	assert.Len(t, token, 64)

	username, err := svc.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "admin", username)
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	svc := newTestService(t, time.Hour)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "nope"},
		{"wrong username", "root", "secret"},
		{"both wrong", "root", "nope"},
		{"empty pair", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.username, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestVerify_RejectsUnknownToken(t *testing.T) {
	svc := newTestService(t, time.Hour)

	_, err := svc.Verify(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsExpiredToken(t *testing.T) {
	svc := newTestService(t, time.Millisecond)
	ctx := context.Background()

	token, err := svc.Login(ctx, "admin", "secret")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = svc.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout(t *testing.T) {
	svc := newTestService(t, time.Hour)
	ctx := context.Background()

	token, err := svc.Login(ctx, "admin", "secret")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))

	_, err = svc.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Revoking twice is harmless.
	assert.NoError(t, svc.Logout(ctx, token))
}

func TestLoginIssuesDistinctTokens(t *testing.T) {
	svc := newTestService(t, time.Hour)
	ctx := context.Background()

	first, err := svc.Login(ctx, "admin", "secret")
	require.NoError(t, err)
	second, err := svc.Login(ctx, "admin", "secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	// Both sessions remain valid until revoked or expired.
	_, err = svc.Verify(ctx, first)
	assert.NoError(t, err)
	_, err = svc.Verify(ctx, second)
	assert.NoError(t, err)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := newTestService(t, time.Hour)
	token, err := svc.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)

	router := gin.New()
	router.GET("/ping", Middleware(svc), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserKey))
	})

	t.Run("valid token passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "admin", w.Body.String())
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bogus token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer deadbeef")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
