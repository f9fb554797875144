package auth_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/auth-gateway/internal/api/http"
	"github.com/spec-kit/auth-gateway/internal/auth"
	"github.com/spec-kit/auth-gateway/internal/observability"
)

func newProtectedApp(t *testing.T, tm *auth.TokenManager) *fiber.App {
	t.Helper()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)

	mw := auth.NewMiddleware(tm)
	app.Get("/protected", mw.Handle, func(c *fiber.Ctx) error {
		identity, ok := auth.IdentityFromContext(c)
		require.True(t, ok)
		return c.JSON(fiber.Map{"id": identity.ID, "email": identity.Email, "name": identity.Name})
	})
	return app
}

func errorBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body.Error
}

func TestMiddleware_MissingHeader(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, time.Hour)
	app := newProtectedApp(t, tm)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "No token provided", errorBody(t, resp))
}

func TestMiddleware_EmptyBearerToken(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, time.Hour)
	app := newProtectedApp(t, tm)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer ")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "No token provided", errorBody(t, resp))
}

func TestMiddleware_HeaderWithoutSpace(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, time.Hour)
	app := newProtectedApp(t, tm)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "No token provided", errorBody(t, resp))
}

func TestMiddleware_ValidToken(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, time.Hour)
	app := newProtectedApp(t, tm)

	token, _, err := tm.Generate(auth.Payload{ID: "u-1", Email: "a@x.com", Name: "alice"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "u-1", body["id"])
	assert.Equal(t, "a@x.com", body["email"])
	assert.Equal(t, "alice", body["name"])
}

func TestMiddleware_SchemePrefixNotInspected(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, time.Hour)
	app := newProtectedApp(t, tm)

	token, _, err := tm.Generate(auth.Payload{ID: "u-1", Email: "a@x.com", Name: "alice"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddleware_InvalidToken(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, time.Hour)
	app := newProtectedApp(t, tm)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid token", errorBody(t, resp))
}

func TestMiddleware_TokenSignedWithOtherSecret(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, time.Hour)
	app := newProtectedApp(t, tm)

	other := auth.NewTokenManager("a-different-secret", time.Hour)
	token, _, err := other.Generate(auth.Payload{ID: "u-1", Email: "a@x.com", Name: "alice"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid token", errorBody(t, resp))
}
