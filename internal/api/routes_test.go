package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avatarshop/internal/api/ws"
	"avatarshop/internal/config"
)

const testKey = "routes-secret"

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	SetupRoutes(e, nil, nil, ws.NewHub(), &config.Config{JWTKey: testKey})
	return e
}

func bearer(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	raw, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, jwtv5.MapClaims{
		"id":  userID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testKey))
	require.NoError(t, err)
	return "Bearer " + raw
}

func TestRoutes_Health(t *testing.T) {
	e := newTestServer(t)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutes_MutationsRequireToken(t *testing.T) {
	e := newTestServer(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/api/catalog/buy"},
		{http.MethodPost, "/api/catalog/equip"},
		{http.MethodPost, "/api/catalog/unequip"},
		{http.MethodPost, "/api/catalog/create"},
		{http.MethodPut, "/api/catalog/edit/" + uuid.NewString()},
		{http.MethodDelete, "/api/catalog/delete/" + uuid.NewString()},
		{http.MethodGet, "/api/ws"},
	} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(route.method, route.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.path)
	}
}

func TestRoutes_BodyUserMustMatchToken(t *testing.T) {
	e := newTestServer(t)
	self := uuid.New()

	body := `{"userId":"` + uuid.NewString() + `","itemId":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/catalog/buy", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, bearer(t, self))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/catalog/equip", strings.NewReader(`{"userId":"`+self.String()+`"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, bearer(t, self))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
