// AngelaMos | 2026
// handler_test.go

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/job-board/internal/middleware"
)

func newAuthRouter(t *testing.T) http.Handler {
	t.Helper()
	f := newServiceFixture(t, false)
	h := NewHandler(f.svc)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		h.RegisterRoutes(r, middleware.Authenticator(f.svc), nil)
	})
	return r
}

func doJSON(
	t *testing.T,
	h http.Handler,
	method, path, body, token string,
) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	return rec, decoded
}

func TestAuthFlowOverHTTP(t *testing.T) {
	h := newAuthRouter(t)

	rec, body := doJSON(t, h, http.MethodPost, "/api/auth/register",
		`{"name":"Ada","email":"Ada@Example.com","password":"password123","role":"employer"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, body["success"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "ada@example.com", user["email"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, rec.Body.String(), "argon2id")

	rec, body = doJSON(t, h, http.MethodPost, "/api/auth/login",
		`{"email":"ada@example.com","password":"password123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	assert.Equal(t, "employer", body["user"].(map[string]any)["role"])

	rec, body = doJSON(t, h, http.MethodGet, "/api/auth/me", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ada", body["user"].(map[string]any)["name"])

	rec, _ = doJSON(t, h, http.MethodPost, "/api/auth/logout", "", token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = doJSON(t, h, http.MethodGet, "/api/auth/me", "", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_REVOKED", body["code"])
}

func TestRegisterValidation(t *testing.T) {
	h := newAuthRouter(t)

	tests := []struct {
		name     string
		body     string
		status   int
		code     string
		contains string
	}{
		{
			name:     "missing fields",
			body:     `{"email":"x@example.com"}`,
			status:   http.StatusBadRequest,
			code:     "VALIDATION_ERROR",
			contains: "name is required",
		},
		{
			name:     "bad role",
			body:     `{"name":"X","email":"x@example.com","password":"password123","role":"pirate"}`,
			status:   http.StatusBadRequest,
			code:     "VALIDATION_ERROR",
			contains: "role must be one of",
		},
		{
			name:     "short password",
			body:     `{"name":"X","email":"x@example.com","password":"short","role":"employer"}`,
			status:   http.StatusBadRequest,
			code:     "VALIDATION_ERROR",
			contains: "password must be at least 8",
		},
		{
			name:   "malformed json",
			body:   `{"name":`,
			status: http.StatusBadRequest,
			code:   "BAD_REQUEST",
		},
		{
			name:   "admin self signup",
			body:   `{"name":"X","email":"x@example.com","password":"password123","role":"admin"}`,
			status: http.StatusForbidden,
			code:   "FORBIDDEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := doJSON(t, h, http.MethodPost, "/api/auth/register", tt.body, "")
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.code, body["code"])
			if tt.contains != "" {
				assert.Contains(t, body["message"], tt.contains)
			}
		})
	}
}

func TestDuplicateRegistrationIsConflict(t *testing.T) {
	h := newAuthRouter(t)
	payload := `{"name":"Bo","email":"bo@example.com","password":"password123","role":"job_seeker"}`

	rec, _ := doJSON(t, h, http.MethodPost, "/api/auth/register", payload, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := doJSON(t, h, http.MethodPost, "/api/auth/register", payload, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "CONFLICT", body["code"])
}

func TestLoginWrongPassword(t *testing.T) {
	h := newAuthRouter(t)

	rec, _ := doJSON(t, h, http.MethodPost, "/api/auth/register",
		`{"name":"Cy","email":"cy@example.com","password":"password123","role":"job_seeker"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := doJSON(t, h, http.MethodPost, "/api/auth/login",
		`{"email":"cy@example.com","password":"password999"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", body["message"])
}
