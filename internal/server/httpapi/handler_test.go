package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	pb "github.com/dmitrijs2005/gophauth/internal/proto"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}


type testEnv struct {
	router *gin.Engine
	offset *atomic.Int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	start := time.Now()
	offset := &atomic.Int64{}
	now := func() time.Time { return start.Add(time.Duration(offset.Load())) }

	issuer, err := auth.NewTokenIssuer([]byte("secret"), auth.WithClock(now))
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	hasher := auth.NewPooledHasher(auth.NewBcryptHasher(bcrypt.MinCost), 2)
	svc := services.NewAuthService(users.NewMemoryRepository(), hasher, issuer, logging.Nop(), m)

	r := NewRouter(RouterConfig{Gatherer: reg, Metrics: m}, svc, logging.Nop())
	return &testEnv{router: r, offset: offset}
}

func (e *testEnv) do(t *testing.T, method, path, body string, header map[string]string) (int, map[string]any) {
	t.Helper()
	var rdr *bytes.Reader
	if body != "" {
		rdr = bytes.NewReader([]byte(body))
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	out := map[string]any{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

func creds(email, password string) string {
	b, _ := json.Marshal(pb.CredentialsRequest{Email: email, Password: password})
	return string(b)
}

func TestHTTP_ExampleScenario(t *testing.T) {
	e := newTestEnv(t)

	code, body := e.do(t, http.MethodPost, "/api/signup", creds("a@b.com", "password1"), nil)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, true, body["success"])
	signupToken, _ := body["token"].(string)
	require.NotEmpty(t, signupToken)

	code, body = e.do(t, http.MethodPost, "/api/signup", creds("a@b.com", "password1"), nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, map[string]any{"success": false, "message": "User already exists"}, body)

	code, body = e.do(t, http.MethodPost, "/api/login", creds("a@b.com", "wrong0000"), nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid credentials", body["message"])

	code, body = e.do(t, http.MethodPost, "/api/login", creds("a@b.com", "password1"), nil)
	require.Equal(t, http.StatusOK, code)
	loginToken, _ := body["token"].(string)
	require.NotEmpty(t, loginToken)
	assert.NotEqual(t, signupToken, loginToken)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		code, body = e.do(t, method, "/api/landing-page", "", map[string]string{"Authorization": "Bearer " + loginToken})
		require.Equal(t, http.StatusOK, code, method)
		assert.Equal(t, "Hello World", body["message"])
		assert.Equal(t, "a@b.com", body["email"])
	}
}

func TestHTTP_LoginUnknownEmail(t *testing.T) {
	e := newTestEnv(t)

	code, body := e.do(t, http.MethodPost, "/api/login", creds("nobody@b.com", "password1"), nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, map[string]any{"success": false, "message": "Invalid credentials"}, body)
}

func TestHTTP_Validation(t *testing.T) {
	e := newTestEnv(t)

	cases := []struct {
		name string
		path string
		body string
		msg  string
	}{
		{"empty object", "/api/signup", `{}`, "Email and password are required"},
		{"malformed json", "/api/signup", `{"email":`, "Email and password are required"},
		{"non string email", "/api/login", `{"email":42,"password":"password1"}`, "Email and password are required"},
		{"bad email", "/api/signup", creds("not-an-email", "password1"), "Invalid email format"},
		{"short password", "/api/login", creds("a@b.com", "1234567"), "Password must be at least 8 characters"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := e.do(t, http.MethodPost, tc.path, tc.body, nil)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tc.msg, body["message"])
		})
	}
}

func TestHTTP_LandingPageRejections(t *testing.T) {
	e := newTestEnv(t)

	_, body := e.do(t, http.MethodPost, "/api/signup", creds("a@b.com", "password1"), nil)
	token := body["token"].(string)

	cases := []struct {
		name   string
		header map[string]string
		msg    string
	}{
		{"no header", nil, "Missing token"},
		{"empty bearer", map[string]string{"Authorization": "Bearer "}, "Missing token"},
		{"garbage", map[string]string{"Authorization": "Bearer abc.def.ghi"}, "Invalid token"},
		{"tampered", map[string]string{"Authorization": "Bearer " + token + "x"}, "Invalid token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := e.do(t, http.MethodGet, "/api/landing-page", "", tc.header)
			assert.Equal(t, http.StatusUnauthorized, code)
			assert.Equal(t, tc.msg, body["message"])
		})
	}

	e.offset.Store(int64(time.Hour + time.Minute))
	code, body := e.do(t, http.MethodGet, "/api/landing-page", "", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Token expired", body["message"])
}

func TestHTTP_AccessTokenHeaderFallback(t *testing.T) {
	e := newTestEnv(t)

	_, body := e.do(t, http.MethodPost, "/api/signup", creds("a@b.com", "password1"), nil)
	token := body["token"].(string)

	code, _ := e.do(t, http.MethodGet, "/api/landing-page", "", map[string]string{"access_token": token})
	assert.Equal(t, http.StatusOK, code)
}

func TestHTTP_HealthMetricsAndRequestID(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w = httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))

	_, _ = e.do(t, http.MethodPost, "/api/login", creds("a@b.com", "password1"), nil)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w = httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `gophauth_auth_operations_total{operation="login",outcome="invalid_credentials"} 1`)
	assert.Contains(t, w.Body.String(), `gophauth_requests_total{route="/api/login",status="401",transport="http"} 1`)
}

type brokenAuth struct{}

func (brokenAuth) Signup(context.Context, string, string) (*services.AuthResult, error) {
	return nil, errors.New("boom")
}

func (brokenAuth) Login(context.Context, string, string) (*services.AuthResult, error) {
	return nil, &services.AuthError{Kind: services.KindInternal, Message: services.MsgInternal}
}

func (brokenAuth) Authenticate(context.Context, string) (*services.Principal, error) {
	return nil, errors.New("boom")
}

func TestHTTP_InternalErrorsAreGeneric(t *testing.T) {
	r := NewRouter(RouterConfig{}, brokenAuth{}, logging.Nop())
	e := &testEnv{router: r}

	for _, path := range []string{"/api/signup", "/api/login"} {
		code, body := e.do(t, http.MethodPost, path, creds("a@b.com", "password1"), nil)
		assert.Equal(t, http.StatusInternalServerError, code, path)
		assert.Equal(t, map[string]any{"success": false, "message": "Internal server error"}, body)
	}

	code, body := e.do(t, http.MethodGet, "/api/landing-page", "", map[string]string{"Authorization": "Bearer x"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid token", body["message"])

	code, _ = e.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}
