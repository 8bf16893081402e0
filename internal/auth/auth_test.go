package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Seabed/internal/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnv() *Authenv {
	return &Authenv{JWTkey: []byte("test-key"), Repo: repo.NewMemory(), Insecure: true}
}

func post(h http.HandlerFunc, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(b)))
	return rec
}

func TestRegisterLoginAndMiddleware(t *testing.T) {
	env := newEnv()
	rec := post(env.RegisterHandler, Registerrequest{Login: "ana", Password: "secret1", Email: "a@x.io"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = post(env.RegisterHandler, Registerrequest{Login: "ana", Password: "secret1", Email: "a@x.io"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = post(env.AuthHandler, Loginrequest{Login: "ana", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = post(env.AuthHandler, Loginrequest{Login: "nobody", Password: "secret1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = post(env.AuthHandler, Loginrequest{Login: "ana", Password: "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	var tok tokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	require.NotEmpty(t, tok.Token)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	var seen int
	protected := env.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserID(r.Context())
		assert.Equal(t, "ana", UserLogin(r.Context()))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/user/profiles", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	out := httptest.NewRecorder()
	protected.ServeHTTP(out, req)
	assert.Equal(t, http.StatusOK, out.Code)
	assert.Equal(t, 1, seen)

	req = httptest.NewRequest(http.MethodGet, "/api/user/profiles", nil)
	req.AddCookie(cookies[0])
	out = httptest.NewRecorder()
	protected.ServeHTTP(out, req)
	assert.Equal(t, http.StatusOK, out.Code)

	out = httptest.NewRecorder()
	protected.ServeHTTP(out, httptest.NewRequest(http.MethodGet, "/api/user/profiles", nil))
	assert.Equal(t, http.StatusUnauthorized, out.Code)
}

func TestRegisterValidation(t *testing.T) {
	env := newEnv()
	assert.Equal(t, http.StatusBadRequest, post(env.RegisterHandler, Registerrequest{Login: "a", Password: "123", Email: "e"}).Code)
	assert.Equal(t, http.StatusBadRequest, post(env.RegisterHandler, Registerrequest{Login: " ", Password: "123456", Email: "e"}).Code)
}

func TestTokenRejections(t *testing.T) {
	env := newEnv()
	expired, err := env.Token(1, "ana", time.Now().Add(-2*tokenTTL))
	require.NoError(t, err)
	_, _, err = env.parse(expired)
	assert.Error(t, err)

	other := &Authenv{JWTkey: []byte("other-key")}
	forged, err := other.Token(1, "ana", time.Now())
	require.NoError(t, err)
	_, _, err = env.parse(forged)
	assert.Error(t, err)

	good, err := env.Token(7, "bob", time.Now())
	require.NoError(t, err)
	id, login, err := env.parse(good)
	require.NoError(t, err)
	assert.Equal(t, 7, id)
	assert.Equal(t, "bob", login)
}

func TestRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 2)
	h := limiter.LimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/login", nil)
		req.RemoteAddr = "10.0.0.1:" + []string{"1000", "1001", "1002"}[i]
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/api/login", nil)
	req.RemoteAddr = "10.0.0.2:1000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
