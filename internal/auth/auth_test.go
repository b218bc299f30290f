package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Illuminate/internal/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type fakeUser struct {
	id   int
	hash string
}

type fakeUsers struct {
	byLogin map[string]fakeUser
	nextID  int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byLogin: map[string]fakeUser{}, nextID: 1}
}

func (f *fakeUsers) CreateUser(_ context.Context, login, _, password string) (int, error) {
	if _, ok := f.byLogin[login]; ok {
		return 0, repo.ErrUserExists
	}
	id := f.nextID
	f.nextID++
	f.byLogin[login] = fakeUser{id: id, hash: password}
	return id, nil
}

func (f *fakeUsers) GetByLogin(_ context.Context, login string) (int, string, error) {
	u, ok := f.byLogin[login]
	if !ok {
		return 0, "", repo.ErrNotFound
	}
	return u.id, u.hash, nil
}

func newEnv() *Authenv {
	return &Authenv{JWTKey: []byte("test-key"), Repo: newFakeUsers(), Log: zap.NewNop()}
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func TestRegisterAndLogin(t *testing.T) {
	env := newEnv()

	rec := post(env.RegisterHandler, `{"login":"alice","password":"secret1","email":"a@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, sessionCookie(t, rec).Value)

	rec = post(env.RegisterHandler, `{"login":"alice","password":"secret1","email":"a@example.com"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = post(env.AuthHandler, `{"login":"alice","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, sessionCookie(t, rec).Value)

	rec = post(env.AuthHandler, `{"login":"alice","password":"wrong-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = post(env.AuthHandler, `{"login":"nobody","password":"secret1"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	env := newEnv()
	cases := []struct {
		name string
		body string
	}{
		{"malformed", `{`},
		{"missing email", `{"login":"a","password":"secret1"}`},
		{"short password", `{"login":"a","password":"123","email":"a@b"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, post(env.RegisterHandler, tc.body).Code)
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	env := newEnv()
	var gotID int
	var gotLogin string
	protected := env.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = UserID(r.Context())
		gotLogin = UserLogin(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/user/history", nil)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := env.issueToken(42, "alice")
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/api/user/history", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 42, gotID)
	assert.Equal(t, "alice", gotLogin)

	req = httptest.NewRequest(http.MethodGet, "/api/user/history", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	other := &Authenv{JWTKey: []byte("other-key"), Log: zap.NewNop()}
	forged, err := other.issueToken(42, "alice")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/user/history", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserIDMissing(t *testing.T) {
	_, ok := UserID(context.Background())
	assert.False(t, ok)

	id, ok := UserID(WithUser(context.Background(), 5, "bob"))
	assert.True(t, ok)
	assert.Equal(t, 5, id)
}

func TestLimitMiddleware(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 2)
	h := limiter.LimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogout(t *testing.T) {
	env := newEnv()
	rec := post(env.LogoutHandler, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, -1, sessionCookie(t, rec).MaxAge)
}
