package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/kutuphane/models"
	"github.com/akinalp/kutuphane/pkg"
	"github.com/akinalp/kutuphane/pkg/i18n"
	"github.com/akinalp/kutuphane/pkg/ratelimit"
	"github.com/akinalp/kutuphane/services"
	"github.com/akinalp/kutuphane/views"
	"github.com/akinalp/kutuphane/ws"
)

func TestMain(m *testing.M) {
	if err := i18n.LoadEmbedded(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fakeGate, SessionGate'i bellekte taklit eder. Token = "tok-" + bayrak ID'si.
type fakeGate struct {
	flags     map[string]models.LoginFlag
	loggedOut []string
	loginErr  error
}

func newFakeGate() *fakeGate {
	return &fakeGate{flags: map[string]models.LoginFlag{}}
}

func (g *fakeGate) Login(_ context.Context, req *models.LoginRequest) (*services.LoginResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", pkg.ErrBadRequest, err)
	}
	if g.loginErr != nil {
		return nil, g.loginErr
	}
	if req.Username != "admin" || req.Password != "1234" {
		return nil, pkg.ErrUnauthorized
	}

	flag := models.LoginFlag{ID: fmt.Sprintf("f%d", len(g.flags)+1), Username: req.Username, Scope: models.ScopeSession}
	res := &services.LoginResult{Token: "tok-" + flag.ID}
	if req.RememberMe {
		flag.Scope = models.ScopeDurable
		res.ExpiresAt = time.Now().Add(24 * time.Hour)
	}
	g.flags[flag.ID] = flag
	res.Flag = flag
	return res, nil
}

func (g *fakeGate) Check(_ context.Context, token string) (*models.LoginFlag, error) {
	flag, ok := g.flags[strings.TrimPrefix(token, "tok-")]
	if !ok {
		return nil, pkg.ErrUnauthorized
	}
	return &flag, nil
}

func (g *fakeGate) Logout(_ context.Context, token string) error {
	id := strings.TrimPrefix(token, "tok-")
	delete(g.flags, id)
	g.loggedOut = append(g.loggedOut, id)
	return nil
}

func newLoginHandler(t *testing.T, gate *fakeGate, limiter *ratelimit.LoginLimiter) *LoginHandler {
	t.Helper()
	renderer, err := views.New()
	require.NoError(t, err)
	return NewLoginHandler(gate, renderer, limiter, time.Second)
}

func postLogin(h *LoginHandler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	return rec
}

func loginCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == LoginCookieName {
			return c
		}
	}
	return nil
}

func TestLogin_EmptyFields(t *testing.T) {
	h := newLoginHandler(t, newFakeGate(), nil)

	rec := postLogin(h, url.Values{"username": {"admin"}, "password": {"  "}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Lütfen tüm alanları doldurun.")
	assert.Nil(t, loginCookie(rec))
}

func TestLogin_WrongCredentials(t *testing.T) {
	h := newLoginHandler(t, newFakeGate(), nil)

	rec := postLogin(h, url.Values{"username": {"admin"}, "password": {"wrong"}})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Kullanıcı adı veya şifre hatalı!")
	assert.Contains(t, body, `value="admin"`)
	assert.NotContains(t, body, "wrong")
	assert.NotContains(t, body, "http-equiv=\"refresh\"")
	assert.Nil(t, loginCookie(rec))
}

func TestLogin_SessionScopedSuccess(t *testing.T) {
	gate := newFakeGate()
	h := newLoginHandler(t, gate, nil)

	rec := postLogin(h, url.Values{"username": {" admin "}, "password": {"1234"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Giriş başarılı! Yönlendiriliyorsunuz...")
	assert.Contains(t, rec.Body.String(), "1;url=/dashboard")

	cookie := loginCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "tok-f1", cookie.Value)
	assert.True(t, cookie.Expires.IsZero(), "session cookie")
	assert.True(t, cookie.HttpOnly)
}

func TestLogin_RememberMeSetsPersistentCookie(t *testing.T) {
	h := newLoginHandler(t, newFakeGate(), nil)

	rec := postLogin(h, url.Values{"username": {"admin"}, "password": {"1234"}, "remember_me": {"on"}})

	cookie := loginCookie(rec)
	require.NotNil(t, cookie)
	assert.False(t, cookie.Expires.IsZero())
}

func TestLogin_InternalError(t *testing.T) {
	gate := newFakeGate()
	gate.loginErr = errors.New("disk full")
	h := newLoginHandler(t, gate, nil)

	rec := postLogin(h, url.Values{"username": {"admin"}, "password": {"1234"}})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Bağlantı hatası")
}

func TestLogin_RateLimited(t *testing.T) {
	limiter := ratelimit.NewLoginLimiter(clock.NewMock(), 2, time.Minute)
	t.Cleanup(limiter.Close)
	h := newLoginHandler(t, newFakeGate(), limiter)

	bad := url.Values{"username": {"admin"}, "password": {"x"}}
	postLogin(h, bad)
	postLogin(h, bad)
	rec := postLogin(h, bad)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "61", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "Çok fazla deneme")
}

func TestIndex_DurableFlagRedirects(t *testing.T) {
	gate := newFakeGate()
	gate.flags["d"] = models.LoginFlag{ID: "d", Username: "admin", Scope: models.ScopeDurable}
	gate.flags["s"] = models.LoginFlag{ID: "s", Username: "admin", Scope: models.ScopeSession}
	h := newLoginHandler(t, gate, nil)

	tests := []struct {
		name     string
		cookie   string
		redirect bool
	}{
		{"no cookie", "", false},
		{"durable flag", "tok-d", true},
		{"session flag", "tok-s", false},
		{"unknown flag", "tok-x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LoginCookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			h.Index(rec, req)

			if tt.redirect {
				assert.Equal(t, http.StatusSeeOther, rec.Code)
				assert.Equal(t, DashboardPath, rec.Header().Get("Location"))
			} else {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.Contains(t, rec.Body.String(), `action="/login"`)
			}
		})
	}
}

func TestIndex_UnknownPathIsNotFound(t *testing.T) {
	h := newLoginHandler(t, newFakeGate(), nil)

	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogout_ClearsFlagAndCookie(t *testing.T) {
	gate := newFakeGate()
	gate.flags["d"] = models.LoginFlag{ID: "d", Username: "admin", Scope: models.ScopeDurable}
	h := newLoginHandler(t, gate, nil)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: LoginCookieName, Value: "tok-d"})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, []string{"d"}, gate.loggedOut)
	assert.Empty(t, gate.flags)

	cookie := loginCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestDashboard_ShowsUsernameWhenFlagged(t *testing.T) {
	gate := newFakeGate()
	gate.flags["s"] = models.LoginFlag{ID: "s", Username: "kütüphaneci", Scope: models.ScopeSession}
	renderer, err := views.New()
	require.NoError(t, err)
	h := NewDashboardHandler(gate, renderer, "/ws")

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: LoginCookieName, Value: "tok-s"})
	rec := httptest.NewRecorder()
	h.Show(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-ws-path="/ws"`)
	assert.Contains(t, rec.Body.String(), "kütüphaneci")

	// Bayraksız ziyaret de sayfayı açar.
	rec = httptest.NewRecorder()
	h.Show(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type fakePublisher struct{ n int }

func (fakePublisher) BroadcastToAllExcept(string, ws.Event) {}
func (p fakePublisher) ConnectionCount() int { return p.n }

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(fakePinger{}, fakePublisher{n: 2}).Check(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"status":"ok","database":"ok","connections":2}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	NewHealthHandler(fakePinger{err: errors.New("closed")}, fakePublisher{}).Check(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
