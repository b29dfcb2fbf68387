// Package handlers, HTTP request/response işlemlerini yönetir.
//
// Handler'ın görevi çok basit ve "ince" (thin) olmalı:
// 1. Request'i (form ya da JSON) parse et
// 2. Service katmanını çağır
// 3. Sonucu HTTP response (sayfa ya da JSON) olarak döndür
//
// Handler ASLA iş mantığı (business logic) içermez.
// Handler ASLA doğrudan DB'ye erişmez.
package handlers

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/akinalp/kutuphane/models"
	"github.com/akinalp/kutuphane/pkg"
	"github.com/akinalp/kutuphane/pkg/i18n"
	"github.com/akinalp/kutuphane/pkg/ratelimit"
	"github.com/akinalp/kutuphane/services"
	"github.com/akinalp/kutuphane/views"
)

// LoginCookieName, giriş bayrağına işaret eden imzalı token'ı taşıyan çerez.
const LoginCookieName = "kutuphane_login"

// DashboardPath, başarılı girişten sonra gidilen sayfa.
const DashboardPath = "/dashboard"

// LoginHandler, giriş sayfasını ve giriş/çıkış form POST'larını yönetir.
type LoginHandler struct {
	gate          services.SessionGate
	renderer      *views.Renderer
	limiter       *ratelimit.LoginLimiter
	loc           *i18n.Localizer
	redirectDelay time.Duration
}

// NewLoginHandler, constructor.
// limiter nil ise deneme sınırı uygulanmaz.
func NewLoginHandler(gate services.SessionGate, renderer *views.Renderer, limiter *ratelimit.LoginLimiter, redirectDelay time.Duration) *LoginHandler {
	return &LoginHandler{
		gate:          gate,
		renderer:      renderer,
		limiter:       limiter,
		loc:           i18n.NewLocalizer(i18n.DefaultLanguage),
		redirectDelay: redirectDelay,
	}
}

// Index godoc
// GET /
//
// Kalıcı depoda geçerli bir bayrak varsa form atlanır, dashboard'a gidilir.
// Oturum kapsamlı bayrak formu atlatmaz.
func (h *LoginHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if cookie, err := r.Cookie(LoginCookieName); err == nil {
		flag, err := h.gate.Check(r.Context(), cookie.Value)
		if err == nil && flag.Scope == models.ScopeDurable {
			http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
			return
		}
		if err != nil && !errors.Is(err, pkg.ErrUnauthorized) {
			log.Printf("[login] flag check failed: %v", err)
		}
	}

	h.render(w, http.StatusOK, views.LoginData{})
}

// Login godoc
// POST /login
// Form: username, password, remember_me
//
// Başarılı girişte çerez yazılır ve sayfa kısa bir gecikmeyle dashboard'a
// yönlenir. Başarısız girişte kullanıcı adı korunur, şifre alanı boşaltılıp
// odaklanır.
func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, views.LoginData{
			Toast: h.toast(h.loc.T("login.fieldsRequired"), models.SeverityError),
		})
		return
	}

	req := models.LoginRequest{
		Username:   r.PostForm.Get("username"),
		Password:   r.PostForm.Get("password"),
		RememberMe: r.PostForm.Get("remember_me") != "",
	}

	// Deneme sınırı — brute-force koruması
	ip := ratelimit.ExtractIP(r)
	if h.limiter != nil && !h.limiter.Allow(ip) {
		retryAfter := h.limiter.RetryAfterSeconds(ip)
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		h.render(w, http.StatusTooManyRequests, views.LoginData{
			Username:   req.Username,
			RememberMe: req.RememberMe,
			Toast: h.toast(h.loc.TWithParams("login.tooManyAttempts",
				map[string]string{"seconds": strconv.Itoa(retryAfter)}), models.SeverityWarning),
		})
		return
	}

	result, err := h.gate.Login(r.Context(), &req)
	if err != nil {
		h.loginFailed(w, &req, err)
		return
	}

	if h.limiter != nil {
		h.limiter.Reset(ip)
	}

	cookie := &http.Cookie{
		Name:     LoginCookieName,
		Value:    result.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
	if !result.ExpiresAt.IsZero() {
		cookie.Expires = result.ExpiresAt
	}
	http.SetCookie(w, cookie)

	log.Printf("[login] %s logged in (%s)", result.Flag.Username, result.Flag.Scope)

	h.render(w, http.StatusOK, views.LoginData{
		Username:      req.Username,
		RememberMe:    req.RememberMe,
		Toast:         h.toast(h.loc.T("login.success"), models.SeveritySuccess),
		RedirectURL:   DashboardPath,
		RedirectAfter: h.redirectDelay,
	})
}

func (h *LoginHandler) loginFailed(w http.ResponseWriter, req *models.LoginRequest, err error) {
	data := views.LoginData{Username: req.Username, RememberMe: req.RememberMe}

	switch {
	case errors.Is(err, pkg.ErrBadRequest):
		data.Toast = h.toast(h.loc.T("login.fieldsRequired"), models.SeverityError)
		data.FocusPassword = req.Username != ""
		h.render(w, http.StatusBadRequest, data)

	case errors.Is(err, pkg.ErrUnauthorized):
		data.Toast = h.toast(h.loc.T("login.invalidCredentials"), models.SeverityError)
		data.FocusPassword = true
		h.render(w, http.StatusUnauthorized, data)

	default:
		log.Printf("[login] login failed: %v", err)
		data.Toast = h.toast(h.loc.T("connection.failed"), models.SeverityError)
		h.render(w, http.StatusInternalServerError, data)
	}
}

// Logout godoc
// POST /logout
//
// Bayrak her iki depodan silinir, çerez temizlenir, giriş sayfasına dönülür.
func (h *LoginHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(LoginCookieName); err == nil {
		if err := h.gate.Logout(r.Context(), cookie.Value); err != nil {
			log.Printf("[login] logout failed: %v", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     LoginCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *LoginHandler) toast(message string, severity models.Severity) *models.Toast {
	return &models.Toast{ID: uuid.NewString(), Message: message, Severity: severity}
}

func (h *LoginHandler) render(w http.ResponseWriter, status int, data views.LoginData) {
	var buf bytes.Buffer
	if err := h.renderer.Login(&buf, data); err != nil {
		log.Printf("[login] failed to render login page: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, status, buf.Bytes())
}

// writeHTML, önceden render edilmiş sayfayı yazar.
func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Printf("[handlers] failed to write response: %v", err)
	}
}
