// Package services, business logic katmanını barındırır.
//
// Service Layer Pattern nedir?
// Handler (HTTP) ile Repository (DB) arasında oturan katmandır.
// Tüm iş kuralları burada yaşar:
//   - Kullanıcı adı/şifre karşılaştırması
//   - Giriş çerezindeki token'ın üretilmesi ve doğrulanması
//
// Service ASLA http.Request/Response bilmez — sadece domain modelleri alır/verir.
// Service ASLA doğrudan SQL çalıştırmaz — Repository interface'i kullanır.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/akinalp/kutuphane/models"
	"github.com/akinalp/kutuphane/pkg"
	"github.com/akinalp/kutuphane/repository"
)

// bcryptCost, yapılandırılan şifrenin hash maliyeti.
const bcryptCost = 12

// SessionGate, giriş sayfasının arkasındaki kapı.
//
// Tek bir kullanıcı adı/şifre çifti kabul edilir. Başarılı girişte bir
// giriş bayrağı "Beni hatırla" seçimine göre kalıcı ya da oturum deposuna
// yazılır ve bayrağa işaret eden imzalı bir token döner.
//
// Bu mekanizma gerçek bir güvenlik sağlamaz; dashboard bayrağa bakmaz.
type SessionGate interface {
	Login(ctx context.Context, req *models.LoginRequest) (*LoginResult, error)
	// Check, token'ın işaret ettiği bayrağı döner. Token geçersizse ya da
	// bayrak depoda yoksa ErrUnauthorized döner.
	Check(ctx context.Context, token string) (*models.LoginFlag, error)
	// Logout, token'ın bayrağını her iki depodan da siler.
	Logout(ctx context.Context, token string) error
}

// LoginResult, başarılı girişin çıktısı.
type LoginResult struct {
	Token string
	Flag  models.LoginFlag
	// ExpiresAt, kalıcı bayrak için çerezin son geçerlilik zamanı.
	// Oturum kapsamlı bayrakta sıfırdır (oturum çerezi).
	ExpiresAt time.Time
}

// GateOptions, SessionGate ayarları.
type GateOptions struct {
	Username    string
	Password    string
	Secret      string
	RememberFor time.Duration
	SessionTTL  time.Duration
	Clock       clock.Clock
}

type sessionGate struct {
	durable      repository.LoginFlagRepository
	session      repository.LoginFlagRepository
	username     string
	passwordHash []byte
	secret       []byte
	rememberFor  time.Duration
	sessionTTL   time.Duration
	clock        clock.Clock
}

// NewSessionGate, constructor. Yapılandırılan şifre burada bir kez bcrypt
// ile hash'lenir; düz metin saklanmaz.
func NewSessionGate(durable, session repository.LoginFlagRepository, opts GateOptions) (SessionGate, error) {
	if opts.Secret == "" {
		return nil, fmt.Errorf("session gate: empty secret")
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(opts.Password)), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &sessionGate{
		durable:      durable,
		session:      session,
		username:     strings.TrimSpace(opts.Username),
		passwordHash: hash,
		secret:       []byte(opts.Secret),
		rememberFor:  opts.RememberFor,
		sessionTTL:   opts.SessionTTL,
		clock:        opts.Clock,
	}, nil
}

// Login, formdan gelen çifti doğrular ve bayrağı uygun depoya yazar.
//
// Boş alan → ErrBadRequest (FieldErrors sarılı), çift uyuşmazsa → ErrUnauthorized.
func (g *sessionGate) Login(ctx context.Context, req *models.LoginRequest) (*LoginResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", pkg.ErrBadRequest, err)
	}

	if req.Username != g.username {
		return nil, fmt.Errorf("%w: invalid username or password", pkg.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword(g.passwordHash, []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid username or password", pkg.ErrUnauthorized)
	}

	now := g.clock.Now()
	flag := &models.LoginFlag{
		ID:        uuid.NewString(),
		Username:  req.Username,
		CreatedAt: now,
	}

	store, ttl := g.session, g.sessionTTL
	if req.RememberMe {
		store, ttl = g.durable, g.rememberFor
	}
	if err := store.Save(ctx, flag); err != nil {
		return nil, err
	}

	token, err := g.sign(flag, now, ttl)
	if err != nil {
		return nil, err
	}

	result := &LoginResult{Token: token, Flag: *flag}
	if flag.Scope == models.ScopeDurable {
		result.ExpiresAt = now.Add(ttl)
	}
	return result, nil
}

// Check, token'ı doğrular ve bayrağı kapsamına göre ilgili depodan okur.
func (g *sessionGate) Check(ctx context.Context, token string) (*models.LoginFlag, error) {
	claims, err := g.parse(token)
	if err != nil {
		return nil, err
	}

	store, err := g.storeFor(claims.Scope)
	if err != nil {
		return nil, err
	}

	flag, err := store.GetByID(ctx, claims.FlagID)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: login flag not found", pkg.ErrUnauthorized)
		}
		return nil, err
	}
	return flag, nil
}

// Logout, bayrağı her iki depodan da siler. Geçersiz ya da süresi dolmuş
// token hata sayılmaz; çıkışta temizlenecek bir şey yoktur.
func (g *sessionGate) Logout(ctx context.Context, token string) error {
	claims, err := g.parse(token)
	if err != nil {
		return nil
	}

	if err := g.durable.DeleteByID(ctx, claims.FlagID); err != nil {
		return err
	}
	return g.session.DeleteByID(ctx, claims.FlagID)
}

func (g *sessionGate) storeFor(scope models.LoginScope) (repository.LoginFlagRepository, error) {
	switch scope {
	case models.ScopeDurable:
		return g.durable, nil
	case models.ScopeSession:
		return g.session, nil
	default:
		return nil, fmt.Errorf("%w: unknown login scope %q", pkg.ErrUnauthorized, scope)
	}
}

// sign, bayrağa işaret eden HS256 token üretir.
func (g *sessionGate) sign(flag *models.LoginFlag, now time.Time, ttl time.Duration) (string, error) {
	claims := models.LoginClaims{
		FlagID:   flag.ID,
		Username: flag.Username,
		Scope:    flag.Scope,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign login token: %w", err)
	}
	return signed, nil
}

func (g *sessionGate) parse(tokenString string) (*models.LoginClaims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: missing login token", pkg.ErrUnauthorized)
	}

	claims := &models.LoginClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			return g.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(g.clock.Now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid login token", pkg.ErrUnauthorized)
	}
	return claims, nil
}
