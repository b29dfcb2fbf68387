// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
//
// Config struct'ı tüm ayarları tek bir yerde toplar; her yerde ayrı ayrı
// os.Getenv() çağırmak yerine tek bir Config nesnesi taşınır.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
type Config struct {
	Server   ServerConfig
	API      APIConfig
	Database DatabaseConfig
	Login    LoginConfig
	UI       UIConfig
	CORS     CORSConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host string
	Port int
}

// APIConfig, kitap backend'inin (harici REST API) adresi ve istemci ayarları.
type APIConfig struct {
	BaseURL   string        // ör: http://127.0.0.1:5000
	Timeout   time.Duration // 0 → transport varsayılanı (timeout yok)
	UserAgent string
}

// DatabaseConfig, kalıcı giriş bayraklarının tutulduğu SQLite dosyası.
type DatabaseConfig struct {
	Path string
}

// LoginConfig, giriş sayfasının kabul ettiği tek kullanıcı adı/şifre çifti
// ve giriş bayrağı ayarları. Gerçek bir kimlik doğrulama DEĞİLDİR.
type LoginConfig struct {
	Username      string
	Password      string
	Secret        string        // Giriş çerezini imzalayan anahtar
	RememberFor   time.Duration // "Beni hatırla" çerezinin ömrü
	SessionTTL    time.Duration // Oturum kapsamlı bayrağın bellekte kalma süresi
	RedirectDelay time.Duration // Başarılı girişten sonra yönlendirme gecikmesi
	MaxAttempts   int           // IP başına pencere içindeki deneme sınırı (0 → sınırsız)
	AttemptWindow time.Duration
}

// UIConfig, dashboard etkileşim katmanının zamanlama ayarları.
type UIConfig struct {
	SearchDebounce    time.Duration
	ToastDuration     time.Duration
	WSEventsPerSecond int
}

// CORSConfig, izin verilen origin listesi.
type CORSConfig struct {
	AllowedOrigins []string
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler (development kolaylığı için).
func Load() (*Config, error) {
	// .env dosyası yoksa hata vermez, sessizce devam eder.
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	apiTimeout, err := getSeconds("API_TIMEOUT_SECONDS", "0")
	if err != nil {
		return nil, err
	}

	rememberDays, err := strconv.Atoi(getEnv("REMEMBER_ME_DAYS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid REMEMBER_ME_DAYS: %w", err)
	}

	sessionHours, err := strconv.Atoi(getEnv("SESSION_TTL_HOURS", "12"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL_HOURS: %w", err)
	}

	debounce, err := getMillis("SEARCH_DEBOUNCE_MS", "500")
	if err != nil {
		return nil, err
	}

	toast, err := getMillis("TOAST_DURATION_MS", "3000")
	if err != nil {
		return nil, err
	}

	redirect, err := getMillis("LOGIN_REDIRECT_MS", "1000")
	if err != nil {
		return nil, err
	}

	maxAttempts, err := strconv.Atoi(getEnv("LOGIN_MAX_ATTEMPTS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_MAX_ATTEMPTS: %w", err)
	}

	attemptWindow, err := getSeconds("LOGIN_WINDOW_SECONDS", "120")
	if err != nil {
		return nil, err
	}

	eventRate, err := strconv.Atoi(getEnv("WS_EVENTS_PER_SECOND", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid WS_EVENTS_PER_SECOND: %w", err)
	}

	secret := getEnv("SESSION_SECRET", "")
	if secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is required")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "127.0.0.1"),
			Port: port,
		},
		API: APIConfig{
			BaseURL:   strings.TrimRight(getEnv("API_BASE_URL", "http://127.0.0.1:5000"), "/"),
			Timeout:   apiTimeout,
			UserAgent: getEnv("API_USER_AGENT", "kutuphane-web/1.0"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/kutuphane.db"),
		},
		Login: LoginConfig{
			Username:      getEnv("LOGIN_USERNAME", "admin"),
			Password:      getEnv("LOGIN_PASSWORD", "1234"),
			Secret:        secret,
			RememberFor:   time.Duration(rememberDays) * 24 * time.Hour,
			SessionTTL:    time.Duration(sessionHours) * time.Hour,
			RedirectDelay: redirect,
			MaxAttempts:   maxAttempts,
			AttemptWindow: attemptWindow,
		},
		UI: UIConfig{
			SearchDebounce:    debounce,
			ToastDuration:     toast,
			WSEventsPerSecond: eventRate,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:8080")),
		},
	}

	return cfg, nil
}

// Addr, HTTP server'ın dinleyeceği adresi döner (ör: "127.0.0.1:8080").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv, environment variable'ı okur, yoksa fallback değeri döner.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getMillis(key, fallback string) (time.Duration, error) {
	n, err := strconv.Atoi(getEnv(key, fallback))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, getEnv(key, fallback))
	}
	return time.Duration(n) * time.Millisecond, nil
}

func getSeconds(key, fallback string) (time.Duration, error) {
	n, err := strconv.Atoi(getEnv(key, fallback))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, getEnv(key, fallback))
	}
	return time.Duration(n) * time.Second, nil
}

// splitList, virgülle ayrılmış listeyi parçalar, boş öğeleri atar.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
