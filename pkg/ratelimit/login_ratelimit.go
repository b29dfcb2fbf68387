// Package ratelimit — LoginLimiter: giriş formuna karşı IP bazlı deneme sınırı.
//
// Tasarım:
// - Her IP adresi için sabit pencereyle deneme sayısı takip edilir.
// - Pencere içinde maxAttempts aşılırsa deneme reddedilir.
// - Başarılı giriş sonrası Reset() ile sayaç sıfırlanır.
// - Arka plan goroutine'i süresi dolmuş bucket'ları temizler.
//
// pkg/ratelimit hiçbir proje içi pakete bağımlı değildir (leaf dependency).
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// bucket, bir IP adresi için deneme sayacı ve pencere başlangıcı.
type bucket struct {
	count       int
	windowStart time.Time
}

// LoginLimiter, IP bazlı giriş denemesi sınırlayıcı.
//
// Kullanım:
//
//	limiter := NewLoginLimiter(clock.New(), 5, 2*time.Minute)
//	if !limiter.Allow(ip) { return 429 }
//	// Başarılı girişte:
//	limiter.Reset(ip)
type LoginLimiter struct {
	mu          sync.Mutex
	clock       clock.Clock
	buckets     map[string]*bucket
	maxAttempts int
	window      time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewLoginLimiter, limiter oluşturur ve temizleme goroutine'ini başlatır.
// maxAttempts <= 0 ise her deneme kabul edilir.
func NewLoginLimiter(clk clock.Clock, maxAttempts int, window time.Duration) *LoginLimiter {
	rl := &LoginLimiter{
		clock:       clk,
		buckets:     make(map[string]*bucket),
		maxAttempts: maxAttempts,
		window:      window,
		stop:        make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Allow, denemeyi sayar ve limit aşılmadıysa true döner.
func (rl *LoginLimiter) Allow(ip string) bool {
	if rl.maxAttempts <= 0 {
		return true
	}
	now := rl.clock.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[ip]
	if !exists || now.Sub(b.windowStart) > rl.window {
		rl.buckets[ip] = &bucket{count: 1, windowStart: now}
		return true
	}

	b.count++
	return b.count <= rl.maxAttempts
}

// Reset, başarılı girişten sonra IP'nin sayacını siler.
func (rl *LoginLimiter) Reset(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.buckets, ip)
}

// RetryAfterSeconds, pencerenin kapanmasına kalan süre (yukarı yuvarlanmış).
func (rl *LoginLimiter) RetryAfterSeconds(ip string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[ip]
	if !exists {
		return 0
	}

	remaining := rl.window - rl.clock.Since(b.windowStart)
	if remaining <= 0 {
		return 0
	}
	return int(remaining.Seconds()) + 1
}

// Close, temizleme goroutine'ini durdurur.
func (rl *LoginLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *LoginLimiter) cleanupLoop() {
	ticker := rl.clock.Ticker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stop:
			return
		}
	}
}

func (rl *LoginLimiter) cleanup() {
	now := rl.clock.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, b := range rl.buckets {
		if now.Sub(b.windowStart) > rl.window {
			delete(rl.buckets, ip)
		}
	}
}

// ExtractIP, istemci IP adresini çıkarır.
//
// Öncelik sırası:
// 1. X-Forwarded-For (reverse proxy arkasındaysa, ilk IP)
// 2. X-Real-IP
// 3. RemoteAddr
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
