// Package main — Repository katmanı başlatma.
//
// initRepositories, giriş bayrağı depolarını oluşturur:
//   - Durable: "Beni hatırla" bayrakları, SQLite'ta kalıcı
//   - Session: oturum kapsamlı bayraklar, bellek içi TTL cache'te
package main

import (
	"database/sql"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/akinalp/kutuphane/config"
	"github.com/akinalp/kutuphane/models"
	"github.com/akinalp/kutuphane/pkg/cache"
	"github.com/akinalp/kutuphane/repository"
)

// sessionCleanupInterval, bellek içi bayrakların süpürülme aralığı.
const sessionCleanupInterval = 10 * time.Minute

// Repositories, repository instance'larını tutan container struct.
type Repositories struct {
	DurableFlags repository.LoginFlagRepository
	SessionFlags repository.LoginFlagRepository

	// sessionCache, SessionFlags'in arkasındaki cache. Kapanışta durdurulur.
	sessionCache *cache.TTLCache[string, models.LoginFlag]
}

// initRepositories, veritabanı bağlantısından repository'leri oluşturur.
func initRepositories(conn *sql.DB, clk clock.Clock, cfg *config.Config) *Repositories {
	sessionCache := cache.New[string, models.LoginFlag](clk, cfg.Login.SessionTTL, sessionCleanupInterval)

	return &Repositories{
		DurableFlags: repository.NewSQLiteLoginFlagRepo(conn),
		SessionFlags: repository.NewMemoryLoginFlagRepo(sessionCache),
		sessionCache: sessionCache,
	}
}

// Close, arka plan temizleyicilerini durdurur.
func (r *Repositories) Close() {
	r.sessionCache.Close()
}
