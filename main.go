// Package main, kütüphane web arayüzü sunucusunun giriş noktasıdır.
//
// Bu dosyanın görevi — Dependency Injection "wire-up":
//  1. Config'i yükle
//  2. i18n çevirilerini yükle
//  3. Database'i başlat (kalıcı giriş bayrakları)
//  4. Repository'leri oluştur
//  5. Service'leri oluştur (Session Gate, kitap backend istemcisi)
//  6. View renderer ve WebSocket Hub'ı başlat
//  7. Handler'ları oluştur
//  8. HTTP router'ı kur, route'ları bağla
//  9. CORS yapılandır
//  10. HTTP Server'ı başlat
//  11. Graceful shutdown
//
// Global değişken YOK — her şey bu fonksiyonda oluşturulup birbirine bağlanıyor.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/cors"

	"github.com/akinalp/kutuphane/config"
	"github.com/akinalp/kutuphane/database"
	"github.com/akinalp/kutuphane/pkg/i18n"
	"github.com/akinalp/kutuphane/views"
	"github.com/akinalp/kutuphane/ws"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] kutuphane web server starting...")

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	log.Printf("[main] config loaded (addr=%s, api=%s)", cfg.Server.Addr(), cfg.API.BaseURL)

	// ─── 2. i18n ───
	if err := i18n.LoadEmbedded(); err != nil {
		log.Fatalf("[main] failed to load i18n translations: %v", err)
	}

	// ─── 3. Database ───
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("[main] failed to create data directory: %v", err)
	}
	migrations, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	if err != nil {
		log.Fatalf("[main] failed to open embedded migrations: %v", err)
	}
	db, err := database.New(cfg.Database.Path, migrations)
	if err != nil {
		log.Fatalf("[main] failed to initialize database: %v", err)
	}
	defer db.Close()

	clk := clock.New()

	// ─── 4. Repository Layer ───
	repos := initRepositories(db.Conn, clk, cfg)
	defer repos.Close()

	// ─── 5. Service Layer ───
	svcs, limiters, err := initServices(repos, clk, cfg)
	if err != nil {
		log.Fatalf("[main] %v", err)
	}
	defer limiters.Login.Close()

	// ─── 6. Renderer + WebSocket Hub ───
	renderer, err := views.New()
	if err != nil {
		log.Fatalf("[main] failed to parse templates: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	// ─── 7. Handler Layer ───
	h := initHandlers(svcs, limiters, renderer, hub, db, clk, cfg)

	// ─── 8. HTTP Router ───
	mux := http.NewServeMux()
	routes := initRoutes(mux, h)

	// ─── 9. CORS ───
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		Debug:            false,
	})

	// ─── 10. HTTP Server ───
	// WriteTimeout yok: WebSocket bağlantıları uzun ömürlüdür, yazma
	// deadline'ı her mesajda client tarafında ayrıca ayarlanır.
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           corsHandler.Handler(routes),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// ─── 11. Graceful Shutdown ───
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[main] server listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	<-done
	log.Println("[main] shutting down...")

	// Önce WebSocket bağlantılarını kapat, sonra HTTP server'ı.
	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[main] forced shutdown: %v", err)
	}

	log.Println("[main] server stopped gracefully")
}
