// Package main — HTTP route registration.
//
// initRoutes, sayfaları, form POST'larını, JSON endpoint'lerini, statik
// dosyaları ve WebSocket endpoint'ini mux'a bağlar. Tüm zincir
// Recover → RequestLogger ile sarılır.
package main

import (
	"net/http"

	"github.com/akinalp/kutuphane/middleware"
	"github.com/akinalp/kutuphane/static"
)

// initRoutes, endpoint'leri mux'a bağlar ve middleware ile sarılmış handler döner.
func initRoutes(mux *http.ServeMux, h *Handlers) http.Handler {
	// Sayfalar
	mux.HandleFunc("GET /{$}", h.Login.Index)
	mux.HandleFunc("GET /dashboard", h.Dashboard.Show)

	// Giriş / çıkış — klasik form POST
	mux.HandleFunc("POST /login", h.Login.Login)
	mux.HandleFunc("POST /logout", h.Login.Logout)

	// JSON
	mux.HandleFunc("GET /api/health", h.Health.Check)

	// Statik dosyalar (CSS/JS)
	mux.Handle("GET /static/", static.Handler())

	// WebSocket — her dashboard sekmesi bir bağlantı
	mux.HandleFunc("GET "+wsPath, h.WS.HandleConnection)

	return middleware.Recover(middleware.RequestLogger(mux))
}
