// Package main — Handler katmanı başlatma.
//
// initHandlers, HTTP handler'larını ve WebSocket handler'ını oluşturur.
// Handler'lar "thin" dir — sadece HTTP parse + service call + response write.
package main

import (
	"github.com/benbjohnson/clock"

	"github.com/akinalp/kutuphane/config"
	"github.com/akinalp/kutuphane/database"
	"github.com/akinalp/kutuphane/handlers"
	"github.com/akinalp/kutuphane/views"
	"github.com/akinalp/kutuphane/ws"
)

// wsPath, dashboard sayfasının bağlandığı WebSocket endpoint'i.
const wsPath = "/ws"

// Handlers, handler instance'larını tutan container struct.
type Handlers struct {
	Login     *handlers.LoginHandler
	Dashboard *handlers.DashboardHandler
	Health    *handlers.HealthHandler
	WS        *ws.Handler
}

// initHandlers, handler'ları service, renderer ve hub dependency'leri ile oluşturur.
func initHandlers(
	svcs *Services,
	limiters *RateLimiters,
	renderer *views.Renderer,
	hub *ws.Hub,
	db *database.DB,
	clk clock.Clock,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		Login:     handlers.NewLoginHandler(svcs.Gate, renderer, limiters.Login, cfg.Login.RedirectDelay),
		Dashboard: handlers.NewDashboardHandler(svcs.Gate, renderer, wsPath),
		Health:    handlers.NewHealthHandler(db.Conn, hub),
		WS: ws.NewHandler(hub, svcs.BookAPI, renderer, ws.HandlerOptions{
			Clock:           clk,
			SearchDebounce:  cfg.UI.SearchDebounce,
			ToastDuration:   cfg.UI.ToastDuration,
			EventsPerSecond: cfg.UI.WSEventsPerSecond,
			AllowedOrigins:  cfg.CORS.AllowedOrigins,
		}),
	}
}
