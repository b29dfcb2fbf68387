package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/akinalp/kutuphane/pkg"
	"github.com/akinalp/kutuphane/ws"
)

// Pinger, veritabanı bağlantısının canlılık kontrolü. *sql.DB karşılar.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthResponse, sağlık endpoint'inin response formatı.
type HealthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	Connections int    `json:"connections"`
}

// HealthHandler, sunucunun kendi sağlık durumunu bildirir.
// Kitap backend'i yoklanmaz; o ayrı bir servistir.
type HealthHandler struct {
	db  Pinger
	hub ws.EventPublisher
}

// NewHealthHandler, constructor.
func NewHealthHandler(db Pinger, hub ws.EventPublisher) *HealthHandler {
	return &HealthHandler{db: db, hub: hub}
}

// Check godoc
// GET /api/health
// Response: { "success": true, "data": { "status": "ok", "database": "ok", "connections": 2 } }
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Database: "ok", Connections: h.hub.ConnectionCount()}
	if err := h.db.PingContext(ctx); err != nil {
		log.Printf("[health] database ping failed: %v", err)
		resp.Status = "degraded"
		resp.Database = "unavailable"
		pkg.JSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	pkg.JSON(w, http.StatusOK, resp)
}
