package handlers

import (
	"bytes"
	"log"
	"net/http"

	"github.com/akinalp/kutuphane/services"
	"github.com/akinalp/kutuphane/views"
)

// DashboardHandler, dashboard sayfasını sunar.
//
// Sayfa giriş bayrağıyla korunmaz; bayrak varsa yalnızca karşılama satırı
// için kullanıcı adı okunur. Sayfanın geri kalanı WebSocket üzerinden çizilir.
type DashboardHandler struct {
	gate     services.SessionGate
	renderer *views.Renderer
	wsPath   string
}

// NewDashboardHandler, constructor.
func NewDashboardHandler(gate services.SessionGate, renderer *views.Renderer, wsPath string) *DashboardHandler {
	return &DashboardHandler{gate: gate, renderer: renderer, wsPath: wsPath}
}

// Show godoc
// GET /dashboard
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	data := views.DashboardData{WSPath: h.wsPath}

	if cookie, err := r.Cookie(LoginCookieName); err == nil {
		if flag, err := h.gate.Check(r.Context(), cookie.Value); err == nil {
			data.Username = flag.Username
		}
	}

	var buf bytes.Buffer
	if err := h.renderer.Dashboard(&buf, data); err != nil {
		log.Printf("[dashboard] failed to render: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}
