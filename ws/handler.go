package ws

import (
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/akinalp/kutuphane/pkg/i18n"
	"github.com/akinalp/kutuphane/pkg/ratelimit"
	"github.com/akinalp/kutuphane/ui"
	"github.com/akinalp/kutuphane/views"
)

// HandlerOptions, her bağlantının controller ayarları.
type HandlerOptions struct {
	Clock           clock.Clock
	SearchDebounce  time.Duration
	ToastDuration   time.Duration
	EventsPerSecond int
	AllowedOrigins  []string
}

// Handler, WebSocket bağlantı isteklerini işleyen HTTP handler'ı.
//
// Her bağlantı için bir ui.Loop, bir socketView ve bir ui.Controller kurar.
// Dashboard giriş bayrağıyla korunmaz; bağlantı kimliği sunucunun ürettiği
// bir UUID'dir.
type Handler struct {
	hub      *Hub
	api      ui.BookAPI
	renderer *views.Renderer
	opts     HandlerOptions
	upgrader websocket.Upgrader
}

// NewHandler, yeni bir WebSocket handler oluşturur.
func NewHandler(hub *Hub, api ui.BookAPI, renderer *views.Renderer, opts HandlerOptions) *Handler {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}

	return &Handler{
		hub:      hub,
		api:      api,
		renderer: renderer,
		opts:     opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(opts.AllowedOrigins),
		},
	}
}

// HandleConnection, HTTP bağlantısını WebSocket'e yükseltir, sekmenin
// controller'ını kurar ve client'ı Hub'a kaydeder.
//
// Flow:
// 1. HTTP → WebSocket upgrade
// 2. Client, Loop, View, Controller oluştur
// 3. Hub'a kaydet, ready gönder
// 4. Loop ve WritePump goroutine'lerini başlat, ilk yüklemeyi tetikle
// 5. ReadPump bağlantı kapanana kadar bloklar
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}

	id := uuid.NewString()
	client := &Client{
		hub:     h.hub,
		conn:    conn,
		id:      id,
		limiter: ratelimit.NewEventLimiter(h.opts.EventsPerSecond),
		send:    make(chan []byte, sendBufferSize),
		loop:    ui.NewLoop(loopQueueSize),
	}

	view := newSocketView(client, h.renderer, id)
	client.ctrl = ui.NewController(h.api, view, client.loop, ui.Options{
		ID:             id,
		Clock:          h.opts.Clock,
		SearchDebounce: h.opts.SearchDebounce,
		ToastDuration:  h.opts.ToastDuration,
		Localizer:      i18n.NewLocalizer(i18n.DefaultLanguage),
		OnCatalogChanged: func() {
			h.hub.BroadcastToAllExcept(id, Event{Op: OpCatalogChanged})
		},
	})

	h.hub.register <- client
	client.sendEvent(Event{Op: OpReady, Data: ReadyData{ConnectionID: id}})

	go client.loop.Run()
	go client.WritePump()
	client.loop.Post(client.ctrl.Start)

	client.ReadPump() // Bu satır bağlantı kapanana kadar bloklar
}

// checkOrigin, tarayıcının Origin başlığını izin listesine göre kontrol eder.
// Origin yoksa (tarayıcı dışı istemci) ya da sayfayla aynı host'tan geliyorsa
// kabul edilir.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || set[origin] {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	}
}
