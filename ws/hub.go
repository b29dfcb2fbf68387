package ws

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
)

// EventPublisher, sekmeler arası bildirim göndermek için kullanılan interface.
// Handler, controller'ın OnCatalogChanged callback'ini bu interface üzerinden
// Hub'a bağlar.
type EventPublisher interface {
	BroadcastToAllExcept(excludeID string, event Event)
	ConnectionCount() int
}

// Hub, tüm WebSocket bağlantılarını yöneten merkezi yapıdır (Observer pattern).
//
// Her bağlantı bir dashboard sekmesidir ve kendi ID'si vardır. Bir sekme
// kataloğu değiştirdiğinde Hub diğer tüm sekmelere catalog_changed gönderir.
//
// Hub.Run() goroutine'i register/unregister channel'larını `select` ile okur.
type Hub struct {
	// clients: bağlantı ID'si → Client.
	clients map[string]*Client

	// mu: clients map'ini koruyan read-write mutex.
	mu sync.RWMutex

	// register/unregister: Client giriş/çıkış sinyalleri.
	register   chan *Client
	unregister chan *Client

	// seq: Her broadcast event'e verilen artan sayaç.
	seq atomic.Int64
}

// NewHub, yeni bir Hub oluşturur.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run, Hub'ın ana event loop'udur. main.go'da `go hub.Run()` ile başlatılır.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

// addClient, yeni bir client'ı Hub'a ekler.
func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.id] = client
	log.Printf("[ws] client connected: %s (total connections: %d)", client.id, len(h.clients))
}

// removeClient, bir client'ı Hub'dan çıkarır ve send channel'ını kapatır.
// Aynı client için birden fazla çağrı güvenlidir.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.clients[client.id]; ok && existing == client {
		delete(h.clients, client.id)
		client.closeSend()
		log.Printf("[ws] client disconnected: %s (remaining: %d)", client.id, len(h.clients))
	}
}

// BroadcastToAllExcept, belirli bir bağlantı hariç tüm client'lara event gönderir.
// Kataloğu değiştiren sekme kendi catalog_changed event'ini almaz.
func (h *Hub) BroadcastToAllExcept(excludeID string, event Event) {
	event.Seq = h.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal broadcast event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, client := range h.clients {
		if id == excludeID {
			continue
		}
		if !client.trySend(data) {
			// Buffer dolu — bu client yavaş, kapat
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

// ConnectionCount, bağlı sekme sayısını döner.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown, tüm client bağlantılarını kapatır (graceful shutdown).
// WritePump'lar kapanan channel'ı görünce close frame gönderip çıkar.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		client.closeSend()
	}
	h.clients = make(map[string]*Client)
	log.Println("[ws] hub shut down, all connections closed")
}
