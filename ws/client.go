package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/akinalp/kutuphane/models"
	"github.com/akinalp/kutuphane/pkg/ratelimit"
	"github.com/akinalp/kutuphane/ui"
)

// WebSocket bağlantı sabitleri
const (
	// writeWait: Bir mesajı yazmak için maksimum bekleme süresi.
	writeWait = 10 * time.Second

	// pongWait: Client'ın heartbeat göndermesi için beklenen maksimum süre.
	// 3 heartbeat kaçırma = 30s × 3 = 90s.
	pongWait = 90 * time.Second

	// maxMessageSize: Client'ın gönderebileceği maksimum mesaj boyutu (byte).
	// Form değerleri küçüktür; büyük bir mesaj bozuk ya da kötü niyetli istemcidir.
	maxMessageSize = 8192

	// sendBufferSize: Her client'ın send channel'ının buffer boyutu.
	sendBufferSize = 256

	// loopQueueSize: Controller loop'unun kuyruk kapasitesi.
	loopQueueSize = 64
)

// Client, tek bir WebSocket bağlantısını (dashboard sekmesini) temsil eder.
//
// Her bağlantı için iki goroutine vardır:
// - ReadPump: tarayıcıdan gelen event'leri okur → controller loop'una bırakır
// - WritePump: send channel'ındaki mesajları WebSocket'e yazar
//
// Üçüncü goroutine controller'ın ui.Loop'udur; UI durumu yalnızca orada değişir.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	id      string
	limiter *ratelimit.EventLimiter

	loop *ui.Loop
	ctrl *ui.Controller

	// send, client'a gönderilecek mesajların buffer'landığı channel.
	send   chan []byte
	sendMu sync.Mutex // send'in kapatılmasını ve yazılmasını sıralar
	closed bool

	mu sync.Mutex // conn.WriteMessage çağrılarını korur

	// Limite takılan search_input düşürülmez; en son değeri saklanır ve
	// token dolunca bir kez işlenir.
	searchMu       sync.Mutex
	deferredSearch *inboundEvent
	replayTimer    *time.Timer
}

// ReadPump, WebSocket bağlantısından gelen mesajları okur ve işler.
// Bağlantı kapandığında client'ı Hub'dan çıkarır ve controller'ı kapatır.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
		c.loop.Post(func() {
			c.ctrl.Close()
			c.loop.Stop()
		})
		if dropped := c.limiter.Dropped(); dropped > 0 {
			log.Printf("[ws] client %s: %d events dropped by rate limiter", c.id, dropped)
		}
		c.stopSearchReplay()
	}()

	c.conn.SetReadLimit(maxMessageSize)

	// SetReadDeadline: Bu süre içinde mesaj gelmezse Read hata verir.
	// Her heartbeat geldiğinde deadline yenilenir.
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("[ws] failed to set read deadline for client %s: %v", c.id, err)
		return
	}

	for {
		_, rawMessage, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] unexpected close for client %s: %v", c.id, err)
			}
			return
		}

		var event inboundEvent
		if err := json.Unmarshal(rawMessage, &event); err != nil {
			log.Printf("[ws] invalid message from client %s: %v", c.id, err)
			continue
		}

		if event.Op == OpHeartbeat {
			if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
				log.Printf("[ws] failed to set read deadline for client %s: %v", c.id, err)
				return
			}
			c.sendEvent(Event{Op: OpHeartbeatAck})
			continue
		}

		if !c.admit(event) {
			continue
		}

		c.loop.Post(func() { c.handleEvent(event) })
	}
}

// admit, event'in şimdi loop'a bırakılıp bırakılmayacağına karar verir.
//
//   - field_input / field_blur: limit aşılırsa düşer; sonraki tuş aynı işi görür.
//   - search_input: limit aşılırsa ertelenir, yalnızca en son değer işlenir.
//   - diğerleri (submit, onay, kaydet, temizle...): her zaman işlenir.
func (c *Client) admit(event inboundEvent) bool {
	switch event.Op {
	case OpFieldInput, OpFieldBlur:
		return c.limiter.Allow()

	case OpSearchInput:
		if !c.limiter.Allow() {
			c.deferSearchInput(event)
			return false
		}
		c.discardDeferredSearch()
		return true

	case OpSearchSubmit, OpSearchClear:
		// Sonradan işlenen eski bir tuş vuruşu bu isteği ezmesin.
		c.discardDeferredSearch()
		return true

	default:
		return true
	}
}

// deferSearchInput, event'i bekleyen arama olarak saklar ve gerekirse
// token dolduğunda çalışacak tekrar zamanlayıcısını kurar.
func (c *Client) deferSearchInput(event inboundEvent) {
	c.searchMu.Lock()
	defer c.searchMu.Unlock()

	c.deferredSearch = &event
	if c.replayTimer != nil {
		return
	}
	c.replayTimer = time.AfterFunc(c.limiter.Reserve(), c.replaySearchInput)
}

// replaySearchInput, saklanan en son search_input'u loop'a bırakır.
func (c *Client) replaySearchInput() {
	c.searchMu.Lock()
	event := c.deferredSearch
	c.deferredSearch = nil
	c.replayTimer = nil
	c.searchMu.Unlock()

	if event != nil {
		ev := *event
		c.loop.Post(func() { c.handleEvent(ev) })
	}
}

// discardDeferredSearch, daha yeni bir arama event'i geldiğinde saklanan
// değeri unutur. Kurulu zamanlayıcı boş çalışır.
func (c *Client) discardDeferredSearch() {
	c.searchMu.Lock()
	c.deferredSearch = nil
	c.searchMu.Unlock()
}

func (c *Client) stopSearchReplay() {
	c.searchMu.Lock()
	defer c.searchMu.Unlock()

	if c.replayTimer != nil {
		c.replayTimer.Stop()
		c.replayTimer = nil
	}
	c.deferredSearch = nil
}

// handleEvent, tarayıcıdan gelen event'i türüne göre controller'a iletir.
// Controller loop goroutine'inde çalışır.
func (c *Client) handleEvent(event inboundEvent) {
	switch event.Op {
	case OpAddSubmit:
		var data AddSubmitData
		if c.decode(event, &data) {
			c.ctrl.SubmitAdd(ui.AddForm{Title: data.Title, Author: data.Author, ISBN: data.ISBN})
		}

	case OpFieldBlur:
		var data FieldData
		if c.decode(event, &data) {
			c.ctrl.Blur(data.Field, data.Value)
		}

	case OpFieldInput:
		var data FieldData
		if c.decode(event, &data) {
			c.ctrl.Input(data.Field)
		}

	case OpSearchInput:
		var data ValueData
		if c.decode(event, &data) {
			c.ctrl.SearchInput(data.Value)
		}

	case OpSearchSubmit:
		var data ValueData
		if c.decode(event, &data) {
			c.ctrl.SearchSubmit(data.Value)
		}

	case OpSearchClear:
		c.ctrl.ClearSearch()

	case OpDeleteOpen:
		var data BookRefData
		if c.decode(event, &data) && data.ISBN != "" {
			c.ctrl.OpenDelete(models.Book{ISBN: data.ISBN, Title: data.Title, Author: data.Author})
		}

	case OpDeleteConfirm:
		c.ctrl.ConfirmDelete()

	case OpDeleteCancel:
		c.ctrl.CancelDelete()

	case OpEditOpen:
		var data BookRefData
		if c.decode(event, &data) {
			c.ctrl.OpenEdit(data.ISBN)
		}

	case OpEditSave:
		var data EditSaveData
		if c.decode(event, &data) {
			c.ctrl.SaveEdit(data.Title, data.Author)
		}

	case OpEditCancel:
		c.ctrl.CancelEdit()

	case OpStatsRefresh:
		c.ctrl.RefreshStats()

	case OpToastDismiss:
		c.ctrl.DismissToast()

	default:
		log.Printf("[ws] unknown op from client %s: %s", c.id, event.Op)
	}
}

// decode, event payload'ını çözer; hatalıysa loglar ve false döner.
func (c *Client) decode(event inboundEvent, dst any) bool {
	if len(event.Data) == 0 {
		log.Printf("[ws] %s without payload from client %s", event.Op, c.id)
		return false
	}
	if err := json.Unmarshal(event.Data, dst); err != nil {
		log.Printf("[ws] invalid %s payload from client %s: %v", event.Op, c.id, err)
		return false
	}
	return true
}

// sendEvent, client'a tek bir event gönderir.
func (c *Client) sendEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal event for client %s: %v", c.id, err)
		return
	}

	if !c.trySend(data) {
		// Buffer dolu — client muhtemelen donmuş, bağlantıyı kapat
		log.Printf("[ws] send buffer full for client %s, dropping connection", c.id)
		go func() { c.hub.unregister <- c }()
	}
}

// trySend, veriyi send buffer'ına bırakır. Buffer doluysa false döner.
// Kapatılmış bir client'a gönderim sessizce yok sayılır.
func (c *Client) trySend(data []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return true
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// closeSend, send channel'ını bir kez kapatır.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// WritePump, send channel'ındaki mesajları WebSocket bağlantısına yazar.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for {
		message, ok := <-c.send
		if !ok {
			// Channel kapatıldı — Hub client'ı çıkardı
			c.writeMessage(websocket.CloseMessage, nil)
			return
		}

		if err := c.writeMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// writeMessage, WebSocket'e mesaj yazar (mutex ile korunur).
// gorilla/websocket conn'a aynı anda birden fazla yazma desteklemez.
func (c *Client) writeMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}
