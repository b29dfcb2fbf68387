// Package ws, dashboard sekmeleriyle sunucu arasındaki WebSocket kanalını yönetir.
//
// Mimari:
// - Hub: Tüm bağlantıları yöneten merkezi yapı (Observer pattern)
// - Client: Her WebSocket bağlantısını (tarayıcı sekmesini) temsil eder
// - socketView: ui.View implementasyonu; controller çağrılarını event'e çevirir
// - Event: Client-server arası iletilen mesaj formatı
//
// Event akışı:
// 1. Tarayıcı bir DOM event'ini (submit, input, click) küçük bir JSON event'e çevirir
// 2. ReadPump event'i çözer ve bağlantının ui.Loop'una bırakır
// 3. ui.Controller akışı yürütür, backend'e HTTP ile gider
// 4. Sonuç socketView üzerinden HTML parçası taşıyan event'lere dönüşür
// 5. WritePump event'i WebSocket'e yazar, tarayıcı parçayı yerine koyar
package ws

import "encoding/json"

// Event, WebSocket üzerinden iletilen bir mesajı temsil eder.
//
// Op (operation): Event türü — "books", "toast", "search_submit" vb.
// Data: Event'e özgü payload.
// Seq (sequence number): Her outbound event'e verilen artan sayı.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// inboundEvent, tarayıcıdan gelen event. Data, op'a göre ayrıca çözülür.
type inboundEvent struct {
	Op   string          `json:"op"`
	Data json.RawMessage `json:"d,omitempty"`
}

// ────────────────────────────────────────────
// Operation sabitleri
// ────────────────────────────────────────────

// Client → Server operasyonları
const (
	OpHeartbeat     = "heartbeat"      // Client her 30sn'de gönderir
	OpAddSubmit     = "add_submit"     // Ekleme formu gönderildi
	OpFieldBlur     = "field_blur"     // Alan terk edildi
	OpFieldInput    = "field_input"    // Alana yazıldı
	OpSearchInput   = "search_input"   // Arama kutusuna yazıldı (debounce'lu)
	OpSearchSubmit  = "search_submit"  // Arama formu gönderildi
	OpSearchClear   = "search_clear"   // "Aramayı temizle"
	OpDeleteOpen    = "delete_open"    // Kartın sil butonu
	OpDeleteConfirm = "delete_confirm" // Onay penceresinde "Sil"
	OpDeleteCancel  = "delete_cancel"  // Onay penceresinde "İptal"
	OpEditOpen      = "edit_open"      // Kartın düzenle butonu
	OpEditSave      = "edit_save"      // Düzenleyicide "Kaydet"
	OpEditCancel    = "edit_cancel"    // Düzenleyicide "İptal"
	OpStatsRefresh  = "stats_refresh"  // catalog_changed sonrası istatistik tazeleme
	OpToastDismiss  = "toast_dismiss"  // Bildirimin kapat butonu
)

// Server → Client operasyonları
const (
	OpReady             = "ready"             // Bağlantı kurulduğunda ilk gönderilen
	OpHeartbeatAck      = "heartbeat_ack"     // Heartbeat'e yanıt
	OpBooks             = "books"             // Liste baştan çizildi
	OpLoading           = "loading"           // Spinner aç/kapat
	OpBookCount         = "book_count"        // Toplam kitap sayısı
	OpStats             = "stats"             // İstatistik paneli
	OpSearchBanner      = "search_banner"     // Sonuç sayısı bandı göster/gizle
	OpSetSearchInput    = "set_search_input"  // Arama kutusunun değerini ayarla
	OpFieldError        = "field_error"       // Alan hatası göster
	OpFieldErrorClear   = "field_error_clear" // Alan hatasını kaldır
	OpFormReset         = "form_reset"        // Ekleme formunu temizle
	OpBusy              = "busy"              // Buton meşgul/serbest
	OpDeleteConfirmShow = "delete_confirm_show"
	OpDeleteConfirmHide = "delete_confirm_hide"
	OpEditorShow        = "editor_show"
	OpEditorHide        = "editor_hide"
	OpToast             = "toast"
	OpToastHide         = "toast_hide"
	OpCatalogChanged    = "catalog_changed" // Başka bir sekme kataloğu değiştirdi
)

// ────────────────────────────────────────────
// Inbound payload'lar
// ────────────────────────────────────────────

// AddSubmitData, ekleme formunun ham değerleri.
type AddSubmitData struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

// FieldData, blur/input event'leri.
type FieldData struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// ValueData, arama kutusu event'leri.
type ValueData struct {
	Value string `json:"value"`
}

// BookRefData, kartın butonundan okunan kitap bilgileri.
type BookRefData struct {
	ISBN   string `json:"isbn"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// EditSaveData, düzenleyicinin değerleri. ISBN bilinçli olarak yok.
type EditSaveData struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// ────────────────────────────────────────────
// Outbound payload'lar
// ────────────────────────────────────────────

// ReadyData, bağlantı kurulunca gönderilir.
type ReadyData struct {
	ConnectionID string `json:"connection_id"`
}

// HTMLData, HTML parçası taşıyan event'ler.
type HTMLData struct {
	HTML string `json:"html"`
}

// BooksData, liste çizimi. Empty ise boş durum gösterilir, liste gizlenir.
type BooksData struct {
	HTML  string `json:"html"`
	Empty bool   `json:"empty"`
}

// LoadingData, spinner durumu. Spinner kapanınca Empty'ye göre liste ya da
// boş durum geri gelir.
type LoadingData struct {
	Active bool `json:"active"`
	Empty  bool `json:"empty"`
}

// CountData, toplam kitap sayısı.
type CountData struct {
	Total int `json:"total"`
}

// BannerData, arama sonuç bandı.
type BannerData struct {
	Visible bool   `json:"visible"`
	Text    string `json:"text,omitempty"`
}

// FieldErrorData, alan hatası.
type FieldErrorData struct {
	Field   string `json:"field"`
	Message string `json:"message,omitempty"`
}

// BusyData, buton durumu.
type BusyData struct {
	Control string `json:"control"`
	Busy    bool   `json:"busy"`
	Label   string `json:"label"`
}

// ToastData, bildirim.
type ToastData struct {
	ID   string `json:"id"`
	HTML string `json:"html,omitempty"`
}
