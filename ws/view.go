package ws

import (
	"log"

	"github.com/akinalp/kutuphane/models"
	"github.com/akinalp/kutuphane/ui"
	"github.com/akinalp/kutuphane/views"
)

// eventSender, socketView'ın event gönderdiği yüzey. *Client karşılar.
type eventSender interface {
	sendEvent(event Event)
}

// socketView, ui.View'ın WebSocket implementasyonu.
//
// Her çağrı tarayıcıya tek bir event olarak gider; HTML parçaları views
// paketiyle üretilir. Yalnızca controller loop'undan çağrılır.
type socketView struct {
	out      eventSender
	renderer *views.Renderer
	id       string

	// lastEmpty, son çizimin boş olup olmadığı. Spinner kapanınca liste mi
	// boş durum mu gösterileceğini tarayıcı buradan öğrenir.
	lastEmpty bool
}

var _ ui.View = (*socketView)(nil)

func newSocketView(out eventSender, renderer *views.Renderer, id string) *socketView {
	return &socketView{out: out, renderer: renderer, id: id, lastEmpty: true}
}

func (v *socketView) RenderBooks(books []models.Book) {
	frag, err := v.renderer.BookList(books)
	if err != nil {
		log.Printf("[ws] client %s: %v", v.id, err)
		return
	}
	v.lastEmpty = frag.Empty
	v.out.sendEvent(Event{Op: OpBooks, Data: BooksData{HTML: frag.HTML, Empty: frag.Empty}})
}

func (v *socketView) SetLoading(active bool) {
	v.out.sendEvent(Event{Op: OpLoading, Data: LoadingData{Active: active, Empty: v.lastEmpty}})
}

func (v *socketView) SetBookCount(total int) {
	v.out.sendEvent(Event{Op: OpBookCount, Data: CountData{Total: total}})
}

func (v *socketView) SetStats(stats models.Stats) {
	v.out.sendEvent(Event{Op: OpStats, Data: stats})
}

func (v *socketView) ShowSearchBanner(text string) {
	v.out.sendEvent(Event{Op: OpSearchBanner, Data: BannerData{Visible: true, Text: text}})
}

func (v *socketView) HideSearchBanner() {
	v.out.sendEvent(Event{Op: OpSearchBanner, Data: BannerData{Visible: false}})
}

func (v *socketView) SetSearchInput(value string) {
	v.out.sendEvent(Event{Op: OpSetSearchInput, Data: ValueData{Value: value}})
}

func (v *socketView) SetFieldError(field, message string) {
	v.out.sendEvent(Event{Op: OpFieldError, Data: FieldErrorData{Field: field, Message: message}})
}

func (v *socketView) ClearFieldError(field string) {
	v.out.sendEvent(Event{Op: OpFieldErrorClear, Data: FieldErrorData{Field: field}})
}

func (v *socketView) ResetAddForm() {
	v.out.sendEvent(Event{Op: OpFormReset})
}

func (v *socketView) SetBusy(control ui.Control, busy bool, label string) {
	v.out.sendEvent(Event{Op: OpBusy, Data: BusyData{Control: string(control), Busy: busy, Label: label}})
}

func (v *socketView) ShowDeleteConfirm(book models.Book) {
	html, err := v.renderer.DeleteConfirm(book)
	if err != nil {
		log.Printf("[ws] client %s: %v", v.id, err)
		return
	}
	v.out.sendEvent(Event{Op: OpDeleteConfirmShow, Data: HTMLData{HTML: html}})
}

func (v *socketView) HideDeleteConfirm() {
	v.out.sendEvent(Event{Op: OpDeleteConfirmHide})
}

func (v *socketView) ShowEditor(book models.Book) {
	html, err := v.renderer.Editor(book)
	if err != nil {
		log.Printf("[ws] client %s: %v", v.id, err)
		return
	}
	v.out.sendEvent(Event{Op: OpEditorShow, Data: HTMLData{HTML: html}})
}

func (v *socketView) HideEditor() {
	v.out.sendEvent(Event{Op: OpEditorHide})
}

func (v *socketView) ShowToast(t models.Toast) {
	html, err := v.renderer.Toast(t)
	if err != nil {
		log.Printf("[ws] client %s: %v", v.id, err)
		return
	}
	v.out.sendEvent(Event{Op: OpToast, Data: ToastData{ID: t.ID, HTML: html}})
}

func (v *socketView) HideToast(id string) {
	v.out.sendEvent(Event{Op: OpToastHide, Data: ToastData{ID: id}})
}
