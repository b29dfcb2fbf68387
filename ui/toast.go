package ui

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/akinalp/kutuphane/models"
)

// ToastView, Toaster'ın ihtiyaç duyduğu view yüzeyi.
type ToastView interface {
	ShowToast(t models.Toast)
	HideToast(id string)
}

// Toaster, kısa süreli bildirimleri yönetir.
//
// Aynı anda tek bildirim görünür: yenisi eskisinin yerine geçer ve eskisinin
// zamanlayıcısını iptal eder. Bildirim duration sonunda kendiliğinden kapanır.
type Toaster struct {
	clk      clock.Clock
	duration time.Duration
	rt       Runtime
	view     ToastView

	current *models.Toast
	timer   *clock.Timer
}

// NewToaster, constructor.
func NewToaster(clk clock.Clock, duration time.Duration, rt Runtime, view ToastView) *Toaster {
	return &Toaster{clk: clk, duration: duration, rt: rt, view: view}
}

// Notify, yeni bir bildirim gösterir ve kapanış zamanlayıcısını kurar.
func (t *Toaster) Notify(message string, severity models.Severity) models.Toast {
	t.stopTimer()

	toast := models.Toast{
		ID:       uuid.NewString(),
		Message:  message,
		Severity: severity,
	}
	t.current = &toast
	t.view.ShowToast(toast)

	id := toast.ID
	t.timer = t.clk.AfterFunc(t.duration, func() {
		t.rt.Post(func() { t.expire(id) })
	})

	return toast
}

// Dismiss, görünen bildirimi süresi dolmadan kapatır.
func (t *Toaster) Dismiss() {
	if t.current == nil {
		return
	}
	t.stopTimer()
	id := t.current.ID
	t.current = nil
	t.view.HideToast(id)
}

// Current, görünen bildirimi döner.
func (t *Toaster) Current() (models.Toast, bool) {
	if t.current == nil {
		return models.Toast{}, false
	}
	return *t.current, true
}

// Close, zamanlayıcıyı durdurur. View'a dokunmaz.
func (t *Toaster) Close() {
	t.stopTimer()
}

// expire, zamanlayıcı tetiklendiğinde loop'ta çalışır. Bildirim bu arada
// değiştiyse ya da kapatıldıysa hiçbir şey yapmaz.
func (t *Toaster) expire(id string) {
	if t.current == nil || t.current.ID != id {
		return
	}
	t.current = nil
	t.timer = nil
	t.view.HideToast(id)
}

func (t *Toaster) stopTimer() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
