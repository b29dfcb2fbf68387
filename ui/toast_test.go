package ui

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/kutuphane/models"
)

func newToastHarness(t *testing.T) (*Loop, *clock.Mock, *fakeView, *Toaster) {
	t.Helper()
	loop := NewLoop(16)
	go loop.Run()
	t.Cleanup(loop.Stop)

	clk := clock.NewMock()
	view := newFakeView()
	return loop, clk, view, NewToaster(clk, 3*time.Second, loop, view)
}

func onLoop(loop *Loop, fn func()) {
	done := make(chan struct{})
	loop.Post(func() {
		fn()
		close(done)
	})
	<-done
}

func TestToaster_AutoHides(t *testing.T) {
	loop, clk, view, toaster := newToastHarness(t)

	var shown models.Toast
	onLoop(loop, func() { shown = toaster.Notify("Kaydedildi", models.SeveritySuccess) })
	assert.NotEmpty(t, shown.ID)
	require.NotNil(t, view.visibleToast())

	clk.Add(2 * time.Second)
	onLoop(loop, func() {})
	assert.NotNil(t, view.visibleToast(), "still visible before the interval")

	clk.Add(time.Second)
	require.Eventually(t, func() bool { return view.visibleToast() == nil }, time.Second, time.Millisecond)

	onLoop(loop, func() {
		_, ok := toaster.Current()
		assert.False(t, ok)
	})
}

func TestToaster_NewToastReplacesOld(t *testing.T) {
	loop, clk, view, toaster := newToastHarness(t)

	onLoop(loop, func() { toaster.Notify("ilk", models.SeverityInfo) })
	clk.Add(2 * time.Second)

	var second models.Toast
	onLoop(loop, func() { second = toaster.Notify("ikinci", models.SeverityError) })

	// İlk bildirimin süresi doldu ama zamanlayıcısı iptal edildi.
	clk.Add(2 * time.Second)
	onLoop(loop, func() {})
	visible := view.visibleToast()
	require.NotNil(t, visible)
	assert.Equal(t, second.ID, visible.ID)
	assert.Equal(t, "ikinci", visible.Message)

	clk.Add(time.Second)
	require.Eventually(t, func() bool { return view.visibleToast() == nil }, time.Second, time.Millisecond)
}

func TestToaster_Dismiss(t *testing.T) {
	loop, clk, view, toaster := newToastHarness(t)

	onLoop(loop, func() {
		toaster.Notify("kapat", models.SeverityWarning)
		toaster.Dismiss()
		toaster.Dismiss()
	})
	assert.Nil(t, view.visibleToast())

	// Zamanlayıcı durduruldu; sonraki bildirimi erken kapatmaz.
	onLoop(loop, func() { toaster.Notify("yeni", models.SeverityInfo) })
	clk.Add(time.Second)
	onLoop(loop, func() {})
	assert.NotNil(t, view.visibleToast())
}
