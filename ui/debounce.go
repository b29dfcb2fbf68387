package ui

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Debouncer, iptal edilebilir tek seferlik zamanlayıcı.
//
// Her Schedule bekleyen zamanlayıcıyı iptal eder; yalnızca son planlanan
// fonksiyon çalışır. Zamanlayıcı kendi goroutine'inde tetiklenir, asıl iş
// Runtime üzerinden loop'a bırakılır. gen sayacı, Stop'un yakalayamadığı
// (zaten tetiklenip kuyruğa girmiş) eski çağrıları eler.
//
// Tüm metodlar loop goroutine'inden çağrılmalıdır.
type Debouncer struct {
	clk   clock.Clock
	delay time.Duration
	rt    Runtime

	timer *clock.Timer
	gen   uint64
}

// NewDebouncer, constructor.
func NewDebouncer(clk clock.Clock, delay time.Duration, rt Runtime) *Debouncer {
	return &Debouncer{clk: clk, delay: delay, rt: rt}
}

// Schedule, bekleyen çağrıyı iptal edip fn'i delay sonrasına planlar.
func (d *Debouncer) Schedule(fn func()) {
	d.Cancel()
	gen := d.gen

	d.timer = d.clk.AfterFunc(d.delay, func() {
		d.rt.Post(func() {
			if gen != d.gen {
				return
			}
			d.timer = nil
			fn()
		})
	})
}

// Cancel, bekleyen çağrıyı iptal eder. Bekleyen çağrı yoksa etkisizdir.
func (d *Debouncer) Cancel() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// pending, planlanmış ve henüz çalışmamış bir çağrı olup olmadığını döner.
func (d *Debouncer) pending() bool {
	return d.timer != nil
}
