// Package ui, dashboard sekmesinin etkileşim katmanıdır.
//
// Her açık sekme için bir Controller vardır; UI durumunun (kitap listesi,
// arama modu, açık modal'lar, meşgul butonlar) tek sahibi odur. Controller
// metodları tek bir goroutine'de (Loop) sırayla çalışır, bu yüzden durum
// üzerinde kilit gerekmez. Ağ çağrıları ayrı goroutine'de yapılır ve
// devamı (continuation) tekrar Loop'a bırakılır.
package ui

import "sync"

// Runtime, controller'ın yürütme ortamı.
//
//   - Post: fn'i loop goroutine'inde çalışmak üzere kuyruğa bırakır.
//   - Go: work'ü ayrı goroutine'de çalıştırır; work'ün döndürdüğü fonksiyon
//     (nil değilse) loop'ta çalışır. await edilmiş bir fetch'in Go karşılığı.
type Runtime interface {
	Post(fn func())
	Go(work func() func())
}

// Loop, Runtime'ın tek goroutine'li implementasyonu.
//
// Run() çağrılan goroutine tüm işleri sırayla yürütür. Stop() sonrası
// kuyruğa bırakılan işler sessizce düşer; bağlantı kapandıktan sonra gelen
// ağ yanıtları böylece kapanmış bir view'a dokunmaz.
type Loop struct {
	queue    chan func()
	done     chan struct{}
	stopOnce sync.Once
}

// NewLoop, verilen kuyruk kapasitesiyle yeni bir Loop oluşturur.
func NewLoop(size int) *Loop {
	return &Loop{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Run, Stop çağrılana kadar kuyruktaki işleri çalıştırır.
func (l *Loop) Run() {
	for {
		select {
		case <-l.done:
			return
		default:
		}

		select {
		case fn := <-l.queue:
			fn()
		case <-l.done:
			return
		}
	}
}

// Post, fn'i kuyruğa bırakır. Kuyruk doluysa yer açılana ya da loop
// durana kadar bekler. Loop goroutine'inin içinden çağrılmamalıdır.
func (l *Loop) Post(fn func()) {
	select {
	case <-l.done:
		return
	default:
	}

	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

// Go, work'ü yeni goroutine'de çalıştırır, dönen devamı loop'a bırakır.
func (l *Loop) Go(work func() func()) {
	go func() {
		if next := work(); next != nil {
			l.Post(next)
		}
	}()
}

// Stop, loop'u durdurur. Birden fazla çağrı güvenlidir.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

// Done, loop durduğunda kapanan channel'ı döner.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
