// Package ratelimit — EventLimiter: tek bir websocket bağlantısından gelen
// arayüz event'lerini sınırlar.
//
// Bir sekme normalde saniyede birkaç event gönderir (tuş vuruşu, tık, blur).
// Takılan ya da kötü niyetli bir istemci event yağdırırsa fazlası düşürülür;
// bağlantı kapatılmaz. Hangi event'in düşürülebileceğine çağıran karar verir:
// Allow düşürür, Reserve erteler.
//
// Token bucket: golang.org/x/time/rate. Burst, saniyelik hızın iki katıdır;
// hızlı yazım sırasında kısa patlamalar sorun yaratmaz.
package ratelimit

import (
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// EventLimiter, bağlantı başına bir tane oluşturulur.
type EventLimiter struct {
	limiter *rate.Limiter
	dropped atomic.Int64
}

// NewEventLimiter, saniyede perSecond event'e izin veren limiter döner.
// perSecond <= 0 ise sınırsızdır.
func NewEventLimiter(perSecond int) *EventLimiter {
	if perSecond <= 0 {
		return &EventLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	return &EventLimiter{limiter: rate.NewLimiter(rate.Limit(perSecond), perSecond*2)}
}

// Allow, event işlenebilirse true döner; aksi halde düşürülen sayacını artırır.
func (l *EventLimiter) Allow() bool {
	if l.limiter.Allow() {
		return true
	}
	l.dropped.Add(1)
	return false
}

// Reserve, bir sonraki token için ayrılan bekleme süresini döner.
// Token hemen varsa 0 döner. Ertelenen event'in o süre sonunda işlenmesi
// çağıranın işidir.
func (l *EventLimiter) Reserve() time.Duration {
	r := l.limiter.Reserve()
	if !r.OK() {
		return 0
	}
	return r.Delay()
}

// Dropped, şimdiye kadar düşürülen event sayısı.
func (l *EventLimiter) Dropped() int64 {
	return l.dropped.Load()
}
