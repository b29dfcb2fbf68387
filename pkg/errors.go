// Package pkg, projede paylaşılan utility'leri barındırır.
// Bu dosya domain-level error tanımlarını içerir.
//
// Sabit error değişkenleri sayesinde karşılaştırma string yerine
// errors.Is ile yapılır:
//
//	if errors.Is(err, pkg.ErrConnection) { ... }
package pkg

import "errors"

// Domain-level error'lar.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
	ErrInternal     = errors.New("internal error")

	// ErrConnection, backend'e hiç ulaşılamadığını ya da yanıtın JSON
	// olarak çözülemediğini belirtir (taşıma hatası).
	ErrConnection = errors.New("connection failure")

	// ErrBackend, backend'in yanıt verip success:false döndürdüğünü belirtir
	// (uygulama hatası). Mesaj kullanıcıya olduğu gibi gösterilir.
	ErrBackend = errors.New("backend reported failure")
)
