package ui

import "github.com/akinalp/kutuphane/models"

// View, Controller'ın ekrana yansıttığı işlemler.
//
// Üretimde ws paketindeki websocket view'ı bu interface'i karşılar ve her
// çağrıyı tarayıcıya bir event olarak gönderir. Testlerde kayıt tutan
// sahte bir view kullanılır.
type View interface {
	ToastView

	// RenderBooks, listeyi baştan çizer (önceki kartların yerini alır).
	RenderBooks(books []models.Book)
	// SetLoading: aktifken spinner görünür, liste ve boş durum gizlenir.
	SetLoading(active bool)
	SetBookCount(total int)
	SetStats(stats models.Stats)

	ShowSearchBanner(text string)
	HideSearchBanner()
	SetSearchInput(value string)

	SetFieldError(field, message string)
	ClearFieldError(field string)
	ResetAddForm()
	// SetBusy, butonu devre dışı bırakır/etkinleştirir ve etiketini değiştirir.
	SetBusy(control Control, busy bool, label string)

	ShowDeleteConfirm(book models.Book)
	HideDeleteConfirm()
	ShowEditor(book models.Book)
	HideEditor()
}
