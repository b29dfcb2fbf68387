// Package views, sayfaları ve websocket ile gönderilen HTML parçalarını
// html/template ile üretir.
//
// html/template bağlama duyarlı kaçış yapar: kitap başlığı, yazar ya da ISBN
// içinde <, >, & veya " olsa bile bunlar metin olarak çıkar, hiçbir zaman
// işaretleme (markup) olarak yorumlanmaz. Elle escape fonksiyonuna gerek yoktur.
package views

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	"github.com/akinalp/kutuphane/models"
)

// Renderer, derlenmiş template setini taşır. Eşzamanlı kullanım güvenlidir.
type Renderer struct {
	tmpl *template.Template
}

// New, gömülü template'leri derler. Başlangıçta çağrılır; hata dönerse
// sunucu başlatılmamalıdır.
func New() (*Renderer, error) {
	return newFromFS(templatesFS, "templates")
}

func newFromFS(fsys fs.FS, dir string) (*Renderer, error) {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open templates: %w", err)
	}

	tmpl, err := template.ParseFS(sub, "*.html", "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// BookListFragment, liste çiziminin sonucu.
// Empty true ise boş durum gösterilir ve liste kabı gizlenir; değilse tersi.
type BookListFragment struct {
	HTML  string
	Empty bool
}

// BookList, her kitap için bir kart üretir (girdi sırasıyla).
// Kartların düzenle/sil butonları kitabın ISBN, başlık ve yazarını data-*
// özniteliklerinde taşır; eylem yükü kartın kendisinden okunur.
func (r *Renderer) BookList(books []models.Book) (BookListFragment, error) {
	if len(books) == 0 {
		return BookListFragment{Empty: true}, nil
	}

	html, err := r.fragment("book_list", books)
	if err != nil {
		return BookListFragment{}, err
	}
	return BookListFragment{HTML: html}, nil
}

// DeleteConfirm, silme onay penceresini üretir.
func (r *Renderer) DeleteConfirm(book models.Book) (string, error) {
	return r.fragment("delete_confirm", book)
}

// Editor, düzenleme penceresini üretir. ISBN alanı salt okunurdur.
func (r *Renderer) Editor(book models.Book) (string, error) {
	return r.fragment("editor", book)
}

// Toast, tek bir bildirim kutusu üretir.
func (r *Renderer) Toast(t models.Toast) (string, error) {
	return r.fragment("toast", t)
}

// DashboardData, dashboard sayfasının view model'i.
type DashboardData struct {
	WSPath   string
	Username string // giriş bayrağı varsa; yoksa boş
}

// Dashboard, dashboard sayfasını w'ye yazar.
func (r *Renderer) Dashboard(w io.Writer, data DashboardData) error {
	return r.tmpl.ExecuteTemplate(w, "dashboard", data)
}

// LoginData, giriş sayfasının view model'i.
type LoginData struct {
	Username      string
	RememberMe    bool
	FocusPassword bool
	Toast         *models.Toast

	// RedirectURL doluysa sayfa RedirectAfter sonra oraya gider.
	RedirectURL   string
	RedirectAfter time.Duration
}

// RedirectSeconds, meta refresh için saniye (en az 0, yukarı yuvarlanır).
func (d LoginData) RedirectSeconds() int {
	if d.RedirectAfter <= 0 {
		return 0
	}
	return int((d.RedirectAfter + time.Second - 1) / time.Second)
}

// Login, giriş sayfasını w'ye yazar.
func (r *Renderer) Login(w io.Writer, data LoginData) error {
	return r.tmpl.ExecuteTemplate(w, "login", data)
}

func (r *Renderer) fragment(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}
