package models

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Book, backend'in döndürdüğü kitap kaydıdır.
// ISBN benzersiz kimliktir ve oluşturulduktan sonra değişmez.
type Book struct {
	ISBN   string `json:"isbn"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Stats, GET /api/stats yanıtındaki istatistik nesnesi.
type Stats struct {
	TotalBooks int    `json:"total_books"`
	FileExists bool   `json:"file_exists"`
	Filename   string `json:"filename,omitempty"`
}

// Form alan adları — hem doğrulama hatalarında hem de DOM tarafındaki
// input'ların data-field değerlerinde aynı isimler kullanılır.
const (
	FieldTitle      = "title"
	FieldAuthor     = "author"
	FieldISBN       = "isbn"
	FieldEditTitle  = "edit_title"
	FieldEditAuthor = "edit_author"
	FieldSearch     = "search"
	FieldUsername   = "username"
	FieldPassword   = "password"
)

// Minimum uzunluklar (rune cinsinden, trim sonrası).
const (
	MinTitleLen  = 2
	MinAuthorLen = 2
	MinISBNLen   = 5
)

// FieldErrors, alan adı → i18n mesaj anahtarı eşlemesidir.
// error interface'ini karşılar; böylece Validate() tek bir error döndürür,
// çağıran taraf errors.As ile alan bazlı detaylara ulaşır.
type FieldErrors map[string]string

// Error, alanları sıralı şekilde birleştirir (deterministik log çıktısı için).
func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// CreateBookRequest, POST /api/books gövdesi.
type CreateBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

// Validate, alanları trim eder ve minimum uzunlukları kontrol eder.
// Hatalı her alan FieldErrors içinde ayrı ayrı raporlanır.
func (r *CreateBookRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
	r.ISBN = strings.TrimSpace(r.ISBN)

	errs := FieldErrors{}
	if utf8.RuneCountInString(r.Title) < MinTitleLen {
		errs[FieldTitle] = "validation.titleTooShort"
	}
	if utf8.RuneCountInString(r.Author) < MinAuthorLen {
		errs[FieldAuthor] = "validation.authorTooShort"
	}
	if utf8.RuneCountInString(r.ISBN) < MinISBNLen {
		errs[FieldISBN] = "validation.isbnTooShort"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// UpdateBookRequest, PUT /api/books/{isbn} gövdesi.
// ISBN bilinçli olarak yok: ISBN birincil kimliktir, güncellenemez.
type UpdateBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Validate, başlık ve yazarın boş olmamasını ister.
func (r *UpdateBookRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)

	errs := FieldErrors{}
	if r.Title == "" {
		errs[FieldEditTitle] = "validation.required"
	}
	if r.Author == "" {
		errs[FieldEditAuthor] = "validation.required"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// FindBook, ISBN ile listede kitap arar.
func FindBook(books []Book, isbn string) (Book, bool) {
	for _, b := range books {
		if b.ISBN == isbn {
			return b, true
		}
	}
	return Book{}, false
}
