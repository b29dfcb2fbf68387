package ui

import "github.com/akinalp/kutuphane/models"

// SearchMode, arama durum makinesinin iki hali.
type SearchMode string

const (
	// ModeIdle: tam liste gösteriliyor.
	ModeIdle SearchMode = "idle"
	// ModeSearching: filtrelenmiş sonuç ve sonuç sayısı bandı gösteriliyor.
	ModeSearching SearchMode = "searching"
)

// Control, ağ çağrısı süresince devre dışı kalan butonlar.
type Control string

const (
	ControlAdd    Control = "add"
	ControlDelete Control = "delete"
	ControlSave   Control = "save"
)

// State, bir dashboard sekmesinin UI durumu. Yalnızca Controller değiştirir.
type State struct {
	Books       []models.Book
	Mode        SearchMode
	Keyword     string
	ResultCount int

	PendingDelete *models.Book
	Editing       *models.Book

	FieldErrors map[string]string
	Busy        map[Control]bool
	Loading     bool
	Stats       *models.Stats
}

func newState() State {
	return State{
		Mode:        ModeIdle,
		FieldErrors: make(map[string]string),
		Busy:        make(map[Control]bool),
	}
}

// clone, dışarıya verilecek bağımsız bir kopya üretir.
func (s State) clone() State {
	out := s
	out.Books = append([]models.Book(nil), s.Books...)

	out.FieldErrors = make(map[string]string, len(s.FieldErrors))
	for k, v := range s.FieldErrors {
		out.FieldErrors[k] = v
	}
	out.Busy = make(map[Control]bool, len(s.Busy))
	for k, v := range s.Busy {
		out.Busy[k] = v
	}

	if s.PendingDelete != nil {
		b := *s.PendingDelete
		out.PendingDelete = &b
	}
	if s.Editing != nil {
		b := *s.Editing
		out.Editing = &b
	}
	if s.Stats != nil {
		st := *s.Stats
		out.Stats = &st
	}
	return out
}

// addFields, ekleme formunun zorunlu alanları.
var addFields = []string{models.FieldTitle, models.FieldAuthor, models.FieldISBN}

// editFields, düzenleme formunun zorunlu alanları.
var editFields = []string{models.FieldEditTitle, models.FieldEditAuthor}

func isRequired(field string) bool {
	for _, f := range addFields {
		if f == field {
			return true
		}
	}
	for _, f := range editFields {
		if f == field {
			return true
		}
	}
	return false
}
