package ws

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/kutuphane/models"
	"github.com/akinalp/kutuphane/ui"
	"github.com/akinalp/kutuphane/views"
)

type recordingSender struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSender) sendEvent(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSender) last() Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[len(s.events)-1]
}

func newTestView(t *testing.T) (*socketView, *recordingSender) {
	t.Helper()
	renderer, err := views.New()
	require.NoError(t, err)
	out := &recordingSender{}
	return newSocketView(out, renderer, "test"), out
}

func TestSocketView_LoadingFollowsLastRender(t *testing.T) {
	v, out := newTestView(t)

	v.SetLoading(true)
	assert.Equal(t, LoadingData{Active: true, Empty: true}, out.last().Data)

	v.RenderBooks([]models.Book{{ISBN: "11111", Title: "Dune", Author: "Herbert"}})
	books := out.last().Data.(BooksData)
	assert.False(t, books.Empty)
	assert.Contains(t, books.HTML, "Dune")

	v.SetLoading(false)
	assert.Equal(t, LoadingData{Active: false, Empty: false}, out.last().Data)

	v.RenderBooks(nil)
	assert.True(t, out.last().Data.(BooksData).Empty)
	v.SetLoading(false)
	assert.Equal(t, LoadingData{Active: false, Empty: true}, out.last().Data)
}

func TestSocketView_EventsSerialize(t *testing.T) {
	v, out := newTestView(t)

	v.ShowToast(models.Toast{ID: "t1", Message: "<b>x</b>", Severity: models.SeverityWarning})
	v.SetBusy(ui.ControlAdd, true, "Ekleniyor...")
	v.SetStats(models.Stats{TotalBooks: 3, FileExists: true})
	v.ShowDeleteConfirm(models.Book{ISBN: "11111", Title: "Dune", Author: "Herbert"})

	out.mu.Lock()
	defer out.mu.Unlock()
	require.Len(t, out.events, 4)

	toast := out.events[0].Data.(ToastData)
	assert.Equal(t, "t1", toast.ID)
	assert.NotContains(t, toast.HTML, "<b>")
	assert.Contains(t, toast.HTML, "&lt;b&gt;")

	data, err := json.Marshal(out.events[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"op":"busy","d":{"control":"add","busy":true,"label":"Ekleniyor..."}}`, string(data))

	data, err = json.Marshal(out.events[2])
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"total_books":3`))

	assert.Equal(t, OpDeleteConfirmShow, out.events[3].Op)
	assert.Contains(t, out.events[3].Data.(HTMLData).HTML, "deleteBookIsbn")
}
