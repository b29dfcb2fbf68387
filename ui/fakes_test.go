package ui

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/kutuphane/models"
	"github.com/akinalp/kutuphane/pkg"
	"github.com/akinalp/kutuphane/pkg/bookapi"
	"github.com/akinalp/kutuphane/pkg/i18n"
)

func TestMain(m *testing.M) {
	if err := i18n.LoadEmbedded(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// ─── fakeView ───

type fakeView struct {
	mu sync.Mutex

	books       []models.Book
	renders     int
	loading     bool
	loadingLog  []bool
	bookCount   int
	stats       *models.Stats
	banner      string
	bannerShown bool
	searchInput *string
	fieldErrors map[string]string
	busy        map[Control]bool
	busyLabels  map[Control]string
	formResets  int
	deleteShown *models.Book
	editorShown *models.Book
	toasts      []models.Toast
	visible     *models.Toast
}

func newFakeView() *fakeView {
	return &fakeView{
		fieldErrors: map[string]string{},
		busy:        map[Control]bool{},
		busyLabels:  map[Control]string{},
	}
}

func (v *fakeView) RenderBooks(books []models.Book) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.books = append([]models.Book(nil), books...)
	v.renders++
}

func (v *fakeView) SetLoading(active bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = active
	v.loadingLog = append(v.loadingLog, active)
}

func (v *fakeView) SetBookCount(total int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bookCount = total
}

func (v *fakeView) SetStats(stats models.Stats) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stats = &stats
}

func (v *fakeView) ShowSearchBanner(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.banner = text
	v.bannerShown = true
}

func (v *fakeView) HideSearchBanner() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bannerShown = false
}

func (v *fakeView) SetSearchInput(value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.searchInput = &value
}

func (v *fakeView) SetFieldError(field, message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fieldErrors[field] = message
}

func (v *fakeView) ClearFieldError(field string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.fieldErrors, field)
}

func (v *fakeView) ResetAddForm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.formResets++
}

func (v *fakeView) SetBusy(control Control, busy bool, label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.busy[control] = busy
	v.busyLabels[control] = label
}

func (v *fakeView) ShowDeleteConfirm(book models.Book) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.deleteShown = &book
}

func (v *fakeView) HideDeleteConfirm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.deleteShown = nil
}

func (v *fakeView) ShowEditor(book models.Book) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.editorShown = &book
}

func (v *fakeView) HideEditor() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.editorShown = nil
}

func (v *fakeView) ShowToast(t models.Toast) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.toasts = append(v.toasts, t)
	v.visible = &t
}

func (v *fakeView) HideToast(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.visible != nil && v.visible.ID == id {
		v.visible = nil
	}
}

func (v *fakeView) lastToast() (models.Toast, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.toasts) == 0 {
		return models.Toast{}, false
	}
	return v.toasts[len(v.toasts)-1], true
}

func (v *fakeView) visibleToast() *models.Toast {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.visible == nil {
		return nil
	}
	t := *v.visible
	return &t
}

// ─── fakeAPI ───

type fakeAPI struct {
	mu sync.Mutex

	books   []models.Book
	results map[string][]models.Book
	stats   models.Stats

	errs  map[string]error
	gates map[string]chan struct{}
	calls []string

	lastCreate models.CreateBookRequest
	lastUpdate models.UpdateBookRequest
}

func newFakeAPI(books ...models.Book) *fakeAPI {
	return &fakeAPI{
		books:   books,
		results: map[string][]models.Book{},
		stats:   models.Stats{TotalBooks: len(books), FileExists: true},
		errs:    map[string]error{},
		gates:   map[string]chan struct{}{},
	}
}

// block, verilen çağrıyı release edilene kadar bekletir.
func (a *fakeAPI) block(call string) chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	gate := make(chan struct{})
	a.gates[call] = gate
	return gate
}

func (a *fakeAPI) fail(call string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errs[call] = err
}

// enter, çağrıyı kaydeder, varsa kapısında bekler ve ayarlı hatayı döner.
func (a *fakeAPI) enter(call string) error {
	a.mu.Lock()
	a.calls = append(a.calls, call)
	gate := a.gates[call]
	delete(a.gates, call)
	err := a.errs[call]
	a.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return err
}

func (a *fakeAPI) count(call string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, c := range a.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (a *fakeAPI) callLog() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.calls...)
}

func (a *fakeAPI) List(_ context.Context) (*bookapi.ListResult, error) {
	if err := a.enter("list"); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	books := append([]models.Book(nil), a.books...)
	return &bookapi.ListResult{Books: books, Total: len(books)}, nil
}

func (a *fakeAPI) Search(_ context.Context, keyword string) (*bookapi.ListResult, error) {
	if err := a.enter("search:" + keyword); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	books := append([]models.Book(nil), a.results[keyword]...)
	return &bookapi.ListResult{Books: books, Total: len(books)}, nil
}

func (a *fakeAPI) Create(_ context.Context, req models.CreateBookRequest) (*bookapi.Result, error) {
	a.mu.Lock()
	a.lastCreate = req
	a.mu.Unlock()
	if err := a.enter("create"); err != nil {
		return nil, err
	}
	return &bookapi.Result{Message: "Kitap eklendi: " + req.Title}, nil
}

func (a *fakeAPI) Update(_ context.Context, isbn string, req models.UpdateBookRequest) (*bookapi.Result, error) {
	a.mu.Lock()
	a.lastUpdate = req
	a.mu.Unlock()
	if err := a.enter("update:" + isbn); err != nil {
		return nil, err
	}
	return &bookapi.Result{}, nil
}

func (a *fakeAPI) Delete(_ context.Context, isbn string) (*bookapi.Result, error) {
	if err := a.enter("delete:" + isbn); err != nil {
		return nil, err
	}
	return &bookapi.Result{Message: "Kitap silindi"}, nil
}

func (a *fakeAPI) Stats(_ context.Context) (*models.Stats, error) {
	if err := a.enter("stats"); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	st := a.stats
	return &st, nil
}

// transportErr, bookapi istemcisinin taşıma hatası biçimini taklit eder.
var transportErr = pkg.ErrConnection

// ─── harness ───

// trackingRuntime, Loop'u sarar ve süren ağ çağrılarını sayar.
type trackingRuntime struct {
	*Loop
	inflight atomic.Int64
}

func (r *trackingRuntime) Go(work func() func()) {
	r.inflight.Add(1)
	r.Loop.Go(func() func() {
		next := work()
		return func() {
			defer r.inflight.Add(-1)
			if next != nil {
				next()
			}
		}
	})
}

type harness struct {
	t       *testing.T
	loop    *Loop
	rt      *trackingRuntime
	clk     *clock.Mock
	api     *fakeAPI
	view    *fakeView
	ctrl    *Controller
	changed atomic.Int32
}

func newHarness(t *testing.T, books ...models.Book) *harness {
	t.Helper()

	loop := NewLoop(64)
	go loop.Run()
	t.Cleanup(loop.Stop)

	h := &harness{
		t:    t,
		loop: loop,
		rt:   &trackingRuntime{Loop: loop},
		clk:  clock.NewMock(),
		api:  newFakeAPI(books...),
		view: newFakeView(),
	}
	h.ctrl = NewController(h.api, h.view, h.rt, Options{
		ID:               "test",
		Clock:            h.clk,
		SearchDebounce:   500 * time.Millisecond,
		ToastDuration:    3 * time.Second,
		OnCatalogChanged: func() { h.changed.Add(1) },
	})
	t.Cleanup(func() { h.do(func(c *Controller) { c.Close() }) })

	return h
}

// do, fn'i loop'ta çalıştırır ve bitmesini bekler.
func (h *harness) do(fn func(c *Controller)) {
	done := make(chan struct{})
	h.loop.Post(func() {
		fn(h.ctrl)
		close(done)
	})
	select {
	case <-done:
	case <-h.loop.Done():
	}
}

// settle, süren tüm ağ çağrılarının devamları loop'ta çalışana kadar bekler.
func (h *harness) settle() {
	h.t.Helper()
	require.Eventually(h.t, func() bool { return h.rt.inflight.Load() == 0 }, time.Second, time.Millisecond)
	h.do(func(*Controller) {})
}

func (h *harness) state() State {
	var st State
	h.do(func(c *Controller) { st = c.State() })
	return st
}

// started, Start çağrılmış ve ilk yüklemesi bitmiş bir harness döner.
func started(t *testing.T, books ...models.Book) *harness {
	h := newHarness(t, books...)
	h.do(func(c *Controller) { c.Start() })
	h.settle()
	return h
}
