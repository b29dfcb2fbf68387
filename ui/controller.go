package ui

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/benbjohnson/clock"

	"github.com/akinalp/kutuphane/models"
	"github.com/akinalp/kutuphane/pkg/bookapi"
	"github.com/akinalp/kutuphane/pkg/i18n"
)

// minLiveSearchLen, canlı aramanın tetiklenmesi için gereken en az karakter.
const minLiveSearchLen = 2

// BookAPI, Controller'ın kullandığı backend yüzeyi. *bookapi.Client karşılar.
type BookAPI interface {
	List(ctx context.Context) (*bookapi.ListResult, error)
	Search(ctx context.Context, keyword string) (*bookapi.ListResult, error)
	Create(ctx context.Context, req models.CreateBookRequest) (*bookapi.Result, error)
	Update(ctx context.Context, isbn string, req models.UpdateBookRequest) (*bookapi.Result, error)
	Delete(ctx context.Context, isbn string) (*bookapi.Result, error)
	Stats(ctx context.Context) (*models.Stats, error)
}

// Options, Controller ayarları.
type Options struct {
	// ID, log satırlarında bağlantıyı ayırt etmek için.
	ID             string
	Clock          clock.Clock
	SearchDebounce time.Duration
	ToastDuration  time.Duration
	Localizer      *i18n.Localizer

	// OnCatalogChanged, başarılı bir ekleme/silme/güncellemeden sonra çağrılır
	// (diğer sekmelere haber vermek için). nil olabilir.
	OnCatalogChanged func()
}

// AddForm, ekleme formunun ham (trim edilmemiş) değerleri.
type AddForm struct {
	Title  string
	Author string
	ISBN   string
}

// Controller, bir dashboard sekmesinin form, arama, silme ve düzenleme
// akışlarını yürütür. Tüm exported metodlar Runtime'ın loop goroutine'inden
// çağrılmalıdır.
type Controller struct {
	api     BookAPI
	view    View
	rt      Runtime
	opts    Options
	loc     *i18n.Localizer
	toaster *Toaster
	search  *Debouncer

	ctx    context.Context
	cancel context.CancelFunc

	state State
	// listGen, her liste/arama isteğinde artar. Yanıt geldiğinde sayaç
	// değişmişse yanıt eskidir ve atılır; eski bir yanıt yeni listeyi ezemez.
	listGen uint64
	// searchGen, yanıtı beklenen arama isteğinin listGen değeri; yoksa 0.
	searchGen uint64
}

// NewController, constructor.
func NewController(api BookAPI, view View, rt Runtime, opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Localizer == nil {
		opts.Localizer = i18n.NewLocalizer(i18n.DefaultLanguage)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Controller{
		api:     api,
		view:    view,
		rt:      rt,
		opts:    opts,
		loc:     opts.Localizer,
		toaster: NewToaster(opts.Clock, opts.ToastDuration, rt, view),
		search:  NewDebouncer(opts.Clock, opts.SearchDebounce, rt),
		ctx:     ctx,
		cancel:  cancel,
		state:   newState(),
	}
}

// State, mevcut durumun bağımsız bir kopyasını döner.
func (c *Controller) State() State {
	return c.state.clone()
}

// Toast, görünen bildirimi döner.
func (c *Controller) Toast() (models.Toast, bool) {
	return c.toaster.Current()
}

// Start, ilk kitap listesini ve istatistikleri yükler.
func (c *Controller) Start() {
	c.loadBooks()
	c.loadStats()
}

// Close, zamanlayıcıları durdurur ve süren ağ çağrılarını iptal eder.
func (c *Controller) Close() {
	c.search.Cancel()
	c.toaster.Close()
	c.cancel()
}

// ─── Ekleme ───

// SubmitAdd, ekleme formunu doğrular ve backend'e gönderir.
// Hatalı alanların tümü aynı anda işaretlenir, ağ çağrısı yapılmaz.
func (c *Controller) SubmitAdd(form AddForm) {
	if c.state.Busy[ControlAdd] {
		return
	}

	req := models.CreateBookRequest{Title: form.Title, Author: form.Author, ISBN: form.ISBN}
	if err := req.Validate(); err != nil {
		var fieldErrs models.FieldErrors
		if errors.As(err, &fieldErrs) {
			for _, field := range addFields {
				if key, bad := fieldErrs[field]; bad {
					c.setFieldError(field, c.loc.T(key))
				} else {
					c.clearFieldError(field)
				}
			}
		}
		return
	}

	c.setBusy(ControlAdd, true)
	c.rt.Go(func() func() {
		res, err := c.api.Create(c.ctx, req)
		return func() {
			c.setBusy(ControlAdd, false)

			if err != nil {
				c.toaster.Notify(c.failureMessage("create", err, "books.addFailed", "books.addFailed"), models.SeverityError)
				return
			}

			c.view.ResetAddForm()
			for _, field := range addFields {
				c.clearFieldError(field)
			}
			c.toaster.Notify(c.messageOr(res.Message, "books.added"), models.SeveritySuccess)
			c.afterMutation()
		}
	})
}

// ─── Alan doğrulama ───

// Blur, zorunlu bir alan boş bırakılarak terk edildiğinde hata gösterir.
func (c *Controller) Blur(field, value string) {
	if !isRequired(field) {
		return
	}
	if strings.TrimSpace(value) == "" {
		c.setFieldError(field, c.loc.T("validation.required"))
	}
}

// Input, yalnızca o alanın aktif hatasını temizler.
func (c *Controller) Input(field string) {
	c.clearFieldError(field)
}

// ─── Arama ───

// SearchInput, her tuş vuruşunda çağrılır. Bekleyen aramayı iptal eder,
// yanıtı beklenen aramayı eskitir; anahtar kelime yeterince uzunsa yeni bir
// arama planlar. Arama modundayken
// alan tamamen boşaltılırsa tam listeye döner.
func (c *Controller) SearchInput(value string) {
	keyword := strings.TrimSpace(value)
	c.search.Cancel()
	c.dropInflightSearch()

	switch {
	case utf8.RuneCountInString(keyword) >= minLiveSearchLen:
		c.search.Schedule(func() { c.liveSearch(keyword) })
	case keyword == "" && c.state.Mode == ModeSearching:
		c.ClearSearch()
	}
}

// SearchSubmit, arama formu gönderildiğinde çağrılır.
func (c *Controller) SearchSubmit(value string) {
	keyword := strings.TrimSpace(value)
	if keyword == "" {
		c.toaster.Notify(c.loc.T("search.keywordRequired"), models.SeverityWarning)
		return
	}

	c.search.Cancel()
	gen := c.nextListGen()
	c.searchGen = gen
	c.setLoading(true)

	c.rt.Go(func() func() {
		res, err := c.api.Search(c.ctx, keyword)
		return func() {
			if gen != c.listGen {
				return
			}
			c.searchGen = 0
			c.setLoading(false)

			if err != nil {
				c.toaster.Notify(c.failureMessage("search", err, "search.failed", "search.failed"), models.SeverityError)
				return
			}
			c.applySearch(keyword, res)
		}
	})
}

// ClearSearch, arama modundan çıkar ve tam listeyi yeniden yükler.
func (c *Controller) ClearSearch() {
	c.search.Cancel()
	c.state.Mode = ModeIdle
	c.state.Keyword = ""
	c.state.ResultCount = 0
	c.view.SetSearchInput("")
	c.view.HideSearchBanner()
	c.loadBooks()
}

// liveSearch, debounce sonrası çalışan arama. Hatalar yalnızca loglanır;
// kullanıcı yazmaya devam ederken bildirim göstermeyiz.
func (c *Controller) liveSearch(keyword string) {
	gen := c.nextListGen()
	c.searchGen = gen

	c.rt.Go(func() func() {
		res, err := c.api.Search(c.ctx, keyword)
		return func() {
			if gen != c.listGen {
				return
			}
			c.searchGen = 0
			// Yerini aldığı bir isteğin spinner'ı açık kalmış olabilir.
			if c.state.Loading {
				c.setLoading(false)
			}
			if err != nil {
				log.Printf("[ui] %s: live search %q failed: %v", c.opts.ID, keyword, err)
				return
			}
			c.applySearch(keyword, res)
		}
	})
}

func (c *Controller) applySearch(keyword string, res *bookapi.ListResult) {
	c.state.Mode = ModeSearching
	c.state.Keyword = keyword
	c.state.ResultCount = res.Total
	c.state.Books = res.Books
	c.view.RenderBooks(res.Books)
	c.view.ShowSearchBanner(c.loc.TWithParams("search.resultCount", map[string]string{
		"count": strconv.Itoa(res.Total),
	}))
}

// ─── Silme ───

// OpenDelete, onay penceresini kartın taşıdığı kitap bilgileriyle açar.
func (c *Controller) OpenDelete(book models.Book) {
	if c.state.Busy[ControlDelete] {
		return
	}
	c.state.PendingDelete = &book
	c.view.ShowDeleteConfirm(book)
}

// CancelDelete, onay penceresini kapatır.
func (c *Controller) CancelDelete() {
	c.state.PendingDelete = nil
	c.view.HideDeleteConfirm()
}

// ConfirmDelete, hatırlanan kitabı siler. Başarısızlıkta pencere açık kalır.
func (c *Controller) ConfirmDelete() {
	if c.state.PendingDelete == nil || c.state.Busy[ControlDelete] {
		return
	}
	isbn := c.state.PendingDelete.ISBN

	c.setBusy(ControlDelete, true)
	c.rt.Go(func() func() {
		res, err := c.api.Delete(c.ctx, isbn)
		return func() {
			c.setBusy(ControlDelete, false)

			if err != nil {
				c.toaster.Notify(c.failureMessage("delete", err, "books.deleteFailed", "books.deleteFailed"), models.SeverityError)
				return
			}

			if c.state.PendingDelete != nil && c.state.PendingDelete.ISBN == isbn {
				c.state.PendingDelete = nil
				c.view.HideDeleteConfirm()
			}
			c.toaster.Notify(c.messageOr(res.Message, "books.deleted"), models.SeveritySuccess)
			c.afterMutation()
		}
	})
}

// ─── Düzenleme ───

// OpenEdit, kitabı elimizdeki listede arar (yeniden çekmez) ve düzenleyiciyi açar.
func (c *Controller) OpenEdit(isbn string) {
	book, ok := models.FindBook(c.state.Books, isbn)
	if !ok {
		c.toaster.Notify(c.loc.T("books.notFound"), models.SeverityError)
		return
	}
	c.state.Editing = &book
	c.view.ShowEditor(book)
}

// CancelEdit, düzenleyiciyi kapatır.
func (c *Controller) CancelEdit() {
	c.state.Editing = nil
	for _, field := range editFields {
		c.clearFieldError(field)
	}
	c.view.HideEditor()
}

// SaveEdit, başlık ve yazarı günceller. ISBN, düzenleyici açılırken
// yakalanan değerdir; istemciden gelen hiçbir ISBN kullanılmaz.
func (c *Controller) SaveEdit(title, author string) {
	if c.state.Editing == nil || c.state.Busy[ControlSave] {
		return
	}

	req := models.UpdateBookRequest{Title: title, Author: author}
	if err := req.Validate(); err != nil {
		c.toaster.Notify(c.loc.T("books.fillAllFields"), models.SeverityError)
		return
	}
	isbn := c.state.Editing.ISBN

	c.setBusy(ControlSave, true)
	c.rt.Go(func() func() {
		_, err := c.api.Update(c.ctx, isbn, req)
		return func() {
			c.setBusy(ControlSave, false)

			if err != nil {
				c.toaster.Notify(c.failureMessage("update", err, "books.updateFailed", "books.updateError"), models.SeverityError)
				return
			}

			c.toaster.Notify(c.loc.T("books.updated"), models.SeveritySuccess)
			if c.state.Editing != nil && c.state.Editing.ISBN == isbn {
				c.CancelEdit()
			}
			// Tam liste: güncel durum her zaman backend'den gelir.
			c.ClearSearch()
			c.loadStats()
			c.notifyCatalogChanged()
		}
	})
}

// ─── İstatistik / bildirim ───

// RefreshStats, istatistikleri yeniden yükler.
func (c *Controller) RefreshStats() {
	c.loadStats()
}

// DismissToast, görünen bildirimi erken kapatır.
func (c *Controller) DismissToast() {
	c.toaster.Dismiss()
}

// ─── İç yardımcılar ───

func (c *Controller) loadBooks() {
	gen := c.nextListGen()
	c.setLoading(true)

	c.rt.Go(func() func() {
		res, err := c.api.List(c.ctx)
		return func() {
			if gen != c.listGen {
				return
			}
			c.setLoading(false)

			if err != nil {
				c.toaster.Notify(c.failureMessage("list", err, "books.loadFailed", "connection.failed"), models.SeverityError)
				return
			}

			c.state.Books = res.Books
			c.view.RenderBooks(res.Books)
			c.view.SetBookCount(res.Total)
		}
	})
}

// loadStats, istatistikleri çeker. Hatalar yalnızca loglanır.
func (c *Controller) loadStats() {
	c.rt.Go(func() func() {
		stats, err := c.api.Stats(c.ctx)
		return func() {
			if err != nil {
				log.Printf("[ui] %s: failed to load stats: %v", c.opts.ID, err)
				return
			}
			c.state.Stats = stats
			c.view.SetStats(*stats)
		}
	})
}

// afterMutation, ekleme/silme sonrası görünen listeyi ve istatistikleri tazeler.
// Arama modundaysak aynı anahtar kelimeyle arama tekrarlanır.
func (c *Controller) afterMutation() {
	if c.state.Mode == ModeSearching && c.state.Keyword != "" {
		c.liveSearch(c.state.Keyword)
	} else {
		c.loadBooks()
	}
	c.loadStats()
	c.notifyCatalogChanged()
}

func (c *Controller) notifyCatalogChanged() {
	if c.opts.OnCatalogChanged != nil {
		c.opts.OnCatalogChanged()
	}
}

// failureMessage, hatayı kullanıcıya gösterilecek metne çevirir.
//
//   - Uygulama hatası (success:false): backend mesajı aynen; boşsa appKey.
//   - Taşıma hatası: transportKey; asıl hata yalnızca loglanır.
func (c *Controller) failureMessage(op string, err error, appKey, transportKey string) string {
	var apiErr *bookapi.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return c.loc.T(appKey)
	}

	log.Printf("[ui] %s: %s failed: %v", c.opts.ID, op, err)
	return c.loc.T(transportKey)
}

func (c *Controller) messageOr(message, key string) string {
	if message != "" {
		return message
	}
	return c.loc.T(key)
}

// dropInflightSearch, yanıtı beklenen arama varsa onu eskitir. Arama
// kutusu değiştikten sonra gelen sonuç listeyi ezmemeli. Liste yüklemeleri
// etkilenmez.
func (c *Controller) dropInflightSearch() {
	if c.searchGen == 0 || c.searchGen != c.listGen {
		return
	}
	c.nextListGen()
	c.searchGen = 0
	if c.state.Loading {
		c.setLoading(false)
	}
}

func (c *Controller) nextListGen() uint64 {
	c.listGen++
	return c.listGen
}

func (c *Controller) setLoading(active bool) {
	c.state.Loading = active
	c.view.SetLoading(active)
}

func (c *Controller) setBusy(control Control, busy bool) {
	c.state.Busy[control] = busy
	c.view.SetBusy(control, busy, c.busyLabel(control, busy))
}

func (c *Controller) busyLabel(control Control, busy bool) string {
	switch control {
	case ControlAdd:
		if busy {
			return c.loc.T("controls.adding")
		}
		return c.loc.T("controls.addBook")
	case ControlDelete:
		if busy {
			return c.loc.T("controls.deleting")
		}
		return c.loc.T("controls.delete")
	default:
		if busy {
			return c.loc.T("controls.saving")
		}
		return c.loc.T("controls.save")
	}
}

func (c *Controller) setFieldError(field, message string) {
	c.state.FieldErrors[field] = message
	c.view.SetFieldError(field, message)
}

func (c *Controller) clearFieldError(field string) {
	if _, ok := c.state.FieldErrors[field]; !ok {
		return
	}
	delete(c.state.FieldErrors, field)
	c.view.ClearFieldError(field)
}
