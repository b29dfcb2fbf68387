// Package bookapi, harici kitap backend'inin REST yüzeyine (/api/books*,
// /api/stats) konuşan ince HTTP istemcisidir.
//
// Her yanıt aynı zarfla gelir: {success, message?, books?, total?, stats?}.
// İstemci iki hata sınıfını birbirinden ayırır:
//   - Taşıma hatası (ağ hatası, JSON olmayan gövde) → pkg.ErrConnection
//   - Uygulama hatası (success:false) → *APIError (errors.Is(err, pkg.ErrBackend))
//
// Yeniden deneme YOKTUR: başarısız bir deneme hemen çağırana raporlanır.
package bookapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/akinalp/kutuphane/models"
	"github.com/akinalp/kutuphane/pkg"
)

// maxBodySize, backend yanıtı için üst sınır (1MB).
const maxBodySize = 1 << 20

// APIError, backend'in success:false ile döndüğü uygulama hatası.
// Message backend'in mesajıdır ve kullanıcıya aynen gösterilir.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (status %d): %s", e.Status, e.Message)
}

// Unwrap, errors.Is(err, pkg.ErrBackend) eşleşmesini sağlar.
func (e *APIError) Unwrap() error { return pkg.ErrBackend }

// ListResult, liste ve arama çağrılarının sonucu.
type ListResult struct {
	Books   []models.Book
	Total   int
	Message string
}

// Result, mutasyon çağrılarının (create/update/delete) sonucu.
type Result struct {
	Message string
}

// envelope, backend'in tek tip yanıt zarfı.
type envelope struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Books   []models.Book `json:"books"`
	Total   *int          `json:"total"`
	Stats   *models.Stats `json:"stats"`
}

// Client, backend REST API istemcisi.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient, yeni bir istemci oluşturur.
// timeout 0 ise http.Client'ın varsayılanı (timeout yok) kullanılır.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		userAgent:  userAgent,
	}
}

// List, GET /api/books.
func (c *Client) List(ctx context.Context) (*ListResult, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/books", nil)
	if err != nil {
		return nil, err
	}
	return toListResult(env), nil
}

// Search, GET /api/books/search?q=keyword.
func (c *Client) Search(ctx context.Context, keyword string) (*ListResult, error) {
	path := "/api/books/search?q=" + url.QueryEscape(keyword)
	env, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return toListResult(env), nil
}

// Create, POST /api/books.
func (c *Client) Create(ctx context.Context, req models.CreateBookRequest) (*Result, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/books", req)
	if err != nil {
		return nil, err
	}
	return &Result{Message: env.Message}, nil
}

// Update, PUT /api/books/{isbn}. Gövde yalnızca başlık ve yazarı taşır.
func (c *Client) Update(ctx context.Context, isbn string, req models.UpdateBookRequest) (*Result, error) {
	env, err := c.do(ctx, http.MethodPut, "/api/books/"+url.PathEscape(isbn), req)
	if err != nil {
		return nil, err
	}
	return &Result{Message: env.Message}, nil
}

// Delete, DELETE /api/books/{isbn}.
func (c *Client) Delete(ctx context.Context, isbn string) (*Result, error) {
	env, err := c.do(ctx, http.MethodDelete, "/api/books/"+url.PathEscape(isbn), nil)
	if err != nil {
		return nil, err
	}
	return &Result{Message: env.Message}, nil
}

// Stats, GET /api/stats.
func (c *Client) Stats(ctx context.Context) (*models.Stats, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/stats", nil)
	if err != nil {
		return nil, err
	}
	if env.Stats == nil {
		return nil, fmt.Errorf("%w: stats missing in response", pkg.ErrConnection)
	}
	return env.Stats, nil
}

// do, isteği gönderir ve zarfı çözer.
//
// HTTP status'a bakılmaz: backend 400/404/500 durumlarında da JSON zarf döner,
// başarıyı belirleyen zarfın success alanıdır.
func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", pkg.ErrConnection, method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %s %s: invalid response body (status %d): %v",
			pkg.ErrConnection, method, path, resp.StatusCode, err)
	}

	if !env.Success {
		return nil, &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	return &env, nil
}

func toListResult(env *envelope) *ListResult {
	books := env.Books
	if books == nil {
		books = []models.Book{}
	}
	total := len(books)
	if env.Total != nil {
		total = *env.Total
	}
	return &ListResult{Books: books, Total: total, Message: env.Message}
}
