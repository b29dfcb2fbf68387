package bookapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/kutuphane/models"
	"github.com/akinalp/kutuphane/pkg"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-agent", 0)
}

func TestClient_List(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/books", r.URL.Path)
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		io.WriteString(w, `{"success":true,"books":[{"isbn":"11111","title":"Dune","author":"Herbert"}],"total":1}`)
	})

	res, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, []models.Book{{ISBN: "11111", Title: "Dune", Author: "Herbert"}}, res.Books)
}

func TestClient_ListWithoutTotal(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true}`)
	})

	res, err := c.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, res.Books)
	assert.Equal(t, 0, res.Total)
}

func TestClient_SearchEscapesKeyword(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/books/search", r.URL.Path)
		assert.Equal(t, "suç & ceza", r.URL.Query().Get("q"))
		io.WriteString(w, `{"success":true,"books":[],"total":0,"keyword":"suç & ceza"}`)
	})

	res, err := c.Search(context.Background(), "suç & ceza")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)
}

func TestClient_Create(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"title": "Dune", "author": "Herbert", "isbn": "12345"}, body)

		io.WriteString(w, `{"success":true,"message":"Kitap başarıyla eklendi!"}`)
	})

	res, err := c.Create(context.Background(), models.CreateBookRequest{Title: "Dune", Author: "Herbert", ISBN: "12345"})
	require.NoError(t, err)
	assert.Equal(t, "Kitap başarıyla eklendi!", res.Message)
}

func TestClient_UpdateSendsNoISBN(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/books/978%2F1", r.URL.EscapedPath())

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "isbn")
		assert.Equal(t, "Yeni", body["title"])

		io.WriteString(w, `{"success":true}`)
	})

	_, err := c.Update(context.Background(), "978/1", models.UpdateBookRequest{Title: "Yeni", Author: "Yazar"})
	require.NoError(t, err)
}

func TestClient_DeleteApplicationFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"success":false,"message":"Kitap bulunamadı!"}`)
	})

	_, err := c.Delete(context.Background(), "00000")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Kitap bulunamadı!", apiErr.Message)
	assert.True(t, errors.Is(err, pkg.ErrBackend))
	assert.False(t, errors.Is(err, pkg.ErrConnection))
}

func TestClient_Stats(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"stats":{"total_books":3,"filename":"library.json","file_exists":true}}`)
	})

	stats, err := c.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalBooks)
	assert.True(t, stats.FileExists)
}

func TestClient_TransportFailures(t *testing.T) {
	t.Run("non-json body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			io.WriteString(w, "<html>bad gateway</html>")
		})

		_, err := c.List(context.Background())
		assert.True(t, errors.Is(err, pkg.ErrConnection))
		assert.False(t, errors.Is(err, pkg.ErrBackend))
	})

	t.Run("server down", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c := NewClient(url, "", 0)
		_, err := c.Stats(context.Background())
		assert.True(t, errors.Is(err, pkg.ErrConnection))
	})

	t.Run("stats missing", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"success":true}`)
		})

		_, err := c.Stats(context.Background())
		assert.True(t, errors.Is(err, pkg.ErrConnection))
	})
}

func TestClient_NoRetry(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		io.WriteString(w, "not json")
	})

	_, err := c.List(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
