package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	t.Run("maps provider articles and drops incomplete items", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/everything", r.URL.Path)
			assert.Equal(t, "COVID-19 Australia", r.URL.Query().Get("q"))
			assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"articles": [
					{"source":{"name":"ABC"},"title":"Outbreak update","url":"https://abc.example/1","publishedAt":"2020-03-01T10:00:00Z","description":"summary"},
					{"source":{"name":"NoURL"},"title":"missing url"},
					{"source":{"name":"NoTitle"},"url":"https://abc.example/2"}
				]
			}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "secret", nil)
		articles, err := client.Search(context.Background(), "COVID-19", "Australia")
		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, "Outbreak update", articles[0].Title)
		assert.Equal(t, "https://abc.example/1", articles[0].URL)
		assert.Equal(t, "ABC", articles[0].Source)
		assert.Equal(t, "summary", articles[0].Summary)
	})

	t.Run("provider error status is an error, not empty results", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "secret", nil)
		_, err := client.Search(context.Background(), "COVID-19", "Australia")
		require.Error(t, err)
	})

	t.Run("empty result set is valid", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"articles":[]}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "", nil)
		articles, err := client.Search(context.Background(), "influenza", "Canada")
		require.NoError(t, err)
		assert.Empty(t, articles)
		assert.NotNil(t, articles)
	})
}
