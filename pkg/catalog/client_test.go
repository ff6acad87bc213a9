package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// zeroSource always draws the minimum.
type zeroSource struct{}

func (zeroSource) Int63n(n int64) int64 { return 0 }

const subjectJSON = `{
	"name": "fantasy",
	"works": [
		{
			"title": "The Hobbit",
			"cover_id": 123,
			"authors": [{"name": "J.R.R. Tolkien"}],
			"subject": ["Fantasy fiction", "Dragons"]
		},
		{
			"title": "Anonymous Tale",
			"cover_id": 0,
			"authors": [],
			"subject": []
		}
	]
}`

func TestListBySubject(t *testing.T) {
	t.Run("Maps Works", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/subjects/fantasy.json", r.URL.Path)
			fmt.Fprint(w, subjectJSON)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, zeroSource{})
		novels, err := c.ListBySubject(context.Background(), "fantasy")

		assert.NoError(t, err)
		assert.Len(t, novels, 2)

		hobbit := novels[0]
		assert.Equal(t, "The Hobbit", hobbit.Title)
		assert.Equal(t, "J.R.R. Tolkien", hobbit.Author)
		assert.Equal(t, "Fantasy fiction", hobbit.Subject)
		assert.Equal(t, "https://covers.openlibrary.org/b/id/123-M.jpg", hobbit.CoverURL)

		// Synthesized fields at their minimum draw.
		assert.Equal(t, 3.0, hobbit.Rating)
		assert.Equal(t, 0, hobbit.Views)
		assert.Equal(t, 0, hobbit.Likes)
		assert.Equal(t, 10, hobbit.Chapters)

		// Missing upstream fields fall back gracefully.
		anon := novels[1]
		assert.Empty(t, anon.Author)
		assert.Equal(t, "fantasy", anon.Subject)
		assert.Empty(t, anon.CoverURL)
	})

	t.Run("Upstream Error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, zeroSource{})
		_, err := c.ListBySubject(context.Background(), "fantasy")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "status 404")
	})

	t.Run("Synthesized Bounds", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, subjectJSON)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, maxSource{})
		novels, err := c.ListBySubject(context.Background(), "fantasy")

		assert.NoError(t, err)
		assert.Equal(t, 5.0, novels[0].Rating)
		assert.Equal(t, 500, novels[0].Chapters)
	})
}

// maxSource always draws the maximum.
type maxSource struct{}

func (maxSource) Int63n(n int64) int64 { return n - 1 }
