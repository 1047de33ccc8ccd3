package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/vendora/internal/api"
	"github.com/vendora/vendora/internal/models"
)

func sampleProducts() []models.Product {
	return []models.Product{
		{ID: "p1", Name: "Wireless Mouse", Price: decimal.NewFromInt(250), Category: models.Category{Name: "Electronics"}},
		{ID: "p2", Name: "Mechanical Keyboard", Price: decimal.NewFromInt(1200), Category: models.Category{Name: "Electronics"}},
		{ID: "p3", Name: "Coffee Mug", Price: decimal.NewFromInt(90), Category: models.Category{Name: "Kitchen"}},
	}
}

func TestCacheLookup(t *testing.T) {
	c := New()
	c.Replace(sampleProducts())

	p, ok := c.Lookup("p2")
	require.True(t, ok)
	assert.Equal(t, "Mechanical Keyboard", p.Name)

	_, ok = c.Lookup("ghost")
	assert.False(t, ok)

	assert.Equal(t, 3, c.Len())
	assert.Len(t, c.All(), 3)
}

func TestCacheLoad(t *testing.T) {
	t.Run("replaces the snapshot", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"id": "p1", "productName": "Phone", "price": 1000},
			})
		}))
		defer srv.Close()

		client, err := api.NewClient(api.Config{BaseURL: srv.URL}, zerolog.Nop())
		require.NoError(t, err)

		c := New()
		require.NoError(t, c.Load(context.Background(), client))
		assert.Equal(t, 1, c.Len())

		p, ok := c.Lookup("p1")
		require.True(t, ok)
		assert.Equal(t, "Phone", p.Name)
	})

	t.Run("failure discards the previous snapshot", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client, err := api.NewClient(api.Config{BaseURL: srv.URL}, zerolog.Nop())
		require.NoError(t, err)

		c := New()
		c.Replace(sampleProducts())

		require.Error(t, c.Load(context.Background(), client))
		assert.Equal(t, 0, c.Len())
	})
}

func TestSearch(t *testing.T) {
	c := New()
	c.Replace(sampleProducts())

	t.Run("name match is case-insensitive", func(t *testing.T) {
		out := c.Search("KEYBOARD", nil, SortRelevant)
		require.Len(t, out, 1)
		assert.Equal(t, "p2", out[0].ID)
	})

	t.Run("category filter", func(t *testing.T) {
		out := c.Search("", []string{"kitchen"}, SortRelevant)
		require.Len(t, out, 1)
		assert.Equal(t, "p3", out[0].ID)
	})

	t.Run("term and category combine", func(t *testing.T) {
		out := c.Search("mouse", []string{"Kitchen"}, SortRelevant)
		assert.Empty(t, out)
	})

	t.Run("price ascending", func(t *testing.T) {
		out := c.Search("", nil, SortPriceAsc)
		require.Len(t, out, 3)
		assert.Equal(t, []string{"p3", "p1", "p2"}, []string{out[0].ID, out[1].ID, out[2].ID})
	})

	t.Run("price descending", func(t *testing.T) {
		out := c.Search("", nil, SortPriceDesc)
		require.Len(t, out, 3)
		assert.Equal(t, "p2", out[0].ID)
	})

	t.Run("relevant keeps catalog order", func(t *testing.T) {
		out := c.Search("", nil, SortRelevant)
		require.Len(t, out, 3)
		assert.Equal(t, "p1", out[0].ID)
	})
}
