package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("requires a base URL", func(t *testing.T) {
		_, err := NewClient(Config{}, zerolog.Nop())
		assert.ErrorIs(t, err, ErrMissingBaseURL)
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		client, err := NewClient(Config{BaseURL: "http://example.com/"}, zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, "http://example.com", client.baseURL)
	})
}

func TestDoRequestHeaders(t *testing.T) {
	var got http.Header
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	})

	err := client.do(context.Background(), client.httpc, http.MethodPost, "/api/test", "tok", map[string]string{"a": "b"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "Bearer tok", got.Get("Authorization"))
	assert.NotEmpty(t, got.Get("X-Request-Id"))
}

func TestDoErrorMapping(t *testing.T) {
	t.Run("401 maps to ErrUnauthorized", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		err := client.do(context.Background(), client.httpc, http.MethodGet, "/api/test", "tok", nil, nil)
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.True(t, IsAuthFailure(err))
	})

	t.Run("non-2xx maps to Error with server message", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "quantity exceeds stock"})
		})

		err := client.do(context.Background(), client.httpc, http.MethodGet, "/api/test", "tok", nil, nil)
		require.Error(t, err)

		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
		assert.Equal(t, "quantity exceeds stock", apiErr.Message)
		assert.False(t, IsAuthFailure(err))
	})

	t.Run("non-JSON error body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>nope</html>"))
		})

		err := client.do(context.Background(), client.httpc, http.MethodGet, "/api/test", "", nil, nil)

		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		assert.Empty(t, apiErr.Message)
	})
}

func TestFlexID(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{name: "string", json: `"abc123"`, want: "abc123"},
		{name: "number", json: `42`, want: "42"},
		{name: "large number", json: `9007199254740993`, want: "9007199254740993"},
		{name: "null", json: `null`, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id flexID
			require.NoError(t, json.Unmarshal([]byte(tt.json), &id))
			assert.Equal(t, tt.want, id.String())
		})
	}

	t.Run("rejects objects", func(t *testing.T) {
		var id flexID
		assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &id))
	})
}

func TestLogin(t *testing.T) {
	t.Run("returns the token", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/api/user/login", r.URL.Path)

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "alice@example.com", body["email"])

			_ = json.NewEncoder(w).Encode(map[string]any{"status": 200, "token": "tok-1"})
		})

		token, err := client.Login(context.Background(), "alice@example.com", "hunter2")
		require.NoError(t, err)
		assert.Equal(t, "tok-1", token)
	})

	t.Run("missing token is an error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"status": 400, "message": "wrong password"})
		})

		_, err := client.Login(context.Background(), "alice@example.com", "nope")
		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "wrong password", apiErr.Message)
	})
}

func TestGetProfile(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": 200,
				"user":   map[string]string{"id": "u1", "name": "Alice"},
			})
		})

		user, err := client.GetProfile(context.Background(), "tok")
		require.NoError(t, err)
		assert.Equal(t, "Alice", user.Name)
	})

	t.Run("non-success envelope means unauthorized", func(t *testing.T) {
		// HTTP 200, but the envelope says the session is invalid
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"status": 403, "message": "invalid session"})
		})

		_, err := client.GetProfile(context.Background(), "tok")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("missing user means unauthorized", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"status": 200})
		})

		_, err := client.GetProfile(context.Background(), "tok")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestMyStore(t *testing.T) {
	t.Run("membership", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": 200,
				"store":  map[string]string{"id": "s1", "storeName": "Phone Hut", "status": "approved"},
			})
		})

		store, err := client.MyStore(context.Background(), "tok")
		require.NoError(t, err)
		assert.Equal(t, "Phone Hut", store.StoreName)
		assert.True(t, store.IsApproved())
	})

	t.Run("404 means no store", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := client.MyStore(context.Background(), "tok")
		assert.ErrorIs(t, err, ErrNoStore)
	})

	t.Run("403 means no store", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})

		_, err := client.MyStore(context.Background(), "tok")
		assert.ErrorIs(t, err, ErrNoStore)
	})

	t.Run("401 stays unauthorized", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := client.MyStore(context.Background(), "tok")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestGetCart(t *testing.T) {
	t.Run("grouped cart", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/cart/", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": 200,
				"cart": map[string]any{
					"s1": []map[string]any{{"product_id": "p1", "quantity": 2}},
					"s2": []map[string]any{{"product_id": "p2", "quantity": 1}},
				},
			})
		})

		cart, err := client.GetCart(context.Background(), "tok")
		require.NoError(t, err)
		require.Len(t, cart, 2)
		assert.Equal(t, "p1", cart["s1"][0].ProductID)
		assert.Equal(t, 2, cart["s1"][0].Quantity)
	})

	t.Run("missing cart field is an error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"status": 200})
		})

		_, err := client.GetCart(context.Background(), "tok")
		var apiErr *Error
		assert.ErrorAs(t, err, &apiErr)
	})
}
