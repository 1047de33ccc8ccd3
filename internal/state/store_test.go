package state

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/vendora/internal/api"
	"github.com/vendora/vendora/internal/catalog"
	"github.com/vendora/vendora/internal/models"
)

const testToken = "test-token"

// backend is a minimal in-memory storefront API used by the state tests.
type backend struct {
	mu sync.Mutex

	user  models.User
	store *models.Store
	// cart is kept in the server's store-grouped shape
	cart map[string][]models.CartLine

	rejectToken   bool
	failMutations bool
	failCartFetch bool

	addCalls    int
	updateCalls int
	deleteCalls int
	cartFetches int
}

func newBackend() *backend {
	return &backend{
		user: models.User{ID: "u1", Name: "Alice", Email: "alice@example.com"},
		cart: map[string][]models.CartLine{},
	}
}

func (b *backend) handler() http.Handler {
	mux := http.NewServeMux()

	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	authed := func(r *http.Request) bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		return !b.rejectToken && r.Header.Get("Authorization") == "Bearer "+testToken
	}

	mux.HandleFunc("/api/product/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": "p1", "productName": "Phone", "price": 1000},
			{"id": "p2", "productName": "Laptop", "price": 2500},
		})
	})

	mux.HandleFunc("/api/user/getProfile", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		b.mu.Lock()
		user := b.user
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"status": 200, "user": user})
	})

	mux.HandleFunc("/api/store/myStore", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		b.mu.Lock()
		store := b.store
		b.mu.Unlock()
		if store == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": 200, "store": store})
	})

	mux.HandleFunc("/api/cart/", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		b.cartFetches++
		if b.failCartFetch {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": 200, "cart": b.cart})
	})

	cartMutation := func(w http.ResponseWriter, r *http.Request, fn func(productID string)) {
		if !authed(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.failMutations {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fn(r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:])
		writeJSON(w, http.StatusOK, map[string]any{"status": 200})
	}

	mux.HandleFunc("/api/cart/add/", func(w http.ResponseWriter, r *http.Request) {
		cartMutation(w, r, func(productID string) {
			b.addCalls++
			b.setLine(productID, b.quantity(productID)+1)
		})
	})
	mux.HandleFunc("/api/cart/update/", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Quantity int `json:"quantity"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		cartMutation(w, r, func(productID string) {
			b.updateCalls++
			b.setLine(productID, body.Quantity)
		})
	})
	mux.HandleFunc("/api/cart/delete/", func(w http.ResponseWriter, r *http.Request) {
		cartMutation(w, r, func(productID string) {
			b.deleteCalls++
			b.setLine(productID, 0)
		})
	})

	return mux
}

// setLine updates the "s1" store group. Caller holds the lock.
func (b *backend) setLine(productID string, quantity int) {
	var kept []models.CartLine
	for _, line := range b.cart["s1"] {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	if quantity > 0 {
		kept = append(kept, models.CartLine{ProductID: productID, Quantity: quantity})
	}
	if len(kept) == 0 {
		delete(b.cart, "s1")
		return
	}
	b.cart["s1"] = kept
}

// quantity reads the "s1" store group. Caller holds the lock.
func (b *backend) quantity(productID string) int {
	for _, line := range b.cart["s1"] {
		if line.ProductID == productID {
			return line.Quantity
		}
	}
	return 0
}

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Successf(format string, args ...any) { n.record("success", format, args) }
func (n *recordingNotifier) Warnf(format string, args ...any)    { n.record("warn", format, args) }
func (n *recordingNotifier) Errorf(format string, args ...any)   { n.record("error", format, args) }

func (n *recordingNotifier) record(level, format string, args []any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, level+": "+fmt.Sprintf(format, args...))
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

func (n *recordingNotifier) contains(substr string) bool {
	return n.count(substr) > 0
}

func (n *recordingNotifier) count(substr string) int {
	total := 0
	for _, m := range n.all() {
		if strings.Contains(m, substr) {
			total++
		}
	}
	return total
}

type testEnv struct {
	store    *Store
	backend  *backend
	persist  *MemoryStore
	notifier *recordingNotifier
	ends     chan EndReason
}

func newTestEnv(t *testing.T, b *backend, mutate func(*Config)) *testEnv {
	t.Helper()

	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)

	client, err := api.NewClient(api.Config{BaseURL: srv.URL}, zerolog.Nop())
	require.NoError(t, err)

	env := &testEnv{
		backend:  b,
		persist:  NewMemoryStore(),
		notifier: &recordingNotifier{},
		ends:     make(chan EndReason, 4),
	}

	cfg := Config{
		Client:      client,
		Persistence: env.persist,
		Notifier:    env.notifier,
		Logger:      zerolog.Nop(),
		OnSessionEnd: func(reason EndReason) {
			env.ends <- reason
		},
	}
	if mutate != nil {
		mutate(&cfg)
	}

	env.store, err = New(cfg)
	require.NoError(t, err)

	return env
}

func (e *testEnv) waitForEnd(t *testing.T) EndReason {
	t.Helper()
	select {
	case reason := <-e.ends:
		return reason
	case <-time.After(2 * time.Second):
		t.Fatal("session was not torn down")
		return ""
	}
}

func TestNew(t *testing.T) {
	assert := require.New(t)

	t.Run("requires a client", func(t *testing.T) {
		_, err := New(Config{Persistence: NewMemoryStore()})
		assert.ErrorIs(err, ErrMissingClient)
	})

	t.Run("requires persistence", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()
		client, err := api.NewClient(api.Config{BaseURL: srv.URL}, zerolog.Nop())
		assert.NoError(err)

		_, err = New(Config{Client: client})
		assert.ErrorIs(err, ErrMissingPersistence)
	})

	t.Run("starts empty", func(t *testing.T) {
		env := newTestEnv(t, newBackend(), nil)
		snap := env.store.Snapshot()
		assert.False(snap.Authenticated())
		assert.Nil(snap.User)
		assert.Nil(snap.Store)
		assert.Empty(snap.Cart)
	})
}

func TestInitialize(t *testing.T) {
	t.Run("anonymous start loads catalog only", func(t *testing.T) {
		env := newTestEnv(t, newBackend(), nil)

		env.store.Initialize(context.Background())

		assert.False(t, env.store.Loading())
		assert.Equal(t, 2, env.store.Catalog().Len())
		assert.False(t, env.store.Snapshot().Authenticated())
	})

	t.Run("persisted token reconciles profile and cart", func(t *testing.T) {
		b := newBackend()
		b.cart = map[string][]models.CartLine{
			"s1": {{ProductID: "p1", Quantity: 2}},
		}
		b.store = &models.Store{ID: "s1", StoreName: "Phone Hut", Status: models.StoreStatusApproved}

		env := newTestEnv(t, b, nil)
		require.NoError(t, env.persist.SaveToken(testToken))

		env.store.Initialize(context.Background())

		snap := env.store.Snapshot()
		require.True(t, snap.Authenticated())
		require.NotNil(t, snap.User)
		assert.Equal(t, "Alice", snap.User.Name)
		require.NotNil(t, snap.Store)
		assert.Equal(t, "Phone Hut", snap.Store.StoreName)
		assert.Equal(t, map[string]int{"p1": 2}, snap.Cart)
	})

	t.Run("stale persisted token tears the session down", func(t *testing.T) {
		b := newBackend()
		b.rejectToken = true

		env := newTestEnv(t, b, nil)
		require.NoError(t, env.persist.SaveToken("stale"))
		require.NoError(t, env.persist.SaveStore(&models.Store{ID: "s1"}))

		env.store.Initialize(context.Background())

		reason := env.waitForEnd(t)
		assert.Equal(t, EndUnauthorized, reason)

		snap := env.store.Snapshot()
		assert.False(t, snap.Authenticated())
		assert.Nil(t, snap.Store)
		assert.Empty(t, snap.Cart)

		persisted, err := env.persist.Load()
		require.NoError(t, err)
		assert.Empty(t, persisted.Token)
		assert.Nil(t, persisted.Store)

		// The profile and cart fetches both saw a 401, but the teardown
		// side effects fired once.
		assert.Empty(t, env.ends)
		assert.Equal(t, 1, env.notifier.count("Session expired or invalid"))
	})

	t.Run("no store membership is not an error", func(t *testing.T) {
		env := newTestEnv(t, newBackend(), nil)
		require.NoError(t, env.persist.SaveToken(testToken))

		env.store.Initialize(context.Background())

		snap := env.store.Snapshot()
		require.True(t, snap.Authenticated())
		assert.Nil(t, snap.Store)
	})
}

func TestSetAuthToken(t *testing.T) {
	t.Run("login hydrates profile store and cart", func(t *testing.T) {
		b := newBackend()
		b.cart = map[string][]models.CartLine{
			"s1": {{ProductID: "p1", Quantity: 1}, {ProductID: "p2", Quantity: 3}},
		}
		env := newTestEnv(t, b, nil)

		env.store.SetAuthToken(context.Background(), testToken)

		snap := env.store.Snapshot()
		assert.Equal(t, testToken, snap.Token)
		require.NotNil(t, snap.User)
		assert.Equal(t, map[string]int{"p1": 1, "p2": 3}, snap.Cart)

		persisted, err := env.persist.Load()
		require.NoError(t, err)
		assert.Equal(t, testToken, persisted.Token)
	})

	t.Run("empty token destroys the session", func(t *testing.T) {
		env := newTestEnv(t, newBackend(), nil)
		env.store.SetAuthToken(context.Background(), testToken)

		env.store.SetAuthToken(context.Background(), "")

		snap := env.store.Snapshot()
		assert.False(t, snap.Authenticated())
		assert.Nil(t, snap.User)

		persisted, err := env.persist.Load()
		require.NoError(t, err)
		assert.Empty(t, persisted.Token)
	})
}

func TestDestroySession(t *testing.T) {
	env := newTestEnv(t, newBackend(), nil)
	env.store.SetAuthToken(context.Background(), testToken)
	require.True(t, env.store.Snapshot().Authenticated())

	env.store.DestroySession()

	snap := env.store.Snapshot()
	assert.False(t, snap.Authenticated())
	assert.Nil(t, snap.User)
	assert.Nil(t, snap.Store)
	assert.Empty(t, snap.Cart)

	persisted, err := env.persist.Load()
	require.NoError(t, err)
	assert.Empty(t, persisted.Token)
	assert.Nil(t, persisted.Store)

	// destroying an already-empty session is a no-op
	env.store.DestroySession()
	assert.False(t, env.store.Snapshot().Authenticated())
}

func TestFetchProfile(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		env := newTestEnv(t, newBackend(), nil)
		err := env.store.FetchProfile(context.Background())
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("auth failure funnels into teardown", func(t *testing.T) {
		b := newBackend()
		env := newTestEnv(t, b, nil)
		env.store.SetAuthToken(context.Background(), testToken)

		b.mu.Lock()
		b.rejectToken = true
		b.mu.Unlock()

		err := env.store.FetchProfile(context.Background())
		require.Error(t, err)
		assert.True(t, api.IsAuthFailure(err))

		reason := env.waitForEnd(t)
		assert.Equal(t, EndUnauthorized, reason)
		assert.False(t, env.store.Snapshot().Authenticated())
		assert.True(t, env.notifier.contains("Session expired or invalid"))
	})
}

func TestIdleExpiry(t *testing.T) {
	env := newTestEnv(t, newBackend(), func(cfg *Config) {
		cfg.IdleTimeout = 50 * time.Millisecond
	})
	env.store.SetAuthToken(context.Background(), testToken)
	require.True(t, env.store.Snapshot().Authenticated())

	reason := env.waitForEnd(t)
	assert.Equal(t, EndExpired, reason)

	snap := env.store.Snapshot()
	assert.False(t, snap.Authenticated())
	assert.Empty(t, snap.Cart)
	assert.True(t, env.notifier.contains("Your session has expired"))

	persisted, err := env.persist.Load()
	require.NoError(t, err)
	assert.Empty(t, persisted.Token)
}

func TestSnapshotIsolation(t *testing.T) {
	b := newBackend()
	b.cart = map[string][]models.CartLine{"s1": {{ProductID: "p1", Quantity: 1}}}
	env := newTestEnv(t, b, nil)
	env.store.SetAuthToken(context.Background(), testToken)

	snap := env.store.Snapshot()
	snap.Cart["p1"] = 99
	snap.User.Name = "Mallory"

	fresh := env.store.Snapshot()
	assert.Equal(t, 1, fresh.Cart["p1"])
	assert.Equal(t, "Alice", fresh.User.Name)
}

func TestCartAmountUsesCatalogPrices(t *testing.T) {
	b := newBackend()
	b.cart = map[string][]models.CartLine{
		"s1": {{ProductID: "p1", Quantity: 2}, {ProductID: "unknown", Quantity: 5}},
	}
	env := newTestEnv(t, b, func(cfg *Config) {
		c := catalog.New()
		c.Replace([]models.Product{
			{ID: "p1", Name: "Phone", Price: decimal.NewFromInt(1000)},
		})
		cfg.Catalog = c
	})
	env.store.SetAuthToken(context.Background(), testToken)

	// the unknown product stays in the cart but contributes nothing
	assert.Equal(t, 7, env.store.CartCount())
	assert.True(t, env.store.CartAmount().Equal(decimal.NewFromInt(2000)))
}
