// Package state implements the session and cart state store: the single
// authoritative in-memory representation of auth, profile, store membership
// and cart, kept consistent with the storefront API through optimistic local
// mutation and reconciling fetches.
package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vendora/vendora/internal/api"
	"github.com/vendora/vendora/internal/catalog"
	"github.com/vendora/vendora/internal/idle"
	"github.com/vendora/vendora/internal/models"
	"github.com/vendora/vendora/internal/notify"
)

// EndReason says why a session was torn down.
type EndReason string

const (
	EndLogout       EndReason = "logout"
	EndExpired      EndReason = "expired"
	EndUnauthorized EndReason = "unauthorized"
)

// Snapshot is an immutable view of the session and cart. Every transition
// swaps the whole snapshot under the lock, so a reader always observes a
// fully-consistent state, never partially-updated fields.
type Snapshot struct {
	Token string
	User  *models.User
	Store *models.Store
	// Cart maps product id to a positive quantity. Entries never go to or
	// below zero; they are removed instead.
	Cart map[string]int
}

// Authenticated reports whether the snapshot carries a session token.
func (s Snapshot) Authenticated() bool {
	return s.Token != ""
}

// Config wires a Store's collaborators.
type Config struct {
	Client      *api.Client
	Persistence Persistence
	Catalog     *catalog.Cache
	Notifier    notify.Notifier
	Logger      zerolog.Logger
	// IdleTimeout expires the session after this much inactivity.
	// Zero means idle.DefaultTimeout.
	IdleTimeout time.Duration
	// OnSessionEnd is invoked after every teardown, taking the place of the
	// storefront's redirect to the login page.
	OnSessionEnd func(EndReason)
}

// Store owns the session and cart state.
type Store struct {
	mu      sync.RWMutex
	snap    Snapshot
	loading bool

	client   *api.Client
	persist  Persistence
	catalog  *catalog.Cache
	notifier notify.Notifier
	logger   zerolog.Logger
	watchdog *idle.Watchdog
	onEnd    func(EndReason)
}

// New creates an empty, unauthenticated store. Call Initialize to hydrate
// it from persistence and the API.
func New(cfg Config) (*Store, error) {
	if cfg.Client == nil {
		return nil, ErrMissingClient
	}
	if cfg.Persistence == nil {
		return nil, ErrMissingPersistence
	}

	if cfg.Catalog == nil {
		cfg.Catalog = catalog.New()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.Discard{}
	}
	if cfg.OnSessionEnd == nil {
		cfg.OnSessionEnd = func(EndReason) {}
	}

	s := &Store{
		snap:     Snapshot{Cart: map[string]int{}},
		client:   cfg.Client,
		persist:  cfg.Persistence,
		catalog:  cfg.Catalog,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
		onEnd:    cfg.OnSessionEnd,
	}
	s.watchdog = idle.New(cfg.IdleTimeout, s.expire)

	return s, nil
}

// Snapshot returns a consistent copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.clone()
}

// Loading reports whether Initialize is still reconciling.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Catalog exposes the product catalog cache backing cart resolution.
func (s *Store) Catalog() *catalog.Cache {
	return s.catalog
}

// Initialize hydrates the session from persistence synchronously, loads the
// product catalog, and - when a token was persisted - reconciles profile and
// cart against the server concurrently. The loading flag is up for the whole
// window so dependent consumers can hold off rendering.
func (s *Store) Initialize(ctx context.Context) {
	s.setLoading(true)
	defer s.setLoading(false)

	persisted, err := s.persist.Load()
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load persisted session")
		persisted = PersistedSession{}
	}

	s.mu.Lock()
	s.snap = Snapshot{
		Token: persisted.Token,
		Store: persisted.Store,
		Cart:  map[string]int{},
	}
	s.mu.Unlock()

	if err := s.catalog.Load(ctx, s.client); err != nil {
		s.logger.Error().Err(err).Msg("failed to load product catalog")
		s.notifier.Errorf("Failed to load products.")
	}

	if persisted.Token == "" {
		return
	}

	s.watchdog.Start()
	s.reconcile(ctx)
}

// SetAuthToken replaces the session token and persists it. It is the single
// trigger for profile and cart reconciliation: both fetches are derived
// effects of this value changing. An empty token tears the session down.
func (s *Store) SetAuthToken(ctx context.Context, token string) {
	if token == "" {
		s.DestroySession()
		return
	}

	s.mu.Lock()
	s.snap.Token = token
	s.mu.Unlock()

	if err := s.persist.SaveToken(token); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist token")
	}

	s.watchdog.Start()
	s.reconcile(ctx)
}

// reconcile runs the profile and cart fetches concurrently and waits for
// both. Either may tear the session down on an authorization failure.
func (s *Store) reconcile(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = s.FetchProfile(ctx)
	}()
	go func() {
		defer wg.Done()
		_ = s.FetchCart(ctx)
	}()
	wg.Wait()
}

// FetchProfile loads the authenticated profile and, on success, the nested
// store membership. An authorization failure funnels into the shared session
// teardown; any other failure leaves prior state untouched and surfaces a
// notification only.
func (s *Store) FetchProfile(ctx context.Context) error {
	token := s.token()
	if token == "" {
		return ErrNotAuthenticated
	}

	user, err := s.client.GetProfile(ctx, token)
	if err != nil {
		if api.IsAuthFailure(err) {
			s.invalidate(EndUnauthorized)
			return err
		}
		s.logger.Error().Err(err).Msg("failed to fetch profile")
		s.notifier.Errorf("Failed to load your profile.")
		return err
	}

	s.mu.Lock()
	s.snap.User = user
	s.mu.Unlock()

	return s.fetchStoreMembership(ctx, token)
}

// fetchStoreMembership mirrors the server's approval workflow into local
// state. No membership (403/404) is a normal outcome, not an error.
func (s *Store) fetchStoreMembership(ctx context.Context, token string) error {
	store, err := s.client.MyStore(ctx, token)
	switch {
	case err == nil:
		s.setStoreInfo(store)
		return nil
	case errors.Is(err, api.ErrNoStore):
		s.setStoreInfo(nil)
		return nil
	case api.IsAuthFailure(err):
		s.invalidate(EndUnauthorized)
		return err
	default:
		s.logger.Error().Err(err).Msg("failed to fetch store membership")
		s.setStoreInfo(nil)
		return err
	}
}

// setStoreInfo updates and persists the store membership together.
func (s *Store) setStoreInfo(store *models.Store) {
	s.mu.Lock()
	s.snap.Store = store
	s.mu.Unlock()

	if err := s.persist.SaveStore(store); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist store membership")
	}
}

// DestroySession clears token, user, store membership and cart, and wipes
// the persisted session. Idempotent: destroying an empty session is a
// correct no-op.
func (s *Store) DestroySession() {
	s.teardown()
}

// teardown clears everything and reports whether a session was actually
// torn down, so concurrent invalidations collapse into one.
func (s *Store) teardown() bool {
	s.watchdog.Stop()

	s.mu.Lock()
	had := s.snap.Token != ""
	s.snap = Snapshot{Cart: map[string]int{}}
	s.mu.Unlock()

	if err := s.persist.Clear(); err != nil {
		s.logger.Error().Err(err).Msg("failed to wipe persisted session")
	}

	return had
}

// invalidate is the single logged-out code path: every authorization
// failure and the idle expiry land here, never at individual call sites.
// Concurrent failures of the same session (the profile and cart fetches
// both seeing a 401) notify and fire the end hook only once.
func (s *Store) invalidate(reason EndReason) {
	if !s.teardown() {
		return
	}

	switch reason {
	case EndExpired:
		s.notifier.Warnf("Your session has expired. Please log in again.")
	case EndUnauthorized:
		s.notifier.Warnf("Session expired or invalid. Please log in again.")
	}

	s.logger.Info().Str("reason", string(reason)).Msg("session destroyed")
	s.onEnd(reason)
}

// expire is the idle watchdog callback. In-flight requests are not
// cancelled; they fail naturally against the cleared token.
func (s *Store) expire() {
	s.invalidate(EndExpired)
}

// touch registers a qualifying user interaction with the idle watchdog.
func (s *Store) touch() {
	s.watchdog.Touch()
}

func (s *Store) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Token
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}

func (s Snapshot) clone() Snapshot {
	out := Snapshot{Token: s.Token, Cart: make(map[string]int, len(s.Cart))}
	for k, v := range s.Cart {
		out.Cart[k] = v
	}
	if s.User != nil {
		user := *s.User
		out.User = &user
	}
	if s.Store != nil {
		store := *s.Store
		out.Store = &store
	}
	return out
}
