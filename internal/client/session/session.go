// Package session owns the client's authentication state: the
// credential pair issued by the gateway, the resolved user profile,
// and the derived Authenticated flag. The pair is persisted to the
// durable local store so a restart can resume the session.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/storefront/internal/client/gateway"
	"github.com/example/storefront/internal/client/storage"
	"github.com/example/storefront/internal/logging"
	"github.com/example/storefront/internal/models"
)

// Store is the process-wide session store. Construct one at startup
// with New and pass it to the components that need it.
//
// Invariants:
//   - a held credential pair has had a profile-resolution attempt;
//   - a user profile never exists without a credential pair;
//   - Authenticated() is always recomputed, never stored.
type Store struct {
	gw   gateway.Gateway
	repo storage.Repository
	log  logging.Logger

	// opMu serializes login/register/refresh so two token writes can
	// never interleave.
	opMu sync.Mutex

	mu     sync.RWMutex
	tokens *models.TokenPair
	user   *models.User

	subMu      sync.Mutex
	subs       map[int]func(bool)
	nextSubID  int
	lastAuthed bool
}

func New(gw gateway.Gateway, repo storage.Repository, log logging.Logger) *Store {
	return &Store{gw: gw, repo: repo, log: log, subs: make(map[int]func(bool))}
}

// Bootstrap loads a persisted credential pair, if any, and attempts to
// resolve it to a profile. A failed resolution clears the session the
// same way Logout does; the failure is logged, not surfaced, so the
// process starts unauthenticated instead of erroring.
func (s *Store) Bootstrap(ctx context.Context) {
	var pair models.TokenPair
	ok, err := storage.LoadJSON(ctx, s.repo, storage.KeyAuthTokens, &pair)
	if err != nil {
		s.log.Warn(ctx, "stored tokens unreadable, dropped", "error", err)
		return
	}
	if !ok {
		return
	}

	s.setTokens(&pair)

	if err := s.resolveProfile(ctx, pair.Access); err != nil {
		s.log.Info(ctx, "stored session invalid, logging out", "error", err)
		s.Logout(ctx)
	}
}

// Login authenticates with the gateway, persists the returned pair,
// and resolves the profile. Login succeeds only once the identity is
// resolved; a profile failure after a token grant clears the pair and
// returns the error. On gateway rejection the prior state is kept.
func (s *Store) Login(ctx context.Context, creds models.LoginCredentials) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	pair, err := s.gw.Login(ctx, creds)
	if err != nil {
		return err
	}
	return s.adoptTokens(ctx, pair)
}

// Register creates an account and establishes a session, with the same
// persist-then-resolve contract as Login.
func (s *Store) Register(ctx context.Context, data models.RegisterData) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	pair, err := s.gw.Register(ctx, data)
	if err != nil {
		return err
	}
	return s.adoptTokens(ctx, pair)
}

// Refresh exchanges the refresh token for a new pair and persists it.
// Any failure is terminal: the session is fully logged out, per the
// rule that an invalid token is never kept.
func (s *Store) Refresh(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	tokens, ok := s.Tokens()
	if !ok {
		return gateway.ErrSessionExpired
	}

	pair, err := s.gw.RefreshToken(ctx, tokens.Refresh)
	if err != nil {
		s.Logout(ctx)
		return err
	}

	if err := storage.SaveJSON(ctx, s.repo, storage.KeyAuthTokens, pair); err != nil {
		s.Logout(ctx)
		return fmt.Errorf("persist tokens: %w", err)
	}
	s.setTokens(&pair)
	return nil
}

// Logout clears the credential pair, the profile, and the persisted
// entry. It is unconditional and never fails; a storage error only
// gets logged.
func (s *Store) Logout(ctx context.Context) {
	if err := s.repo.Delete(ctx, storage.KeyAuthTokens); err != nil {
		s.log.Warn(ctx, "failed to remove stored tokens", "error", err)
	}

	s.mu.Lock()
	s.tokens = nil
	s.user = nil
	s.mu.Unlock()

	s.notify()
}

// adoptTokens persists and installs a freshly issued pair, then
// resolves the profile. Callers hold opMu.
func (s *Store) adoptTokens(ctx context.Context, pair models.TokenPair) error {
	if err := storage.SaveJSON(ctx, s.repo, storage.KeyAuthTokens, pair); err != nil {
		return fmt.Errorf("persist tokens: %w", err)
	}
	s.setTokens(&pair)

	if err := s.resolveProfile(ctx, pair.Access); err != nil {
		s.Logout(ctx)
		return fmt.Errorf("resolve profile: %w", err)
	}
	return nil
}

func (s *Store) resolveProfile(ctx context.Context, accessToken string) error {
	user, err := s.gw.GetProfile(ctx, accessToken)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *Store) setTokens(pair *models.TokenPair) {
	s.mu.Lock()
	s.tokens = pair
	s.mu.Unlock()
	s.notify()
}

// Tokens returns the current credential pair, if any.
func (s *Store) Tokens() (models.TokenPair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tokens == nil {
		return models.TokenPair{}, false
	}
	return *s.tokens, true
}

// AccessToken returns the current access token, or "" when logged out.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tokens == nil {
		return ""
	}
	return s.tokens.Access
}

// User returns the resolved profile, if any.
func (s *Store) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Authenticated reports whether both a credential pair and a resolved
// profile are present.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens != nil && s.user != nil
}

// Subscribe registers fn to run on every Authenticated transition.
// fn fires once per transition, not on every store update. The
// returned function removes the subscription.
func (s *Store) Subscribe(fn func(authenticated bool)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// notify fires subscribers when the derived flag actually changed.
func (s *Store) notify() {
	authed := s.Authenticated()

	s.subMu.Lock()
	if authed == s.lastAuthed {
		s.subMu.Unlock()
		return
	}
	s.lastAuthed = authed
	fns := make([]func(bool), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(authed)
	}
}
