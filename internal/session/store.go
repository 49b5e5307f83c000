// internal/session/store.go
//
// Per-visitor authentication state.
//
// Context
//   A Store is the single owner of one visitor's token, identity, auth state,
//   and registration-callback payload.  Every other component goes through
//   its operations; nobody reads the storage slot directly.
//
// Workflow
//   Restore   – once, when the Manager materialises the store.
//   Login     – Idle/Error/Authenticated → Pending → Authenticated | Error.
//   Logout    – any state → Idle.  Idempotent.
//
// Notes
//   • Network and storage calls run outside the mutex.  Concurrent logins for
//     the same visitor are last-write-wins; nothing is cancelled.
//   • A token-save failure is logged and the store stays authenticated for
//     the lifetime of the process.
//   • A user whose role is not one of the known roles is never accepted.  The
//     guard could not place them, so login fails and a restored token is
//     dropped.

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/trueartists/account-web/internal/apiclient"
	"github.com/trueartists/account-web/internal/auth"
	"github.com/trueartists/account-web/internal/metrics"
	"github.com/trueartists/account-web/internal/storage"
)

// State is the auth state machine position.
type State int

const (
	StateIdle State = iota
	StatePending
	StateAuthenticated
	StateError
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateAuthenticated:
		return "authenticated"
	case StateError:
		return "error"
	}
	return "idle"
}

// ResultData is the data block of a successful Result.
type ResultData struct {
	User auth.Identity
}

// Result reports a login outcome.  Data is nil when Error is true.
type Result struct {
	Error bool
	Data  *ResultData
}

// ErrUnknownRole rejects an API user whose role the client cannot route.
var ErrUnknownRole = errors.New("session: unknown role")

// Store holds one visitor's session.  The zero value is not usable; see
// NewStore.
type Store struct {
	api  *apiclient.Client
	base *zap.SugaredLogger

	mu       sync.Mutex
	slot     storage.Slot
	log      *zap.SugaredLogger
	state    State
	token    string
	identity *auth.Identity
	callback *auth.CallbackPayload
}

// NewStore binds api (owned by this store) to slot.  The store starts Idle;
// call Restore to pick up a persisted token.
func NewStore(api *apiclient.Client, slot storage.Slot, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.S()
	}
	return &Store{api: api, base: log, slot: slot, log: log.With("sid", slot.Key)}
}

// ID returns the visitor-session id the store is keyed by.
func (s *Store) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slot.Key
}

func (s *Store) logger() *zap.SugaredLogger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log
}

// API returns the store's client, carrying the visitor's Authorization
// header while authenticated.
func (s *Store) API() *apiclient.Client { return s.api }

// State reports the current auth state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns a copy of the identity while a token is held.
func (s *Store) Current() (*auth.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" || s.identity == nil {
		return nil, false
	}
	id := *s.identity
	return &id, true
}

// Login authenticates with email and password.  Failures never raise; the
// Result carries Error and the store moves to StateError with its previous
// token and identity untouched.
func (s *Store) Login(ctx context.Context, email, password string, hasCallback bool) Result {
	return s.authenticate(ctx, "password", hasCallback, func(ctx context.Context) (*apiclient.AuthData, error) {
		return s.api.Login(ctx, email, password)
	})
}

// SocialLogin authenticates with an identity already verified by a social
// provider.
func (s *Store) SocialLogin(ctx context.Context, providerID, email string, hasCallback bool) Result {
	return s.authenticate(ctx, "social", hasCallback, func(ctx context.Context) (*apiclient.AuthData, error) {
		return s.api.SocialLogin(ctx, providerID, email)
	})
}

func (s *Store) authenticate(ctx context.Context, method string, hasCallback bool,
	call func(context.Context) (*apiclient.AuthData, error)) Result {

	s.mu.Lock()
	s.state = StatePending
	s.mu.Unlock()

	data, err := call(ctx)
	if err == nil && !data.User.Role.Valid() {
		err = fmt.Errorf("%w: unknown role %q", ErrUnknownRole, data.User.Role)
	}
	if err != nil {
		s.mu.Lock()
		s.state = StateError
		s.mu.Unlock()

		reason := apiclient.Reason(err)
		if errors.Is(err, ErrUnknownRole) {
			reason = "role"
		}
		metrics.LoginAttemptsTotal.WithLabelValues(method, reason).Inc()
		s.logger().Infow("login failed", "method", method, "reason", reason, "callback", hasCallback, "err", err)
		return Result{Error: true}
	}

	user := data.User
	s.mu.Lock()
	s.token = data.Token
	s.identity = &user
	s.api.SetAuthHeader(data.Token)
	s.state = StateAuthenticated
	slot, log := s.slot, s.log
	s.mu.Unlock()

	if err := slot.Save(ctx, data.Token); err != nil {
		log.Warnw("token not persisted", "err", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues(method, "ok").Inc()
	log.Infow("login ok", "method", method, "user", user.ID, "role", user.Role, "callback", hasCallback)
	return Result{Data: &ResultData{User: user}}
}

// Logout ends the session.  The API is told only when a token was active,
// and its failure is ignored.  Calling Logout on an idle store changes
// nothing observable.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	had := s.token != ""
	s.mu.Unlock()

	if had {
		if err := s.api.Logout(ctx); err != nil {
			s.logger().Infow("api logout failed", "reason", apiclient.Reason(err), "err", err)
		}
	}
	s.clear(ctx)
	if had {
		s.logger().Infow("logout")
	}
}

func (s *Store) clear(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.identity = nil
	s.callback = nil
	s.state = StateIdle
	s.api.ClearAuthHeader()
	slot, log := s.slot, s.log
	s.mu.Unlock()

	if err := slot.Clear(ctx); err != nil {
		log.Warnw("stored token not cleared", "err", err)
	}
}

// rekey moves the store, and any persisted token, to sid.  It returns the
// previous id.
func (s *Store) rekey(ctx context.Context, sid string) string {
	s.mu.Lock()
	prev := s.slot
	s.slot = storage.Slot{Backend: prev.Backend, Key: sid}
	s.log = s.base.With("sid", sid)
	token, next, log := s.token, s.slot, s.log
	s.mu.Unlock()

	if token != "" {
		if err := next.Save(ctx, token); err != nil {
			log.Warnw("token not persisted", "err", err)
		}
		if err := prev.Clear(ctx); err != nil {
			log.Warnw("stored token not cleared", "sid", prev.Key, "err", err)
		}
	}
	return prev.Key
}

// Restore picks up a persisted token.  A token the API no longer accepts,
// or any failure fetching the identity, behaves as logout.
func (s *Store) Restore(ctx context.Context) {
	s.mu.Lock()
	slot, log := s.slot, s.log
	s.mu.Unlock()

	token, err := slot.Load(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Warnw("token storage unavailable", "err", err)
		metrics.SessionRestoreTotal.WithLabelValues("error").Inc()
		return
	}
	if token == "" {
		metrics.SessionRestoreTotal.WithLabelValues("anonymous").Inc()
		return
	}

	s.mu.Lock()
	s.state = StatePending
	s.api.SetAuthHeader(token)
	s.mu.Unlock()

	user, err := s.api.CurrentUser(ctx)
	if err == nil && !user.Role.Valid() {
		err = fmt.Errorf("%w: unknown role %q", ErrUnknownRole, user.Role)
	}
	if err != nil {
		log.Infow("stored token rejected", "reason", apiclient.Reason(err), "err", err)
		metrics.SessionRestoreTotal.WithLabelValues("stale").Inc()
		s.clear(ctx)
		return
	}

	s.mu.Lock()
	s.token = token
	s.identity = user
	s.state = StateAuthenticated
	s.mu.Unlock()
	metrics.SessionRestoreTotal.WithLabelValues("authenticated").Inc()
}

// SetRegistrationCallback records the payload for the page named by the
// login "callback" parameter, replacing any earlier one.
func (s *Store) SetRegistrationCallback(p auth.CallbackPayload) {
	s.mu.Lock()
	s.callback = &p
	s.mu.Unlock()
}

// TakeRegistrationCallback returns and clears the payload.
func (s *Store) TakeRegistrationCallback() (auth.CallbackPayload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.callback == nil {
		return auth.CallbackPayload{}, false
	}
	p := *s.callback
	s.callback = nil
	return p, true
}
