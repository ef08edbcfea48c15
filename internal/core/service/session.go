package service

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/cloudpocket/pocket-cli/internal/cli/connection"
	"github.com/cloudpocket/pocket-cli/internal/core/domain"
	"github.com/cloudpocket/pocket-cli/internal/storage"
	"github.com/cloudpocket/pocket-cli/internal/telemetry/logger"
	"github.com/cloudpocket/pocket-cli/internal/telemetry/metric"
)

// Fallback messages when the backend gives none.
const (
	msgLoginFailed    = "login failed"
	msgRegisterFailed = "registration failed"
)

// State is the session lifecycle state.
type State int

const (
	// StateUnknown is the initial state until Restore completes.
	StateUnknown State = iota
	StateAnonymous
	StateAuthenticated
)

// StateNames lists every state name, for metrics.
var StateNames = []string{"unknown", "anonymous", "authenticated"}

func (s State) String() string {
	if int(s) < len(StateNames) {
		return StateNames[s]
	}
	return "invalid"
}

// Snapshot is a copy of the session as seen by a reader.
type Snapshot struct {
	User            *domain.User `json:"user,omitempty"`
	IsAuthenticated bool         `json:"isAuthenticated"`
	Loading         bool         `json:"loading"`
	Error           string       `json:"error,omitempty"`
}

// SessionStore is the single source of truth for who is logged in.
// One instance exists per running client; it is safe for concurrent use.
type SessionStore struct {
	gw      Gateway
	tokens  storage.TokenStore
	logger  logger.Logger
	metrics *metric.Registry

	mu    sync.RWMutex
	state State
	snap  Snapshot

	subMu   sync.Mutex
	subs    []sessionSub
	nextSub int

	cancelAuth func()
}

type sessionSub struct {
	id int
	fn func(Snapshot)
}

// SessionOption configures a SessionStore.
type SessionOption func(*SessionStore)

// WithSessionLogger sets the logger.
func WithSessionLogger(l logger.Logger) SessionOption {
	return func(s *SessionStore) { s.logger = l }
}

// WithSessionMetrics counts state transitions in r.
func WithSessionMetrics(r *metric.Registry) SessionOption {
	return func(s *SessionStore) { s.metrics = r }
}

// NewSessionStore creates the session in its initial loading state. When gw
// also implements AuthNotifier the session drops to anonymous on any
// credential rejection it reports.
func NewSessionStore(gw Gateway, tokens storage.TokenStore, opts ...SessionOption) *SessionStore {
	s := &SessionStore{
		gw:     gw,
		tokens: tokens,
		logger: logger.Default(),
		state:  StateUnknown,
		snap:   Snapshot{Loading: true},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics != nil {
		state := metric.NewStateCollector(StateNames, func() string { return s.State().String() })
		if err := s.metrics.Registerer().Register(state); err != nil {
			s.logger.Debug("session state gauge not registered", "error", err)
		}
	}
	if n, ok := gw.(AuthNotifier); ok {
		s.cancelAuth = n.OnAuthLost(s.handleAuthLost)
	}
	return s
}

// Close detaches the session from the gateway's auth notifications.
func (s *SessionStore) Close() {
	if s.cancelAuth != nil {
		s.cancelAuth()
		s.cancelAuth = nil
	}
}

// ============================================================================
// Accessors
// ============================================================================

// Snapshot returns a copy of the current session.
func (s *SessionStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// State returns the lifecycle state.
func (s *SessionStore) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns a copy of the current user, or nil.
func (s *SessionStore) User() *domain.User {
	return s.Snapshot().User
}

// Err returns the message in the error slot.
func (s *SessionStore) Err() string {
	return s.Snapshot().Error
}

// Subscribe registers fn to receive every new snapshot. The returned func
// unregisters it.
func (s *SessionStore) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, sessionSub{id: id, fn: fn})

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// ============================================================================
// Operations
// ============================================================================

// Restore validates the persisted token against the backend. Without a
// token the session becomes anonymous. With one, the current user is
// fetched; any failure clears the token. Loading is false on every exit.
// The returned error is the cause of a failed validation, for logging;
// the session has already settled.
func (s *SessionStore) Restore(ctx context.Context) error {
	token, err := s.tokens.Get(ctx)
	if err != nil {
		s.logger.Warn("read token failed", "error", err)
		s.setAnonymous("")
		return err
	}
	if token == "" {
		s.setAnonymous("")
		return nil
	}

	user, err := s.fetchMe(ctx)
	if err != nil {
		s.logger.Warn("restore failed; clearing token", "error", err)
		s.clearToken(ctx)
		s.setAnonymous("")
		return err
	}

	s.setAuthenticated(user)
	return nil
}

// Login authenticates with email and password. On success the token is
// persisted and the current user loaded. On failure the session is
// anonymous, the error slot holds the message and the error is returned.
func (s *SessionStore) Login(ctx context.Context, email, password string) error {
	creds := domain.Credentials{Email: email, Password: password}

	// 1. Local validation
	if err := creds.Validate(); err != nil {
		s.setError(Message(err, msgLoginFailed))
		return err
	}

	// 2. Exchange credentials for a token
	var resp struct {
		Token string `json:"token"`
	}
	err := s.gw.Do(ctx, connection.Request{
		Method: http.MethodPost,
		Path:   "/login",
		Body:   creds,
		NoAuth: true,
	}, &resp)
	if err == nil && resp.Token == "" {
		err = domain.ErrMissingToken
	}
	if err != nil {
		s.logger.Warn("login failed", "email", email, "error", err)
		s.clearToken(ctx)
		s.setAnonymous(Message(err, msgLoginFailed))
		return err
	}

	// 3. Persist the token
	if err := s.tokens.Set(ctx, resp.Token); err != nil {
		s.setAnonymous(msgLoginFailed)
		return err
	}

	// 4. Load the user the token belongs to
	user, err := s.fetchMe(ctx)
	if err != nil {
		s.logger.Warn("load user after login failed; clearing token", "error", err)
		s.clearToken(ctx)
		s.setAnonymous(Message(err, msgLoginFailed))
		return err
	}

	s.setAuthenticated(user)
	return nil
}

// Register creates an account and, on success, logs in with the same
// credentials. A failed registration never attempts the login.
func (s *SessionStore) Register(ctx context.Context, name, email, password string) error {
	reg := domain.Registration{Name: name, Email: email, Password: password}
	if err := reg.Validate(); err != nil {
		s.setError(Message(err, msgRegisterFailed))
		return err
	}

	var raw json.RawMessage
	err := s.gw.Do(ctx, connection.Request{
		Method: http.MethodPost,
		Path:   "/register",
		Body:   reg,
		NoAuth: true,
	}, &raw)
	if err == nil {
		err = checkRegistration(raw)
	}
	if err != nil {
		s.logger.Warn("register failed", "email", email, "error", err)
		s.setAnonymous(Message(err, msgRegisterFailed))
		return err
	}

	s.logger.Debug("registered; logging in", "email", email)
	return s.Login(ctx, email, password)
}

// checkRegistration rejects a 2xx envelope that reports success:false.
// A bare user object or an empty body is success.
func checkRegistration(raw json.RawMessage) error {
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil
	}
	if env.Success != nil && !*env.Success {
		return envelopeFailure(env.Message, msgRegisterFailed)
	}
	return nil
}

// Logout clears the token and the session. It never fails; a token store
// error is logged.
func (s *SessionStore) Logout(ctx context.Context) {
	s.clearToken(ctx)
	s.setAnonymous("")
}

// UpdateUser merges patch into the current user without a fetch. It is a
// no-op when no user is present.
func (s *SessionStore) UpdateUser(patch domain.UserPatch) {
	s.mu.Lock()
	if s.snap.User == nil {
		s.mu.Unlock()
		return
	}
	u := patch.Apply(*s.snap.User)
	s.snap.User = &u
	snap := s.copyLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// ============================================================================
// Internals
// ============================================================================

func (s *SessionStore) fetchMe(ctx context.Context) (*domain.User, error) {
	return NewAccountService(s.gw).Me(ctx)
}

func (s *SessionStore) handleAuthLost(ev connection.AuthLostEvent) {
	s.logger.Debug("credential rejected", "method", ev.Method, "path", ev.Path)
	s.setAnonymous("")
}

func (s *SessionStore) clearToken(ctx context.Context) {
	if err := s.tokens.Clear(ctx); err != nil {
		s.logger.Warn("clear token failed", "error", err)
	}
}

func (s *SessionStore) setAuthenticated(u *domain.User) {
	s.transition(StateAuthenticated, Snapshot{User: u, IsAuthenticated: true})
}

func (s *SessionStore) setAnonymous(errMsg string) {
	s.transition(StateAnonymous, Snapshot{Error: errMsg})
}

// setError writes the error slot without changing state.
func (s *SessionStore) setError(msg string) {
	s.mu.Lock()
	s.snap.Error = msg
	snap := s.copyLocked()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *SessionStore) transition(to State, next Snapshot) {
	s.mu.Lock()
	from := s.state
	s.state = to
	s.snap = next
	snap := s.copyLocked()
	s.mu.Unlock()

	if from != to {
		s.logger.Debug("session transition", "from", from.String(), "to", to.String())
		if s.metrics != nil {
			s.metrics.SessionTransitions.WithLabelValues(to.String()).Inc()
		}
	}
	s.notify(snap)
}

func (s *SessionStore) copyLocked() Snapshot {
	snap := s.snap
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	return snap
}

func (s *SessionStore) notify(snap Snapshot) {
	s.subMu.Lock()
	subs := append([]sessionSub(nil), s.subs...)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(snap)
	}
}
