package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cloudpocket/pocket-cli/internal/cli/connection"
	"github.com/cloudpocket/pocket-cli/internal/core/domain"
	"github.com/cloudpocket/pocket-cli/internal/storage"
	"github.com/cloudpocket/pocket-cli/internal/telemetry/logger"
)

// fakeBackend mimics the CloudPocket REST API for one user.
type fakeBackend struct {
	mu       sync.Mutex
	users    map[string]fakeUser // by email
	tokens   map[string]string   // token -> email
	wallets  []domain.Wallet
	txs      map[uint][]domain.Transaction
	lastBody map[string]any
	calls    atomic.Int32

	// overrides by "METHOD /path"
	handlers map[string]http.HandlerFunc
}

type fakeUser struct {
	domain.User
	password string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users:    make(map[string]fakeUser),
		tokens:   make(map[string]string),
		txs:      make(map[uint][]domain.Transaction),
		handlers: make(map[string]http.HandlerFunc),
	}
}

func (b *fakeBackend) addUser(id uint, name, email, password string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[email] = fakeUser{User: domain.User{ID: id, Name: name, Email: email}, password: password}
}

func (b *fakeBackend) handle(pattern string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[pattern] = h
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.calls.Add(1)

	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	b.mu.Lock()
	b.lastBody = body
	h, ok := b.handlers[r.Method+" "+r.URL.Path]
	b.mu.Unlock()
	if ok {
		h(w, r)
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/login":
		b.login(w, body)
	case r.Method == http.MethodPost && r.URL.Path == "/register":
		b.register(w, body)
	case strings.HasPrefix(r.URL.Path, "/api/"):
		email, ok := b.authorize(r)
		if !ok {
			respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
			return
		}
		b.api(w, r, email, body)
	default:
		http.NotFound(w, r)
	}
}

func (b *fakeBackend) login(w http.ResponseWriter, body map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	email, _ := body["email"].(string)
	u, ok := b.users[email]
	if !ok {
		respondJSON(w, http.StatusNotFound, map[string]string{"message": "User not found"})
		return
	}
	if body["password"] != u.password {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"message": "Incorrect password"})
		return
	}
	token := "tok-" + email
	b.tokens[token] = email
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (b *fakeBackend) register(w http.ResponseWriter, body map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	email, _ := body["email"].(string)
	if _, exists := b.users[email]; exists {
		respondJSON(w, http.StatusConflict, map[string]string{"error": "email already registered"})
		return
	}
	name, _ := body["name"].(string)
	password, _ := body["password"].(string)
	u := domain.User{ID: uint(len(b.users) + 1), Name: name, Email: email}
	b.users[email] = fakeUser{User: u, password: password}
	respondJSON(w, http.StatusCreated, map[string]any{"ID": u.ID, "name": name, "email": email})
}

func (b *fakeBackend) authorize(r *http.Request) (string, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return "", false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	email, ok := b.tokens[token]
	return email, ok
}

func (b *fakeBackend) api(w http.ResponseWriter, r *http.Request, email string, body map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/me":
		respondJSON(w, http.StatusOK, b.users[email].User)
	case r.Method == http.MethodGet && r.URL.Path == "/api/wallets":
		respondJSON(w, http.StatusOK, b.wallets)
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/transactions"):
		var id uint
		for _, wl := range b.wallets {
			if r.URL.Path == "/api/wallets/"+itoa(wl.ID)+"/transactions" {
				id = wl.ID
			}
		}
		respondJSON(w, http.StatusOK, b.txs[id])
	default:
		respondJSON(w, http.StatusOK, body)
	}
}

func itoa(n uint) string {
	b, _ := json.Marshal(n)
	return string(b)
}

// harness wires a real gateway and memory token store to a fake backend.
type harness struct {
	backend *fakeBackend
	server  *httptest.Server
	tokens  *storage.Slot
	gw      *connection.Gateway
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	b := newFakeBackend()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	tokens := storage.NewMemoryStore()
	return &harness{
		backend: b,
		server:  srv,
		tokens:  tokens,
		gw:      connection.NewGateway(srv.URL, tokens, connection.WithLogger(logger.Discard())),
	}
}

func (h *harness) session(opts ...SessionOption) *SessionStore {
	opts = append([]SessionOption{WithSessionLogger(logger.Discard())}, opts...)
	return NewSessionStore(h.gw, h.tokens, opts...)
}

func (b *fakeBackend) setWallets(ws ...domain.Wallet) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.wallets = ws
}

func (b *fakeBackend) setTxs(walletID uint, txs ...domain.Transaction) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.txs[walletID] = txs
}

func (b *fakeBackend) body() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastBody
}
