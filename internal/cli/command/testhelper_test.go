package command

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/cloudpocket/pocket-cli/internal/core/domain"
)

const (
	testEmail    = "ann@x.io"
	testPassword = "secret"
	testToken    = "tok-ann"
)

// mockServer is a CloudPocket backend with one user and canned data.
// Handlers are keyed by "METHOD /path".
type mockServer struct {
	*httptest.Server

	mu       sync.Mutex
	token    string
	handlers map[string]http.HandlerFunc
	calls    []string
	bodies   map[string]map[string]any
}

func newMockServer(t *testing.T) *mockServer {
	t.Helper()
	m := &mockServer{
		token:    testToken,
		handlers: make(map[string]http.HandlerFunc),
		bodies:   make(map[string]map[string]any),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(m.serve))
	t.Cleanup(m.Close)

	m.handle("GET /api/me", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, domain.User{ID: 1, Name: "Ann", Email: testEmail})
	})
	m.handle("GET /api/wallets", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, sampleWallets())
	})
	m.handle("GET /api/wallets/1/transactions", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, sampleTransactions())
	})
	m.handle("GET /api/wallets/2/transactions", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, []domain.Transaction{})
	})
	return m
}

func (m *mockServer) serve(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path

	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	m.mu.Lock()
	m.calls = append(m.calls, key)
	m.bodies[key] = body
	token := m.token
	h, ok := m.handlers[key]
	m.mu.Unlock()

	if key == "POST /login" && !ok {
		if body["email"] != testEmail {
			errorResponse(w, http.StatusNotFound, "User not found")
			return
		}
		if body["password"] != testPassword {
			errorResponse(w, http.StatusUnauthorized, "Incorrect password")
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"token": token})
		return
	}

	if strings.HasPrefix(r.URL.Path, "/api/") && r.Header.Get("Authorization") != "Bearer "+token {
		jsonResponse(w, http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

// handle registers a handler for "METHOD /path".
func (m *mockServer) handle(pattern string, h http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[pattern] = h
}

// setToken changes the token issued by /login and accepted by /api.
func (m *mockServer) setToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

// called reports how many requests matched "METHOD /path".
func (m *mockServer) called(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == key {
			n++
		}
	}
	return n
}

// body returns the last JSON body sent to "METHOD /path".
func (m *mockServer) body(key string) map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bodies[key]
}

// jsonResponse writes a JSON response.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// errorResponse writes the backend's {message} error body.
func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"message": message})
}

// testApp runs commands against one shared Runtime, the way the shell does.
type testApp struct {
	app    *cli.App
	rt     *Runtime
	out    *bytes.Buffer
	errOut *bytes.Buffer
	dir    string
}

func newTestApp(t *testing.T, server *mockServer) *testApp {
	t.Helper()
	dir := t.TempDir()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	rt, err := newRuntime(runtimeOptions{
		ConfigPath: filepath.Join(dir, "config.yaml"),
		Overrides: map[string]any{
			"server":              server.URL,
			"token_store.backend": "memory",
			"rate_limit.rps":      0,
		},
		Out:    out,
		ErrOut: errOut,
	})
	if err != nil {
		t.Fatalf("newRuntime() error = %v", err)
	}
	rt.shared = true
	t.Cleanup(func() { _ = rt.Close() })

	app := App()
	app.Writer = out
	app.ErrWriter = errOut
	app.Reader = strings.NewReader("")
	app.Metadata[metaRuntime] = rt

	return &testApp{app: app, rt: rt, out: out, errOut: errOut, dir: dir}
}

// run executes one command line, resetting the captured output first.
func (a *testApp) run(args ...string) error {
	a.out.Reset()
	a.errOut.Reset()
	return a.app.Run(append([]string{"pocket"}, args...))
}

// login signs the test user in.
func (a *testApp) login(t *testing.T) {
	t.Helper()
	if err := a.run("login", "--email", testEmail, "--password", testPassword); err != nil {
		t.Fatalf("login error = %v", err)
	}
}

// Sample data

func sampleWallets() []domain.Wallet {
	return []domain.Wallet{
		{ID: 1, Name: "Holiday", Code: "WABC123", Target: "Lisbon", Goal: 140},
		{ID: 2, Name: "Rainy day", Code: "WDEF456", Goal: 0},
	}
}

func sampleTransactions() []domain.Transaction {
	return []domain.Transaction{
		{ID: 10, Title: "Salary", Type: domain.Income, Amount: 100, Date: "2026-01-01", WalletID: 1, CreatedAt: time.Now()},
		{ID: 11, Title: "Dinner", Type: domain.Expense, Amount: 30.5, Date: "2026-01-02", WalletID: 1, CreatedAt: time.Now()},
	}
}
