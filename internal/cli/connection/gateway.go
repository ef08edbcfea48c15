package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/cloudpocket/pocket-cli/internal/storage"
	"github.com/cloudpocket/pocket-cli/internal/telemetry/logger"
	"github.com/cloudpocket/pocket-cli/internal/telemetry/metric"
)

// DefaultLoginPath is the sign-in entry point reported on auth loss.
const DefaultLoginPath = "/auth/login"

// Request describes one backend call. The zero value of NoAuth means the
// call requires a credential.
type Request struct {
	Method string
	// Path is joined to the base URL unless it is an absolute http(s) URL.
	Path   string
	Body   any
	Header http.Header
	NoAuth bool
}

// Gateway performs authenticated JSON calls against the backend.
type Gateway struct {
	baseURL   string
	tokens    storage.TokenStore
	client    *http.Client
	logger    logger.Logger
	metrics   *metric.Registry
	limiter   *rate.Limiter
	userAgent string
	loginPath string

	mu      sync.RWMutex
	subs    []subscriber
	nextSub int
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.client = c }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// WithMetrics records request counts and latency in r.
func WithMetrics(r *metric.Registry) Option {
	return func(g *Gateway) { g.metrics = r }
}

// WithRateLimit paces outgoing calls to rps with the given burst.
// A call still makes exactly one attempt.
func WithRateLimit(rps float64, burst int) Option {
	return func(g *Gateway) {
		if rps <= 0 {
			g.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(g *Gateway) { g.userAgent = ua }
}

// WithLoginPath sets the login entry point carried by AuthLostEvent.
func WithLoginPath(p string) Option {
	return func(g *Gateway) {
		if p != "" {
			g.loginPath = p
		}
	}
}

// NewGateway creates a gateway for server. A server without a scheme is
// taken as http.
func NewGateway(server string, tokens storage.TokenStore, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL:   NormalizeServer(server),
		tokens:    tokens,
		client:    &http.Client{},
		logger:    logger.Default(),
		userAgent: "pocket-cli",
		loginPath: DefaultLoginPath,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NormalizeServer adds an http:// scheme when missing and drops a
// trailing slash.
func NormalizeServer(server string) string {
	s := strings.TrimSpace(server)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "http://" + s
	}
	return strings.TrimRight(s, "/")
}

// BaseURL returns the base URL of the gateway.
func (g *Gateway) BaseURL() string {
	return g.baseURL
}

// LoginPath returns the login entry point.
func (g *Gateway) LoginPath() string {
	return g.loginPath
}

// Do performs req and decodes a JSON success body into out (may be nil).
// Every failure is a *RequestError.
func (g *Gateway) Do(ctx context.Context, req Request, out any) error {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	requireAuth := !req.NoAuth

	fail := func(status int, msg string, raw []byte, cause error) *RequestError {
		return &RequestError{
			Method:     method,
			Path:       req.Path,
			StatusCode: status,
			Message:    msg,
			RawBody:    raw,
			Cause:      cause,
		}
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return fail(0, "request not sent: "+err.Error(), nil, err)
		}
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return fail(0, "encode request body: "+err.Error(), nil, err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, g.resolve(req.Path), body)
	if err != nil {
		return fail(0, "build request: "+err.Error(), nil, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	for k, vs := range req.Header {
		httpReq.Header.Del(k)
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if requireAuth {
		token, err := g.tokens.Get(ctx)
		if err != nil {
			g.logger.Warn("read token failed; sending without credential", "error", err)
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	reqID := httpReq.Header.Get("X-Request-ID")
	if reqID == "" {
		reqID = ulid.Make().String()
		httpReq.Header.Set("X-Request-ID", reqID)
	}
	if g.userAgent != "" {
		httpReq.Header.Set("User-Agent", g.userAgent)
	}

	ctx = logger.WithRequestID(ctx, reqID)
	log := g.logger.WithContext(ctx).With("method", method, "path", req.Path)

	start := time.Now()
	resp, err := g.client.Do(httpReq)
	if err != nil {
		g.observe(method, 0, start)
		log.Debug("request failed", "error", err)
		return fail(0, "cannot reach server: "+err.Error(), nil, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	g.observe(method, resp.StatusCode, start)
	if err != nil {
		return fail(0, "read response: "+err.Error(), nil, err)
	}
	log.Debug("response", "status", resp.StatusCode, "bytes", len(raw), "elapsed", time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized && requireAuth {
		if err := g.tokens.Clear(ctx); err != nil {
			log.Warn("clear token after 401 failed", "error", err)
		}
		if g.metrics != nil {
			g.metrics.AuthLost.Inc()
		}
		rerr := fail(resp.StatusCode, errorMessage(resp, raw), raw, nil)
		rerr.authRejected = true
		g.emitAuthLost(AuthLostEvent{
			Method:    method,
			Path:      req.Path,
			LoginPath: g.loginPath,
			At:        time.Now(),
		})
		return rerr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(resp.StatusCode, errorMessage(resp, raw), raw, nil)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 || !isJSON(resp.Header.Get("Content-Type")) {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fail(0, "decode response: "+err.Error(), raw, err)
	}
	return nil
}

func (g *Gateway) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return g.baseURL + path
}

func (g *Gateway) observe(method string, status int, start time.Time) {
	if g.metrics == nil {
		return
	}
	g.metrics.RequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	g.metrics.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

// errorMessage picks the message of a failed response: the JSON "message"
// field, then "error", then the status line text.
func errorMessage(resp *http.Response, raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if m := strings.TrimSpace(body.Message); m != "" {
			return m
		}
		if m := strings.TrimSpace(body.Error); m != "" {
			return m
		}
	}

	code := strconv.Itoa(resp.StatusCode)
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); text != "" {
		return text
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", resp.StatusCode)
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
