package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cloudpocket/pocket-cli/internal/cli/config"
	"github.com/cloudpocket/pocket-cli/internal/cli/connection"
	"github.com/cloudpocket/pocket-cli/internal/cli/output"
	"github.com/cloudpocket/pocket-cli/internal/core/service"
	"github.com/cloudpocket/pocket-cli/internal/infra/buildinfo"
	"github.com/cloudpocket/pocket-cli/internal/infra/shutdown"
	"github.com/cloudpocket/pocket-cli/internal/infra/tlsroots"
	"github.com/cloudpocket/pocket-cli/internal/storage"
	"github.com/cloudpocket/pocket-cli/internal/telemetry/logger"
	"github.com/cloudpocket/pocket-cli/internal/telemetry/metric"
)

// closeTimeout bounds the close hooks run when the runtime ends.
const closeTimeout = 5 * time.Second

// errNotLoggedIn is returned by commands that need a session.
var errNotLoggedIn = errors.New(`not logged in; run "pocket login"`)

// authLostNotice is printed when the backend rejects the stored token.
const authLostNotice = `session expired; run "pocket login"`

// Runtime is the context object shared by every command of one process:
// configuration, logging, metrics and, once a command needs the backend,
// the token store, gateway, session and services.
type Runtime struct {
	Logger  logger.Logger
	Metrics *metric.Registry

	configPath string
	overrides  map[string]any
	out        io.Writer
	errOut     io.Writer
	in         *bufio.Reader

	cfgMu sync.RWMutex
	cfg   *config.CLIConfig

	notifyMu sync.Mutex
	notify   func(string)

	connectOnce sync.Once
	connectErr  error

	Tokens       *storage.Slot
	Gateway      *connection.Gateway
	Session      *service.SessionStore
	Account      *service.AccountService
	Wallets      *service.WalletService
	Transactions *service.TransactionService
	Shares       *service.ShareService
	Dashboard    *service.DashboardService

	closer *shutdown.Handler

	// shared keeps the runtime open across App runs; the shell sets it
	// for the commands it dispatches.
	shared  bool
	inShell bool
}

// runtimeOptions are the inputs of newRuntime.
type runtimeOptions struct {
	ConfigPath string
	Overrides  map[string]any
	Out        io.Writer
	ErrOut     io.Writer
}

// newRuntime loads configuration and sets up logging and metrics. The
// backend side is connected lazily by Connect.
func newRuntime(opts runtimeOptions) (*Runtime, error) {
	cfg, err := config.Load(opts.ConfigPath, opts.Overrides)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: opts.ErrOut,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	rt := &Runtime{
		Logger:     log,
		Metrics:    metric.NewRegistry(),
		configPath: opts.ConfigPath,
		overrides:  opts.Overrides,
		out:        opts.Out,
		errOut:     opts.ErrOut,
		cfg:        cfg,
		closer:     shutdown.NewHandler(closeTimeout),
	}
	rt.notify = func(msg string) { fmt.Fprintln(rt.errOut, msg) }
	return rt, nil
}

// Config returns the current configuration.
func (rt *Runtime) Config() *config.CLIConfig {
	rt.cfgMu.RLock()
	defer rt.cfgMu.RUnlock()
	return rt.cfg
}

// ConfigPath returns the configuration file in use.
func (rt *Runtime) ConfigPath() string {
	if rt.configPath == "" {
		return config.DefaultConfigPath()
	}
	return rt.configPath
}

// Reload re-reads the configuration. Only the log level and the default
// output format take effect on a connected runtime.
func (rt *Runtime) Reload() error {
	cfg, err := config.Load(rt.configPath, rt.overrides)
	if err != nil {
		return err
	}
	logger.SetLevel(cfg.Log.Level)

	rt.cfgMu.Lock()
	rt.cfg = cfg
	rt.cfgMu.Unlock()

	rt.Logger.Debug("config reloaded", "path", rt.ConfigPath())
	return nil
}

// Connect opens the token store and builds the gateway, the session and
// the services. It runs once; later calls return the first result.
func (rt *Runtime) Connect(ctx context.Context) error {
	rt.connectOnce.Do(func() {
		rt.connectErr = rt.connect(ctx)
	})
	return rt.connectErr
}

func (rt *Runtime) connect(ctx context.Context) error {
	cfg := rt.Config()
	slogger := logger.Slog(rt.Logger)

	baseURL := connection.NormalizeServer(cfg.Server)
	origin, err := storage.Origin(baseURL)
	if err != nil {
		return err
	}

	slot, err := storage.Open(ctx, storage.Options{
		Backend:    cfg.TokenStore.Backend,
		Dir:        cfg.TokenStore.Dir,
		RedisAddr:  cfg.TokenStore.RedisAddr,
		RedisDB:    cfg.TokenStore.RedisDB,
		RedisTTL:   cfg.TokenStore.RedisTTL,
		Passphrase: cfg.TokenStore.Passphrase,
		Logger:     slogger,
		Registry:   rt.Metrics.Registerer(),
	}, origin)
	if err != nil {
		return fmt.Errorf("open token store: %w", err)
	}
	rt.closer.OnClose("token store", slot.Close)

	client, err := rt.httpClient(cfg)
	if err != nil {
		return err
	}

	gw := connection.NewGateway(baseURL, slot,
		connection.WithHTTPClient(client),
		connection.WithLogger(rt.Logger),
		connection.WithMetrics(rt.Metrics),
		connection.WithRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		connection.WithUserAgent(buildinfo.UserAgent()),
		connection.WithLoginPath(cfg.LoginPath),
	)
	session := service.NewSessionStore(gw, slot,
		service.WithSessionLogger(rt.Logger),
		service.WithSessionMetrics(rt.Metrics),
	)
	rt.closer.OnClose("session", func() error {
		session.Close()
		return nil
	})
	cancel := gw.OnAuthLost(func(connection.AuthLostEvent) {
		rt.Notify(authLostNotice)
	})
	rt.closer.OnClose("auth notice", func() error {
		cancel()
		return nil
	})

	rt.Tokens = slot
	rt.Gateway = gw
	rt.Session = session
	rt.Account = service.NewAccountService(gw)
	rt.Wallets = service.NewWalletService(gw)
	rt.Transactions = service.NewTransactionService(gw)
	rt.Shares = service.NewShareService(gw)
	rt.Dashboard = service.NewDashboardService(gw)
	return nil
}

// httpClient returns the client for the gateway. TLS settings apply only
// when configured; a client certificate is reloaded when its files change.
func (rt *Runtime) httpClient(cfg *config.CLIConfig) (*http.Client, error) {
	if cfg.TLS.IsZero() {
		return &http.Client{}, nil
	}

	tc, watcher, err := tlsroots.ClientConfig(cfg.TLS, logger.Slog(rt.Logger))
	if err != nil {
		return nil, fmt.Errorf("tls: %w", err)
	}
	if watcher != nil {
		watcher.StartAsync()
		rt.closer.OnClose("tls watcher", watcher.Stop)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tc
	return &http.Client{Transport: transport}, nil
}

// Restore validates the stored token once per process. Later calls are
// no-ops while the session state is known.
func (rt *Runtime) Restore(ctx context.Context) error {
	if err := rt.Connect(ctx); err != nil {
		return err
	}
	if rt.Session.State() == service.StateUnknown {
		// A failed validation leaves the session anonymous; the cause is
		// already logged.
		_ = rt.Session.Restore(ctx)
	}
	return nil
}

// RequireSession restores the session and fails unless a user is logged in.
func (rt *Runtime) RequireSession(ctx context.Context) error {
	if err := rt.Restore(ctx); err != nil {
		return err
	}
	if rt.Session.State() != service.StateAuthenticated {
		return errNotLoggedIn
	}
	return nil
}

// Notify prints an asynchronous notice to the user.
func (rt *Runtime) Notify(msg string) {
	rt.notifyMu.Lock()
	fn := rt.notify
	rt.notifyMu.Unlock()
	fn(msg)
}

// setNotifier redirects notices, returning a func that restores the
// previous target.
func (rt *Runtime) setNotifier(fn func(string)) (restore func()) {
	rt.notifyMu.Lock()
	prev := rt.notify
	rt.notify = fn
	rt.notifyMu.Unlock()
	return func() {
		rt.notifyMu.Lock()
		rt.notify = prev
		rt.notifyMu.Unlock()
	}
}

// Print writes data in the requested output format.
func (rt *Runtime) Print(format output.Format, wide bool, data any) error {
	return output.NewFormatter(format, wide).Format(rt.out, data)
}

// Close runs the close hooks in reverse order of registration.
func (rt *Runtime) Close() error {
	return rt.closer.Close()
}
