package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/cloudpocket/pocket-cli/internal/infra/confloader"
)

// Executor runs one command line split into words.
type Executor func(ctx context.Context, args []string) error

// REPL is the interactive read-eval-print loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	outMu     sync.Mutex
	exec      Executor
	prompt    func() string
	completer *Completer
	history   *History
	logger    *slog.Logger

	watchPath string
	onReload  func()
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets the input and output streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithPrompt sets a function called before each line to build the prompt.
func WithPrompt(fn func() string) Option {
	return func(r *REPL) { r.prompt = fn }
}

// WithCompleter sets the completion source.
func WithCompleter(c *Completer) Option {
	return func(r *REPL) { r.completer = c }
}

// WithHistory sets the history store.
func WithHistory(h *History) Option {
	return func(r *REPL) { r.history = h }
}

// WithLogger sets the logger for the config watcher.
func WithLogger(l *slog.Logger) Option {
	return func(r *REPL) { r.logger = l }
}

// WithConfigReload calls fn whenever the file at path changes while the
// shell runs.
func WithConfigReload(path string, fn func()) Option {
	return func(r *REPL) {
		r.watchPath = path
		r.onReload = fn
	}
}

// New creates a REPL that hands each line to exec.
func New(exec Executor, opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		exec:      exec,
		prompt:    func() string { return "pocket> " },
		completer: NewCompleter(),
		history:   NewHistory("", 0),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads lines until EOF, exit or quit, or until ctx is done. Command
// errors are printed and the loop continues.
func (r *REPL) Run(ctx context.Context) error {
	if err := r.history.Load(); err != nil {
		r.logger.Warn("load history failed", "error", err)
	}
	defer func() {
		if err := r.history.Save(); err != nil {
			r.logger.Warn("save history failed", "error", err)
		}
	}()

	if r.watchPath != "" && r.onReload != nil {
		stop := r.watchConfig()
		defer stop()
	}

	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		reader := bufio.NewReader(r.input)
		for {
			line, err := reader.ReadString('\n')
			if line != "" || err == nil {
				select {
				case lines <- line:
				case <-done:
					return
				}
			}
			if err != nil {
				readErr <- err
				return
			}
		}
	}()

	for {
		r.print(r.prompt())

		var line string
		select {
		case <-ctx.Done():
			r.print("\n")
			return nil
		case err := <-readErr:
			r.print("\n")
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		case line = <-lines:
		}

		if done := r.handle(ctx, strings.TrimSpace(line)); done {
			return nil
		}
	}
}

// handle processes one trimmed line and reports whether the shell should
// exit.
func (r *REPL) handle(ctx context.Context, line string) bool {
	if line == "" {
		return false
	}

	if prefix, ok := strings.CutSuffix(line, "?"); ok {
		for _, s := range r.completer.Complete(prefix) {
			r.print("  " + s + "\n")
		}
		return false
	}

	r.history.Add(line)

	switch line {
	case "exit", "quit":
		return true
	case "history":
		for i, entry := range r.history.Entries() {
			r.print(fmt.Sprintf("%4d  %s\n", i+1, entry))
		}
		return false
	}

	args, err := Split(line)
	if err != nil {
		r.print(fmt.Sprintf("error: %v\n", err))
		return false
	}
	if err := r.exec(ctx, args); err != nil {
		r.print(fmt.Sprintf("error: %v\n", err))
	}
	return false
}

// Notify prints a message on its own line. It is safe to call from other
// goroutines while the shell waits for input.
func (r *REPL) Notify(msg string) {
	r.print("\n" + msg + "\n")
}

func (r *REPL) print(s string) {
	r.outMu.Lock()
	defer r.outMu.Unlock()
	fmt.Fprint(r.output, s)
}

func (r *REPL) watchConfig() (stop func()) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(r.logger))
	if err != nil {
		r.logger.Warn("config watcher unavailable", "error", err)
		return func() {}
	}
	if err := w.Watch(r.watchPath); err != nil {
		_ = w.Stop()
		return func() {}
	}
	w.OnChange(func(string) { r.onReload() })
	w.StartAsync()
	return func() { _ = w.Stop() }
}
