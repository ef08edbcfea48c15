// Package shutdown releases resources when the process exits.
//
// Usage:
//
//	ctx, stop := shutdown.WithSignals(context.Background())
//	defer stop()
//
//	h := shutdown.NewHandler(5 * time.Second)
//	h.OnShutdown("token store", store.Close)
//	defer h.Close()
package shutdown
