// Command battlecore-serve is a demo websocket server: each connection
// drives one battle between two auto-piloted demodata.Store teams and
// streams the public battle log as JSON envelopes, the way the teacher's
// cmd/server wires its own hub behind a gorilla/websocket handler. It
// exists to exercise internal/ws end to end, not as a production game
// server — spec §5 keeps network transport and matchmaking out of the
// engine core by design.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/embercore/battlecore/internal/demodata"
	"github.com/embercore/battlecore/internal/diagnostics"
	"github.com/embercore/battlecore/internal/diagnostics/sinks"
	"github.com/embercore/battlecore/internal/registry"
	"github.com/embercore/battlecore/internal/ws"
)

func main() {
	var addr string
	flag.StringVar(&addr, "addr", ":8080", "address to listen on")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	if err := run(addr, logger); err != nil {
		logger.Fatalf("battlecore-serve: %v", err)
	}
}

func run(addr string, logger *log.Logger) error {
	ctx := context.Background()

	router, err := diagnostics.NewRouter(diagnostics.DefaultConfig(), diagnostics.SystemClock{}, logger,
		map[string]diagnostics.Sink{"console": sinks.NewConsoleSink(os.Stdout, diagnostics.ConsoleConfig{})})
	if err != nil {
		return fmt.Errorf("construct diagnostics router: %w", err)
	}
	defer func() {
		if cerr := router.Close(ctx); cerr != nil {
			logger.Printf("battlecore-serve: failed to close diagnostics router: %v", cerr)
		}
	}()
	router.Publish(ctx, diagnostics.Event{
		Type:     diagnostics.EventServerStart,
		Category: diagnostics.CategoryTransport,
		Severity: diagnostics.SeverityInfo,
	})

	handler := ws.NewHandler(ws.HandlerConfig{
		Logger:   logger,
		Store:    demodata.New(),
		Registry: registry.New(),
		Defaults: demodata.DefaultOptions(),
		Diag:     router,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/battle", handler.Handle)

	srv := &http.Server{Addr: addr, Handler: mux}
	logger.Printf("battlecore-serve listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
