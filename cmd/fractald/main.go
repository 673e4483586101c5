// Command fractald serves fractal renders over HTTP and websockets.
//
// Usage:
//
//	fractald [-addr :8080] [-strategy bandpool] [-workers 0]
//
// Try it:
//
//	curl -o m.png 'http://localhost:8080/render?fractal=burningship&palette=fire'
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/server"
)

func main() {
	var (
		addr      = flag.String("addr", ":8080", "listen address")
		strategy  = flag.String("strategy", "bandpool", "computation strategy: sequential, bandpool, forkjoin")
		workers   = flag.Int("workers", 0, "worker count (0 = GOMAXPROCS)")
		maxPixels = flag.Int("max-pixels", server.DefaultMaxPixels, "largest render in pixels")
		origins   = flag.String("origins", "", "comma separated websocket origin patterns")
		drain     = flag.Duration("drain", 10*time.Second, "shutdown drain timeout")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	fractal.SetLogger(logger)

	if err := run(logger, *addr, *strategy, *workers, *maxPixels, *origins, *drain); err != nil {
		logger.Error("fractald", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, addr, strategy string, workers, maxPixels int, origins string, drain time.Duration) error {
	kind, err := fractal.ParseStrategy(strategy)
	if err != nil {
		return err
	}
	s := fractal.NewStrategy(kind,
		fractal.WithWorkers(workers),
		fractal.WithCloseTimeout(drain))

	var patterns []string
	if origins != "" {
		patterns = strings.Split(origins, ",")
	}
	srv := &http.Server{
		Addr: addr,
		Handler: server.New(s,
			server.WithMaxPixels(maxPixels),
			server.WithOriginPatterns(patterns...),
			server.WithLogger(logger)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "strategy", kind)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		_ = s.Close()
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()
	serr := srv.Shutdown(sctx)
	if err := s.Close(); err != nil && !errors.Is(err, fractal.ErrCloseTimeout) {
		return err
	}
	if errors.Is(serr, http.ErrServerClosed) {
		serr = nil
	}
	return serr
}
