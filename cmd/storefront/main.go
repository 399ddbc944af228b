// cmd/storefront/main.go
package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"storefront/internal/adapters/in/http/middleware"
	shared "storefront/internal/platform/di/shared"
	storeDI "storefront/internal/platform/di/store"
)

// swapHandler serves whatever handler was stored last.
type swapHandler struct {
	cur atomic.Pointer[http.Handler]
}

func newSwapHandler(h http.Handler) *swapHandler {
	s := &swapHandler{}
	s.Set(h)
	return s
}

func (s *swapHandler) Set(h http.Handler) {
	if h == nil {
		h = http.NotFoundHandler()
	}
	s.cur.Store(&h)
}

func (s *swapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	(*s.cur.Load()).ServeHTTP(w, r)
}

// app owns what the background boot creates so shutdown can release it.
type app struct {
	infra    atomic.Pointer[shared.Infra]
	cont     atomic.Pointer[storeDI.Container]
	stopping atomic.Bool
}

// release flushes sessions first, then closes the clients they write to.
func (a *app) release() {
	if cont := a.cont.Swap(nil); cont != nil {
		log.Printf("[boot] flushing sessions")
		if err := cont.Close(); err != nil {
			log.Printf("[boot] container close: %v", err)
		}
	}
	if infra := a.infra.Swap(nil); infra != nil {
		log.Printf("[boot] closing infra")
		if err := infra.Close(); err != nil {
			log.Printf("[boot] infra close: %v", err)
		}
	}
}

// boot builds infra and the container, then switches sw to the storefront router.
func (a *app) boot(ctx context.Context, sw *swapHandler) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	infra, err := shared.NewInfra(ctx)
	if err != nil {
		log.Printf("[boot] WARN: infra init failed: %v (healthz only)", err)
		return
	}
	a.infra.Store(infra)

	cont, err := storeDI.NewContainer(ctx, infra)
	if err != nil {
		log.Printf("[boot] WARN: container init failed: %v (healthz only)", err)
		a.release()
		return
	}
	a.cont.Store(cont)

	if a.stopping.Load() {
		a.release()
		return
	}

	sw.Set(storeDI.Handler(cont))
	log.Printf("[boot] storefront router is live")
}

func setupLogOutput() {
	logPath := "storefront.log"
	if _, onCloudRun := os.LookupEnv("K_SERVICE"); onCloudRun {
		logPath = "/tmp/storefront.log"
	}

	f, err := os.OpenFile(logPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		log.Printf("[boot] WARN: log file %s unavailable: %v (stdout only)", logPath, err)
		return
	}
	log.SetOutput(io.MultiWriter(os.Stdout, f))
	log.Printf("[boot] logging to stdout and %s", logPath)
}

func main() {
	setupLogOutput()

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	// Cloud Run probes the port before DI finishes; answer /healthz right away.
	bootMux := http.NewServeMux()
	bootMux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	sw := newSwapHandler(middleware.CORS(os.Getenv("CORS_ALLOWED_ORIGIN"))(bootMux))

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           sw,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a := &app{}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("[boot] storefront listening on :%s", port)
		serveErr <- srv.ListenAndServe()
	}()

	go a.boot(context.Background(), sw)

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-sigCtx.Done():
		log.Printf("[boot] signal received, shutting down")
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[boot] server error: %v", err)
		}
	}
	a.stopping.Store(true)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[boot] server shutdown: %v", err)
	}

	a.release()
	log.Printf("[boot] stopped")
}
