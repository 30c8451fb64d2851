package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/techadmin009/resumegenie/core/logger"
)

type status struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Port    int    `json:"port"`
}

// Server exposes a liveness endpoint next to the bot runtime.
type Server struct {
	listen string
	port   int
}

// New constructs the health Server. An empty listen address binds all interfaces.
func New(listen string, port int) *Server {
	return &Server{listen: listen, port: port}
}

// Run serves until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Get("/", s.handleRoot)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.listen, s.port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.HTTP.Info("health endpoint up",
		slog.String("event", "listen"),
		slog.String("listen", s.listen),
		slog.Int("port", s.port),
	)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("health shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("health serve: %w", err)
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(status{
		Status:  "ok",
		Message: "ResumeGenie bot is running",
		Port:    s.port,
	})
}
