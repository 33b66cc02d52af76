package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/limbo/streaks/internal/metrics"
	"github.com/limbo/streaks/internal/service"
	"github.com/limbo/streaks/pkg/httputil"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	mx            *chi.Mux
	userService   service.UserServiceI
	habitsService service.HabitsServiceI
	checksService service.HabitChecksServiceI
	jwtService    JWTServiceI
}

type ServicesList struct {
	UserService        service.UserServiceI
	HabitsService      service.HabitsServiceI
	HabitChecksService service.HabitChecksServiceI
	JwtService         JWTServiceI
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:            chi.NewMux(),
		userService:   servicesOptions.UserService,
		habitsService: servicesOptions.HabitsService,
		checksService: servicesOptions.HabitChecksService,
		jwtService:    servicesOptions.JwtService,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware, metrics.Middleware)

	s.mx.Get("/healthz", s.Health)
	s.mx.Method(http.MethodGet, "/metrics", metrics.Handler())

	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)

		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)

			r.Delete("/auth/account", s.DeleteAccount)

			r.Get("/habits", s.GetHabits)
			r.Post("/habits", s.CreateHabit)
			r.Get("/habits/{id}", s.GetHabit)
			r.Patch("/habits/{id}", s.UpdateHabit)
			r.Delete("/habits/{id}", s.DeleteHabit)
			r.Post("/habits/{id}/check-in", s.CheckIn)
			r.Get("/habits/{id}/records", s.GetRecords)

			r.Get("/stats", s.GetStats)
		})
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mx.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started", slog.String("address", addr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"status": "ok"})
}
