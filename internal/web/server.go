package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/emiliopalmerini/mhabit/internal/domain"
	"github.com/emiliopalmerini/mhabit/internal/habits"
	"github.com/emiliopalmerini/mhabit/internal/logger"
)

// HabitService is the set of habit operations exposed over HTTP.
type HabitService interface {
	List(ctx context.Context) []domain.Habit
	Create(ctx context.Context, name, description string) (domain.Habit, error)
	Toggle(ctx context.Context, id, date string) (habits.ToggleResult, error)
	Update(ctx context.Context, id string, u domain.HabitUpdate) (domain.Habit, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) domain.StatsSummary
	Insights(ctx context.Context) (*domain.InsightReport, error)
	Goals(ctx context.Context) domain.GoalReport
}

type Server struct {
	habits          HabitService
	router          chi.Router
	port            int
	shutdownTimeout time.Duration
}

func NewServer(svc HabitService, port int) *Server {
	s := &Server{
		habits:          svc,
		router:          chi.NewRouter(),
		port:            port,
		shutdownTimeout: 5 * time.Second,
	}
	s.setupRoutes()
	return s
}

// WithShutdownTimeout bounds how long Start waits for in-flight requests.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	if d > 0 {
		s.shutdownTimeout = d
	}
	return s
}

func (s *Server) setupRoutes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/habits", s.handleListHabits)
		r.Post("/habits", s.handleCreateHabit)
		r.Get("/habits/stats", s.handleHabitStats)
		r.Post("/habits/{id}/toggle", s.handleToggleHabit)
		r.Put("/habits/{id}", s.handleUpdateHabit)
		r.Delete("/habits/{id}", s.handleDeleteHabit)

		r.Get("/insights", s.handleInsights)
		r.Get("/goals", s.handleGoals)
	})
}

// ServeHTTP lets the server be mounted or exercised directly in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("starting server", "addr", fmt.Sprintf("http://localhost:%d", s.port))
	fmt.Printf("Starting server at http://localhost:%d\n", s.port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
	}()

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
