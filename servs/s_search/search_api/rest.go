package search_api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rskv-p/searchlab/pkg/x_log"
	"github.com/rskv-p/searchlab/servs/s_search/search_cfg"
	"github.com/rskv-p/searchlab/servs/s_search/search_serv"
	"golang.org/x/time/rate"
)

// NewRouter wires every route. j and hub may be nil; history, login and
// websocket routes then answer 503.
func NewRouter(cfg search_cfg.Config, svc *search_serv.Service, j *search_serv.Journal, hub *Hub) http.Handler {
	auth := NewAuth(cfg.Auth, j)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(corsHandler(cfg.CORSOrigins))
	if cfg.RateLimit.RPS > 0 {
		r.Use(rateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)))
	}

	// Public endpoints
	r.Get("/health", handleHealth(hub))
	r.Post("/auth/login", auth.HandleLogin())
	r.Get("/history", handleHistory(j))
	r.Get("/stats", handleStats(svc))

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(""))
		r.Post("/stats/reset", handleResetStats(svc))
		r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			if hub == nil {
				writeError(w, http.StatusServiceUnavailable, errors.New("websocket disabled"))
				return
			}
			hub.HandleWS(w, r)
		})
	})

	for _, kind := range search_serv.Kinds {
		r.Route("/"+string(kind), func(r chi.Router) {
			r.Get("/state", handleState(svc, kind))
			r.Get("/search/{value}", handleSearch(svc, kind))
			if kind.IsTree() {
				r.Get("/nodes", handleNodes(svc, kind))
			}

			// Mutating endpoints
			r.Group(func(r chi.Router) {
				r.Use(auth.Middleware(""))
				r.Post("/create", handleCreate(svc, kind))
				r.Post("/insert", handleInsert(svc, kind))
				r.Delete("/delete/{value}", handleDelete(svc, kind))
				r.Post("/sort", handleSort(svc, kind))
				if kind == search_serv.KindHash {
					r.Post("/set-hash", handleSetHash(svc))
					r.Post("/set-collision", handleSetCollision(svc))
				}
			})
		})
	}
	return r
}

// Serve runs h on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		x_log.Info().Str("addr", addr).Msg("REST API listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

//---------------------
// Middleware
//---------------------

func requestLogger(next http.Handler) http.Handler {
	log := x_log.New("http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("took", time.Since(start)).
			Str("req_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

func rateLimit(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				writeError(w, http.StatusTooManyRequests, errors.New("rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
