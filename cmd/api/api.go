package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"expvar"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"paynow/internal/ledger"
	"paynow/internal/paynow"
	"paynow/internal/ratelimiter"
)

type application struct {
	config      config
	logger      *zap.SugaredLogger
	paynow      *paynow.Client
	ledger      ledgerStore
	rateLimiter ratelimiter.Limiter
}

// ledgerStore is the slice of the ledger repository the handlers need.
type ledgerStore interface {
	Create(ctx context.Context, t *ledger.Transaction) error
	RecordUpdate(ctx context.Context, u *paynow.Update) error
	GetByReference(ctx context.Context, reference string) (*ledger.Transaction, error)
	List(ctx context.Context, limit int) ([]*ledger.Transaction, error)
}

type config struct {
	addr        string
	env         string
	apiURL      string
	db          dbConfig
	auth        basicConfig
	ratelimiter ratelimiter.Config
}

type basicConfig struct {
	user string
	pass string
}

type dbConfig struct {
	addr        string
	maxConns    int
	maxIdleTime string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(app.RateLimiterMiddleware)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		// Paynow posts status updates here (the result URL)
		r.Post("/paynow/result", app.paynowResultHandler)

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", app.createPaymentHandler)
			r.Post("/express", app.createExpressPaymentHandler)
			r.Post("/poll", app.pollPaymentHandler)
			r.Post("/trace", app.tracePaymentHandler)
			r.Get("/", app.listPaymentsHandler)
			r.Get("/{reference}", app.getPaymentHandler)
		})
	})
	return r
}

func (app *application) BasicAuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			userOK := subtle.ConstantTimeCompare([]byte(user), []byte(app.config.auth.user)) == 1
			passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(app.config.auth.pass)) == 1
			if !ok || !userOK || !passOK {
				w.Header().Set("WWW-Authenticate", `Basic realm="restricted"`)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (app *application) run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
