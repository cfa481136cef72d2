package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	auth "github.com/Lancesatorre/Movie-Booking-System-sub001/auth/controller"
	"github.com/Lancesatorre/Movie-Booking-System-sub001/config"
)

func main() {
	logger := log.New(os.Stderr, "", log.LstdFlags)

	cfg, err := config.Load(logger)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := NewApp(cfg, logger)
	go app.Sessions.Run(ctx, time.Minute)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           RegisterRoutes(app),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Printf("server listening on %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Printf("Server not started: %v", err)
	}
}

func NewApp(cfg config.Config, logger *log.Logger) *auth.App {
	app := &auth.App{
		Checker:         auth.NewChecker(),
		Submitter:       auth.SimulatedSubmitter{Delay: cfg.SubmitDelay},
		DemoEmail:       cfg.DemoEmail,
		HomePath:        cfg.HomePath,
		TransitionDelay: cfg.TransitionDelay,
		Logger:          logger,
	}
	app.Sessions = auth.NewSessions(cfg.SessionCookie, cfg.SessionTTL, app.NewView, logger)
	return app
}

func RegisterRoutes(app *auth.App) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		auth.Landing(app, w, r)
	}).Methods("GET")

	r.HandleFunc("/auth", func(w http.ResponseWriter, r *http.Request) {
		auth.Page(app, w, r)
	}).Methods("GET")

	r.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		auth.Login(app, w, r)
	}).Methods("POST")

	r.HandleFunc("/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		auth.Signup(app, w, r)
	}).Methods("POST")

	r.HandleFunc("/auth/mode/{mode}", func(w http.ResponseWriter, r *http.Request) {
		auth.SwitchMode(app, w, r)
	}).Methods("POST")

	r.HandleFunc("/auth/leave", func(w http.ResponseWriter, r *http.Request) {
		auth.Leave(app, w, r)
	}).Methods("POST")

	r.HandleFunc(app.HomePath, func(w http.ResponseWriter, r *http.Request) {
		auth.Home(app, w, r)
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		auth.APILogin(app, w, r)
	}).Methods("POST")
	api.HandleFunc("/signup", func(w http.ResponseWriter, r *http.Request) {
		auth.APISignup(app, w, r)
	}).Methods("POST")

	r.HandleFunc("/healthz", auth.Health).Methods("GET")
	return r
}
