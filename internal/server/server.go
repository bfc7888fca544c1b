package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"aimtrainer/internal/config"
	"aimtrainer/internal/db"
	"aimtrainer/internal/events"
	"aimtrainer/internal/metrics"
	"aimtrainer/internal/notify"
	"aimtrainer/internal/rooms"
)

var logger = log.WithPrefix("server")

// Run serves the HTTP API until ctx is cancelled. The database and NATS are
// optional; without them the catalog answers 503 and results stay local.
func Run(ctx context.Context) error {
	appCfg := config.Load()
	log.SetLevel(appCfg.LogLevel)

	m := metrics.New()
	bus := events.NewBus()
	roomStore := rooms.NewStore(ctx, rooms.Config{
		Options:        appCfg.SessionDefaults(),
		FrameHz:        appCfg.FrameHz,
		BroadcastEvery: appCfg.BroadcastEvery,
		Width:          appCfg.SurfaceWidth,
		Height:         appCfg.SurfaceHeight,
		Bus:            bus,
		Metrics:        m,
	})
	defer roomStore.Close()

	srv := &Server{
		Rooms:   roomStore,
		Metrics: m,
	}

	if appCfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, appCfg.DatabaseURL)
		if err != nil {
			logger.Error("database unavailable, running without catalog", "err", err)
		} else {
			defer database.Close()
			if err := database.Migrate(ctx); err != nil {
				logger.Error("migration failed", "err", err)
			}
			srv.Catalog = database
			logger.Info("database connected and migrations applied")
		}
	} else {
		logger.Info("DATABASE_URL not set, running without catalog")
	}

	var pub notify.Publisher
	if appCfg.NATSURL != "" {
		js, err := notify.Connect(ctx, appCfg.NATSURL)
		if err != nil {
			logger.Error("nats unavailable, results stay local", "err", err)
		} else {
			defer js.Close()
			pub = js
			srv.Results = js
			logger.Info("publishing results to jetstream", "stream", notify.StreamName)
		}
	}
	// registered after js.Close, so it runs first: the final flush must
	// finish before the connection drains
	forwardCtx, stopForward := context.WithCancel(ctx)
	forwardDone := make(chan struct{})
	go func() {
		defer close(forwardDone)
		notify.Forward(forwardCtx, bus, pub, m)
	}()
	defer func() {
		stopForward()
		<-forwardDone
	}()

	httpSrv := &http.Server{
		Addr:              "0.0.0.0:" + appCfg.Port,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "url", fmt.Sprintf("http://localhost:%s", appCfg.Port))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// Routes builds the API mux.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("GET /sessions", s.handleListSessions)
	mux.HandleFunc("GET /sessions/{code}", s.handleGetSession)
	mux.HandleFunc("DELETE /sessions/{code}", s.handleDeleteSession)
	mux.HandleFunc("POST /sessions/{code}/start", s.handleStart)
	mux.HandleFunc("POST /sessions/{code}/click", s.handleClick)
	mux.HandleFunc("POST /sessions/{code}/resize", s.handleResize)
	mux.HandleFunc("GET /sessions/{code}/options", s.handleGetOptions)
	mux.HandleFunc("PUT /sessions/{code}/options", s.handlePutOptions)
	mux.HandleFunc("GET /sessions/{code}/events", s.handleEvents)
	mux.HandleFunc("GET /sessions/{code}/ws", s.handleWS)
	mux.HandleFunc("GET /scenarios/generate", s.handleGenerateScenarios)
	mux.HandleFunc("GET /scenarios", s.handleListScenarios)
	mux.HandleFunc("POST /scenarios", s.handleSaveScenario)
	mux.HandleFunc("GET /scenarios/{id}", s.handleGetScenario)
	mux.HandleFunc("DELETE /scenarios/{id}", s.handleDeleteScenario)
	mux.HandleFunc("GET /results/{code}", s.handleLatestResult)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.Metrics.Handler())
	return mux
}
