// Package server boots MarketTakip: config, store connection, snapshot
// subscriptions, the legacy migration, and the HTTP surface.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"markettakip/app/models"
	"markettakip/app/repositories"
	"markettakip/app/routes"
	"markettakip/app/services"
	"markettakip/config"
	"markettakip/pkg/live"
	"markettakip/pkg/logger"
	"markettakip/pkg/metrics"
	"markettakip/pkg/middleware"
	"markettakip/pkg/reqid"
	"markettakip/pkg/response"
	"markettakip/pkg/router"
	"markettakip/pkg/storage"
	"markettakip/pkg/store"
	"markettakip/pkg/ws"
)

const shutdownGrace = 10 * time.Second

// Start boots the application and blocks until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	m, err := store.Connect(connectCtx, config.MongoURI(), config.MongoDatabase())
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.Close(closeCtx); err != nil {
			logger.Warn("store close failed", "error", err)
		}
	}()

	if config.MongoLogHandler() {
		mh := logger.NewMongoHandler(m.Collection(store.Logs))
		defer mh.Close()
		logger.SetHandler(logger.NewMultiHandler(currentHandler(), mh))
	}

	storage.Connect()

	state := live.NewState()
	startSubscriptions(ctx, m, state)

	hub := ws.NewHub()
	go hub.Run()
	go pumpHub(state, hub)

	migration := services.NewMigrationService(
		repositories.NewProductRepository(m), config.LegacyDataPath())
	migration.Run(ctx)

	handler := BuildRouter(state, m, hub)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("markettakip listening", "port", config.AppPort(), "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// BuildRouter assembles the full HTTP handler. Separated from Start so
// handler tests can run it against the in-memory store driver.
func BuildRouter(state *live.State, driver store.Driver, hub *ws.Hub) http.Handler {
	r := router.New()

	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
	)

	r.HandleFunc("/metrics", metrics.Handler())
	r.Get("/healthz", "healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})

	routes.RegisterAPI(r, routes.Deps{State: state, Driver: driver, Hub: hub})

	return r.Handler()
}

// startSubscriptions spawns one snapshot watcher per collection. Each watcher
// feeds the live state, which fans out to SSE/WS subscribers.
func startSubscriptions(ctx context.Context, m *store.Mongo, state *live.State) {
	go store.Subscribe(ctx, m, store.Products, "createdAt", true,
		func(s []models.Product) { state.SetProducts(s) })
	go store.Subscribe(ctx, m, store.Returns, "date", true,
		func(s []models.ReturnItem) { state.SetReturns(s) })
	go store.Subscribe(ctx, m, store.SupplierPhotos, "date", true,
		func(s []models.SupplierPhoto) { state.SetPhotos(s) })
	go store.Subscribe(ctx, m, store.Suppliers, "name", false,
		func(s []models.Supplier) { state.SetSuppliers(s) })
}

// pumpHub forwards every live-state event into the WebSocket broadcast.
func pumpHub(state *live.State, hub *ws.Hub) {
	events, cancel := state.Subscribe()
	defer cancel()

	for ev := range events {
		msg, err := json.Marshal(ev)
		if err != nil {
			logger.Error("snapshot marshal failed", "collection", ev.Collection, "error", err)
			continue
		}
		hub.Broadcast <- msg
	}
}

// currentHandler exposes the active slog handler for fan-out composition.
func currentHandler() slog.Handler {
	return logger.L.Handler()
}
