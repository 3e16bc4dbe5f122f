package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tair/parfum-storefront/internal/cart"
	cartrepo "github.com/tair/parfum-storefront/internal/cart/repository"
	"github.com/tair/parfum-storefront/internal/catalog"
	catalogclient "github.com/tair/parfum-storefront/internal/catalog/client"
	"github.com/tair/parfum-storefront/internal/catalog/usecase/query"
	"github.com/tair/parfum-storefront/internal/config"
	"github.com/tair/parfum-storefront/internal/search"
	"github.com/tair/parfum-storefront/pkg/api"
	"github.com/tair/parfum-storefront/pkg/auth"
	"github.com/tair/parfum-storefront/pkg/logger"
	"github.com/tair/parfum-storefront/pkg/storage"
	"github.com/tair/parfum-storefront/pkg/tracing"
)

const serviceName = "storefront"

// Persisted slot keys.
const (
	slotCartState     = "cart-state"
	slotSearchHistory = "search-history"
	slotAuthSession   = "auth-session"
)

func main() {
	// .env is optional; real deployments configure the environment.
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(serviceName, cfg.LogLevel, cfg.Development)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing is best-effort: a storefront session must work with the
	// collector down.
	tp, err := tracing.InitTracer(serviceName, cfg.JaegerEndpoint)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Tracing disabled")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tracing.Shutdown(shutdownCtx, tp)
		}()
	}

	store, closeStore, err := openStateStore(ctx, cfg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to open state store")
	}
	defer closeStore()

	sessions := auth.NewSessionStore(storage.NewSlot(store, slotAuthSession))
	apiClient := api.New(cfg.APIBaseURL, cfg.TenantID, sessions)

	cartStore := cart.New(ctx, cartrepo.NewSnapshotStore(storage.NewSlot(store, slotCartState)))
	products := catalogclient.NewProductClient(apiClient)
	listProducts := query.NewListProductsHandler(products, catalog.StaticCatalog)

	history := search.NewHistory(ctx, storage.NewSlot(store, slotSearchHistory))
	searchSession := search.NewSession(listProducts, history, catalog.StaticCategories)
	defer searchSession.Close()

	go startMetricsServer(cfg.MetricsPort)

	logger.Logger.Info().
		Str("api", cfg.APIBaseURL).
		Str("storage", cfg.StorageBackend).
		Msg("Storefront client ready")

	repl := &repl{
		cart:     cartStore,
		products: products,
		list:     listProducts,
		search:   searchSession,
		sessions: sessions,
		api:      apiClient,
	}
	repl.run(ctx)
}

func openStateStore(ctx context.Context, cfg *config.Config) (storage.Store, func(), error) {
	if cfg.StorageBackend == config.StorageRedis {
		store, err := storage.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, serviceName)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}

	store, err := storage.NewFileStore(cfg.StateDir)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
}

func startMetricsServer(port string) {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok", "service": serviceName})
	})

	logger.Logger.Info().Str("port", port).Msg("Metrics server starting")
	if err := http.ListenAndServe(":"+port, router); err != nil {
		logger.Logger.Warn().Err(err).Msg("Metrics server stopped")
	}
}
