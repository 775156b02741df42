package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/kevin07696/gym-admin/internal/adapters/ezypay"
	"github.com/kevin07696/gym-admin/internal/adapters/ports"
	"github.com/kevin07696/gym-admin/internal/config"
	invoiceHandler "github.com/kevin07696/gym-admin/internal/handlers/invoice"
	memberHandler "github.com/kevin07696/gym-admin/internal/handlers/member"
	paymentHandler "github.com/kevin07696/gym-admin/internal/handlers/payment"
	"github.com/kevin07696/gym-admin/internal/handlers/respond"
	settingsHandler "github.com/kevin07696/gym-admin/internal/handlers/settings"
	settlementHandler "github.com/kevin07696/gym-admin/internal/handlers/settlement"
	internalmw "github.com/kevin07696/gym-admin/internal/middleware"
	"github.com/kevin07696/gym-admin/internal/services/apilog"
	"github.com/kevin07696/gym-admin/internal/services/branch"
	customerService "github.com/kevin07696/gym-admin/internal/services/customer"
	invoiceService "github.com/kevin07696/gym-admin/internal/services/invoice"
	settlementService "github.com/kevin07696/gym-admin/internal/services/settlement"
	pkghttp "github.com/kevin07696/gym-admin/pkg/http"
	"github.com/kevin07696/gym-admin/pkg/middleware"
	"github.com/kevin07696/gym-admin/pkg/observability"
	"github.com/kevin07696/gym-admin/pkg/security"
	"github.com/kevin07696/gym-admin/pkg/shutdown"
)

const version = "0.1.0"

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := security.BuildZap(cfg.Logger.Level, cfg.Logger.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting gym admin service",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.String("provider", cfg.Provider.APIEndpoint),
		zap.String("credentials_source", cfg.Credentials.Source),
		zap.String("store_backend", cfg.Store.Backend),
		zap.Int("branches", len(cfg.Branches.List)),
	)

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	deps, err := initDependencies(startupCtx, cfg, logger)
	cancel()
	if err != nil {
		logger.Fatal("Failed to initialize dependencies", zap.Error(err))
	}

	mux := http.NewServeMux()
	deps.registerRoutes(mux)

	rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", respond.BranchHeader},
		MaxAge:         300,
	})

	// Timeout is outermost: it is the only layer that replaces the request, so every
	// inner layer sees the route pattern the mux records.
	requestTimeout := cfg.Provider.Timeout*2 + cfg.Provider.TerminalWait
	var handler http.Handler = mux
	handler = middleware.Gzip(handler)
	handler = rateLimiter.Middleware(handler)
	handler = internalmw.NewSecurityHeaders(cfg.Logger.Development).Middleware(handler)
	handler = corsHandler.Handler(handler)
	handler = observability.HTTPMiddleware(handler)
	handler = internalmw.RequestLogging(logger)(handler)
	handler = middleware.Timeout(requestTimeout)(handler)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Terminal invoices hold the request open for the configured wait
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	healthChecker := observability.NewHealthChecker()
	healthChecker.Register("flat_store", func(ctx context.Context) error {
		_, err := deps.flatStore.Read(ctx)
		return err
	})
	healthChecker.Register("branches", func(ctx context.Context) error {
		_, err := deps.resolver.Resolve("")
		return err
	})
	metricsServer := observability.NewMetricsServer(fmt.Sprintf(":%d", cfg.Server.MetricsPort), healthChecker, logger)
	metricsServer.Start()

	// Stops run last-registered first: HTTP drains before the log is flushed
	sm := shutdown.NewManager(logger, cfg.Server.ShutdownTimeout)
	if cfg.Store.PersistAPILog {
		sm.Register("api-log-persist", func(ctx context.Context) error {
			return deps.callLog.Persist(ctx, deps.flatStore)
		})

		flusher := shutdown.NewPeriodicWorker("api-log-flush", cfg.Store.FlushInterval, logger)
		flusher.Start(func(ctx context.Context) {
			if err := deps.callLog.Persist(ctx, deps.flatStore); err != nil {
				logger.Warn("Failed to flush API log", zap.Error(err))
			}
		})
		sm.Register("api-log-flush", flusher.Shutdown)
	}
	sm.RegisterNoErr("rate-limiter", rateLimiter.Shutdown)
	sm.RegisterHTTPServer("metrics-server", metricsServer)
	sm.RegisterHTTPServer("http-server", httpServer)
	sm.RegisterNoErr("readiness", metricsServer.Drain)

	go func() {
		logger.Info("HTTP server listening",
			zap.String("address", httpServer.Addr),
			zap.Int("metrics_port", cfg.Server.MetricsPort),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to serve HTTP", zap.Error(err))
		}
	}()
	metricsServer.MarkReady()

	sm.WaitForShutdown(context.Background())
}

// Dependencies holds the wired services and handlers
type Dependencies struct {
	flatStore ports.FlatStore
	resolver  *branch.Resolver
	callLog   *apilog.Logger

	paymentHandler    *paymentHandler.Handler
	memberHandler     *memberHandler.Handler
	invoiceHandler    *invoiceHandler.Handler
	settlementHandler *settlementHandler.Handler
	settingsHandler   *settingsHandler.Handler
}

func (d *Dependencies) registerRoutes(mux *http.ServeMux) {
	d.paymentHandler.RegisterRoutes(mux)
	d.memberHandler.RegisterRoutes(mux)
	d.invoiceHandler.RegisterRoutes(mux)
	d.settlementHandler.RegisterRoutes(mux)
	d.settingsHandler.RegisterRoutes(mux)
}

// initDependencies initializes all services and handlers with dependency injection
func initDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	loggerAdapter := security.NewZapLogger(logger)

	vault, err := initCredentialVault(ctx, cfg.Credentials, logger)
	if err != nil {
		return nil, fmt.Errorf("init credential vault: %w", err)
	}

	creds, err := branch.Load(ctx, cfg.BranchSources(), vault, logger)
	if err != nil {
		return nil, fmt.Errorf("load branch credentials: %w", err)
	}
	resolver, err := branch.NewResolver(cfg.Branches.Default, creds)
	if err != nil {
		return nil, fmt.Errorf("build branch resolver: %w", err)
	}

	flatStore, err := initFlatStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, fmt.Errorf("init flat store: %w", err)
	}
	selection := branch.NewSelection(resolver, flatStore, loggerAdapter)

	callLog := apilog.New(apilog.DefaultCapacity)
	var persistLogs func(context.Context) error
	if cfg.Store.PersistAPILog {
		if err := callLog.Restore(ctx, flatStore); err != nil {
			logger.Warn("Could not restore API log, starting empty", zap.Error(err))
		} else {
			logger.Info("Restored API log", zap.Int("entries", callLog.Len()))
		}
		persistLogs = func(ctx context.Context) error {
			return callLog.Persist(ctx, flatStore)
		}
	}

	// Ezypay adapters share one client: token, merchant header and error mapping
	ezCfg := ezypay.DefaultConfig()
	ezCfg.BaseURL = cfg.Provider.APIEndpoint
	ezCfg.IdentityURL = cfg.Provider.IdentityURL
	ezCfg.Scope = cfg.Provider.Scope
	ezCfg.Timeout = cfg.Provider.Timeout

	httpClient := pkghttp.NewHTTPClient(pkghttp.ProviderClientConfig("gym-admin/"+version, cfg.Provider.RequestsPerSecond), cfg.Provider.Timeout)
	tokens := ezypay.NewTokenProvider(ezCfg, httpClient, resolver, loggerAdapter)
	client := ezypay.NewClient(ezCfg, httpClient, tokens, resolver, callLog, loggerAdapter)

	customers := ezypay.NewCustomerAdapter(client)
	invoices := ezypay.NewInvoiceAdapter(client)
	settlements := ezypay.NewSettlementAdapter(client)

	customerSvc := customerService.NewService(customers, loggerAdapter)
	invoiceSvc := invoiceService.NewService(invoices, cfg.Provider.TerminalWait, loggerAdapter)
	settlementSvc := settlementService.NewService(settlements, loggerAdapter)

	logger.Info("Dependencies initialized",
		zap.String("default_branch", resolver.Default()),
		zap.Bool("api_log_persist", cfg.Store.PersistAPILog),
	)

	return &Dependencies{
		flatStore: flatStore,
		resolver:  resolver,
		callLog:   callLog,

		paymentHandler:    paymentHandler.NewHandler(tokens, customers, invoices, selection, logger),
		memberHandler:     memberHandler.NewHandler(customerSvc, selection, logger),
		invoiceHandler:    invoiceHandler.NewHandler(invoiceSvc, selection, logger),
		settlementHandler: settlementHandler.NewHandler(settlementSvc, selection, logger),
		settingsHandler:   settingsHandler.NewHandler(selection, callLog, persistLogs, cfg.Provider.PaymentPageEndpoint, logger),
	}, nil
}
