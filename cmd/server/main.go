package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/moneymaster-backend/internal/adapter/grpc"
	"github.com/simaogato/moneymaster-backend/internal/adapter/repository/jsonfile"
	"github.com/simaogato/moneymaster-backend/internal/adapter/repository/memory"
	"github.com/simaogato/moneymaster-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/moneymaster-backend/internal/adapter/repository/sqlite"
	"github.com/simaogato/moneymaster-backend/internal/config"
	"github.com/simaogato/moneymaster-backend/internal/domain"
	"github.com/simaogato/moneymaster-backend/internal/log"
	"github.com/simaogato/moneymaster-backend/internal/records"
	"github.com/simaogato/moneymaster-backend/internal/usecase/budget"
	"github.com/simaogato/moneymaster-backend/internal/usecase/dashboard"
	"github.com/simaogato/moneymaster-backend/internal/usecase/insight"
	"github.com/simaogato/moneymaster-backend/internal/usecase/ledger"
	"github.com/simaogato/moneymaster-backend/internal/usecase/query"
	"github.com/simaogato/moneymaster-backend/internal/usecase/seeder"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config", "", "path to an external config file (optional)")
	flag.StringVar(&configFile, "c", "", "path to an external config file (shorthand)")
	flag.Parse()

	if err := run(configFile); err != nil {
		fmt.Fprintf(os.Stderr, "moneymaster: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	// 1. Load configuration and set up logging
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.Log.Level),
		Format:    cfg.Log.Format,
		Component: log.ComponentApp,
		Output:    os.Stdout,
	})
	log.SetDefault(logger)

	// 2. Open the record store
	backend, closeStore, err := openStore(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.Storage.Backend, err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("failed to close store", log.FieldError, err)
		}
	}()
	logger.Info("record store opened", log.FieldBackend, cfg.Storage.Backend)

	store := records.New(backend, logger)

	// 3. Seed default data
	ctx := context.Background()
	if cfg.Ledger.SeedOnStart {
		if err := seeder.NewDefaultSeeder(store, logger).Seed(ctx); err != nil {
			return fmt.Errorf("failed to seed default data: %w", err)
		}
	}

	// 4. Initialize Services (Use Cases)
	ledgerService := ledger.NewLedgerService(store, logger)
	budgetService := budget.NewBudgetService(store, logger)
	queryService := query.NewQueryService(store)
	dashboardService := dashboard.NewDashboardService(queryService)
	insights := insight.NewGenerator(queryService)

	if drifts := ledgerService.Reconcile(ctx); len(drifts) > 0 {
		for _, d := range drifts {
			logger.Warn("wallet balance disagrees with its transactions",
				log.FieldWalletID, d.WalletID,
				"stored", d.Stored.String(),
				"expected", d.Expected.String())
		}
	}

	// 5. Start gRPC Server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(logger),
			grpcadapter.AuthInterceptor(cfg.Server.APIToken),
		),
	)

	grpcAdapter := grpcadapter.NewServer(ledgerService, budgetService, queryService, dashboardService, insights)
	grpcAdapter.TrendMonths = cfg.Ledger.TrendMonths
	grpcadapter.RegisterLedgerServiceServer(grpcServer, grpcAdapter)

	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.GRPCAddress, err)
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("gRPC server listening", log.FieldAddress, cfg.Server.GRPCAddress)
		serveErr <- grpcServer.Serve(lis)
	}()

	// Graceful shutdown
	return waitForShutdown(grpcServer, serveErr, logger)
}

// openStore opens the configured record store backend and returns its close function
func openStore(cfg config.StorageConfig) (domain.RecordStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendMemory:
		return memory.NewStore(), noop, nil
	case config.BackendJSONFile:
		s, err := jsonfile.Open(cfg.JSONPath)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	case config.BackendSQLite:
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendPostgres:
		s, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(grpcServer *grpclib.Server, serveErr <-chan error, logger *log.Logger) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-serveErr:
		return fmt.Errorf("failed to serve gRPC server: %w", err)
	case sig := <-sigChan:
		logger.Info("shutting down gracefully", log.FieldOperation, log.OpShutdown, "signal", sig.String())
	}

	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")
	return nil
}
