package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feasibility_analysis/internal/climate"
	"feasibility_analysis/internal/config"
	"feasibility_analysis/internal/handlers"
	"feasibility_analysis/internal/metrics"
	"feasibility_analysis/internal/psychro"
	"feasibility_analysis/internal/repository"
	"feasibility_analysis/internal/repository/db"
	"feasibility_analysis/internal/server"
	"feasibility_analysis/internal/service"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the background runner",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(parent context.Context) error {
	conn, err := openDB(cfg.DB)
	if err != nil {
		return eris.Wrap(err, "init sqlite")
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			appLog.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	oracle := psychro.New()
	m := metrics.New()
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, service.Deps{
		Analysis: cfg.Analysis,
		Auth:     cfg.Auth,
		Batch:    cfg.Runner.Batch,
		Loader:   climate.NewLoader(cfg.Climate.Dir, oracle),
		Oracle:   oracle,
		Metrics:  m,
		Logger:   appLog,
	})
	apiHandler := handlers.NewHandler(services, appLog, m)

	// context for background goroutines
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	if _, err := services.Runner.Recover(ctx); err != nil {
		return eris.Wrap(err, "recover interrupted runs")
	}
	go services.Runner.Run(ctx, cfg.Runner.Tick)

	srv := &server.Server{}
	serveErr := runHTTPServer(srv, cfg.Server, apiHandler)
	appLog.Infow("server_started", "port", cfg.Server.Port, "db", cfg.DB.Path, "climate_dir", cfg.Climate.Dir)

	return waitForShutdown(cancel, srv, serveErr)
}

// openDB initializes the SQLite database using configuration.
func openDB(c config.DBConfig) (*sql.DB, error) {
	path := c.Path
	if path == "" {
		appLog.Infow("db.path not set in config; using default file", "default", "app.db")
		path = "app.db"
	}
	return db.InitDB(path)
}

// runHTTPServer runs the HTTP server in a separate goroutine. The returned
// channel yields the error that stopped it, if any.
func runHTTPServer(srv *server.Server, c config.ServerConfig, handler *handlers.Handler) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Run(c, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	return errCh
}

// waitForShutdown blocks until a termination signal or a server failure, then
// stops the runner and drains in-flight requests.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, serveErr <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		appLog.Infow("shutting down server...")
	case err, ok := <-serveErr:
		cancel()
		if ok && err != nil {
			return eris.Wrap(err, "http server")
		}
		return nil
	}

	// stop background goroutines
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		return eris.Wrap(err, "server forced to shutdown")
	}
	return nil
}
