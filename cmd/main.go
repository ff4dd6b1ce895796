package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"timetrack/internal/clock"
	"timetrack/internal/handlers"
	"timetrack/internal/logger"
	"timetrack/internal/repository"
	"timetrack/internal/repository/db"
	"timetrack/internal/server"
	"timetrack/internal/service"

	_ "timetrack/docs"

	"github.com/spf13/viper"
)

const defaultDBFile = "timetrack.db"

func main() {
	// init logger before anything can fail
	log := logger.Get(logger.InfoLevel)

	// load configs/config.yml
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	sqlDB, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(sqlDB)
	services := service.NewService(repos, clock.Real{}, signingKey())
	apiHandler := handlers.NewHandler(services, log)

	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	viper.SetEnvPrefix("timetrack")
	viper.AutomaticEnv()
	return viper.ReadInConfig()
}

// signingKey resolves the JWT signing key; TIMETRACK_AUTH_SIGNING_KEY wins
// over the config file.
func signingKey() string {
	if key := viper.GetString("auth.signing_key"); key != "" {
		return key
	}
	return "dev-only-signing-key"
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", defaultDBFile)
		dbPath = defaultDBFile
	}
	return db.Open(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
