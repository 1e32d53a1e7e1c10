package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"farmbeats_sheets/internal/config"
	"farmbeats_sheets/internal/handlers"
	"farmbeats_sheets/internal/logger"
	"farmbeats_sheets/internal/repository"
	"farmbeats_sheets/internal/repository/db"
	"farmbeats_sheets/internal/server"
	"farmbeats_sheets/internal/service"
	"farmbeats_sheets/internal/session"
	"farmbeats_sheets/internal/sheet"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const (
	configDir       = "configs"
	shutdownTimeout = 10 * time.Second
)

// @title                       FarmBeats Sheets API
// @version                     1.0
// @description                 Bridges a FarmBeats device into a spreadsheet workbook: custom functions, relay control and history streaming.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// load config.yml
	cfg, err := config.Load(configDir)
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.LogLevel)
	if cfg.LogLevel != logger.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, log); err != nil {
		log.Fatalw("server stopped", "err", err)
	}
	log.Infow("server_stopped")
}

// run serves until SIGINT/SIGTERM or a fatal server error.
func run(cfg *config.Config, log *logger.Logger) error {
	// open DB
	conn, err := db.InitDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// wire dependencies
	repos := repository.NewRepository(conn)
	if err := seedWorkbook(ctx, repos.Workbook, cfg); err != nil {
		return fmt.Errorf("seed workbook: %w", err)
	}

	sess := session.New(repos.Workbook, &http.Client{Timeout: cfg.Device.Timeout}, log)
	services := service.NewService(repos, sess, cfg, log)
	defer func() {
		// Runs before conn.Close: a merge in flight still needs the database.
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := services.Close(closeCtx); err != nil {
			log.Warnw("streaming_not_drained", "err", err)
		}
	}()

	apiHandler := handlers.NewHandler(services, log)
	srv := server.New(cfg.Port, apiHandler.InitRoutes())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(gctx)
	})
	g.Go(func() error {
		sess.Run(gctx, cfg.Device.RevalidateInterval)
		return nil
	})

	log.Infow("server_started", "addr", srv.Addr(), "session", sess.ID())
	return g.Wait()
}

// seedWorkbook writes configured defaults for named values the workbook
// does not have yet.
func seedWorkbook(ctx context.Context, wb sheet.Workbook, cfg *config.Config) error {
	return sheet.Seed(ctx, wb, map[string]string{
		sheet.NameDeviceID:     cfg.Device.ID,
		sheet.NameDataPollTime: strconv.Itoa(int(cfg.Stream.PollTime / time.Second)),
		sheet.NameMaxDataRows:  strconv.Itoa(cfg.Stream.MaxRows),
	})
}
