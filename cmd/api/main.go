package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
	"github.com/shelfmark/shelfmark/pkg/config"
	"github.com/shelfmark/shelfmark/pkg/database"
	"github.com/shelfmark/shelfmark/pkg/migrations"
	"github.com/shelfmark/shelfmark/pkg/server"
	"github.com/shelfmark/shelfmark/pkg/version"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	log.Info("starting shelfmark", logger.Data{"version": version.Version})

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	// Fail fast when the configured asset root doesn't exist rather than
	// silently serving an API without a UI.
	if err := checkAssetDir(cfg.AssetDir); err != nil {
		log.Err(err).Fatal("asset directory error")
	}

	if err := initDatabaseDir(cfg.DatabaseFilePath); err != nil {
		log.Err(err).Fatal("database directory error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}

	group, err := migrations.BringUpToDate(ctx, db)
	if err != nil {
		log.Err(err).Fatal("migrations error")
	}
	if group.ID == 0 {
		log.Info("no new migrations to run")
	} else {
		log.Info("migrated to new group", logger.Data{"group_id": group.ID, "migration_names": group.Migrations.String()})
	}

	srv, err := server.New(cfg, db)
	if err != nil {
		log.Err(err).Fatal("server error")
	}

	graceful := signals.Setup()

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort)
		lc := net.ListenConfig{}
		listener, err := lc.Listen(ctx, "tcp", addr)
		if err != nil {
			log.Err(err).Fatal("failed to bind port")
		}

		// Extract actual port (useful when ServerPort is 0)
		actualPort := listener.Addr().(*net.TCPAddr).Port
		log.Info("server started", logger.Data{"host": cfg.ServerHost, "port": actualPort})

		// Write port file for the desktop shell to read
		if err := writePortFile(cfg.DatabaseFilePath, actualPort); err != nil {
			log.Err(err).Error("failed to write port file")
		}

		err = srv.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Fatal("server stopped")
		}
		log.Info("server stopped")
	}()

	<-graceful
	log.Info("starting graceful shutdown")

	err = srv.Shutdown(ctx)
	if err != nil {
		log.Err(err).Error("server shutdown error")
	}
	log.Info("server shutdown")

	err = db.Close()
	if err != nil {
		log.Err(err).Error("database close error")
	}
	log.Info("database closed")
}

// checkAssetDir verifies the configured asset root exists. An empty value
// means no static assets are served (API-only mode, used in development
// where the frontend runs its own dev server).
func checkAssetDir(dir string) error {
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return errors.Wrapf(err, "asset directory is not accessible: %s", dir)
	}
	if !info.IsDir() {
		return errors.Errorf("asset directory is not a directory: %s", dir)
	}
	return nil
}

// initDatabaseDir creates the directory holding the SQLite file.
func initDatabaseDir(databaseFilePath string) error {
	if databaseFilePath == ":memory:" {
		return nil
	}
	dir := filepath.Dir(databaseFilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create database directory: %s", dir)
	}
	return nil
}

// writePortFile writes the server's actual port next to the database so the
// desktop shell can discover it. Skipped for in-memory databases.
func writePortFile(databaseFilePath string, port int) error {
	if databaseFilePath == ":memory:" {
		return nil
	}
	portFile := filepath.Join(filepath.Dir(databaseFilePath), "api.port")
	return os.WriteFile(portFile, []byte(strconv.Itoa(port)), 0600)
}
