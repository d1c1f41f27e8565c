package main

import (
	"context"
	"net"
	"net/http"
	"os"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
	"github.com/talesforge/talesforge/pkg/config"
	"github.com/talesforge/talesforge/pkg/database"
	"github.com/talesforge/talesforge/pkg/fallback"
	"github.com/talesforge/talesforge/pkg/migrations"
	"github.com/talesforge/talesforge/pkg/server"
	"github.com/talesforge/talesforge/pkg/version"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	log.Info("starting talesforge", logger.Data{"version": version.Version})

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		log.Err(err).Fatal("upload directory error")
	}
	log.Info("upload directory initialized", logger.Data{"path": cfg.UploadDir})

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

	store := fallback.NewStore(cfg.FallbackDir)
	if cfg.FallbackExportOnStart {
		// A failed export leaves older snapshots in place, so keep starting.
		if err := fallback.ExportAll(ctx, store, server.Exporters(db)...); err != nil {
			log.Err(err).Error("fallback export error")
		} else {
			log.Info("fallback snapshots exported", logger.Data{"path": cfg.FallbackDir})
		}
	}
	reader := fallback.NewReader(store, fallback.ReaderOptions{})

	srv, err := server.New(cfg, db, reader)
	if err != nil {
		log.Err(err).Fatal("server error")
	}

	graceful := signals.Setup()

	go func() {
		lc := net.ListenConfig{}
		listener, err := lc.Listen(ctx, "tcp", srv.Addr)
		if err != nil {
			log.Err(err).Fatal("failed to bind port")
		}
		log.Info("server started", logger.Data{"addr": listener.Addr().String()})

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
