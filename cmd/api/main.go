package main

import (
	"context"
	"net/http"

	"github.com/lyflibrary/catalog/pkg/catalog"
	"github.com/lyflibrary/catalog/pkg/config"
	"github.com/lyflibrary/catalog/pkg/database"
	"github.com/lyflibrary/catalog/pkg/metrics"
	"github.com/lyflibrary/catalog/pkg/migrations"
	"github.com/lyflibrary/catalog/pkg/server"
	"github.com/lyflibrary/catalog/pkg/version"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	log.Info("starting catalog", logger.Data{"version": version.Version})

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
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

	exporter, err := metrics.New(catalog.NewService(db))
	if err != nil {
		log.Err(err).Fatal("metrics error")
	}

	srv, err := server.New(cfg, db, server.Options{Metrics: exporter})
	if err != nil {
		log.Err(err).Fatal("server error")
	}

	graceful := signals.Setup()

	go func() {
		log.Info("server started", logger.Data{"addr": srv.Addr})
		err := srv.ListenAndServe()
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

	err = exporter.Shutdown(ctx)
	if err != nil {
		log.Err(err).Error("metrics shutdown error")
	}

	err = db.Close()
	if err != nil {
		log.Err(err).Error("database close error")
	}
	log.Info("database closed")
}
