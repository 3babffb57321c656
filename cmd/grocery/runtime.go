package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nagul-a/Grocery-tracker/internal/cache"
	"github.com/nagul-a/Grocery-tracker/internal/config"
	"github.com/nagul-a/Grocery-tracker/internal/repository"
	"github.com/nagul-a/Grocery-tracker/internal/repository/mongostore"
	"github.com/nagul-a/Grocery-tracker/internal/repository/snapshot"
	"github.com/nagul-a/Grocery-tracker/internal/repository/sqlstore"
	"github.com/nagul-a/Grocery-tracker/internal/service"
	"github.com/nagul-a/Grocery-tracker/internal/storage"
)

// itemStore is a backend that can both serve and store items.
type itemStore interface {
	repository.ItemRepository
	repository.ItemWriter
}

// runtime builds backends on first use so commands that need none of them
// never connect anywhere.
type runtime struct {
	cfg     *config.Config
	store   itemStore
	objects storage.ObjectStorage
	svc     *service.AnalyticsService
	closers []func() error
}

func newRuntime(cfg *config.Config) *runtime {
	return &runtime{cfg: cfg}
}

func (rt *runtime) itemStore(ctx context.Context) (itemStore, error) {
	if rt.store != nil {
		return rt.store, nil
	}

	source := strings.ToLower(strings.TrimSpace(rt.cfg.App.Source))
	switch source {
	case "sql":
		db, err := sqlstore.NewDB(rt.cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		rt.closers = append(rt.closers, db.Close)

		store, err := sqlstore.NewItemStore(db, rt.cfg.Database.Table)
		if err != nil {
			return nil, err
		}
		rt.store = store
	case "mongo":
		client, err := mongostore.Connect(ctx, rt.cfg.Mongo)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, func() error { return client.Disconnect(context.Background()) })
		rt.store = mongostore.NewItemStore(client, rt.cfg.Mongo)
	case "snapshot":
		objects, err := rt.objectStorage(ctx)
		if err != nil {
			return nil, err
		}
		rt.store = snapshot.NewStore(objects, rt.cfg.Storage.SnapshotKey)
	default:
		return nil, fmt.Errorf("unknown item source %q (want sql, mongo or snapshot)", rt.cfg.App.Source)
	}

	log.Debug().Str("source", source).Msg("item store ready")
	return rt.store, nil
}

func (rt *runtime) objectStorage(ctx context.Context) (storage.ObjectStorage, error) {
	if rt.objects != nil {
		return rt.objects, nil
	}
	client, err := storage.NewMinioClient(ctx, rt.cfg.Storage)
	if err != nil {
		return nil, err
	}
	rt.objects = client
	return client, nil
}

func (rt *runtime) service(ctx context.Context) (*service.AnalyticsService, error) {
	if rt.svc != nil {
		return rt.svc, nil
	}
	store, err := rt.itemStore(ctx)
	if err != nil {
		return nil, err
	}

	dashboardCache, err := cache.NewDashboardCache(ctx, rt.cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("dashboard cache unavailable, continuing without it")
		dashboardCache = cache.NewNoopDashboardCache()
	}

	rt.svc = service.NewAnalyticsService(store, dashboardCache, rt.cfg.Analytics)
	return rt.svc, nil
}

func (rt *runtime) close() error {
	var firstErr error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	rt.closers = nil
	return firstErr
}
