// Package app is the composition root: it wires config, storage, auth, and
// the HTTP surface together with manual DI.
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openleadr/openleadr-go/internal/api/handlers"
	"github.com/openleadr/openleadr-go/internal/auth"
	"github.com/openleadr/openleadr-go/internal/config"
	"github.com/openleadr/openleadr-go/internal/infrastructure"
	"github.com/openleadr/openleadr-go/internal/pkg/worker"
	"github.com/openleadr/openleadr-go/internal/repository"
	"github.com/openleadr/openleadr-go/internal/service"
)

// Application holds composed application dependencies.
type Application struct {
	Config *config.Config
	Router *gin.Engine
	Pool   *pgxpool.Pool
	Pools  *worker.Pools
}

// Bootstrap initializes all dependencies.
func Bootstrap(ctx context.Context, cfg *config.Config) (*Application, error) {
	pool, err := infrastructure.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := repository.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	pools, err := worker.NewPools(ctx, worker.PoolConfig{
		GeneralPoolSize: cfg.Worker.GeneralPoolSize,
		HashPoolSize:    cfg.Worker.HashPoolSize,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init worker pools: %w", err)
	}

	store := repository.NewStore(pool)
	services := service.New(service.Stores{
		Programs:    store.Programs,
		Events:      store.Events,
		Reports:     store.Reports,
		Vens:        store.Vens,
		Resources:   store.Resources,
		Users:       store.Users,
		Credentials: store.Credentials,
	})

	verifier, err := auth.NewVerifier(cfg.OAuth)
	if err != nil {
		pools.Shutdown()
		pool.Close()
		return nil, fmt.Errorf("init token verifier: %w", err)
	}
	resolver := auth.NewResolver(cfg.Auth.ScopeNames())

	var issuer *auth.Issuer
	if cfg.OAuth.Type == config.OAuthInternal {
		issuer, err = auth.NewIssuer(cfg.OAuth, cfg.Auth.ScopeNames(), store.Credentials, pools)
		if err != nil {
			pools.Shutdown()
			pool.Close()
			return nil, fmt.Errorf("init token issuer: %w", err)
		}
	}

	server := handlers.NewServer(handlers.ServerDeps{
		Services: services,
		Issuer:   issuer,
		DB:       pool,
	})

	return &Application{
		Config: cfg,
		Router: NewRouter(cfg, server, verifier, resolver),
		Pool:   pool,
		Pools:  pools,
	}, nil
}
