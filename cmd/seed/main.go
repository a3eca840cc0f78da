// Package main seeds the first administrative user and credential so the
// token endpoint has something to grant against. Safe to re-run; an existing
// client id is reported, not overwritten.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/openleadr/openleadr-go/internal/auth"
	"github.com/openleadr/openleadr-go/internal/config"
	"github.com/openleadr/openleadr-go/internal/domain"
	"github.com/openleadr/openleadr-go/internal/infrastructure"
	"github.com/openleadr/openleadr-go/internal/pkg/errors"
	"github.com/openleadr/openleadr-go/internal/pkg/logger"
	"github.com/openleadr/openleadr-go/internal/repository"
	"github.com/openleadr/openleadr-go/internal/service"
)

// adminUserContent is the profile of the seeded user: an any_business
// principal whose tokens carry the configured implicit scope set.
func adminUserContent(reference string) domain.UserContent {
	description := "seeded administrative user"
	return domain.UserContent{
		Reference:         reference,
		Description:       &description,
		IsAnyBusinessUser: true,
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	reference := flag.String("reference", "admin", "reference of the seeded user")
	clientID := flag.String("client-id", "admin", "client id of the seeded credential")
	clientSecret := flag.String("client-secret", "", "client secret (required)")
	flag.Parse()

	if *clientSecret == "" {
		return fmt.Errorf("-client-secret is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	pool, err := infrastructure.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer pool.Close()

	if err := repository.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	store := repository.NewStore(pool)
	services := service.New(service.Stores{
		Users:       store.Users,
		Credentials: store.Credentials,
	})

	if _, _, err := store.Credentials.CredentialByClientID(ctx, *clientID); err == nil {
		logger.Info("Client id already exists, nothing to do",
			zap.String("client_id", *clientID))
		return nil
	} else if !errors.IsKind(err, errors.KindNotFound) {
		return fmt.Errorf("check credential: %w", err)
	}

	// The seed runs below the HTTP surface, so it acts as a synthetic user
	// manager.
	seeder := auth.Caller{
		Sub:    "seed",
		Kind:   auth.KindUserManager,
		Scopes: auth.NewScopeSet(auth.ScopeWriteUsers),
	}

	user, err := services.Users.Create(ctx, seeder, adminUserContent(*reference))
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	if _, err := services.Users.AddCredential(ctx, seeder, user.ID, domain.CredentialRequest{
		ClientID:     *clientID,
		ClientSecret: *clientSecret,
	}); err != nil {
		if errors.IsKind(err, errors.KindConflict) {
			logger.Warn("Client id already exists, leaving it untouched",
				zap.String("client_id", *clientID))
			return nil
		}
		return fmt.Errorf("add credential: %w", err)
	}

	logger.Info("Seeded administrative user",
		zap.String("user_id", user.ID),
		zap.String("client_id", *clientID),
	)
	return nil
}
