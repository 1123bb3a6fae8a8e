package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/events"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/SscSPs/ledger_engine/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_engine/pkg/database"
)

// app is the wired service graph for one CLI invocation.
type app struct {
	services *portssvc.ServiceContainer
	close    func()
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repos := pgsql.NewRepositoryProvider(pool)
	dispatcher := events.NewDispatcher(cfg.EventBufferSize, slog.Default())
	dispatcher.Subscribe(events.NewPreferenceMarker(repos.PreferenceRepo))
	dispatcher.Start(context.Background())

	return &app{
		services: services.NewServiceContainer(cfg, repos, dispatcher),
		close: func() {
			dispatcher.Close()
			database.ClosePgxPool(pool)
		},
	}, nil
}

func parseID(raw, what string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, raw)
	}
	return id, nil
}
