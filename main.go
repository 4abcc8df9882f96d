package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/contractdesk/contractdesk/agent/executor"
	"github.com/contractdesk/contractdesk/agent/orchestrator"
	recordx "github.com/contractdesk/contractdesk/agent/record"
	"github.com/contractdesk/contractdesk/api"
	configx "github.com/contractdesk/contractdesk/pkg/config"
	"github.com/contractdesk/contractdesk/pkg/llmclient"
	_ "github.com/contractdesk/contractdesk/pkg/logger/autoload"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	llmCfg := configx.MustNew[llmclient.Config]("OPENAI")
	chatModel, err := llmCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize chat model")
	}

	// Verification is advisory: a transient provider hiccup at boot must
	// not keep the service down.
	if client := llmclient.NewClient(*llmCfg); client != nil {
		if err := llmclient.VerifyModel(ctx, client, llmCfg.Model); err != nil {
			log.Warn().Err(err).Str("model", llmCfg.Model).Msg("model verification failed")
		}
	}

	store, cleanup := newStore(ctx)
	defer cleanup()

	exec := executor.New(store)
	runner, err := orchestrator.New(chatModel, exec)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize orchestrator")
	}

	httpCfg := configx.MustNew[api.Config]("HTTP")
	server := api.NewServer(*httpCfg, runner, exec, store)
	if err := server.ListenAndServe(ctx); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("shutdown complete")
}

// newStore opens Postgres when DATABASE_URL is set, otherwise falls back
// to a seeded in-memory store for local runs.
func newStore(ctx context.Context) (recordx.Store, func()) {
	pgCfg := configx.MustNew[recordx.PostgresConfig]("DATABASE")
	if pgCfg.URL != "" {
		pg, err := recordx.NewPostgresStore(ctx, *pgCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("connect postgres")
		}
		log.Info().Msg("using postgres contract store")
		return pg, func() {
			if err := pg.Close(); err != nil {
				log.Warn().Err(err).Msg("close postgres")
			}
		}
	}

	log.Info().Msg("DATABASE_URL not set, using in-memory contract store")
	mem := recordx.NewMemoryStore()
	seed(ctx, mem)
	return mem, func() {}
}

func seed(ctx context.Context, store recordx.Store) {
	demo := []recordx.Contract{
		{
			ID:               "c-1001",
			Name:             "Website Redesign",
			CounterpartyName: "Acme Corp",
			Amount:           120000,
			StartDate:        "2025-01-01",
			EndDate:          "2025-12-31",
			Status:           recordx.StatusActive,
		},
		{
			ID:               "c-1002",
			Name:             "Cloud Migration",
			CounterpartyName: "Globex",
			Amount:           250000,
			StartDate:        "2025-03-15",
			EndDate:          "2026-03-14",
			Status:           recordx.StatusActive,
		},
		{
			ID:               "c-1003",
			Name:             "Support Retainer",
			CounterpartyName: "Acme Corp",
			Amount:           36000,
			StartDate:        "2025-06-01",
			EndDate:          "2025-11-30",
			Status:           recordx.StatusPending,
		},
	}
	for _, c := range demo {
		if err := store.Insert(ctx, c); err != nil {
			log.Warn().Err(err).Str("contract", c.Name).Msg("seed insert failed")
		}
	}
}
