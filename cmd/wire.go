package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/vstrike/internal/adapters/http/api"
	"github.com/okian/vstrike/internal/adapters/http/swagger"
	"github.com/okian/vstrike/internal/adapters/injuries"
	"github.com/okian/vstrike/internal/adapters/oddsapi"
	"github.com/okian/vstrike/internal/adapters/repository"
	app "github.com/okian/vstrike/internal/app"
	"github.com/okian/vstrike/internal/config"
	"github.com/okian/vstrike/internal/domain/feed"
	"github.com/okian/vstrike/internal/domain/model"
	"github.com/okian/vstrike/internal/domain/normalizer"
	"github.com/okian/vstrike/internal/domain/rules"
	"github.com/okian/vstrike/pkg/logger"
	"github.com/shopspring/decimal"
)

// sports expands configured keys into sports with display titles.
func sports(cfg *config.Config) []model.Sport {
	out := make([]model.Sport, 0, len(cfg.Sports))
	for _, key := range cfg.Sports {
		out = append(out, model.Sport{Key: key, Title: config.SportTitle(key)})
	}
	return out
}

// knowledgeBase loads the rules file when configured.
func knowledgeBase(cfg *config.Config) (rules.KnowledgeBase, error) {
	if cfg.RulesFile == "" {
		return rules.DefaultKnowledgeBase(), nil
	}
	return rules.LoadKnowledgeBase(cfg.RulesFile)
}

// buildService wires storage, feeds and the engine from cfg.
func buildService(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	kb, err := knowledgeBase(cfg)
	if err != nil {
		return nil, err
	}
	store, err := repository.Open(ctx, repository.Settings{
		Backend:       cfg.StoreBackend,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		PostgresDSN:   cfg.PostgresDSN,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	repo := repository.New(store)

	odds := oddsapi.New(cfg.APIKeys, repo,
		oddsapi.WithBaseURL(cfg.OddsBaseURL),
		oddsapi.WithRegions(cfg.Regions),
		oddsapi.WithCacheTTL(cfg.CacheTTL),
		oddsapi.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		oddsapi.WithMaxRetries(cfg.MaxRetries),
		oddsapi.WithLogger(log.Named("oddsapi")),
	)
	if len(cfg.APIKeys) == 0 {
		log.Warn(ctx, "no odds api keys configured; fetches fall back to cache")
	}

	opts := []app.Option{
		app.WithLogger(log.Named("service")),
		app.WithRepository(repo),
		app.WithOddsFeed(odds),
		app.WithSports(sports(cfg)...),
		app.WithLocation(loc),
		app.WithQueueSize(cfg.QueueSize),
		app.WithSchedule(cfg.GenerateAt, cfg.GradeAt),
		app.WithBankroll(decimal.NewFromFloat(cfg.Bankroll).Round(2)),
		app.WithFeedOptions(
			feed.WithParleyLegs(cfg.ParleyLegs),
			feed.WithDynamicLegs(cfg.DynamicParleySize),
			feed.WithMaxPerSport(cfg.MaxPerSport),
			feed.WithRules(rules.New(kb)),
			feed.WithNormalizer(normalizer.New(
				normalizer.WithReferenceBooks(cfg.ReferenceBooks...),
				normalizer.WithSharpBook(cfg.SharpBook),
				normalizer.WithLocation(loc),
			)),
		),
	}
	if cfg.InjuriesEnabled {
		inj, err := injuries.New(cfg.InjuriesProvider, cfg.InjuriesURL, cfg.InjuriesKeys,
			injuries.WithLogger(log.Named("injuries")))
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		opts = append(opts, app.WithInjuryFeed(inj))
	}
	return app.New(opts...), nil
}

// routes registers the API and its docs on a fresh mux.
func routes(ctx context.Context, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(svc).Register(ctx, mux)
	swagger.Register(ctx, mux)
	return mux
}
