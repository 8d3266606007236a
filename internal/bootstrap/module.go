package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"symptomminder/internal/bootstrap/config"
	"symptomminder/internal/bootstrap/database"
	"symptomminder/internal/bootstrap/logging"
	counterinfra "symptomminder/internal/infrastructure/counter"
	"symptomminder/internal/infrastructure/events"
	"symptomminder/internal/infrastructure/llm"
	sqliterepo "symptomminder/internal/infrastructure/persistence/sqlite/repository"
	"symptomminder/internal/mcpserver"
	"symptomminder/internal/ports"
	"symptomminder/internal/usecase/jury"
	"symptomminder/internal/usecase/tracker"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewEntryRepository,
			fx.As(new(ports.EntryRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewAuditReportRepository,
			fx.As(new(ports.AuditReportRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			counterinfra.NewSQLiteCounter,
			fx.As(new(ports.TriggerCounter)),
		),
	),
	fx.Provide(provideCompleters),
	fx.Provide(providePublisher),
	fx.Provide(provideJury),
	fx.Provide(provideTracker),
	fx.Provide(provideMCPServer),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}

// provideCompleters registers one completer per configured vendor. A panel
// member naming a vendor with no key shows up as a per-member failure in the
// audit report rather than a startup error.
func provideCompleters(cfg config.Config) map[string]ports.Completer {
	completers := map[string]ports.Completer{}
	if cfg.LLM.AnthropicAPIKey != "" {
		completers["anthropic"] = llm.NewAnthropicCompleter(cfg.LLM.AnthropicAPIKey)
	}
	if cfg.LLM.OpenAIAPIKey != "" {
		completers["openai"] = llm.NewOpenAICompleter(cfg.LLM.OpenAIAPIKey)
	}
	return completers
}

func providePublisher(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (ports.AuditPublisher, error) {
	if cfg.Events.NATSURL == "" {
		return events.NoopPublisher{}, nil
	}

	publisher, err := events.NewNATSPublisher(cfg.Events.NATSURL)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			publisher.Close()
			return nil
		},
	})

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx")),
		"audit event publisher connected",
		slog.String("nats_url", cfg.Events.NATSURL),
	)
	return publisher, nil
}

func provideJury(completers map[string]ports.Completer, reports ports.AuditReportRepository, publisher ports.AuditPublisher, cfg config.Config) *jury.Service {
	panel := make([]jury.PanelMember, 0, len(cfg.Jury.Panel))
	for _, member := range cfg.Jury.Panel {
		panel = append(panel, jury.PanelMember{
			Provider: member.Provider,
			ModelID:  member.Model,
			Label:    member.Label,
		})
	}

	return jury.NewService(completers, reports, publisher, jury.Config{
		Panel: panel,
		Aggregator: jury.PanelMember{
			Provider: cfg.Jury.Aggregator.Provider,
			ModelID:  cfg.Jury.Aggregator.Model,
			Label:    cfg.Jury.Aggregator.Label,
		},
		MaxPanelTokens:       cfg.Jury.MaxPanelTokens,
		MaxAggregationTokens: cfg.Jury.MaxAggregationTokens,
	})
}

func provideTracker(entries ports.EntryRepository, counter ports.TriggerCounter, auditor *jury.Service, cfg config.Config) (*tracker.Service, error) {
	modulus, err := cfg.Jury.Modulus()
	if err != nil {
		return nil, err
	}
	return tracker.NewService(entries, counter, auditor, modulus), nil
}

func provideMCPServer(cfg config.Config, trackerSvc *tracker.Service) *mcpserver.Server {
	return mcpserver.New(cfg, trackerSvc)
}
