package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"cryptomax/internal/alerting"
	"cryptomax/internal/config"
	"cryptomax/internal/fallback"
	"cryptomax/internal/httpx"
	"cryptomax/internal/provider"
	"cryptomax/internal/scheduler"
	"cryptomax/internal/service"
	"cryptomax/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newAdapters() []provider.Adapter {
	client := httpx.New(httpx.Options{
		Timeout:   a.Config.HTTP.Timeout,
		UserAgent: a.Config.HTTP.UserAgent,
	})

	return provider.Registry(provider.RegistryOptions{
		LidoURL:       a.Config.Providers.LidoURL,
		RocketPoolURL: a.Config.Providers.RocketPoolURL,
		KrakenURL:     a.Config.Providers.KrakenURL,
		CoinbaseURL:   a.Config.Providers.CoinbaseURL,
		CryptoComURL:  a.Config.Providers.CryptoComURL,
		KuCoinURL:     a.Config.Providers.KuCoinURL,
		BinanceURL:    a.Config.Providers.BinanceURL,
		NexoURL:       a.Config.Providers.NexoURL,
		Maker: provider.MakerOptions{
			RPCURL:     a.Config.Ethereum.RPCURL,
			PotAddress: a.Config.Ethereum.PotAddress,
			Timeout:    a.Config.Ethereum.RequestTimeout,
		},
		Disabled: a.Config.Providers.Disabled,
	}, client, a.Logger)
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger)
	}
	return nil
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

func (a *App) newService(ctx context.Context, sched *scheduler.Scheduler) (*service.Service, func(), error) {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	if store == nil {
		a.Logger.Warn().Msg("database.dsn not configured; run history disabled")
	}

	resolver, err := fallback.NewResolver()
	if err != nil {
		if closeStore != nil {
			closeStore()
		}
		return nil, nil, err
	}

	var recordStore storage.RateRecordStore
	if store != nil {
		recordStore = store
	}

	svc := service.New(a.Config, sched, a.newAdapters(), resolver, recordStore, a.newNotifier(), a.Logger)

	closer := func() {
		if closeStore != nil {
			closeStore()
		}
	}
	return svc, closer, nil
}
