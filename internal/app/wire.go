package app

import (
	"context"
	"log/slog"

	"github.com/predictos/predictd/internal/ai"
	cacheredis "github.com/predictos/predictd/internal/cache/redis"
	"github.com/predictos/predictd/internal/config"
	"github.com/predictos/predictd/internal/notify"
	"github.com/predictos/predictd/internal/platform/dome"
	"github.com/predictos/predictd/internal/platform/polyfactual"
	"github.com/predictos/predictd/internal/platform/polymarket"
	"github.com/predictos/predictd/internal/server"
	"github.com/predictos/predictd/internal/server/handler"
	"github.com/predictos/predictd/internal/server/ws"
	"github.com/predictos/predictd/internal/service"
)

// Deps bundles every wired component the run loop needs.
type Deps struct {
	Server *server.Server
	Hub    *ws.Hub
	Alerts *notify.Notifier
}

// Wire builds the full dependency graph from configuration: platform
// clients, the AI gateway, services, the websocket hub, notification
// channels, and the HTTP server. The returned cleanup closes everything that
// holds a connection.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Deps, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// AI gateway.
	factory := ai.NewFactory(ai.Config{
		GrokAPIKey:    cfg.AI.GrokAPIKey,
		GrokBaseURL:   cfg.AI.GrokBaseURL,
		GrokModel:     cfg.AI.GrokModel,
		OpenAIAPIKey:  cfg.AI.OpenAIAPIKey,
		OpenAIBaseURL: cfg.AI.OpenAIBaseURL,
		OpenAIModel:   cfg.AI.OpenAIModel,
		Timeout:       cfg.AI.Timeout.Duration,
	})
	gateway := ai.NewGateway(factory, logger)

	// Platform clients.
	domeClient := dome.NewClient(cfg.Dome.BaseURL, cfg.Dome.APIKey)
	gamma := polymarket.NewGammaClient(cfg.Polymarket.GammaHost, cfg.Polymarket.APIKey)
	data := polymarket.NewDataClient(cfg.Polymarket.DataHost)
	relay := polymarket.NewRelayClient(logger)
	research := polyfactual.NewClient(cfg.Polyfactual.BaseURL, cfg.Polyfactual.APIKey)

	// Event fan-out and operator alerts.
	hub := ws.NewHub(logger)

	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" {
		senders = append(senders, notify.NewTelegramSender(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL, cfg.Notify.DiscordUsername))
	}
	alerts := notify.NewNotifier(senders, cfg.Notify.Events, logger)

	// Services.
	analysis := service.NewAnalysisService(domeClient, gateway, hub, alerts, logger)
	orders := service.NewOrderService(gamma, relay, service.OrderParams{
		DefaultLevels: cfg.Orders.DefaultLevels,
		MinPrice:      cfg.Orders.MinPrice,
		MaxPrice:      cfg.Orders.MaxPrice,
	}, hub, logger)
	positions := service.NewPositionService(gamma, data, hub, alerts, logger)

	// Optional Redis-backed rate limiter.
	serverCfg := server.Config{
		Port:        cfg.Server.Port,
		CORSOrigins: cfg.Server.CORSOrigins,
		APIKey:      cfg.Server.APIKey,
		RateLimit:   cfg.Server.RateLimit,
		RateWindow:  cfg.Server.RateWindow.Duration,
	}
	if cfg.Redis.Enabled {
		rdb, err := cacheredis.New(ctx, cacheredis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, func() { _ = rdb.Close() })
		serverCfg.RateLimiter = cacheredis.NewRateLimiter(rdb)
	}

	handlers := server.Handlers{
		Health:    handler.NewHealthHandler(logger),
		Analyze:   handler.NewAnalyzeHandler(analysis, logger),
		Orders:    handler.NewOrderHandler(orders, logger),
		Positions: handler.NewPositionHandler(positions, logger),
		Research:  handler.NewResearchHandler(research, logger),
	}

	srv := server.NewServer(serverCfg, handlers, hub, logger)

	return &Deps{Server: srv, Hub: hub, Alerts: alerts}, cleanup, nil
}
