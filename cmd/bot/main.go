package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/jobradar/telegram-keyword-bot/internal/api"
	"github.com/jobradar/telegram-keyword-bot/internal/biz"
	"github.com/jobradar/telegram-keyword-bot/internal/biz/usecase"
	"github.com/jobradar/telegram-keyword-bot/internal/conf"
	"github.com/jobradar/telegram-keyword-bot/internal/data"
	"github.com/jobradar/telegram-keyword-bot/internal/infra/telegram"
	"github.com/jobradar/telegram-keyword-bot/internal/logging"
	"github.com/jobradar/telegram-keyword-bot/internal/server"
	"github.com/jobradar/telegram-keyword-bot/internal/service"
)

func main() {
	// Load .env file; plain environment variables work too
	_ = godotenv.Load()

	// Load configuration
	cfg := conf.LoadFromEnv()
	logging.Setup(cfg.Debug)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	// Initialize Telegram client
	tgClient, err := telegram.NewClient(cfg.Telegram.Token, cfg.Debug)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create telegram client")
	}
	log.Info().Str("bot", tgClient.BotUsername()).Msg("telegram client ready")

	// Initialize repository layer
	repos, err := data.NewRepositories(tgClient, cfg.Database.Path, data.FilterConfig{
		APIKey:  cfg.Filter.APIKey,
		BaseURL: cfg.Filter.BaseURL,
		Model:   cfg.Filter.Model,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create repositories")
	}
	defer repos.Close()
	log.Info().Str("path", cfg.Database.Path).Msg("database opened")
	if repos.Filter != nil {
		log.Info().Msg("spam pre-filter enabled")
	}

	// Initialize usecase layer
	ucs := &biz.Usecases{
		Keyword: usecase.NewKeywordUsecase(repos.Keyword, cfg.Limits.ToKeywordLimits()),
		Match:   usecase.NewMatchUsecase(repos.Keyword, cfg.Forward.Fanout),
		Forward: usecase.NewForwardUsecase(repos.Forward, repos.User, repos.Telegram, cfg.Forward.DailyLimit),
	}

	// Initialize service layer
	notifier := service.NewErrorNotifier(repos.Telegram, cfg.Telegram.AdminChatID, cfg.Monitor.ErrorCooldown())
	logging.AddHook(notifier)
	notifier.Start()

	health := service.NewHealthMonitor(repos, cfg.Monitor.HealthInterval())
	health.Start()

	forwarder := service.NewForwarderService(repos.Channel, repos.Filter, ucs.Match, ucs.Forward, cfg.Forward.ForwardDelay())
	commandSvc := service.NewCommandService(ucs.Keyword, ucs.Match, repos.User, repos.Telegram, cfg.Limits, cfg.Replies)
	adminSvc := service.NewAdminService(
		cfg.Telegram.AdminChatID,
		repos.Channel,
		repos.Telegram,
		ucs.Match,
		ucs.Forward,
		forwarder,
		health,
		notifier,
		cfg.Replies,
	)

	// Initialize ops API server
	var apiServer *api.Server
	if cfg.API.Port > 0 {
		apiServer = api.NewServer(repos.Channel, ucs.Forward, ucs.Match, health, forwarder, cfg.API.Port)
		go func() {
			if err := apiServer.Start(); err != nil {
				log.Error().Err(err).Msg("ops api server error")
			}
		}()
	}

	// Initialize server
	srv := server.NewBotServer(tgClient, forwarder, commandSvc, adminSvc, cfg.Forward.DedupWindow())

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Info().Msg("shutting down")
		srv.Stop()
		if apiServer != nil {
			_ = apiServer.Stop()
		}
		health.Stop()
		notifier.Stop()
		repos.Close()
		os.Exit(0)
	}()

	log.Info().Msg("starting keyword bot")
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
