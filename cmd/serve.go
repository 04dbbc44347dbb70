package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/poliscan/poliscan/config"
	"github.com/poliscan/poliscan/internal/api"
	"github.com/poliscan/poliscan/internal/discover"
	"github.com/poliscan/poliscan/internal/fetch"
	"github.com/poliscan/poliscan/internal/notify"
	"github.com/poliscan/poliscan/internal/search"
	"github.com/poliscan/poliscan/internal/store"
)

// serveCmd is the cobra command that starts the poliscan API server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the poliscan api server",
	Run: func(cmd *cobra.Command, _ []string) {
		err := serve(cmd.Context())
		cobra.CheckErr(err)
	},
}

// init registers the serve command and its flags on the root command
func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.PersistentFlags().String("config", "./config/.config.yaml", "config file location")
}

// serve initializes dependencies and starts the poliscan API server
func serve(ctx context.Context) error {
	cfgPath := k.String("config")

	cfg, err := config.Load(&cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg.Server.Debug = k.Bool("debug")
	cfg.Server.Pretty = k.Bool("pretty")

	fetcher := setupFetcher(cfg)
	browser := setupBrowser(cfg)

	if browser != nil {
		defer browser.Stop()
	}

	docStore, err := store.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("opening document store: %w", err)
	}

	defer func() { _ = docStore.Close() }()

	orchestrator := setupOrchestrator(cfg, fetcher, browser)
	notifier := setupNotifier(cfg)

	handler := api.NewRouter(api.RouterConfig{
		Discoverer:     orchestrator,
		Store:          docStore,
		Notifier:       notifier,
		Fetcher:        fetcher,
		MaxBodySize:    cfg.Server.MaxBodySize,
		RequestTimeout: cfg.Server.WriteTimeout,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGracePeriod)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
	}()

	log.Info().Str("listen", cfg.Server.Listen).Msg("starting poliscan service")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}

	return nil
}

// setupFetcher builds the static HTTP fetcher from config
func setupFetcher(cfg *config.Config) *fetch.HTTPXFetcher {
	opts := []fetch.Option{
		fetch.WithFetchTimeout(cfg.Discovery.FetchTimeout),
	}

	if cfg.Discovery.UserAgent != "" {
		opts = append(opts, fetch.WithUserAgent(cfg.Discovery.UserAgent))
	}

	return fetch.NewHTTPXFetcher(opts...)
}

// setupBrowser starts the shared headless browser pool, returning nil when
// browser stages are disabled or the browser cannot start. Discovery still
// works without it; the rendered and scroll stages report unavailability.
func setupBrowser(cfg *config.Config) *fetch.Browser {
	if cfg.Discovery.DisableBrowser {
		log.Info().Msg("browser stages disabled by config")
		return nil
	}

	opts := []fetch.Option{
		fetch.WithRenderTimeout(cfg.Discovery.RenderTimeout),
		fetch.WithBrowserSlots(cfg.Discovery.BrowserSlots),
	}

	if cfg.Discovery.ChromePath != "" {
		opts = append(opts, fetch.WithChromePath(cfg.Discovery.ChromePath))
	}

	if cfg.Discovery.UserAgent != "" {
		opts = append(opts, fetch.WithUserAgent(cfg.Discovery.UserAgent))
	}

	browser := fetch.NewBrowser(opts...)

	if err := browser.Start(); err != nil {
		log.Warn().Err(err).Msg("browser pool failed to start, rendered stages unavailable")
		return nil
	}

	log.Info().Int("slots", cfg.Discovery.BrowserSlots).Msg("browser pool started")

	return browser
}

// setupOrchestrator wires the discovery chain from config
func setupOrchestrator(cfg *config.Config, fetcher *fetch.HTTPXFetcher, browser *fetch.Browser) *discover.Orchestrator {
	providers := setupSearchProviders(cfg, fetcher)

	// a nil *Browser must become a nil interface, not a typed nil
	var renderer fetch.Renderer
	if browser != nil {
		renderer = browser
	}

	return discover.New(fetcher, renderer, providers,
		discover.WithStageTimeout(cfg.Discovery.StageTimeout),
	)
}

// setupSearchProviders builds the configured search-engine fallbacks
func setupSearchProviders(cfg *config.Config, fetcher fetch.StaticFetcher) []search.Provider {
	var providers []search.Provider

	for _, engine := range cfg.Discovery.SearchEngines {
		switch engine {
		case "duckduckgo":
			providers = append(providers, search.NewDuckDuckGo(fetcher))
		case "bing":
			providers = append(providers, search.NewBing(fetcher))
		default:
			log.Warn().Str("engine", engine).Msg("unknown search engine, skipping")
		}
	}

	log.Info().Int("providers", len(providers)).Msg("search fallback configured")

	return providers
}

// setupNotifier initializes the Slack webhook notifier from config, returning nil when unconfigured
func setupNotifier(cfg *config.Config) *notify.Notifier {
	if cfg.Slack.WebhookURL == "" {
		log.Info().Msg("slack notifications not configured, skipping")
		return nil
	}

	notifier := notify.New(
		cfg.Slack.WebhookURL,
		notify.WithHTTPClient(&http.Client{Timeout: cfg.Slack.RequestTimeout}),
	)

	log.Info().Msg("slack notifications configured")

	return notifier
}
