package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/buddyapp/buddyd/config"
	"github.com/buddyapp/buddyd/internal/llm"
	"github.com/buddyapp/buddyd/internal/search"
	"github.com/buddyapp/buddyd/internal/search/provider"
	"github.com/buddyapp/buddyd/internal/store"
)

// Run wires the pipeline from configuration and serves the API.
func Run(cfg *appconfig.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	// Unified HTTP error handler with structured JSON and logging.
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Cookie"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	ctx := context.Background()

	dsn, err := cfg.Storage.Postgres.DSN()
	if err != nil {
		return err
	}
	if err := Migrate("file://migrations", dsn, "up", 0); err != nil {
		baseLogger.Printf("migrations: %v", err)
	}
	st, err := store.NewWithDSN(ctx, dsn)
	if err != nil {
		return err
	}

	// Redis cache is optional: an unset host disables caching, a
	// configured-but-unreachable redis is a startup error.
	var cache *ResponseCache
	if cfg.Storage.Redis.Host != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Storage.Redis.Host, cfg.Storage.Redis.Port),
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connection failed (%s:%s): %w", cfg.Storage.Redis.Host, cfg.Storage.Redis.Port, err)
		}
		cache = &ResponseCache{Client: rdb, TTL: cfg.Search.CacheTTL, Logger: baseLogger}
	}

	// Provider adapters: an absent key skips that provider.
	var googleSearcher, bingSearcher, fallbackSearcher provider.WebSearcher
	if cfg.Search.GoogleAPIKey != "" && cfg.Search.GoogleSearchEngineID != "" {
		googleSearcher, _ = provider.New(provider.GoogleProvider, provider.Credentials{
			APIKey:   cfg.Search.GoogleAPIKey,
			EngineID: cfg.Search.GoogleSearchEngineID,
			Timeout:  cfg.Search.Timeout,
		})
	}
	if cfg.Search.BingAPIKey != "" {
		bingSearcher, _ = provider.New(provider.BingProvider, provider.Credentials{
			APIKey:  cfg.Search.BingAPIKey,
			Timeout: cfg.Search.Timeout,
		})
	}
	if cfg.Search.DuckDuckGoEnabled {
		fallbackSearcher, _ = provider.New(provider.DuckDuckGoProvider, provider.Credentials{
			Timeout: cfg.Search.Timeout,
		})
	}

	// LLM backend is optional: without a key the overview generator runs
	// in offline mode and chat answers 503.
	var llmClient llm.Client
	var overviewer search.Overviewer
	if cfg.LLM.APIKey != "" {
		llmClient, err = llm.New(llm.Provider(cfg.LLM.Provider), cfg.LLM.APIKey, cfg.LLM.Model,
			cfg.LLM.Temperature, cfg.LLM.MaxTokens, cfg.LLM.Timeout)
		if err != nil {
			return err
		}
		overviewer = llm.NewOverviewer(llmClient)
	}

	aggregator := search.NewAggregator(googleSearcher, bingSearcher, fallbackSearcher,
		log.New(log.Writer(), "[AGGREGATE] ", log.LstdFlags))
	filter := search.NewFilter(log.New(log.Writer(), "[FILTER] ", log.LstdFlags))
	svc := search.NewService(aggregator, filter, overviewer,
		log.New(log.Writer(), "[SEARCH] ", log.LstdFlags))

	api := e.Group("/api")
	sh := &SearchHandler{Service: svc, Cache: cache, Logger: baseLogger}
	sh.Register(api.Group("/search"))
	ph := &PreferencesHandler{}
	ph.Register(api.Group("/search/preferences"))
	prh := &ProfilesHandler{Store: st}
	prh.Register(api.Group("/profiles"))
	ch := &ChatHandler{Store: st, LLM: llmClient}
	ch.Register(api.Group("/chat"))

	addr := cfg.General.Listen
	if addr == "" {
		addr = ":10002"
	}
	if addr[0] != ':' {
		addr = ":" + addr
	}
	return e.Start(addr)
}
