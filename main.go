package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	assistantx "github.com/storepilot/storepilot/assistant"
	gatewayx "github.com/storepilot/storepilot/gateway"
	ordersx "github.com/storepilot/storepilot/orders"
	configx "github.com/storepilot/storepilot/pkg/config"
	_ "github.com/storepilot/storepilot/pkg/logger/autoload"
	shopifyx "github.com/storepilot/storepilot/pkg/shopify"
	searchx "github.com/storepilot/storepilot/search"
	storex "github.com/storepilot/storepilot/store"
)

func main() {
	httpCfg := configx.MustNew[gatewayx.Config]("HTTP")
	storeCfg := configx.MustNew[shopifyx.Config]("STORE")
	aiCfg := configx.MustNew[assistantx.Config]("AI")

	registry := storex.NewRegistry()
	aggregator := searchx.NewAggregator()
	settings := assistantx.NewSettings(*aiCfg)
	dispatcher := assistantx.NewDispatcher(settings)
	facade := ordersx.NewFacade(registry)

	// A default store is optional: without one the gateway starts
	// unconfigured and stores are connected over the API.
	if storeCfg.URL != "" {
		connectCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if _, err := registry.Connect(connectCtx, "", storeCfg.URL, storeCfg.Token); err != nil {
			log.Warn().Err(err).Str("store_url", storeCfg.URL).Msg("default store connection failed")
		}
		cancel()
	}

	server := gatewayx.NewServer(registry, aggregator, settings, dispatcher, facade)
	httpServer := &http.Server{
		Addr:              httpCfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", httpCfg.Addr).Int("stores", registry.Len()).Msg("gateway listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("gateway stopped")
}
