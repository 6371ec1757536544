package application

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"at_deals/internal/config"
	"at_deals/internal/infrastructure/translation"
	"at_deals/internal/infrastructure/translation/cache"
	"at_deals/internal/metrics"
)

const (
	memoryCacheCleanup = 10 * time.Minute
	redisCachePrefix   = "deals:"
)

// newTranslationChain returns nil when no provider is configured.
func newTranslationChain(
	ctx context.Context,
	cfg config.Translation,
	rdb *redis.Client,
	pipeline *metrics.Pipeline,
	logging func(http.RoundTripper) http.RoundTripper,
) *translation.Chain {
	var providers []translation.Provider

	for _, name := range cfg.Enabled() {
		switch name {
		case config.ProviderDeepL:
			providers = append(providers, translation.NewDeepL(cfg.DeepLURL, cfg.DeepLKey, cfg.CallTimeout, logging))
		case config.ProviderGoogle:
			providers = append(providers, translation.NewGoogle(cfg.GoogleURL, cfg.GoogleKey, cfg.CallTimeout, logging))
		case config.ProviderLibre:
			providers = append(providers, translation.NewLibre(cfg.LibreURL, cfg.LibreKey, cfg.CallTimeout, logging))
		}
	}

	if len(providers) == 0 {
		return nil
	}

	opts := []translation.ChainOption{
		translation.WithObserver(pipeline),
		translation.WithCallTimeout(cfg.CallTimeout),
		translation.WithProbeInterval(cfg.ProbeInterval),
		translation.WithCacheTTL(cfg.CacheTTL),
	}

	switch {
	case cfg.Cache == config.CacheRedis && rdb != nil:
		opts = append(opts, translation.WithCache(cache.NewRedis(rdb, redisCachePrefix)))
	case cfg.Cache == config.CacheRedis:
		logger(ctx).Warn("TRANSLATION_CACHE=redis without REDIS_ADDRESS, using in-process cache")
		fallthrough
	default:
		opts = append(opts, translation.WithCache(cache.NewMemory(cfg.CacheTTL, memoryCacheCleanup)))
	}

	for _, p := range providers {
		opts = append(opts, translation.WithRateLimit(p.Name(), cfg.RatePerSecond, cfg.RateBurst))
	}

	logger(ctx).Info("translation enabled",
		slog.Any("providers", cfg.Enabled()),
		slog.String("cache", cfg.Cache),
	)

	return translation.NewChain(providers, opts...)
}
