package config

import (
	"fmt"
	"time"
)

const (
	ProviderDeepL  = "deepl"
	ProviderGoogle = "google"
	ProviderLibre  = "libre"

	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Translation lists providers in priority order. With the switch off or no
// usable provider deals are stored with German text only.
type Translation struct {
	Enable        bool          `env:"TRANSLATION_ENABLED" envDefault:"true"`
	Providers     []string      `env:"TRANSLATION_PROVIDERS" envSeparator:"," envDefault:"deepl,google,libre"`
	CallTimeout   time.Duration `env:"TRANSLATION_TIMEOUT" envDefault:"15s"`
	ProbeInterval time.Duration `env:"TRANSLATION_PROBE_INTERVAL" envDefault:"0s"`
	RatePerSecond float64       `env:"TRANSLATION_RATE_PER_SECOND" envDefault:"5"`
	RateBurst     int           `env:"TRANSLATION_RATE_BURST" envDefault:"5"`

	Cache    string        `env:"TRANSLATION_CACHE" envDefault:"memory"`
	CacheTTL time.Duration `env:"TRANSLATION_CACHE_TTL" envDefault:"720h"`

	DeepLURL  string `env:"DEEPL_API_URL"`
	DeepLKey  string `env:"DEEPL_AUTH_KEY" json:"-"`
	GoogleURL string `env:"GOOGLE_TRANSLATE_URL"`
	GoogleKey string `env:"GOOGLE_API_KEY" json:"-"`
	LibreURL  string `env:"LIBRETRANSLATE_URL"`
	LibreKey  string `env:"LIBRETRANSLATE_API_KEY" json:"-"`
}

// Enabled reports the providers that are both listed and configured.
func (t Translation) Enabled() []string {
	if !t.Enable {
		return nil
	}

	out := make([]string, 0, len(t.Providers))

	for _, name := range t.Providers {
		switch name {
		case ProviderDeepL:
			if t.DeepLKey == "" {
				continue
			}
		case ProviderGoogle:
			if t.GoogleKey == "" {
				continue
			}
		case ProviderLibre:
			if t.LibreURL == "" {
				continue
			}
		}

		out = append(out, name)
	}

	return out
}

func (t Translation) validate() error {
	for _, name := range t.Providers {
		switch name {
		case ProviderDeepL, ProviderGoogle, ProviderLibre:
		default:
			return fmt.Errorf("TRANSLATION_PROVIDERS: unknown provider %q", name)
		}
	}

	if t.Cache != CacheMemory && t.Cache != CacheRedis {
		return fmt.Errorf("TRANSLATION_CACHE %q is not one of memory, redis", t.Cache)
	}

	return nil
}
