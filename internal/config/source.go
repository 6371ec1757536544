package config

import (
	"fmt"
	"time"

	"at_deals/internal/domain/value"
)

type Source struct {
	URL              string        `env:"SOURCE_URL,notEmpty"`
	Site             string        `env:"SOURCE_SITE" envDefault:"sparhamster"`
	Format           string        `env:"SOURCE_FORMAT" envDefault:"json"`
	BaseURL          string        `env:"SOURCE_BASE_URL"`
	Timeout          time.Duration `env:"SOURCE_TIMEOUT" envDefault:"20s"`
	UserAgent        string        `env:"SOURCE_USER_AGENT" envDefault:"at-deals-ingest/1.0"`
	AuthToken        string        `env:"SOURCE_AUTH_TOKEN" json:"-"`
	AuthHeader       string        `env:"SOURCE_AUTH_HEADER" envDefault:"Authorization"`
	AuthHeaderFormat string        `env:"SOURCE_AUTH_HEADER_FORMAT" envDefault:"Bearer %s"`
	AuthQueryParam   string        `env:"SOURCE_AUTH_QUERY_PARAM"`
}

func (s Source) SourceSite() value.SourceSite {
	site, _ := value.ParseSourceSite(s.Site)
	return site
}

func (s Source) validate() error {
	if _, err := value.ParseSourceSite(s.Site); err != nil {
		return fmt.Errorf("SOURCE_SITE: %w", err)
	}

	if s.Format != "json" && s.Format != "html" {
		return fmt.Errorf("SOURCE_FORMAT %q is not one of json, html", s.Format)
	}

	return nil
}
