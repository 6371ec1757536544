// Package translation translates deal texts through an ordered list of
// providers with health tracking, rate limiting and a shared cache.
package translation

import (
	"context"

	jsoniter "github.com/json-iterator/go"

	"at_deals/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// Language codes used by the pipeline. Providers map them to their own dialects.
const (
	LangGerman  = "de"
	LangChinese = "zh"
)

//go:generate moq -rm -out provider_mock.gen.go . Provider:ProviderMock

// Provider is one translation backend.
type Provider interface {
	// Name is stable and used in cache keys and persisted rows.
	Name() string
	// Probe performs a cheap authenticated call that tells whether the
	// backend is usable right now.
	Probe(ctx context.Context) error
	Translate(ctx context.Context, text, from, to string) (entity.TranslationResult, error)
}
