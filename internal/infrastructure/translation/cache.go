package translation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache stores serialized translation results. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type nopCache struct{}

func (nopCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (nopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// CacheKey is (provider, sha256(text), from, to).
func CacheKey(provider, text, from, to string) string {
	sum := sha256.Sum256([]byte(text))

	return strings.Join([]string{"translation", provider, from, to, hex.EncodeToString(sum[:])}, ":")
}

type cachedResult struct {
	Text                   string    `json:"text"`
	Provider               string    `json:"provider"`
	Confidence             float64   `json:"confidence"`
	DetectedSourceLanguage string    `json:"detectedSourceLanguage,omitempty"`
	TranslatedAt           time.Time `json:"translatedAt"`
}
