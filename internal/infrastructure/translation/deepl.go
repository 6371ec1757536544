package translation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"at_deals/internal/domain/entity"
	"at_deals/pkg/httpx"
)

const (
	DeepLName           = "deepl"
	DefaultDeepLBaseURL = "https://api-free.deepl.com"
)

type DeepL struct {
	client  *http.Client
	baseURL string
}

func NewDeepL(baseURL, authKey string, timeout time.Duration, wrappers ...roundTripperWrapper) *DeepL {
	if baseURL == "" {
		baseURL = DefaultDeepLBaseURL
	}

	auth := func(next http.RoundTripper) http.RoundTripper {
		return httpx.NewAuthTokenRoundTripper(next, authKey, httpx.WithAuthHeader("Authorization", "DeepL-Auth-Key %s"))
	}

	return &DeepL{
		client:  newProviderClient(timeout, auth, wrappers...),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (d *DeepL) Name() string {
	return DeepLName
}

// Probe checks the key against the usage endpoint and fails once the quota is used up.
func (d *DeepL) Probe(ctx context.Context) error {
	var usage struct {
		CharacterCount int64 `json:"character_count"`
		CharacterLimit int64 `json:"character_limit"`
	}

	if err := do(ctx, d.client, http.MethodGet, d.baseURL+"/v2/usage", nil, &usage); err != nil {
		return fmt.Errorf("deepl usage: %w", err)
	}

	if usage.CharacterLimit > 0 && usage.CharacterCount >= usage.CharacterLimit {
		return errors.New("deepl usage: character quota exhausted")
	}

	return nil
}

func (d *DeepL) Translate(ctx context.Context, text, from, to string) (entity.TranslationResult, error) {
	in := struct {
		Text       []string `json:"text"`
		SourceLang string   `json:"source_lang,omitempty"`
		TargetLang string   `json:"target_lang"`
	}{
		Text:       []string{text},
		SourceLang: strings.ToUpper(from),
		TargetLang: strings.ToUpper(to),
	}

	var out struct {
		Translations []struct {
			DetectedSourceLanguage string `json:"detected_source_language"`
			Text                   string `json:"text"`
		} `json:"translations"`
	}

	if err := do(ctx, d.client, http.MethodPost, d.baseURL+"/v2/translate", in, &out); err != nil {
		return entity.TranslationResult{}, fmt.Errorf("deepl translate: %w", err)
	}

	if len(out.Translations) == 0 {
		return entity.TranslationResult{}, errors.New("deepl translate: no translations in response")
	}

	return entity.TranslationResult{
		TranslatedText:         out.Translations[0].Text,
		ProviderName:           DeepLName,
		Confidence:             1,
		DetectedSourceLanguage: strings.ToLower(out.Translations[0].DetectedSourceLanguage),
	}, nil
}
