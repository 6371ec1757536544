package translation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"at_deals/internal/domain/entity"
)

const LibreName = "libretranslate"

// Libre talks to a LibreTranslate instance. The key travels in the body.
type Libre struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewLibre(baseURL, apiKey string, timeout time.Duration, wrappers ...roundTripperWrapper) *Libre {
	return &Libre{
		client:  newProviderClient(timeout, nil, wrappers...),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

func (l *Libre) Name() string {
	return LibreName
}

func (l *Libre) Probe(ctx context.Context) error {
	var languages []struct {
		Code string `json:"code"`
	}

	if err := do(ctx, l.client, http.MethodGet, l.baseURL+"/languages", nil, &languages); err != nil {
		return fmt.Errorf("libretranslate languages: %w", err)
	}

	if len(languages) == 0 {
		return errors.New("libretranslate languages: none available")
	}

	return nil
}

func (l *Libre) Translate(ctx context.Context, text, from, to string) (entity.TranslationResult, error) {
	in := struct {
		Q      string `json:"q"`
		Source string `json:"source"`
		Target string `json:"target"`
		Format string `json:"format"`
		APIKey string `json:"api_key,omitempty"`
	}{
		Q:      text,
		Source: from,
		Target: to,
		Format: "text",
		APIKey: l.apiKey,
	}

	var out struct {
		TranslatedText   string `json:"translatedText"`
		DetectedLanguage *struct {
			Confidence float64 `json:"confidence"`
			Language   string  `json:"language"`
		} `json:"detectedLanguage"`
	}

	if err := do(ctx, l.client, http.MethodPost, l.baseURL+"/translate", in, &out); err != nil {
		return entity.TranslationResult{}, fmt.Errorf("libretranslate translate: %w", err)
	}

	res := entity.TranslationResult{
		TranslatedText:         out.TranslatedText,
		ProviderName:           LibreName,
		Confidence:             1,
		DetectedSourceLanguage: from,
	}
	// Detection is reported on a 0-100 scale only for source "auto".
	if out.DetectedLanguage != nil {
		res.Confidence = out.DetectedLanguage.Confidence / 100
		res.DetectedSourceLanguage = out.DetectedLanguage.Language
	}

	return res, nil
}
