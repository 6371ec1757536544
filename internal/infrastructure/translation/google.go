package translation

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"at_deals/internal/domain/entity"
	"at_deals/pkg/httpx"
)

const (
	GoogleName           = "google"
	DefaultGoogleBaseURL = "https://translation.googleapis.com"
)

// Google talks to Cloud Translation v2 with an API key.
type Google struct {
	client  *http.Client
	baseURL string
}

func NewGoogle(baseURL, apiKey string, timeout time.Duration, wrappers ...roundTripperWrapper) *Google {
	if baseURL == "" {
		baseURL = DefaultGoogleBaseURL
	}

	auth := func(next http.RoundTripper) http.RoundTripper {
		return httpx.NewAuthTokenRoundTripper(next, apiKey, httpx.WithAuthQueryParam("key"))
	}

	return &Google{
		client:  newProviderClient(timeout, auth, wrappers...),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (g *Google) Name() string {
	return GoogleName
}

func (g *Google) Probe(ctx context.Context) error {
	if err := do(ctx, g.client, http.MethodGet, g.baseURL+"/language/translate/v2/languages", nil, nil); err != nil {
		return fmt.Errorf("google languages: %w", err)
	}

	return nil
}

func (g *Google) Translate(ctx context.Context, text, from, to string) (entity.TranslationResult, error) {
	in := struct {
		Q      []string `json:"q"`
		Source string   `json:"source,omitempty"`
		Target string   `json:"target"`
		Format string   `json:"format"`
	}{
		Q:      []string{text},
		Source: from,
		Target: googleLang(to),
		Format: "text",
	}

	var out struct {
		Data struct {
			Translations []struct {
				TranslatedText         string `json:"translatedText"`
				DetectedSourceLanguage string `json:"detectedSourceLanguage"`
			} `json:"translations"`
		} `json:"data"`
	}

	if err := do(ctx, g.client, http.MethodPost, g.baseURL+"/language/translate/v2", in, &out); err != nil {
		return entity.TranslationResult{}, fmt.Errorf("google translate: %w", err)
	}

	if len(out.Data.Translations) == 0 {
		return entity.TranslationResult{}, errors.New("google translate: no translations in response")
	}

	detected := out.Data.Translations[0].DetectedSourceLanguage
	if detected == "" {
		detected = from
	}

	return entity.TranslationResult{
		// Format "text" still escapes a few entities in practice.
		TranslatedText:         html.UnescapeString(out.Data.Translations[0].TranslatedText),
		ProviderName:           GoogleName,
		Confidence:             1,
		DetectedSourceLanguage: detected,
	}, nil
}

func googleLang(lang string) string {
	if lang == LangChinese {
		return "zh-CN"
	}

	return lang
}
