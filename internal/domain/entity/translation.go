package entity

import "time"

type TranslationResult struct {
	TranslatedText         string
	ProviderName           string
	Confidence             float64
	DetectedSourceLanguage string
	CacheHit               bool
	TranslatedAt           time.Time
}

// TranslationPair is the title/body rendering of one deal. Both parts come
// from one attempt; a partial pair is never returned.
type TranslationPair struct {
	Title TranslationResult
	Body  TranslationResult
}
