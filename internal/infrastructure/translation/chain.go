package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"at_deals/internal/domain"
	"at_deals/internal/domain/entity"
	"at_deals/pkg/errcodes"
	"at_deals/pkg/logx"
)

const (
	defaultCallTimeout = 15 * time.Second
	defaultCacheTTL    = 30 * 24 * time.Hour
)

// Observer receives per-call outcomes. Implementations must be safe for
// concurrent use.
type Observer interface {
	TranslationServed(provider string, cacheHit bool)
	ProviderFailed(provider string)
	ProviderStateChanged(provider string, state State)
}

type nopObserver struct{}

func (nopObserver) TranslationServed(string, bool)     {}
func (nopObserver) ProviderFailed(string)              {}
func (nopObserver) ProviderStateChanged(string, State) {}

// member is a provider together with its health bookkeeping.
type member struct {
	provider Provider
	limiter  *rate.Limiter

	mu       sync.Mutex
	state    State
	probedAt time.Time
}

// Chain tries providers in priority order. It is safe for concurrent use.
type Chain struct {
	members       []*member
	cache         Cache
	observer      Observer
	callTimeout   time.Duration
	probeInterval time.Duration
	cacheTTL      time.Duration
	now           func() time.Time
}

type ChainOption func(*Chain)

func WithCache(cache Cache) ChainOption {
	return func(c *Chain) {
		if cache != nil {
			c.cache = cache
		}
	}
}

func WithObserver(observer Observer) ChainOption {
	return func(c *Chain) {
		if observer != nil {
			c.observer = observer
		}
	}
}

// WithCallTimeout bounds every probe and translate call.
func WithCallTimeout(timeout time.Duration) ChainOption {
	return func(c *Chain) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithProbeInterval memoizes probe results; zero probes before every use.
func WithProbeInterval(interval time.Duration) ChainOption {
	return func(c *Chain) {
		c.probeInterval = interval
	}
}

func WithCacheTTL(ttl time.Duration) ChainOption {
	return func(c *Chain) {
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// WithRateLimit limits calls to the named provider. A zero limit removes it.
func WithRateLimit(provider string, perSecond float64, burst int) ChainOption {
	return func(c *Chain) {
		for _, m := range c.members {
			if m.provider.Name() != provider {
				continue
			}
			if perSecond <= 0 {
				m.limiter = nil
				continue
			}
			m.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
		}
	}
}

func withClock(now func() time.Time) ChainOption {
	return func(c *Chain) {
		c.now = now
	}
}

// NewChain keeps providers in the given order; the first is preferred.
func NewChain(providers []Provider, opts ...ChainOption) *Chain {
	c := &Chain{
		cache:       nopCache{},
		observer:    nopObserver{},
		callTimeout: defaultCallTimeout,
		cacheTTL:    defaultCacheTTL,
		now:         time.Now,
	}

	for _, p := range providers {
		c.members = append(c.members, &member{provider: p})
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// States returns the current health per provider name.
func (c *Chain) States() map[string]State {
	states := make(map[string]State, len(c.members))
	for _, m := range c.members {
		m.mu.Lock()
		states[m.provider.Name()] = m.state
		m.mu.Unlock()
	}

	return states
}

// Translate returns the first available rendering of text. Cached results
// from any provider win over live calls. When no provider succeeds the error
// carries code AllProvidersExhausted.
func (c *Chain) Translate(ctx context.Context, text, from, to string) (entity.TranslationResult, error) {
	if text == "" {
		return entity.TranslationResult{TranslatedAt: c.now()}, nil
	}

	if res, ok := c.fromCache(ctx, text, from, to); ok {
		c.observer.TranslationServed(res.ProviderName, true)
		return res, nil
	}

	var errs []error
	for _, m := range c.members {
		name := m.provider.Name()

		if err := ctx.Err(); err != nil {
			return entity.TranslationResult{}, fmt.Errorf("ctx.Err: %w", err)
		}

		if !c.ensureUsable(ctx, m) {
			logger(ctx).Debug("translation provider skipped", slog.String(logx.FieldProvider, name))
			errs = append(errs, fmt.Errorf("%s: %s", name, StateUnhealthy))
			continue
		}

		res, err := c.call(ctx, m, text, from, to)
		if err != nil {
			logger(ctx).Warn(
				"translation provider failed",
				slog.String(logx.FieldProvider, name),
				logx.Error(err),
			)
			c.observer.ProviderFailed(name)
			c.markFailed(m)
			errs = append(errs, domain.WrapError(err, errcodes.ProviderFailure, name))
			continue
		}

		c.store(ctx, res, text, from, to)
		c.observer.TranslationServed(name, false)

		return res, nil
	}

	return entity.TranslationResult{}, domain.WrapError(
		errors.Join(errs...),
		errcodes.AllProvidersExhausted,
		"all translation providers exhausted",
	)
}

// TranslatePair translates title then body. A failure of either part fails
// the pair; no partial result is returned.
func (c *Chain) TranslatePair(ctx context.Context, title, body string) (entity.TranslationPair, error) {
	t, err := c.Translate(ctx, title, LangGerman, LangChinese)
	if err != nil {
		return entity.TranslationPair{}, fmt.Errorf("translate title: %w", err)
	}

	b, err := c.Translate(ctx, body, LangGerman, LangChinese)
	if err != nil {
		return entity.TranslationPair{}, fmt.Errorf("translate body: %w", err)
	}

	return entity.TranslationPair{Title: t, Body: b}, nil
}

func (c *Chain) fromCache(ctx context.Context, text, from, to string) (entity.TranslationResult, bool) {
	for _, m := range c.members {
		name := m.provider.Name()

		b, ok, err := c.cache.Get(ctx, CacheKey(name, text, from, to))
		if err != nil {
			logger(ctx).Warn("translation cache get", slog.String(logx.FieldProvider, name), logx.Error(err))
			continue
		}
		if !ok {
			continue
		}

		var cr cachedResult
		if err := json.Unmarshal(b, &cr); err != nil {
			logger(ctx).Warn("translation cache decode", slog.String(logx.FieldProvider, name), logx.Error(err))
			continue
		}

		return entity.TranslationResult{
			TranslatedText:         cr.Text,
			ProviderName:           name,
			Confidence:             cr.Confidence,
			DetectedSourceLanguage: cr.DetectedSourceLanguage,
			CacheHit:               true,
			TranslatedAt:           cr.TranslatedAt,
		}, true
	}

	return entity.TranslationResult{}, false
}

func (c *Chain) store(ctx context.Context, res entity.TranslationResult, text, from, to string) {
	b, err := json.Marshal(cachedResult{
		Text:                   res.TranslatedText,
		Provider:               res.ProviderName,
		Confidence:             res.Confidence,
		DetectedSourceLanguage: res.DetectedSourceLanguage,
		TranslatedAt:           res.TranslatedAt,
	})
	if err != nil {
		logger(ctx).Warn("translation cache encode", logx.Error(err))
		return
	}

	if err := c.cache.Set(ctx, CacheKey(res.ProviderName, text, from, to), b, c.cacheTTL); err != nil {
		logger(ctx).Warn("translation cache set", slog.String(logx.FieldProvider, res.ProviderName), logx.Error(err))
	}
}

// ensureUsable probes the provider unless a fresh probe result is memoized.
func (c *Chain) ensureUsable(ctx context.Context, m *member) bool {
	m.mu.Lock()
	fresh := c.probeInterval > 0 && m.state != StateUnknown && c.now().Sub(m.probedAt) < c.probeInterval
	state := m.state
	m.mu.Unlock()

	if fresh {
		return state.Usable()
	}

	probeCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	err := m.provider.Probe(probeCtx)
	cancel()

	if err != nil {
		logger(ctx).Warn(
			"translation provider probe failed",
			slog.String(logx.FieldProvider, m.provider.Name()),
			logx.Error(err),
		)
	}

	m.mu.Lock()
	next := m.state.afterProbe(err)
	m.probedAt = c.now()
	c.setState(m, next)
	m.mu.Unlock()

	return next.Usable()
}

func (c *Chain) markFailed(m *member) {
	m.mu.Lock()
	c.setState(m, m.state.afterTranslateFailure())
	m.mu.Unlock()
}

// setState must be called with m.mu held.
func (c *Chain) setState(m *member, next State) {
	if m.state == next {
		return
	}

	m.state = next
	c.observer.ProviderStateChanged(m.provider.Name(), next)
}

func (c *Chain) call(ctx context.Context, m *member, text, from, to string) (entity.TranslationResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	if m.limiter != nil {
		if err := m.limiter.Wait(callCtx); err != nil {
			return entity.TranslationResult{}, fmt.Errorf("limiter.Wait: %w", err)
		}
	}

	res, err := m.provider.Translate(callCtx, text, from, to)
	if err != nil {
		return entity.TranslationResult{}, fmt.Errorf("provider.Translate: %w", err)
	}

	if res.TranslatedText == "" {
		return entity.TranslationResult{}, errors.New("provider.Translate: empty translation")
	}

	res.ProviderName = m.provider.Name()
	res.CacheHit = false
	if res.TranslatedAt.IsZero() {
		res.TranslatedAt = c.now()
	}

	return res, nil
}
