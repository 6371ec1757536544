// Package merchant resolves free-text merchant names to a canonical identity
// and logo.
package merchant

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/text/unicode/norm"

	"at_deals/internal/domain/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const DefaultFaviconURL = "https://www.google.com/s2/favicons?domain=%s&sz=128"

type Resolver struct {
	overrides   map[string]Override // canonical name -> entry
	aliases     map[string]string   // alias key -> canonical name
	logoBaseURL string
	faviconURL  string
}

// NewResolver builds a resolver from the built-in override table extended by
// extra entries; extra entries win on conflicting names.
func NewResolver(logoBaseURL string, extra ...Override) *Resolver {
	r := &Resolver{
		overrides:   make(map[string]Override),
		aliases:     make(map[string]string),
		logoBaseURL: strings.TrimRight(logoBaseURL, "/"),
		faviconURL:  DefaultFaviconURL,
	}

	for _, o := range defaultOverrides {
		r.add(o)
	}
	for _, o := range extra {
		r.add(o)
	}

	return r
}

// WithFaviconURL sets the fallback template; it must contain one %s for the domain.
func (r *Resolver) WithFaviconURL(tmpl string) *Resolver {
	r.faviconURL = tmpl
	return r
}

// LoadOverrides reads a JSON array of Override entries.
func LoadOverrides(path string) ([]Override, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	var overrides []Override
	if err := json.Unmarshal(b, &overrides); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	return overrides, nil
}

// Resolve never fails and performs no I/O. The override table is consulted
// before any fallback.
func (r *Resolver) Resolve(nameRaw, domain string) value.Merchant {
	name := cleanName(nameRaw)
	domain = cleanDomain(domain)

	canonical, known := r.canonical(name)
	if !known && name == "" && domain != "" {
		canonical, known = r.canonical(domain)
		if !known {
			canonical = domain
		}
	}

	if o, ok := r.overrides[canonical]; ok && known {
		if o.Logo != "" {
			return value.Merchant{CanonicalName: o.Name, LogoURL: r.logoURL(o.Logo)}
		}
		if domain == "" {
			domain = o.Domain
		}
	}

	m := value.Merchant{CanonicalName: canonical}
	if domain != "" {
		m.LogoURL = fmt.Sprintf(r.faviconURL, url.QueryEscape(domain))
	}

	return m
}

func (r *Resolver) add(o Override) {
	o.Name = cleanName(o.Name)
	o.Domain = cleanDomain(o.Domain)
	r.overrides[o.Name] = o

	r.aliases[aliasKey(o.Name)] = o.Name
	for _, a := range o.Aliases {
		r.aliases[aliasKey(a)] = o.Name
	}
	if o.Domain != "" {
		r.aliases[aliasKey(o.Domain)] = o.Name
	}
}

func (r *Resolver) canonical(name string) (string, bool) {
	if name == "" {
		return "", false
	}

	if c, ok := r.aliases[aliasKey(name)]; ok {
		return c, true
	}

	return name, false
}

func (r *Resolver) logoURL(logo string) string {
	if strings.HasPrefix(logo, "http://") || strings.HasPrefix(logo, "https://") || strings.HasPrefix(logo, "/") {
		return logo
	}

	return r.logoBaseURL + "/" + logo
}

func cleanName(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// cleanDomain reduces a URL or host to a bare lower-case host without "www.".
func cleanDomain(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	if strings.Contains(s, "://") {
		if u, err := url.Parse(s); err == nil {
			s = u.Hostname()
		}
	} else if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}

	return strings.TrimPrefix(s, "www.")
}

// aliasKey folds case and drops separators so "Media-Markt", "media markt"
// and "mediamarkt.at" collide.
func aliasKey(s string) string {
	s = strings.ToLower(s)
	s = strings.TrimPrefix(s, "www.")

	for _, tld := range []string{".at", ".de", ".com", ".net"} {
		s = strings.TrimSuffix(s, tld)
	}

	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '.', '\'':
			return -1
		}
		return r
	}, s)
}
