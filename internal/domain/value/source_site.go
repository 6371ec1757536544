package value

import "fmt"

// SourceSite identifies a known upstream origin.
type SourceSite string

const (
	SourceSiteSparhamster SourceSite = "sparhamster"
	SourceSitePreisjaeger SourceSite = "preisjaeger"
	SourceSiteMyDealzAT   SourceSite = "mydealz-at"
)

func ParseSourceSite(s string) (SourceSite, error) {
	switch site := SourceSite(s); site {
	case SourceSiteSparhamster, SourceSitePreisjaeger, SourceSiteMyDealzAT:
		return site, nil
	default:
		return "", fmt.Errorf("unknown source site %q", s)
	}
}

func (s SourceSite) String() string {
	return string(s)
}
