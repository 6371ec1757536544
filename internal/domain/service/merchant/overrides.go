package merchant

// Override is a curated merchant entry. Name is the canonical display name.
type Override struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
	Domain  string   `json:"domain,omitempty"`
	Logo    string   `json:"logo,omitempty"`
}

// defaultOverrides lists merchants with curated branding. Logo paths are
// relative to the configured logo base URL.
//
//nolint:gochecknoglobals
var defaultOverrides = []Override{
	{Name: "MediaMarkt", Aliases: []string{"Media Markt", "Media-Markt"}, Domain: "mediamarkt.at", Logo: "mediamarkt.svg"},
	{Name: "Amazon", Aliases: []string{"Amazon.de", "Amazon DE", "amazon.at"}, Domain: "amazon.de", Logo: "amazon.svg"},
	{Name: "Billa", Aliases: []string{"BILLA", "Billa Plus", "BILLA PLUS"}, Domain: "billa.at", Logo: "billa.svg"},
	{Name: "Spar", Aliases: []string{"SPAR", "Interspar", "Eurospar"}, Domain: "spar.at", Logo: "spar.svg"},
	{Name: "Hofer", Aliases: []string{"HOFER"}, Domain: "hofer.at", Logo: "hofer.svg"},
	{Name: "Lidl", Aliases: []string{"LIDL", "Lidl Österreich"}, Domain: "lidl.at", Logo: "lidl.svg"},
	{Name: "dm", Aliases: []string{"dm drogerie markt", "DM"}, Domain: "dm.at", Logo: "dm.svg"},
	{Name: "BIPA", Aliases: []string{"Bipa"}, Domain: "bipa.at", Logo: "bipa.svg"},
	{Name: "Müller", Aliases: []string{"Mueller", "Müller Drogerie"}, Domain: "mueller.at", Logo: "mueller.svg"},
	{Name: "XXXLutz", Aliases: []string{"XXX Lutz", "Lutz"}, Domain: "xxxlutz.at", Logo: "xxxlutz.svg"},
	{Name: "IKEA", Aliases: []string{"Ikea"}, Domain: "ikea.com", Logo: "ikea.svg"},
	{Name: "Zalando", Aliases: []string{"Zalando Lounge"}, Domain: "zalando.at", Logo: "zalando.svg"},
	{Name: "Universal", Aliases: []string{"universal.at"}, Domain: "universal.at", Logo: "universal.svg"},
	{Name: "Tchibo", Aliases: []string{"Tchibo Eduscho", "Eduscho"}, Domain: "tchibo.at", Logo: "tchibo.svg"},
	{Name: "Hervis", Domain: "hervis.at", Logo: "hervis.svg"},
	{Name: "Intersport", Domain: "intersport.at", Logo: "intersport.svg"},
	{Name: "Thalia", Domain: "thalia.at", Logo: "thalia.svg"},
	{Name: "Cyberport", Domain: "cyberport.at", Logo: "cyberport.svg"},
	{Name: "Alza", Aliases: []string{"alza.at"}, Domain: "alza.at", Logo: "alza.svg"},
	{Name: "Magenta", Aliases: []string{"Magenta Telekom", "T-Mobile"}, Domain: "magenta.at", Logo: "magenta.svg"},
	{Name: "A1", Aliases: []string{"A1 Telekom"}, Domain: "a1.net", Logo: "a1.svg"},
	{Name: "Drei", Aliases: []string{"3", "Hutchison Drei"}, Domain: "drei.at", Logo: "drei.svg"},
}
