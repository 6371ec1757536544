package value

type Merchant struct {
	CanonicalName string
	LogoURL       string
}
