package tests

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"at_deals/internal/domain/entity"
	"at_deals/internal/domain/value"
)

type Randomizer struct {
	Float64 func() float64
	Bool    func() bool
	Intn    func(n int) int
}

func NewRandomizer() Randomizer {
	random := rand.New(rand.NewSource(time.Now().Unix())) //nolint:gosec // for tests

	return Randomizer{
		Float64: random.Float64,
		Bool:    func() bool { return random.Intn(2) == 0 }, //nolint:mnd // skip
		Intn:    random.Intn,
	}
}

// Deal returns a plausible stored deal with consistent prices and discount.
func (r Randomizer) Deal(id int64) *entity.Deal {
	original := decimal.NewFromInt(int64(20 + r.Intn(480))) //nolint:mnd // skip
	current := original.Mul(decimal.NewFromFloat(0.3 + 0.6*r.Float64())).Round(2)
	cats := value.AllCategories()
	now := time.Now().UTC().Truncate(time.Second)

	d := &entity.Deal{
		ID:                    id,
		SourceSite:            value.SourceSiteSparhamster,
		SourceID:              fmt.Sprintf("deal-%d", id),
		TitleDE:               fmt.Sprintf("Angebot %d", id),
		TitleZH:               fmt.Sprintf("优惠 %d", id),
		BodyDE:                "Nur solange der Vorrat reicht.",
		BodyZH:                "售完即止。",
		MerchantCanonicalName: "MediaMarkt",
		MerchantLogoURL:       "https://www.google.com/s2/favicons?domain=mediamarkt.at&sz=128",
		Categories:            value.NewCategories(cats[r.Intn(len(cats))]),
		PriceCurrent:          decimal.NewNullDecimal(current),
		PriceOriginal:         decimal.NewNullDecimal(original),
		PublishedAt:           now.Add(-time.Duration(r.Intn(72)) * time.Hour), //nolint:mnd // skip
		SourceURL:             fmt.Sprintf("https://www.sparhamster.at/deal/%d", id),
		LastSeenAt:            now,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	d.RecomputeDiscount()

	return d
}
