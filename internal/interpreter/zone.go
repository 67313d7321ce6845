package interpreter

import (
	"smc-analyzer/internal/dto"

	"github.com/shopspring/decimal"
)

// ClassifyZone places price against the premium/discount bounds. Both tests
// are strict, so a price sitting exactly on a bound is EQUILIBRIUM.
func ClassifyZone(price, premiumStart, discountEnd decimal.Decimal) dto.Zone {
	switch {
	case price.GreaterThan(premiumStart):
		return dto.ZonePremium
	case price.LessThan(discountEnd):
		return dto.ZoneDiscount
	default:
		return dto.ZoneEquilibrium
	}
}

// zoneView is Absent whenever the equilibrium is unknown; no position is
// computed in that case.
func zoneView(price decimal.Decimal, zones dto.Option[dto.PriceRangeZone]) dto.Option[ZoneView] {
	z, ok := zones.Get()
	if !ok {
		return dto.Absent[ZoneView]()
	}
	equilibrium, ok := z.Equilibrium.Get()
	if !ok {
		return dto.Absent[ZoneView]()
	}

	return dto.Present(ZoneView{
		RangeLow:     z.RangeLow,
		RangeHigh:    z.RangeHigh,
		Equilibrium:  equilibrium,
		PremiumStart: z.PremiumStart,
		DiscountEnd:  z.DiscountEnd,
		Position:     ClassifyZone(price, z.PremiumStart, z.DiscountEnd),
	})
}
