package interpreter

import (
	"strings"

	"smc-analyzer/internal/dto"

	"github.com/shopspring/decimal"
)

// PipDistance is |element - current| expressed in pips of pipSize, rounded
// to one decimal. With DefaultPipSize it equals round(|p-c|*100000, 1).
func PipDistance(element, current, pipSize decimal.Decimal) decimal.Decimal {
	return element.Sub(current).Abs().Div(pipSize).Round(1)
}

func elementView(kind, typ string, price, current, pipSize decimal.Decimal) ElementView {
	return ElementView{
		Kind:         kind,
		Type:         strings.ToUpper(typ),
		Price:        price,
		DistancePips: PipDistance(price, current, pipSize),
	}
}

func pricedView(kind string, current, pipSize decimal.Decimal, el dto.Option[dto.PricedElement]) dto.Option[ElementView] {
	return dto.Map(el, func(e dto.PricedElement) ElementView {
		return elementView(kind, e.Type, e.Price, current, pipSize)
	})
}

func closestView(current, pipSize decimal.Decimal, c dto.ClosestElements) ClosestView {
	return ClosestView{
		OrderBlock: pricedView(dto.ElementOrderBlock, current, pipSize, c.OrderBlock),
		FVG:        pricedView(dto.ElementFVG, current, pipSize, c.FVG),
		Liquidity:  pricedView(dto.ElementLiquidity, current, pipSize, c.Liquidity),
		Sweep: dto.Map(c.Sweep, func(s dto.Sweep) ElementView {
			return elementView(dto.ElementSweep, s.Type, s.LevelPrice, current, pipSize)
		}),
		MarketStructureShift: dto.Map(c.MarketStructureShift, func(s dto.StructureShift) ShiftView {
			return ShiftView{Type: s.Type, Description: s.Description}
		}),
	}
}
