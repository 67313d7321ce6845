package interpreter

import (
	"smc-analyzer/internal/dto"

	"github.com/shopspring/decimal"
)

// ViewModel holds every display-ready value derived from one analysis
// payload. When Error is non-empty no other field is populated.
type ViewModel struct {
	Error string `json:"error,omitempty"`

	Symbol         string               `json:"symbol,omitempty"`
	CurrentPrice   decimal.Decimal      `json:"current_price"`
	AnalysisTime   string               `json:"analysis_time,omitempty"`
	PipSize        decimal.Decimal      `json:"pip_size"`
	Structure      StructureView        `json:"structure"`
	KillZone       KillZoneView         `json:"kill_zone"`
	Zones          dto.Option[ZoneView] `json:"zones"`
	Closest        ClosestView          `json:"closest"`
	ReactionLevels []LevelView          `json:"reaction_levels"`
	LevelsNote     string               `json:"levels_note,omitempty"`
	Recommendation RecommendationView   `json:"recommendation"`
}

func (v ViewModel) IsError() bool {
	return v.Error != ""
}

type StructureView struct {
	Trend  string `json:"trend"`
	BOS    bool   `json:"bos"`
	CHOCH  bool   `json:"choch"`
	Signal string `json:"signal"`
}

type KillZoneView struct {
	Label            string          `json:"label"`
	Active           bool            `json:"active"`
	Priority         string          `json:"priority"`
	RemainingMinutes dto.Option[int] `json:"remaining_minutes"`
}

type ZoneView struct {
	RangeLow     decimal.Decimal `json:"range_low"`
	RangeHigh    decimal.Decimal `json:"range_high"`
	Equilibrium  decimal.Decimal `json:"equilibrium"`
	PremiumStart decimal.Decimal `json:"premium_start"`
	DiscountEnd  decimal.Decimal `json:"discount_end"`
	Position     dto.Zone        `json:"position"`
}

type ElementView struct {
	Kind         string          `json:"kind"`
	Type         string          `json:"type"`
	Price        decimal.Decimal `json:"price"`
	DistancePips decimal.Decimal `json:"distance_pips"`
}

type ShiftView struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

type ClosestView struct {
	OrderBlock           dto.Option[ElementView] `json:"order_block"`
	FVG                  dto.Option[ElementView] `json:"fvg"`
	Liquidity            dto.Option[ElementView] `json:"liquidity"`
	Sweep                dto.Option[ElementView] `json:"sweep"`
	MarketStructureShift dto.Option[ShiftView]   `json:"market_structure_shift"`
}

// Elements returns the priced elements in display order, Absent entries included.
func (c ClosestView) Elements() []NamedElement {
	return []NamedElement{
		{Kind: dto.ElementOrderBlock, Element: c.OrderBlock},
		{Kind: dto.ElementFVG, Element: c.FVG},
		{Kind: dto.ElementLiquidity, Element: c.Liquidity},
		{Kind: dto.ElementSweep, Element: c.Sweep},
	}
}

type NamedElement struct {
	Kind    string
	Element dto.Option[ElementView]
}

type LevelView struct {
	Rank         int             `json:"rank"`
	Action       string          `json:"action"`
	Price        decimal.Decimal `json:"price"`
	Confidence   int             `json:"confidence"`
	DistancePips decimal.Decimal `json:"distance_pips"`
	Freshness    decimal.Decimal `json:"freshness"`
	Reason       string          `json:"reason"`
	// Separator is set on every entry except the last.
	Separator bool `json:"separator"`
}

type RecommendationView struct {
	Action     string             `json:"action"`
	EntryZone  dto.Option[string] `json:"entry_zone"`
	Confidence int                `json:"confidence"`
	Reason     string             `json:"reason"`
}
