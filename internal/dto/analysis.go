package dto

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	Symbol string `json:"symbol" validate:"required,max=20"`
}

// NormalizeSymbol trims and upper-cases a user supplied pair code.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// AnalysisResponse is either a service-reported error ({"error": "..."}) or
// a full AnalysisResult. Callers must check IsError before reading the result.
type AnalysisResponse struct {
	Error Option[string] `json:"error"`
	AnalysisResult
}

func (r *AnalysisResponse) IsError() bool {
	msg, ok := r.Error.Get()
	return ok && msg != ""
}

func (r *AnalysisResponse) ErrorMessage() string {
	return r.Error.OrElse("")
}

type AnalysisResult struct {
	Symbol               string                 `json:"symbol" validate:"required"`
	CurrentPrice         decimal.Decimal        `json:"current_price" validate:"gt=0"`
	AnalysisTime         string                 `json:"analysis_time"`
	Structure            StructureSummary       `json:"structure_1min"`
	ReactionLevels       []ReactionLevel        `json:"reaction_levels"`
	ActiveKillZone       KillZone               `json:"active_kill_zone"`
	PremiumDiscountZones Option[PriceRangeZone] `json:"premium_discount_zones"`
	ClosestElements      ClosestElements        `json:"closest_elements"`
	Recommendation       Recommendation         `json:"recommendation"`
}

type StructureSummary struct {
	Trend  string         `json:"trend"`
	BOS    bool           `json:"bos"`
	CHOCH  bool           `json:"choch"`
	Signal Option[string] `json:"signal"`
}

type KillZone struct {
	Name             string      `json:"name"`
	IsActive         bool        `json:"is_active"`
	Priority         string      `json:"priority"`
	RemainingMinutes Option[int] `json:"remaining_minutes"`
}

// PriceRangeZone bounds the premium and discount sub-ranges of the trading
// range. An absent Equilibrium means the range could not be determined.
type PriceRangeZone struct {
	RangeLow     decimal.Decimal         `json:"range_low"`
	RangeHigh    decimal.Decimal         `json:"range_high"`
	Equilibrium  Option[decimal.Decimal] `json:"equilibrium"`
	PremiumStart decimal.Decimal         `json:"premium_start"`
	DiscountEnd  decimal.Decimal         `json:"discount_end"`
	CurrentZone  Option[string]          `json:"current_zone"`
}

type PricedElement struct {
	Type  string          `json:"type"`
	Price decimal.Decimal `json:"price"`
}

type Sweep struct {
	Type       string          `json:"type"`
	LevelPrice decimal.Decimal `json:"level_price"`
}

type StructureShift struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

type ClosestElements struct {
	OrderBlock           Option[PricedElement]  `json:"closest_order_block"`
	FVG                  Option[PricedElement]  `json:"closest_fvg"`
	Liquidity            Option[PricedElement]  `json:"closest_liquidity"`
	Sweep                Option[Sweep]          `json:"closest_sweep"`
	MarketStructureShift Option[StructureShift] `json:"market_structure_shift"`
}

// ReactionLevel is one entry of the service's pre-ranked level list.
type ReactionLevel struct {
	Action       string          `json:"action"`
	Price        decimal.Decimal `json:"price"`
	Confidence   int             `json:"confidence"`
	DistancePips decimal.Decimal `json:"distance_pips"`
	Freshness    decimal.Decimal `json:"freshness"`
	Reason       string          `json:"reason"`
}

type Recommendation struct {
	Action     string         `json:"action"`
	EntryZone  Option[string] `json:"entry_zone"`
	Confidence int            `json:"confidence"`
	Reason     string         `json:"reason"`
}
