// Package interpreter derives display-ready values from a raw analysis
// payload: zone classification, pip proximity of the closest elements,
// the active kill zone label and the ranked reaction levels.
package interpreter

import (
	"strings"

	"smc-analyzer/internal/dto"

	"github.com/shopspring/decimal"
)

// DefaultPipSize reproduces the fixed x100000 multiplier of 5-decimal pairs.
var DefaultPipSize = decimal.New(1, -5)

type Options struct {
	PipSize decimal.Decimal
	// PipSizes overrides PipSize per symbol. Keys are matched case-insensitively.
	PipSizes map[string]decimal.Decimal
}

type Interpreter struct {
	pipSize  decimal.Decimal
	pipSizes map[string]decimal.Decimal
}

func New(opts Options) *Interpreter {
	pipSize := opts.PipSize
	if !pipSize.IsPositive() {
		pipSize = DefaultPipSize
	}

	pipSizes := make(map[string]decimal.Decimal, len(opts.PipSizes))
	for symbol, size := range opts.PipSizes {
		if size.IsPositive() {
			pipSizes[dto.NormalizeSymbol(symbol)] = size
		}
	}

	return &Interpreter{pipSize: pipSize, pipSizes: pipSizes}
}

func (i *Interpreter) PipSizeFor(symbol string) decimal.Decimal {
	if size, ok := i.pipSizes[dto.NormalizeSymbol(symbol)]; ok {
		return size
	}
	return i.pipSize
}

// Interpret is pure: it reads raw and never mutates it.
func (i *Interpreter) Interpret(raw *dto.AnalysisResponse) ViewModel {
	if raw.IsError() {
		return ViewModel{Error: raw.ErrorMessage()}
	}

	pipSize := i.PipSizeFor(raw.Symbol)
	price := raw.CurrentPrice

	vm := ViewModel{
		Symbol:         raw.Symbol,
		CurrentPrice:   price,
		AnalysisTime:   raw.AnalysisTime,
		PipSize:        pipSize,
		Structure:      structureView(raw.Structure),
		KillZone:       ResolveKillZone(raw.ActiveKillZone),
		Zones:          zoneView(price, raw.PremiumDiscountZones),
		Closest:        closestView(price, pipSize, raw.ClosestElements),
		ReactionLevels: EnumerateLevels(raw.ReactionLevels),
		Recommendation: recommendationView(raw.Recommendation),
	}
	if len(vm.ReactionLevels) == 0 {
		vm.LevelsNote = dto.MessageNoReactionLevels
	}
	return vm
}

func structureView(s dto.StructureSummary) StructureView {
	signal, ok := s.Signal.Get()
	if !ok || signal == "" {
		signal = dto.LabelNoSignal
	}
	return StructureView{
		Trend:  strings.ToUpper(s.Trend),
		BOS:    s.BOS,
		CHOCH:  s.CHOCH,
		Signal: signal,
	}
}

func recommendationView(r dto.Recommendation) RecommendationView {
	entry := r.EntryZone
	if zone, ok := entry.Get(); ok && zone == "" {
		entry = dto.Absent[string]()
	}
	return RecommendationView{
		Action:     r.Action,
		EntryZone:  entry,
		Confidence: r.Confidence,
		Reason:     r.Reason,
	}
}
