// Package presenter turns an interpreted ViewModel into user-facing text.
// It formats values and never derives new ones.
package presenter

import (
	"fmt"

	"smc-analyzer/internal/dto"
	"smc-analyzer/internal/interpreter"
	"smc-analyzer/internal/session"

	"github.com/shopspring/decimal"
)

const (
	MessageLoading = "Loading analysis..."
	separator      = "────────────────────"
)

// Report is the renderer-neutral layout of one analysis.
type Report struct {
	Title    string
	Header   []string
	Sections []Section
	// Error, when set, replaces everything else.
	Error string
}

type Section struct {
	Title string
	Lines []Line
}

type Line struct {
	Text   string
	Indent bool
	// Rule draws a separator instead of text.
	Rule bool
}

func price(d decimal.Decimal) string {
	return d.StringFixed(5)
}

func oneDecimal(d decimal.Decimal) string {
	return d.StringFixed(1)
}

func text(format string, args ...interface{}) Line {
	return Line{Text: fmt.Sprintf(format, args...)}
}

func indented(format string, args ...interface{}) Line {
	return Line{Text: fmt.Sprintf(format, args...), Indent: true}
}

// Build lays out vm. An error result yields a Report carrying only the message.
func Build(vm interpreter.ViewModel) Report {
	if vm.IsError() {
		return Report{Error: vm.Error}
	}

	return Report{
		Title: fmt.Sprintf("📊 SMC + ICT Analysis - %s", vm.Symbol),
		Header: []string{
			fmt.Sprintf("🕒 %s", vm.AnalysisTime),
			fmt.Sprintf("💰 Current Price: %s", price(vm.CurrentPrice)),
		},
		Sections: []Section{
			contextSection(vm),
			structureSection(vm.Structure),
			closestSection(vm.Closest),
			levelsSection(vm),
			recommendationSection(vm.Recommendation),
		},
	}
}

func contextSection(vm interpreter.ViewModel) Section {
	kz := vm.KillZone
	killZone := fmt.Sprintf("🕒 Active Kill Zone: %s (Priority: %s)", kz.Label, kz.Priority)
	if mins, ok := kz.RemainingMinutes.Get(); ok {
		killZone += fmt.Sprintf(" - %d min left", mins)
	}

	lines := []Line{{Text: killZone}}
	if zones, ok := vm.Zones.Get(); ok {
		lines = append(lines,
			text("📈 Trading Range (15min): %s - %s", price(zones.RangeLow), price(zones.RangeHigh)),
			text("⚖️ Equilibrium (50%%): %s", price(zones.Equilibrium)),
			text("📍 Current Position: %s Zone", zones.Position.Label()),
		)
	} else {
		lines = append(lines, text("📉 Premium/Discount Zones: %s", dto.MessageZonesUndetermined))
	}

	return Section{Title: "ICT Context", Lines: lines}
}

func structureSection(s interpreter.StructureView) Section {
	return Section{
		Title: "SMC Structure (1min)",
		Lines: []Line{
			text("Trend: %s | BOS: %t | CHOCH: %t | Signal: %s", s.Trend, s.BOS, s.CHOCH, s.Signal),
		},
	}
}

var elementIcons = map[string]string{
	dto.ElementOrderBlock: "🔷",
	dto.ElementFVG:        "📊",
	dto.ElementLiquidity:  "💧",
	dto.ElementSweep:      "🌊",
}

func closestSection(c interpreter.ClosestView) Section {
	var lines []Line
	for _, named := range c.Elements() {
		icon := elementIcons[named.Kind]
		if el, ok := named.Element.Get(); ok {
			lines = append(lines, text("%s %s: %s @ %s (%s pips)", icon, named.Kind, el.Type, price(el.Price), oneDecimal(el.DistancePips)))
		} else {
			lines = append(lines, text("%s %s: %s", icon, named.Kind, dto.LabelNotFound))
		}
	}

	if mss, ok := c.MarketStructureShift.Get(); ok {
		lines = append(lines, text("🔄 MSS: %s - %s", mss.Type, mss.Description))
	} else {
		lines = append(lines, text("🔄 MSS: %s", dto.LabelNotDetected))
	}

	return Section{Title: "Closest Elements to Price", Lines: lines}
}

func levelsSection(vm interpreter.ViewModel) Section {
	section := Section{Title: "Reaction Levels (1min)"}
	if len(vm.ReactionLevels) == 0 {
		section.Lines = []Line{{Text: vm.LevelsNote}}
		return section
	}

	for _, level := range vm.ReactionLevels {
		section.Lines = append(section.Lines,
			text("%d. %s @ %s (Confidence: %d%%)", level.Rank, level.Action, price(level.Price), level.Confidence),
			indented("Distance: %s pips | Freshness: %s min", oneDecimal(level.DistancePips), oneDecimal(level.Freshness)),
			indented("Reason: %s", level.Reason),
		)
		if level.Separator {
			section.Lines = append(section.Lines, Line{Rule: true})
		}
	}
	return section
}

func recommendationSection(r interpreter.RecommendationView) Section {
	lines := []Line{text("Action: %s", r.Action)}
	if zone, ok := r.EntryZone.Get(); ok {
		lines = append(lines, text("Entry Zone: %s", zone))
	}
	lines = append(lines,
		text("Confidence: %d%%", r.Confidence),
		text("Reason: %s", r.Reason),
	)
	return Section{Title: "Final Recommendation", Lines: lines}
}

// Renderer turns a Report or a session state into output text.
type Renderer interface {
	Render(r Report) string
	RenderFailure(reason string) string
	RenderLoading(symbol string) string
}

// RenderState picks what to show for s. Idle renders nothing.
func RenderState(r Renderer, s session.State) string {
	switch s.Status {
	case session.StatusLoading:
		return r.RenderLoading(s.Symbol)
	case session.StatusFailed:
		return r.RenderFailure(s.Reason)
	case session.StatusSucceeded:
		if s.View == nil {
			return ""
		}
		return r.Render(Build(*s.View))
	default:
		return ""
	}
}
