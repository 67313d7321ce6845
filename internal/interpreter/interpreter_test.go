package interpreter

import (
	"encoding/json"
	"testing"

	"smc-analyzer/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decode(t *testing.T, payload string) *dto.AnalysisResponse {
	t.Helper()
	var resp dto.AnalysisResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &resp))
	return &resp
}

func TestClassifyZone(t *testing.T) {
	premiumStart := d("1.10800")
	discountEnd := d("1.10200")

	tests := []struct {
		name  string
		price string
		want  dto.Zone
	}{
		{name: "inside band", price: "1.10500", want: dto.ZoneEquilibrium},
		{name: "above premium start", price: "1.10900", want: dto.ZonePremium},
		{name: "below discount end", price: "1.10100", want: dto.ZoneDiscount},
		{name: "exactly premium start", price: "1.10800", want: dto.ZoneEquilibrium},
		{name: "exactly discount end", price: "1.10200", want: dto.ZoneEquilibrium},
		{name: "one point above premium start", price: "1.10801", want: dto.ZonePremium},
		{name: "one point below discount end", price: "1.10199", want: dto.ZoneDiscount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyZone(d(tt.price), premiumStart, discountEnd))
		})
	}
}

func TestClassifyZone_CollapsedBand(t *testing.T) {
	bound := d("1.10500")
	assert.Equal(t, dto.ZoneEquilibrium, ClassifyZone(bound, bound, bound))
	assert.Equal(t, dto.ZonePremium, ClassifyZone(d("1.10501"), bound, bound))
	assert.Equal(t, dto.ZoneDiscount, ClassifyZone(d("1.10499"), bound, bound))
}

func TestPipDistance(t *testing.T) {
	tests := []struct {
		name    string
		element string
		current string
		pipSize decimal.Decimal
		want    string
	}{
		{name: "default multiplier", element: "1.10550", current: "1.10500", pipSize: DefaultPipSize, want: "50.0"},
		{name: "standard four decimal pip", element: "1.10550", current: "1.10500", pipSize: d("0.0001"), want: "5.0"},
		{name: "element below price is non-negative", element: "1.10450", current: "1.10500", pipSize: DefaultPipSize, want: "50.0"},
		{name: "rounds to one decimal", element: "1.105004", current: "1.10500", pipSize: DefaultPipSize, want: "0.4"},
		{name: "rounds half away from zero", element: "1.1050015", current: "1.10500", pipSize: DefaultPipSize, want: "0.2"},
		{name: "jpy pair", element: "157.250", current: "157.200", pipSize: d("0.01"), want: "5.0"},
		{name: "same price", element: "1.1", current: "1.1", pipSize: DefaultPipSize, want: "0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PipDistance(d(tt.element), d(tt.current), tt.pipSize)
			assert.Equal(t, tt.want, got.StringFixed(1))
			assert.False(t, got.IsNegative())
		})
	}
}

func TestResolveKillZone(t *testing.T) {
	tests := []struct {
		name      string
		kz        dto.KillZone
		wantLabel string
		wantPrio  string
		wantMins  dto.Option[int]
	}{
		{
			name:      "inactive zone is never named",
			kz:        dto.KillZone{Name: "London Open", IsActive: false, Priority: "high", RemainingMinutes: dto.Present(30)},
			wantLabel: dto.LabelNoActiveKillZone,
			wantPrio:  "HIGH",
			wantMins:  dto.Absent[int](),
		},
		{
			name:      "active zone",
			kz:        dto.KillZone{Name: "New York", IsActive: true, Priority: "medium", RemainingMinutes: dto.Present(95)},
			wantLabel: "New York",
			wantPrio:  "MEDIUM",
			wantMins:  dto.Present(95),
		},
		{
			name:      "active without remaining minutes",
			kz:        dto.KillZone{Name: "Asia", IsActive: true, Priority: "Low"},
			wantLabel: "Asia",
			wantPrio:  "LOW",
			wantMins:  dto.Absent[int](),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveKillZone(tt.kz)
			assert.Equal(t, tt.wantLabel, got.Label)
			assert.Equal(t, tt.wantPrio, got.Priority)
			assert.Equal(t, tt.wantMins, got.RemainingMinutes)
		})
	}
}

func TestEnumerateLevels(t *testing.T) {
	levels := []dto.ReactionLevel{
		{Action: "BUY", Price: d("1.10450"), Confidence: 85, Reason: "first"},
		{Action: "SELL", Price: d("1.10800"), Confidence: 70, Reason: "second"},
		{Action: "BUY", Price: d("1.10300"), Confidence: 90, Reason: "third"},
	}

	got := EnumerateLevels(levels)
	require.Len(t, got, 3)

	for idx, level := range got {
		assert.Equal(t, idx+1, level.Rank)
		assert.Equal(t, levels[idx].Reason, level.Reason, "service order is preserved")
	}
	assert.True(t, got[0].Separator)
	assert.True(t, got[1].Separator)
	assert.False(t, got[2].Separator, "no separator after the last entry")

	assert.Empty(t, EnumerateLevels(nil))
}

func TestInterpreter_PipSizeFor(t *testing.T) {
	in := New(Options{PipSizes: map[string]decimal.Decimal{"usdjpy": d("0.01"), "BAD": decimal.Zero}})

	assert.True(t, DefaultPipSize.Equal(in.PipSizeFor("EURUSD")))
	assert.True(t, d("0.01").Equal(in.PipSizeFor("USDJPY")))
	assert.True(t, DefaultPipSize.Equal(in.PipSizeFor("BAD")), "non-positive overrides are ignored")
}

const fullPayload = `{
  "symbol": "EURUSD",
  "current_price": 1.10500,
  "analysis_time": "2025-06-13 09:30:00",
  "structure_1min": {"trend": "bullish", "bos": true, "choch": false, "signal": ""},
  "reaction_levels": [
    {"action": "BUY", "price": 1.10450, "confidence": 85, "distance_pips": 5.0, "freshness": 12.5, "reason": "OB"},
    {"action": "SELL", "price": 1.10800, "confidence": 72, "distance_pips": 30.0, "freshness": 40.0, "reason": "FVG"}
  ],
  "active_kill_zone": {"name": "London Open", "is_active": false, "priority": "high"},
  "premium_discount_zones": {"range_low": 1.10000, "range_high": 1.11000, "equilibrium": 1.10500,
    "premium_start": 1.10800, "discount_end": 1.10200},
  "closest_elements": {
    "closest_order_block": {"type": "bullish", "price": 1.10550},
    "closest_liquidity": {"type": "buy_liquidity", "price": 1.10400},
    "closest_sweep": {"type": "sell_side", "level_price": 1.10300},
    "market_structure_shift": {"type": "bullish", "description": "MSS above 1.1048"}
  },
  "recommendation": {"action": "BUY", "entry_zone": "", "confidence": 80, "reason": "Confluence"}
}`

func TestInterpreter_Interpret(t *testing.T) {
	vm := New(Options{}).Interpret(decode(t, fullPayload))

	assert.False(t, vm.IsError())
	assert.Equal(t, "EURUSD", vm.Symbol)

	assert.Equal(t, "BULLISH", vm.Structure.Trend)
	assert.Equal(t, dto.LabelNoSignal, vm.Structure.Signal, "empty signal falls back")

	assert.Equal(t, dto.LabelNoActiveKillZone, vm.KillZone.Label)
	assert.Equal(t, "HIGH", vm.KillZone.Priority)

	zones, ok := vm.Zones.Get()
	require.True(t, ok)
	assert.Equal(t, dto.ZoneEquilibrium, zones.Position)

	ob, ok := vm.Closest.OrderBlock.Get()
	require.True(t, ok)
	assert.Equal(t, "BULLISH", ob.Type)
	assert.Equal(t, "50.0", ob.DistancePips.StringFixed(1))

	assert.False(t, vm.Closest.FVG.IsPresent())

	sweep, ok := vm.Closest.Sweep.Get()
	require.True(t, ok)
	assert.Equal(t, "SELL_SIDE", sweep.Type)
	assert.Equal(t, "200.0", sweep.DistancePips.StringFixed(1))

	mss, ok := vm.Closest.MarketStructureShift.Get()
	require.True(t, ok)
	assert.Equal(t, "MSS above 1.1048", mss.Description)

	require.Len(t, vm.ReactionLevels, 2)
	assert.Empty(t, vm.LevelsNote)

	assert.False(t, vm.Recommendation.EntryZone.IsPresent(), "empty entry zone is treated as absent")
}

func TestInterpreter_InterpretPremium(t *testing.T) {
	raw := decode(t, fullPayload)
	raw.CurrentPrice = d("1.10900")

	zones, ok := New(Options{}).Interpret(raw).Zones.Get()
	require.True(t, ok)
	assert.Equal(t, dto.ZonePremium, zones.Position)
}

func TestInterpreter_InterpretPairAwarePip(t *testing.T) {
	in := New(Options{PipSizes: map[string]decimal.Decimal{"EURUSD": d("0.0001")}})
	vm := in.Interpret(decode(t, fullPayload))

	ob, ok := vm.Closest.OrderBlock.Get()
	require.True(t, ok)
	assert.Equal(t, "5.0", ob.DistancePips.StringFixed(1))
}

func TestInterpreter_UndeterminedZones(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "zones missing", payload: `{"symbol":"EURUSD","current_price":1.1}`},
		{name: "equilibrium missing", payload: `{"symbol":"EURUSD","current_price":1.1,"premium_discount_zones":{"premium_start":1.2,"discount_end":1.0}}`},
		{name: "equilibrium null", payload: `{"symbol":"EURUSD","current_price":1.1,"premium_discount_zones":{"equilibrium":null}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := New(Options{}).Interpret(decode(t, tt.payload))
			assert.False(t, vm.Zones.IsPresent())
		})
	}
}

func TestInterpreter_EmptyState(t *testing.T) {
	vm := New(Options{}).Interpret(decode(t, `{"symbol":"EURUSD","current_price":1.1,"reaction_levels":[]}`))

	assert.Empty(t, vm.ReactionLevels)
	assert.Equal(t, dto.MessageNoReactionLevels, vm.LevelsNote)
	for _, el := range vm.Closest.Elements() {
		assert.False(t, el.Element.IsPresent(), el.Kind)
	}
	assert.False(t, vm.Closest.MarketStructureShift.IsPresent())
}

func TestInterpreter_ErrorShortCircuits(t *testing.T) {
	vm := New(Options{}).Interpret(decode(t, `{"error":"Symbol not supported"}`))

	assert.True(t, vm.IsError())
	assert.Equal(t, ViewModel{Error: "Symbol not supported"}, vm)
}

func TestInterpreter_DoesNotMutateInput(t *testing.T) {
	raw := decode(t, fullPayload)
	before, err := json.Marshal(raw)
	require.NoError(t, err)

	New(Options{}).Interpret(raw)

	after, err := json.Marshal(raw)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}
