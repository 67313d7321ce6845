package dto

type Zone string

const (
	ZonePremium     Zone = "PREMIUM"
	ZoneDiscount    Zone = "DISCOUNT"
	ZoneEquilibrium Zone = "EQUILIBRIUM"
)

// Label is the zone name with the trading bias it suggests.
func (z Zone) Label() string {
	switch z {
	case ZonePremium:
		return "PREMIUM (Sells)"
	case ZoneDiscount:
		return "DISCOUNT (Buys)"
	default:
		return string(z)
	}
}

const (
	MessageTransportFailure  = "The analysis could not be completed. Please try again."
	MessageNoReactionLevels  = "No nearby reaction levels with high confluence were found."
	MessageZonesUndetermined = "Could not determine the trading range."

	LabelNoActiveKillZone = "None"
	LabelNoSignal         = "N/A"
	LabelNotFound         = "Not found"
	LabelNotDetected      = "Not detected"
)

const (
	ElementOrderBlock = "Order Block"
	ElementFVG        = "FVG"
	ElementLiquidity  = "Liquidity"
	ElementSweep      = "Sweep"
)
