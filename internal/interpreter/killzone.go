package interpreter

import (
	"strings"

	"smc-analyzer/internal/dto"
)

// ResolveKillZone never names an inactive zone, whatever its name says.
func ResolveKillZone(kz dto.KillZone) KillZoneView {
	view := KillZoneView{
		Label:    dto.LabelNoActiveKillZone,
		Active:   kz.IsActive,
		Priority: strings.ToUpper(kz.Priority),
	}
	if kz.IsActive {
		view.Label = kz.Name
		view.RemainingMinutes = kz.RemainingMinutes
	}
	return view
}
