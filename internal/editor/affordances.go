package editor

import (
	"slices"

	"garment-texture-studio/internal/canvas"
	"garment-texture-studio/internal/zone"
)

// Affordances are the channel-specific UI bits: mode label, legend and the
// fit shortcuts that are enabled.
type Affordances struct {
	Channel   canvas.Channel
	ModeLabel string
	Legend    []zone.LegendEntry
	Fits      []string
}

// Offers reports whether fit zone id is enabled.
func (a Affordances) Offers(id string) bool {
	return slices.Contains(a.Fits, id)
}

// AffordancesFor returns the affordances of ch. Full torso fits are
// shirt-only; limb fits apply to both channels.
func AffordancesFor(ch canvas.Channel) Affordances {
	if ch == canvas.Pants {
		return Affordances{
			Channel:   ch,
			ModeLabel: "Currently editing: PANTS (Legs)",
			Legend:    zone.PantsLegend,
			Fits:      []string{zone.FitRArm, zone.FitLArm},
		}
	}
	return Affordances{
		Channel:   canvas.Shirt,
		ModeLabel: "Currently editing: SHIRT (Torso + Arms)",
		Legend:    zone.ShirtLegend,
		Fits:      []string{zone.FitFront, zone.FitBack, zone.FitRArm, zone.FitLArm},
	}
}
