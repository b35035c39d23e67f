package zone

// LegendEntry is one swatch in the channel legend.
type LegendEntry struct {
	Label string
	Color string
}

var (
	ShirtLegend = []LegendEntry{
		{Label: "Torso", Color: "#4CAF50"},
		{Label: "Right Arm", Color: "#2196F3"},
		{Label: "Left Arm", Color: "#FF9800"},
	}
	PantsLegend = []LegendEntry{
		{Label: "Right Leg", Color: "#2196F3"},
		{Label: "Left Leg", Color: "#FF9800"},
	}
)
