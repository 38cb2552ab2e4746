package domain

// ZoneStyle is how a zone is drawn on the map. The table is passed to
// presenters explicitly rather than living as package-global state, so a
// deployment can recolor without touching the renderer.
type ZoneStyle struct {
	Color string `json:"color"` // hex, e.g. "#007bff"
	Label string `json:"label"`
}

// StyleTable maps zones to their map styles.
type StyleTable map[Zone]ZoneStyle

// DefaultStyles returns the municipal color scheme.
func DefaultStyles() StyleTable {
	return StyleTable{
		ZoneVerde:        {Color: "#28a745", Label: "Verde"},
		ZoneAzul:         {Color: "#007bff", Label: "Azul"},
		ZoneNaranja:      {Color: "#fd7e14", Label: "Naranja"},
		ZoneRojo:         {Color: "#dc3545", Label: "Rojo"},
		ZoneAltaRotacion: {Color: "#6f42c1", Label: "Alta Rotación"},
		ZoneUnknown:      {Color: "#6c757d", Label: "Unknown"},
	}
}

// Style returns the style for z, falling back to the Unknown style.
func (t StyleTable) Style(z Zone) ZoneStyle {
	if s, ok := t[z]; ok {
		return s
	}
	return t[ZoneUnknown]
}
