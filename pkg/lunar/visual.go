package lunar

// ShapeKind identifies how the lit portion of the disc is drawn
type ShapeKind string

const (
	// ShapeDark is a fully dark disc
	ShapeDark ShapeKind = "dark"
	// ShapeFull is a fully lit disc
	ShapeFull ShapeKind = "full"
	// ShapeCrescentRight is an ellipse anchored on the right edge (waxing crescent)
	ShapeCrescentRight ShapeKind = "crescent-right"
	// ShapeGibbousInsetLeft clips a dark band off the left edge (waxing gibbous)
	ShapeGibbousInsetLeft ShapeKind = "gibbous-inset-left"
	// ShapeGibbousInsetRight clips a dark band off the right edge (waning gibbous)
	ShapeGibbousInsetRight ShapeKind = "gibbous-inset-right"
	// ShapeCrescentLeft is an ellipse anchored on the left edge (waning crescent)
	ShapeCrescentLeft ShapeKind = "crescent-left"
)

// VisualShape describes the lit region of a moon disc. All numbers are
// percentages of the disc's bounding box.
type VisualShape struct {
	Kind ShapeKind `json:"kind"`

	// RadiusX is the horizontal half-width of a crescent ellipse
	RadiusX float64 `json:"radiusX,omitempty"`
	// AnchorX is the horizontal centre of a crescent ellipse: 100 for right, 0 for left
	AnchorX float64 `json:"anchorX,omitempty"`
	// Inset is the width of the dark band clipped off a gibbous disc
	Inset float64 `json:"inset,omitempty"`
}

// Visual maps a snapshot to the shape of its lit region. Within each quarter
// of the cycle the parameter moves linearly with phase, and adjacent quarters
// meet at the same width.
func Visual(m MoonSnapshot) VisualShape {
	if m.Illumination <= 1 {
		return VisualShape{Kind: ShapeDark}
	}

	phase := m.Phase
	switch {
	case phase < 0.25:
		p := phase / 0.25
		return VisualShape{Kind: ShapeCrescentRight, RadiusX: p * 50, AnchorX: 100}
	case phase < 0.5:
		p := (phase - 0.25) / 0.25
		inset := 50 * (1 - p)
		if inset == 0 {
			return VisualShape{Kind: ShapeFull}
		}
		return VisualShape{Kind: ShapeGibbousInsetLeft, Inset: inset}
	case phase < 0.75:
		p := (phase - 0.5) / 0.25
		inset := 50 * p
		if inset == 0 {
			return VisualShape{Kind: ShapeFull}
		}
		return VisualShape{Kind: ShapeGibbousInsetRight, Inset: inset}
	default:
		p := (phase - 0.75) / 0.25
		return VisualShape{Kind: ShapeCrescentLeft, RadiusX: 50 * (1 - p), AnchorX: 0}
	}
}

// LitWidth returns the visible lit width as a percentage of the disc
// diameter, which lets callers compare shapes across kinds.
func (v VisualShape) LitWidth() float64 {
	switch v.Kind {
	case ShapeDark:
		return 0
	case ShapeFull:
		return 100
	case ShapeCrescentRight, ShapeCrescentLeft:
		return v.RadiusX
	default:
		return 100 - v.Inset
	}
}
