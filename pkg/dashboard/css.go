package dashboard

import (
	"fmt"
	"math"
	"strconv"

	"github.com/chrissnell/moondash/pkg/lunar"
)

// CSS renders a shape as a clip-path declaration for the lit layer of a moon
// element. The lit layer sits on top of a dark disc of the same size.
func CSS(v lunar.VisualShape) string {
	switch v.Kind {
	case lunar.ShapeFull:
		return "clip-path: circle(50%);"
	case lunar.ShapeCrescentRight, lunar.ShapeCrescentLeft:
		return fmt.Sprintf("clip-path: ellipse(%s%% 50%% at %s%% 50%%);", pct(v.RadiusX), pct(v.AnchorX))
	case lunar.ShapeGibbousInsetLeft:
		return fmt.Sprintf("clip-path: inset(0 0 0 %s%%);", pct(v.Inset))
	case lunar.ShapeGibbousInsetRight:
		return fmt.Sprintf("clip-path: inset(0 %s%% 0 0);", pct(v.Inset))
	default:
		return "clip-path: circle(0%);"
	}
}

// pct formats a percentage with at most two decimals and no trailing zeros
func pct(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}
