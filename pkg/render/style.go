package render

import (
	"github.com/akeil/tkb"
)

// Style controls how the boxes of a layer are drawn.
type Style struct {
	// LineWidth in points.
	LineWidth float64
	// FillAlpha is the opacity (0.0..1.0) for the box background.
	FillAlpha float64
	// Dash is the dash pattern for the outline; nil means solid.
	Dash []float64
	// Caption tells if the label is written above the box.
	Caption bool
}

var (
	// boxes produced by an extractor, not reviewed
	preAnnotationStyle = Style{LineWidth: 0.5, FillAlpha: 0.05, Dash: []float64{2, 2}}
	pendingStyle       = Style{LineWidth: 0.75, FillAlpha: 0.1, Caption: true}
	annotatedStyle     = Style{LineWidth: 1, FillAlpha: 0.15, Caption: true}
)

func styleFor(l tkb.Layer) Style {
	var s Style
	switch l.Status {
	case tkb.Annotated:
		s = annotatedStyle
	case tkb.Pending:
		s = pendingStyle
	default:
		s = preAnnotationStyle
	}

	// training data stands out
	if l.IsTraining() {
		s.LineWidth *= 1.5
	}
	return s
}
