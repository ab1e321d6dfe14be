package chart

import "strings"

// Kind names a chart type understood by the rendering capability.
type Kind string

const (
	KindDoughnut Kind = "doughnut"
	KindBar      Kind = "bar"
	KindLine     Kind = "line"
)

// Kinds lists every supported chart kind.
var Kinds = []Kind{KindDoughnut, KindBar, KindLine}

// Known reports whether k is one of the supported kinds.
func (k Kind) Known() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseKind normalizes a configured kind. Unknown values are returned
// as-is; rejecting them is the renderer's job.
func ParseKind(s string) Kind {
	return Kind(strings.ToLower(strings.TrimSpace(s)))
}

// LegendPosition places the legend relative to the chart area.
type LegendPosition string

const (
	LegendTop    LegendPosition = "top"
	LegendBottom LegendPosition = "bottom"
	LegendLeft   LegendPosition = "left"
	LegendRight  LegendPosition = "right"
)

// Valid reports whether p is one of the four legend positions.
func (p LegendPosition) Valid() bool {
	switch p {
	case LegendTop, LegendBottom, LegendLeft, LegendRight:
		return true
	}
	return false
}

// ParseLegendPosition normalizes a configured legend position. Empty input
// yields LegendBottom.
func ParseLegendPosition(s string) LegendPosition {
	p := LegendPosition(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return LegendBottom
	}
	return p
}
