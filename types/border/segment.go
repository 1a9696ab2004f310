package border

import (
	"slices"

	"github.com/paulmach/osm"
)

// Segment is one oriented polyline fragment of a border, taken from an OSM way.
// The WayID is only used to identify the segment in logs and errors.
type Segment struct {
	WayID  osm.WayID
	Points []Point
}

func NewSegment(id osm.WayID, points ...Point) Segment {
	return Segment{WayID: id, Points: points}
}

// Start returns the first point. The segment must not be empty.
func (s Segment) Start() Point {
	return s.Points[0]
}

// End returns the last point. The segment must not be empty.
func (s Segment) End() Point {
	return s.Points[len(s.Points)-1]
}

func (s Segment) StartsWith(p Point) bool {
	return s.Start().Equal(p)
}

func (s Segment) EndsWith(p Point) bool {
	return s.End().Equal(p)
}

// Reversed returns a copy of the segment traversed tail to head.
// The receiver is left untouched.
func (s Segment) Reversed() Segment {
	points := slices.Clone(s.Points)
	slices.Reverse(points)
	return Segment{WayID: s.WayID, Points: points}
}
