package border

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/shopspring/decimal"
)

// Point is a (latitude, longitude) pair kept at the precision it was received with.
// Two points are equal when their decimal values are equal; there is no tolerance.
type Point struct {
	Lat decimal.Decimal
	Lon decimal.Decimal
}

// NewPoint parses a point from its decimal text, eg. NewPoint("50.0755381", "14.4378005").
func NewPoint(lat, lon string) (Point, error) {
	la, err := decimal.NewFromString(lat)
	if err != nil {
		return Point{}, fmt.Errorf("latitude %q: %w", lat, err)
	}
	lo, err := decimal.NewFromString(lon)
	if err != nil {
		return Point{}, fmt.Errorf("longitude %q: %w", lon, err)
	}
	return Point{Lat: la, Lon: lo}, nil
}

// MustPoint is NewPoint for literals known to be valid. It panics otherwise.
func MustPoint(lat, lon string) Point {
	p, err := NewPoint(lat, lon)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Point) Equal(q Point) bool {
	return p.Lat.Equal(q.Lat) && p.Lon.Equal(q.Lon)
}

// LatString renders the latitude with the digits it was parsed with,
// trailing zeros included.
func (p Point) LatString() string {
	return exactString(p.Lat)
}

// LonString is LatString for longitude.
func (p Point) LonString() string {
	return exactString(p.Lon)
}

func (p Point) String() string {
	return fmt.Sprintf("(%s, %s)", p.LatString(), p.LonString())
}

// Orb converts the point to an orb.Point, which is [lon, lat] in float64.
// The conversion is lossy; use it for geometry summaries only.
func (p Point) Orb() orb.Point {
	return orb.Point{p.Lon.InexactFloat64(), p.Lat.InexactFloat64()}
}

func exactString(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}
