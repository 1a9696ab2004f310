// Package formats writes assembled border rings to files understood by other tools.
package formats

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/rotblauer/osmborders/types/border"
)

// Format is an output file format.
type Format int

const (
	// Poly is the Osmosis polygon filter file format.
	Poly Format = iota + 1
	// GPX renders each ring as a GPX track segment, for looking at in track viewers.
	GPX
	// GeoJSON renders a region as one MultiPolygon feature.
	GeoJSON
)

var formatNames = map[Format]string{
	Poly:    "poly",
	GPX:     "gpx",
	GeoJSON: "geojson",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Extension is the file name extension, without the dot.
func (f Format) Extension() string {
	return f.String()
}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for f, name := range formatNames {
		if name == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown output format %q (want poly, gpx or geojson)", s)
}

// Rings is a lazy sequence of flattened rings. An error ends the sequence.
type Rings = iter.Seq2[iter.Seq[border.Point], error]

// WriterFunc writes a named region's rings to w.
// It returns the first error yielded by rings, or the first write error.
type WriterFunc func(w io.Writer, name string, rings Rings) error

// Writer returns the writer for the format.
func (f Format) Writer() (WriterFunc, error) {
	switch f {
	case Poly:
		return WritePoly, nil
	case GPX:
		return WriteGPX, nil
	case GeoJSON:
		return WriteGeoJSON, nil
	}
	return nil, fmt.Errorf("no writer for %v", f)
}

// Flattened adapts a ring sequence to Rings.
func Flattened(rings iter.Seq2[border.Ring, error]) Rings {
	return func(yield func(iter.Seq[border.Point], error) bool) {
		for ring, err := range rings {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(ring.Points(), nil) {
				return
			}
		}
	}
}

// FromRings is Flattened for rings already in hand.
func FromRings(rings ...border.Ring) Rings {
	return Flattened(func(yield func(border.Ring, error) bool) {
		for _, r := range rings {
			if !yield(r, nil) {
				return
			}
		}
	})
}
