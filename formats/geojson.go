package formats

import (
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// WriteGeoJSON writes a FeatureCollection holding one MultiPolygon feature,
// one single-ring polygon per ring, with the region name as the "name" property.
// Coordinates are converted to float64.
func WriteGeoJSON(w io.Writer, name string, rings Rings) error {
	mp := orb.MultiPolygon{}
	for points, err := range rings {
		if err != nil {
			return err
		}
		ring := orb.Ring{}
		for p := range points {
			ring = append(ring, p.Orb())
		}
		mp = append(mp, orb.Polygon{ring})
	}
	f := geojson.NewFeature(mp)
	f.Properties["name"] = name
	fc := geojson.NewFeatureCollection()
	fc.Append(f)
	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
