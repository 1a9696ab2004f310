package osmapi

import (
	"errors"
	"fmt"

	"github.com/paulmach/osm"
	"github.com/rotblauer/osmborders/types/border"
	"github.com/tidwall/gjson"
)

// ErrDecode is wrapped by every error caused by a payload that doesn't
// have the expected shape or cross-references.
var ErrDecode = errors.New("decode relation")

// elements indexes a relation/full.json payload by element type and ID.
type elements struct {
	relations map[osm.RelationID]gjson.Result
	ways      map[osm.WayID]gjson.Result
	nodes     map[osm.NodeID]gjson.Result
}

func indexElements(data []byte) (*elements, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrDecode)
	}
	els := gjson.GetBytes(data, "elements")
	if !els.IsArray() {
		return nil, fmt.Errorf("%w: missing 'elements' array", ErrDecode)
	}
	idx := &elements{
		relations: make(map[osm.RelationID]gjson.Result),
		ways:      make(map[osm.WayID]gjson.Result),
		nodes:     make(map[osm.NodeID]gjson.Result),
	}
	for _, el := range els.Array() {
		id := el.Get("id").Int()
		switch osm.Type(el.Get("type").String()) {
		case osm.TypeRelation:
			idx.relations[osm.RelationID(id)] = el
		case osm.TypeWay:
			idx.ways[osm.WayID(id)] = el
		case osm.TypeNode:
			idx.nodes[osm.NodeID(id)] = el
		}
	}
	return idx, nil
}

// DecodeRelation extracts the border segments of relation id from a
// relation/full.json payload: one segment per "way" member, in member order,
// with node coordinates parsed from their raw JSON text so no precision is lost.
func DecodeRelation(id osm.RelationID, data []byte) ([]border.Segment, error) {
	idx, err := indexElements(data)
	if err != nil {
		return nil, err
	}
	rel, ok := idx.relations[id]
	if !ok {
		return nil, fmt.Errorf("%w: relation %d not in payload", ErrDecode, id)
	}

	var segments []border.Segment
	for _, m := range rel.Get("members").Array() {
		if osm.Type(m.Get("type").String()) != osm.TypeWay {
			continue
		}
		wayID := osm.WayID(m.Get("ref").Int())
		way, ok := idx.ways[wayID]
		if !ok {
			return nil, fmt.Errorf("%w: relation %d references missing way %d", ErrDecode, id, wayID)
		}
		s, err := idx.segment(wayID, way)
		if err != nil {
			return nil, err
		}
		segments = append(segments, s)
	}
	return segments, nil
}

func (idx *elements) segment(wayID osm.WayID, way gjson.Result) (border.Segment, error) {
	refs := way.Get("nodes").Array()
	if len(refs) == 0 {
		return border.Segment{}, fmt.Errorf("%w: way %d has no nodes", ErrDecode, wayID)
	}
	points := make([]border.Point, 0, len(refs))
	for _, ref := range refs {
		nodeID := osm.NodeID(ref.Int())
		node, ok := idx.nodes[nodeID]
		if !ok {
			return border.Segment{}, fmt.Errorf("%w: way %d references missing node %d", ErrDecode, wayID, nodeID)
		}
		lat, lon := node.Get("lat"), node.Get("lon")
		if lat.Type != gjson.Number || lon.Type != gjson.Number {
			return border.Segment{}, fmt.Errorf("%w: node %d has no coordinates", ErrDecode, nodeID)
		}
		p, err := border.NewPoint(lat.Raw, lon.Raw)
		if err != nil {
			return border.Segment{}, fmt.Errorf("%w: node %d: %v", ErrDecode, nodeID, err)
		}
		points = append(points, p)
	}
	return border.NewSegment(wayID, points...), nil
}
