package testdata

// Relation_Triangle_100 is a relation/full.json payload for relation 100:
// three ways tracing a closed triangle, way 12 stored backwards,
// plus an admin_centre node member that is not part of the border.
var Relation_Triangle_100 = `{
  "version": "0.6",
  "generator": "OpenStreetMap server",
  "elements": [
    {"type": "node", "id": 1, "lat": 50.0000000, "lon": 14.0000000},
    {"type": "node", "id": 2, "lat": 50.0000000, "lon": 14.1234567},
    {"type": "node", "id": 3, "lat": 50.123456789, "lon": 14.1234567},
    {"type": "node", "id": 4, "lat": 50.0500000, "lon": 14.0500000},
    {"type": "node", "id": 9, "lat": 50.0600000, "lon": 14.0600000, "tags": {"place": "city"}},
    {"type": "way", "id": 11, "nodes": [1, 2]},
    {"type": "way", "id": 12, "nodes": [3, 2]},
    {"type": "way", "id": 13, "nodes": [3, 4, 1]},
    {"type": "relation", "id": 100, "members": [
      {"type": "way", "ref": 11, "role": "outer"},
      {"type": "node", "ref": 9, "role": "admin_centre"},
      {"type": "way", "ref": 12, "role": "outer"},
      {"type": "way", "ref": 13, "role": "outer"}
    ], "tags": {"boundary": "administrative", "admin_level": "4", "type": "boundary"}}
  ]
}`

// Relation_Triangle_200 is a second, disjoint triangle.
var Relation_Triangle_200 = `{
  "elements": [
    {"type": "node", "id": 21, "lat": 10.5, "lon": -20.5},
    {"type": "node", "id": 22, "lat": 10.5, "lon": -20.25},
    {"type": "node", "id": 23, "lat": 10.75, "lon": -20.25},
    {"type": "way", "id": 31, "nodes": [21, 22, 23]},
    {"type": "way", "id": 32, "nodes": [21, 23]},
    {"type": "relation", "id": 200, "members": [
      {"type": "way", "ref": 31, "role": "outer"},
      {"type": "way", "ref": 32, "role": "outer"}
    ]}
  ]
}`

// Relation_Open_300 has two ways that do not meet.
var Relation_Open_300 = `{
  "elements": [
    {"type": "node", "id": 41, "lat": 1, "lon": 1},
    {"type": "node", "id": 42, "lat": 1, "lon": 2},
    {"type": "node", "id": 43, "lat": 3, "lon": 3},
    {"type": "node", "id": 44, "lat": 3, "lon": 4},
    {"type": "way", "id": 51, "nodes": [41, 42]},
    {"type": "way", "id": 52, "nodes": [43, 44]},
    {"type": "relation", "id": 300, "members": [
      {"type": "way", "ref": 51},
      {"type": "way", "ref": 52}
    ]}
  ]
}`

// Relation_MissingNode_400 references node 99, which the payload lacks.
var Relation_MissingNode_400 = `{
  "elements": [
    {"type": "node", "id": 61, "lat": 1, "lon": 1},
    {"type": "way", "id": 71, "nodes": [61, 99]},
    {"type": "relation", "id": 400, "members": [{"type": "way", "ref": 71}]}
  ]
}`

// Relation_NoWays_500 has no way members.
var Relation_NoWays_500 = `{
  "elements": [
    {"type": "node", "id": 81, "lat": 1, "lon": 1},
    {"type": "relation", "id": 500, "members": [{"type": "node", "ref": 81, "role": "label"}]}
  ]
}`
