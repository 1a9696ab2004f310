package params

import (
	"fmt"
	"os"

	"github.com/paulmach/osm"
	"gopkg.in/yaml.v3"
)

// Borders is the borders definition document:
//
//	countries:
//	  czechia:
//	    - name: prague
//	      areasIds: [435514]
//	    - name: central-bohemia
//	      areasIds: [442397, 435511]
//
// A country may instead map region keys to region definitions,
// in which case an empty name defaults to the key.
// Country and region order is kept as written.
type Borders struct {
	Countries Countries `yaml:"countries"`
}

type Countries []Country

type Country struct {
	Name    string
	Regions []Region
}

type Region struct {
	Name     string  `yaml:"name"`
	AreasIDs []int64 `yaml:"areasIds"`
}

// RelationIDs returns the region's relation IDs, in order.
func (r Region) RelationIDs() []osm.RelationID {
	ids := make([]osm.RelationID, 0, len(r.AreasIDs))
	for _, id := range r.AreasIDs {
		ids = append(ids, osm.RelationID(id))
	}
	return ids
}

// LoadBorders reads and parses the borders definition file at path.
func LoadBorders(path string) (*Borders, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	b, err := ParseBorders(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

func ParseBorders(data []byte) (*Borders, error) {
	b := &Borders{}
	if err := yaml.Unmarshal(data, b); err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate rejects unnamed regions and duplicate country/region pairs,
// which would write to the same output file.
func (b *Borders) Validate() error {
	seen := map[[2]string]bool{}
	for _, c := range b.Countries {
		for i, r := range c.Regions {
			if r.Name == "" {
				return fmt.Errorf("country %q: region %d has no name", c.Name, i+1)
			}
			key := [2]string{c.Name, r.Name}
			if seen[key] {
				return fmt.Errorf("country %q: duplicate region %q", c.Name, r.Name)
			}
			seen[key] = true
		}
	}
	return nil
}

// Filter returns the countries named, in document order. No names means all.
func (c Countries) Filter(names ...string) (Countries, error) {
	if len(names) == 0 {
		return c, nil
	}
	want := map[string]bool{}
	for _, n := range names {
		want[n] = true
	}
	var out Countries
	for _, country := range c {
		if want[country.Name] {
			out = append(out, country)
			delete(want, country.Name)
		}
	}
	for n := range want {
		return nil, fmt.Errorf("unknown country %q", n)
	}
	return out, nil
}

func (c *Countries) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: countries must be a mapping of country name to regions", value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		country := Country{Name: value.Content[i].Value}
		if err := country.decodeRegions(value.Content[i+1]); err != nil {
			return fmt.Errorf("country %q: %w", country.Name, err)
		}
		*c = append(*c, country)
	}
	return nil
}

func (c *Country) decodeRegions(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		return node.Decode(&c.Regions)
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			var r Region
			if err := node.Content[i+1].Decode(&r); err != nil {
				return err
			}
			if r.Name == "" {
				r.Name = node.Content[i].Value
			}
			c.Regions = append(c.Regions, r)
		}
		return nil
	}
	return fmt.Errorf("line %d: regions must be a list or a mapping", node.Line)
}
