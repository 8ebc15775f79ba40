package data

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Zone is a circular named region used for zone classification and loot/
// variant weighting. Registered at world build, read-only afterwards.
type Zone struct {
	Name    string  `yaml:"name"`
	CX      float64 `yaml:"cx"`
	CY      float64 `yaml:"cy"`
	Radius  float64 `yaml:"radius"`
	Density float64 `yaml:"density"`
}

type zoneListFile struct {
	Zones []Zone `yaml:"zones"`
}

// ZoneTable holds the registered zones in declaration order.
type ZoneTable struct {
	zones []Zone
}

//go:embed defaults/zones.yaml
var defaultZonesYAML []byte

// LoadZoneTable loads zones from a YAML file.
func LoadZoneTable(path string) (*ZoneTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read zones: %w", err)
	}
	return parseZones(raw)
}

// DefaultZoneTable returns the built-in zone set of the original world.
func DefaultZoneTable() *ZoneTable {
	t, err := parseZones(defaultZonesYAML)
	if err != nil {
		panic("embedded zones.yaml invalid: " + err.Error())
	}
	return t
}

func parseZones(raw []byte) (*ZoneTable, error) {
	var f zoneListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse zones: %w", err)
	}
	return &ZoneTable{zones: f.Zones}, nil
}

// Classify returns the name of the first zone containing (x,y), or
// "wilderness" when none does. First match wins; declaration order is the
// priority order.
func (t *ZoneTable) Classify(x, y float64) string {
	for _, z := range t.zones {
		dx, dy := x-z.CX, y-z.CY
		if dx*dx+dy*dy <= z.Radius*z.Radius {
			return z.Name
		}
	}
	return "wilderness"
}

// Get returns a zone by name.
func (t *ZoneTable) Get(name string) (Zone, bool) {
	for _, z := range t.zones {
		if z.Name == name {
			return z, true
		}
	}
	return Zone{}, false
}

// All returns the zones in declaration order.
func (t *ZoneTable) All() []Zone { return t.zones }

// Count returns the number of registered zones.
func (t *ZoneTable) Count() int { return len(t.zones) }
