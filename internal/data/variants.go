package data

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// VariantProfile is the stat block for one zombie variant. Variants share
// one behavior implementation and differ only by these numbers and their
// tag (`zombie_<name>`).
type VariantProfile struct {
	Name      string  `yaml:"name"`
	Weight    float64 `yaml:"weight"` // spawn roll weight, fractions of 1
	HP        int     `yaml:"hp"`
	Speed     float64 `yaml:"speed"` // px/s
	Damage    int     `yaml:"damage"`
	ColliderW float64 `yaml:"collider_w"`
	ColliderH float64 `yaml:"collider_h"`
	Knockback float64 `yaml:"knockback"` // px shove applied on a landed hit
	Score     int     `yaml:"score"`     // kill score award
}

type variantListFile struct {
	Variants []VariantProfile `yaml:"variants"`
}

// VariantTable holds variant profiles in declaration order; the first
// entry is the baseline used when a roll or lookup falls through.
type VariantTable struct {
	variants []VariantProfile
}

//go:embed defaults/variants.yaml
var defaultVariantsYAML []byte

// LoadVariantTable loads variant profiles from a YAML file.
func LoadVariantTable(path string) (*VariantTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read variants: %w", err)
	}
	return parseVariants(raw)
}

// DefaultVariantTable returns the built-in normal/runner/tank profiles.
func DefaultVariantTable() *VariantTable {
	t, err := parseVariants(defaultVariantsYAML)
	if err != nil {
		panic("embedded variants.yaml invalid: " + err.Error())
	}
	return t
}

func parseVariants(raw []byte) (*VariantTable, error) {
	var f variantListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse variants: %w", err)
	}
	if len(f.Variants) == 0 {
		return nil, fmt.Errorf("parse variants: empty table")
	}
	return &VariantTable{variants: f.Variants}, nil
}

// Get returns a variant profile by name; the baseline profile when the
// name is unknown.
func (t *VariantTable) Get(name string) VariantProfile {
	for _, v := range t.variants {
		if v.Name == name {
			return v
		}
	}
	return t.variants[0]
}

// Roll maps a uniform roll in [0,1) onto the weighted variant
// distribution. Weights that do not sum to 1 leave the remainder on the
// baseline profile.
func (t *VariantTable) Roll(roll float64) VariantProfile {
	acc := 0.0
	for i := len(t.variants) - 1; i >= 1; i-- {
		acc += t.variants[i].Weight
		if roll < acc {
			return t.variants[i]
		}
	}
	return t.variants[0]
}

// All returns the profiles in declaration order.
func (t *VariantTable) All() []VariantProfile { return t.variants }
