// Package seed holds the bundled peptide and effect catalogs.
package seed

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	types "github.com/yungbote/peptide-insights-backend/internal/domain"
	"github.com/yungbote/peptide-insights-backend/internal/domain/catalog"
)

var (
	//go:embed catalog.yaml
	catalogYAML []byte
	//go:embed effects.yaml
	effectsYAML []byte
)

type catalogFile struct {
	Peptides []*types.Peptide `yaml:"peptides"`
}

type effectsFile struct {
	Effects []*types.Effect `yaml:"effects"`
}

// Peptides decodes the bundled catalog. Each call returns fresh values.
func Peptides() ([]*types.Peptide, error) {
	return Parse(catalogYAML)
}

// Parse decodes a catalog document and validates every entry.
func Parse(raw []byte) ([]*types.Peptide, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode peptide catalog: %w", err)
	}
	seen := make(map[string]bool, len(f.Peptides))
	for i, p := range f.Peptides {
		if p == nil {
			return nil, fmt.Errorf("peptide catalog entry %d is empty", i)
		}
		p.Normalize()
		if p.Name == "" {
			return nil, fmt.Errorf("peptide catalog entry %d has no name", i)
		}
		if !catalog.IsValidCategory(p.Category) {
			return nil, fmt.Errorf("peptide %q has unknown category %q", p.Name, p.Category)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("peptide %q listed twice", p.Name)
		}
		seen[p.Name] = true
	}
	return f.Peptides, nil
}

// Effects decodes the bundled effect catalog. Each call returns fresh values.
func Effects() ([]*types.Effect, error) {
	return ParseEffects(effectsYAML)
}

// ParseEffects decodes an effects document and validates every entry.
func ParseEffects(raw []byte) ([]*types.Effect, error) {
	var f effectsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode effect catalog: %w", err)
	}
	seen := make(map[string]bool, len(f.Effects))
	for i, e := range f.Effects {
		if e == nil {
			return nil, fmt.Errorf("effect catalog entry %d is empty", i)
		}
		e.Normalize()
		switch {
		case e.Name == "":
			return nil, fmt.Errorf("effect catalog entry %d has no name", i)
		case !catalog.IsValidEffectType(e.Type):
			return nil, fmt.Errorf("effect %q has unknown type %q", e.Name, e.Type)
		case e.Category == "":
			return nil, fmt.Errorf("effect %q has no category", e.Name)
		case e.Severity != "" && !catalog.IsValidEffectSeverity(e.Severity):
			return nil, fmt.Errorf("effect %q has unknown severity %q", e.Name, e.Severity)
		case !catalog.IsValidEffectFrequency(e.Frequency):
			return nil, fmt.Errorf("effect %q has unknown frequency %q", e.Name, e.Frequency)
		case seen[strings.ToLower(e.Name)]:
			return nil, fmt.Errorf("effect %q listed twice", e.Name)
		}
		seen[strings.ToLower(e.Name)] = true
	}
	return f.Effects, nil
}
