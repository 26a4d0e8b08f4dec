// Package explain maps a (species, label) pair to the descriptive text shown
// next to a prediction.
package explain

import "github.com/Brownie44l1/plant-disease-api/internal/registry"

const Fallback = "No information available."

type Catalog struct {
	entries map[registry.Species]map[string]string
}

func New(entries map[registry.Species]map[string]string) *Catalog {
	c := &Catalog{entries: make(map[registry.Species]map[string]string, len(entries))}
	for species, labels := range entries {
		m := make(map[string]string, len(labels))
		for label, text := range labels {
			m[label] = text
		}
		c.entries[species] = m
	}
	return c
}

// Lookup reports whether a description exists for the pair.
func (c *Catalog) Lookup(species registry.Species, label string) (string, bool) {
	labels, ok := c.entries[species]
	if !ok {
		return "", false
	}
	text, ok := labels[label]
	if !ok || text == "" {
		return "", false
	}
	return text, true
}

// Explain never fails: unknown pairs get Fallback.
func (c *Catalog) Explain(species registry.Species, label string) string {
	if text, ok := c.Lookup(species, label); ok {
		return text
	}
	return Fallback
}
