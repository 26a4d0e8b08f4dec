package explain

import (
	"strings"
	"testing"

	"github.com/Brownie44l1/plant-disease-api/internal/registry"
)

func TestExplainKnownPair(t *testing.T) {
	got := Builtin().Explain(registry.Potato, "Potato___healthy")
	if got == "" || got == Fallback {
		t.Fatalf("unexpected description %q", got)
	}
	if !strings.HasPrefix(got, "Your potato plant looks healthy!") {
		t.Fatalf("unexpected description %q", got)
	}
}

func TestExplainFallback(t *testing.T) {
	c := Builtin()
	tests := []struct {
		name    string
		species registry.Species
		label   string
	}{
		{"unknown label", registry.Potato, "nonexistent_label"},
		{"unknown species", registry.Species("wheat"), "Potato___healthy"},
		{"label of another species", registry.Tomato, "Potato___healthy"},
		{"unresolved sentinel", registry.Cotton, "unresolved"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Explain(tt.species, tt.label); got != Fallback {
				t.Fatalf("Explain = %q, want fallback", got)
			}
			if _, ok := c.Lookup(tt.species, tt.label); ok {
				t.Fatal("Lookup reported a hit")
			}
		})
	}
}

func TestEveryBuiltinLabelHasText(t *testing.T) {
	c := Builtin()
	r := registry.Builtin("models")
	for _, id := range r.Species() {
		p, err := r.Resolve(string(id))
		if err != nil {
			t.Fatal(err)
		}
		for _, label := range p.Labels() {
			if _, ok := c.Lookup(id, label); !ok {
				t.Errorf("no description for %s/%s", id, label)
			}
		}
	}
}

func TestNewCopiesInput(t *testing.T) {
	src := map[registry.Species]map[string]string{
		registry.Tomato: {"a": "first"},
	}
	c := New(src)
	src[registry.Tomato]["a"] = "changed"
	if got := c.Explain(registry.Tomato, "a"); got != "first" {
		t.Fatalf("catalog shares caller map: %q", got)
	}
}
