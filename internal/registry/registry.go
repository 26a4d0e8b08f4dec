package registry

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Brownie44l1/plant-disease-api/internal/failure"
)

type Species string

const (
	Tomato Species = "tomato"
	Cotton Species = "cotton"
	Potato Species = "potato"
)

// Profile bundles where a species' model lives and how its output indices map
// to labels. Profiles are immutable once the registry is built.
type Profile struct {
	ID        Species
	ModelPath string
	labels    []string
}

func NewProfile(id Species, modelPath string, labels ...string) Profile {
	return Profile{
		ID:        id,
		ModelPath: modelPath,
		labels:    append([]string(nil), labels...),
	}
}

// Label returns the label for a class index, or false if the index has no entry.
func (p Profile) Label(index int) (string, bool) {
	if index < 0 || index >= len(p.labels) {
		return "", false
	}
	return p.labels[index], true
}

func (p Profile) Labels() []string {
	return append([]string(nil), p.labels...)
}

func (p Profile) ClassCount() int {
	return len(p.labels)
}

type Registry struct {
	profiles map[Species]Profile
	order    []Species
}

func New(profiles ...Profile) (*Registry, error) {
	r := &Registry{profiles: make(map[Species]Profile, len(profiles))}
	for _, p := range profiles {
		if p.ID == "" {
			return nil, fmt.Errorf("profile with empty species id")
		}
		if _, dup := r.profiles[p.ID]; dup {
			return nil, fmt.Errorf("duplicate profile for species %q", p.ID)
		}
		if len(p.labels) == 0 {
			return nil, fmt.Errorf("species %q has an empty label table", p.ID)
		}
		r.profiles[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r, nil
}

// Builtin returns the registry for the supported species with model files
// resolved against modelDir.
func Builtin(modelDir string) *Registry {
	r, err := New(
		NewProfile(Tomato, filepath.Join(modelDir, "Tomato_Model.onnx"),
			"Tomato_Early_blight", "Tomato_Leaf_Mold", "Tomato_healthy"),
		NewProfile(Cotton, filepath.Join(modelDir, "Cotton_Model.onnx"),
			"diseased cotton leaf", "diseased cotton plant", "fresh cotton leaf", "fresh cotton plant"),
		NewProfile(Potato, filepath.Join(modelDir, "Potato_Model.onnx"),
			"Potato___Early_blight", "Potato___Late_blight", "Potato___healthy"),
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve looks up a species profile. Unknown ids are a not_found failure;
// no default species is substituted.
func (r *Registry) Resolve(id string) (Profile, error) {
	p, ok := r.profiles[Species(strings.TrimSpace(id))]
	if !ok {
		return Profile{}, failure.NotFound("registry.Resolve", "unsupported species %q", id)
	}
	return p, nil
}

// Species lists the supported ids in registration order.
func (r *Registry) Species() []Species {
	return append([]Species(nil), r.order...)
}
