package rendergraph

import (
	"fmt"

	"github.com/spaghettifunk/framegraph/engine/scene"
)

// PassType tags a PassSpec with the constructor that realises it.
type PassType uint8

const (
	PassTypeRender3D PassType = iota + 1
	PassTypeRender2D
	PassTypeGeometry
	PassTypeLighting
	PassTypeShadow
	PassTypeObjectPicking
	PassTypeHighlight
	PassTypeEditorHighlight
	PassTypeUI
	PassTypeEditorUI
	PassTypeParticleSystem
	PassTypeSkybox
	PassTypeRenderToTarget
	PassTypeUIWorld
)

var passTypeNames = map[PassType]string{
	PassTypeRender3D:        "render3d",
	PassTypeRender2D:        "render2d",
	PassTypeGeometry:        "geometry",
	PassTypeLighting:        "lighting",
	PassTypeShadow:          "shadow",
	PassTypeObjectPicking:   "object_picking",
	PassTypeHighlight:       "highlight",
	PassTypeEditorHighlight: "editor_highlight",
	PassTypeUI:              "ui",
	PassTypeEditorUI:        "editor_ui",
	PassTypeParticleSystem:  "particle_system",
	PassTypeSkybox:          "skybox",
	PassTypeRenderToTarget:  "render_to_target",
	PassTypeUIWorld:         "ui_world",
}

func (t PassType) String() string {
	if name, ok := passTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("pass_type(%d)", uint8(t))
}

func ParsePassType(name string) (PassType, error) {
	for t, n := range passTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPassType, name)
}

func (t PassType) MarshalText() ([]byte, error) {
	if _, ok := passTypeNames[t]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPassType, uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *PassType) UnmarshalText(text []byte) error {
	parsed, err := ParsePassType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Constructor builds a pass. Scene-aware constructors receive a non-nil
// registry; the others receive nil.
type Constructor func(ctx *Context, name string, registry *scene.Registry) (Pass, error)

type PassDescriptor struct {
	Type PassType
	// NeedsScene marks passes that iterate the entity registry.
	NeedsScene bool
	// Sinks lists the sink names the pass cannot run without.
	Sinks []string
	// Outputs lists the local names the pass publishes, without the pass prefix.
	Outputs []string
	New     Constructor
}

// FactoryTable maps every pass type to its descriptor. Adding a pass kind
// means adding a type tag and an entry.
type FactoryTable map[PassType]PassDescriptor

func (t FactoryTable) Lookup(passType PassType) (PassDescriptor, error) {
	d, ok := t[passType]
	if !ok || d.New == nil {
		return PassDescriptor{}, fmt.Errorf("%w: %s", ErrUnknownPassType, passType)
	}
	return d, nil
}

// Build constructs the pass described by spec and applies its linkages.
func (t FactoryTable) Build(ctx *Context, spec PassSpec, registry *scene.Registry) (Pass, error) {
	fail := func(err error) (Pass, error) {
		return nil, &ConstructionError{Pass: spec.Name, Type: spec.Type, Err: err}
	}

	d, err := t.Lookup(spec.Type)
	if err != nil {
		return fail(err)
	}
	if d.NeedsScene && registry == nil {
		return fail(ErrMissingEntityRegistry)
	}
	if !d.NeedsScene {
		registry = nil
	}

	pass, err := d.New(ctx, spec.Name, registry)
	if err != nil {
		return fail(err)
	}
	discard := func(err error) (Pass, error) {
		if destroyer, ok := pass.(Destroyer); ok {
			destroyer.Destroy(ctx)
		}
		return fail(err)
	}
	for _, l := range spec.Linkages {
		if err := pass.SetSinkLinkage(l.Sink, l.Source); err != nil {
			return discard(err)
		}
	}
	for _, required := range d.Sinks {
		if _, ok := pass.Sink(required); !ok {
			return discard(&LinkageError{Pass: spec.Name, Sink: required, Reason: "required sink is not linked"})
		}
	}
	return pass, nil
}
