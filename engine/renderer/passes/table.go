package passes

import (
	"github.com/spaghettifunk/framegraph/engine/rendergraph"
)

// Builtin returns the factory table of every pass shipped with the engine.
func Builtin() rendergraph.FactoryTable {
	return rendergraph.FactoryTable{
		rendergraph.PassTypeRender3D: {
			Type:       rendergraph.PassTypeRender3D,
			NeedsScene: true,
			Sinks:      []string{SinkTarget, SinkCamera},
			New:        NewRender3D,
		},
		rendergraph.PassTypeRender2D: {
			Type:       rendergraph.PassTypeRender2D,
			NeedsScene: true,
			Sinks:      []string{SinkTarget, SinkCamera},
			New:        NewRender2D,
		},
		rendergraph.PassTypeGeometry: {
			Type:       rendergraph.PassTypeGeometry,
			NeedsScene: true,
			Sinks:      []string{SinkGBuffer, SinkCamera},
			New:        NewGeometry,
		},
		rendergraph.PassTypeLighting: {
			Type:  rendergraph.PassTypeLighting,
			Sinks: []string{SinkGBuffer, SinkTarget},
			New:   NewLighting,
		},
		rendergraph.PassTypeShadow: {
			Type:       rendergraph.PassTypeShadow,
			NeedsScene: true,
			Outputs:    []string{"map", "lightSpace"},
			New:        NewShadow,
		},
		rendergraph.PassTypeObjectPicking: {
			Type:    rendergraph.PassTypeObjectPicking,
			Sinks:   []string{SinkTarget, SinkMouse, SinkPickedEntity},
			Outputs: []string{"pixels"},
			New:     NewObjectPicking,
		},
		rendergraph.PassTypeHighlight: {
			Type:       rendergraph.PassTypeHighlight,
			NeedsScene: true,
			Sinks:      []string{SinkTarget, SinkCamera},
			New:        NewHighlight,
		},
		rendergraph.PassTypeEditorHighlight: {
			Type:       rendergraph.PassTypeEditorHighlight,
			NeedsScene: true,
			Sinks:      []string{SinkTarget, SinkCamera, SinkSelection},
			New:        NewEditorHighlight,
		},
		rendergraph.PassTypeUI: {
			Type:       rendergraph.PassTypeUI,
			NeedsScene: true,
			Sinks:      []string{SinkTarget},
			New:        NewUI,
		},
		rendergraph.PassTypeEditorUI: {
			Type:       rendergraph.PassTypeEditorUI,
			NeedsScene: true,
			Sinks:      []string{SinkTarget},
			New:        NewEditorUI,
		},
		rendergraph.PassTypeParticleSystem: {
			Type:       rendergraph.PassTypeParticleSystem,
			NeedsScene: true,
			Sinks:      []string{SinkTarget, SinkCamera},
			New:        NewParticleSystem,
		},
		rendergraph.PassTypeSkybox: {
			Type:       rendergraph.PassTypeSkybox,
			NeedsScene: true,
			Sinks:      []string{SinkTarget, SinkCamera},
			New:        NewSkybox,
		},
		rendergraph.PassTypeRenderToTarget: {
			Type:  rendergraph.PassTypeRenderToTarget,
			Sinks: []string{SinkSource, SinkTarget},
			New:   NewRenderToTarget,
		},
		rendergraph.PassTypeUIWorld: {
			Type:       rendergraph.PassTypeUIWorld,
			NeedsScene: true,
			Sinks:      []string{SinkTarget, SinkCamera},
			New:        NewUIWorld,
		},
	}
}

// DefaultConfig is the forward editor pipeline used when no graph file is
// configured.
func DefaultConfig() *rendergraph.Config {
	cfg := rendergraph.NewConfig().
		AddPass(rendergraph.NewPassSpec("Skybox", rendergraph.PassTypeSkybox).
			AddSinkLinkage(SinkTarget, GlobalRenderTarget).
			AddSinkLinkage(SinkCamera, GlobalCamera)).
		AddPass(rendergraph.NewPassSpec("Shadow", rendergraph.PassTypeShadow)).
		AddPass(rendergraph.NewPassSpec("Render3D", rendergraph.PassTypeRender3D).
			AddSinkLinkage(SinkTarget, GlobalRenderTarget).
			AddSinkLinkage(SinkCamera, GlobalCamera).
			AddSinkLinkage(SinkShadowMap, "Shadow.map")).
		AddPass(rendergraph.NewPassSpec("Render2D", rendergraph.PassTypeRender2D).
			AddSinkLinkage(SinkTarget, GlobalRenderTarget).
			AddSinkLinkage(SinkCamera, GlobalCamera)).
		AddPass(rendergraph.NewPassSpec("Particles", rendergraph.PassTypeParticleSystem).
			AddSinkLinkage(SinkTarget, GlobalRenderTarget).
			AddSinkLinkage(SinkCamera, GlobalCamera)).
		AddPass(rendergraph.NewPassSpec("Highlight", rendergraph.PassTypeHighlight).
			AddSinkLinkage(SinkTarget, GlobalRenderTarget).
			AddSinkLinkage(SinkCamera, GlobalCamera)).
		AddPass(rendergraph.NewPassSpec("EditorHighlight", rendergraph.PassTypeEditorHighlight).
			AddSinkLinkage(SinkTarget, GlobalRenderTarget).
			AddSinkLinkage(SinkCamera, GlobalCamera).
			AddSinkLinkage(SinkSelection, GlobalSelectedEntities).
			AddSinkLinkage(SinkEditorMode, GlobalEditorMode)).
		AddPass(rendergraph.NewPassSpec("WorldUI", rendergraph.PassTypeUIWorld).
			AddSinkLinkage(SinkTarget, GlobalRenderTarget).
			AddSinkLinkage(SinkCamera, GlobalCamera)).
		AddPass(rendergraph.NewPassSpec("UI", rendergraph.PassTypeUI).
			AddSinkLinkage(SinkTarget, GlobalRenderTarget)).
		AddPass(rendergraph.NewPassSpec("EditorUI", rendergraph.PassTypeEditorUI).
			AddSinkLinkage(SinkTarget, GlobalRenderTarget).
			AddSinkLinkage(SinkEditorMode, GlobalEditorMode)).
		AddPass(rendergraph.NewPassSpec("ObjectPicking", rendergraph.PassTypeObjectPicking).
			AddSinkLinkage(SinkTarget, GlobalRenderTarget).
			AddSinkLinkage(SinkMouse, GlobalMousePosition).
			AddSinkLinkage(SinkPickedEntity, GlobalPickedEntity).
			AddSinkLinkage(SinkPixels, GlobalPixelBuffer))
	cfg.SetFinalSink("present", GlobalRenderTarget)
	return cfg
}

// DeferredConfig renders meshes through the geometry buffer. Lighting reads
// the buffer through the geometry pass's sink.
func DeferredConfig() *rendergraph.Config {
	cfg := rendergraph.NewConfig().
		AddPass(rendergraph.NewPassSpec("Geometry", rendergraph.PassTypeGeometry).
			AddSinkLinkage(SinkGBuffer, GlobalGBuffer).
			AddSinkLinkage(SinkCamera, GlobalCamera)).
		AddPass(rendergraph.NewPassSpec("Lighting", rendergraph.PassTypeLighting).
			AddSinkLinkage(SinkGBuffer, "Geometry."+SinkGBuffer).
			AddSinkLinkage(SinkTarget, GlobalRenderTarget)).
		AddPass(rendergraph.NewPassSpec("Render2D", rendergraph.PassTypeRender2D).
			AddSinkLinkage(SinkTarget, GlobalRenderTarget).
			AddSinkLinkage(SinkCamera, GlobalCamera)).
		AddPass(rendergraph.NewPassSpec("Particles", rendergraph.PassTypeParticleSystem).
			AddSinkLinkage(SinkTarget, GlobalRenderTarget).
			AddSinkLinkage(SinkCamera, GlobalCamera)).
		AddPass(rendergraph.NewPassSpec("UI", rendergraph.PassTypeUI).
			AddSinkLinkage(SinkTarget, GlobalRenderTarget)).
		AddPass(rendergraph.NewPassSpec("ObjectPicking", rendergraph.PassTypeObjectPicking).
			AddSinkLinkage(SinkTarget, GlobalRenderTarget).
			AddSinkLinkage(SinkMouse, GlobalMousePosition).
			AddSinkLinkage(SinkPickedEntity, GlobalPickedEntity))
	cfg.SetFinalSink("present", GlobalRenderTarget)
	return cfg
}
