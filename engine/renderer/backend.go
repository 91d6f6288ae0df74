package renderer

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

type RendererType uint8

const (
	Headless RendererType = iota
	Vulkan
)

/**
 * @brief The seam between the render graph and a graphics API. Bound render
 * targets form a stack; draws go to the most recently bound one.
 */
type Backend interface {
	Initialize(appName string, appWidth, appHeight uint32) error
	Shutdown() error
	Resized(width, height uint32) error
	BeginFrame(deltaTime float64) error
	EndFrame(deltaTime float64) error

	RenderTargetCreate(config RenderTargetConfig) (*RenderTarget, error)
	RenderTargetResize(target *RenderTarget, width, height uint32) error
	RenderTargetDestroy(target *RenderTarget)
	RenderTargetBind(target *RenderTarget) error
	RenderTargetUnbind(target *RenderTarget) error
	RenderTargetClear(target *RenderTarget, colour mgl32.Vec4) error

	TextureBind(texture *Texture, slot uint32) error
	TextureUnbind(texture *Texture)
	UniformBufferBind(buffer *UniformBuffer) error
	UniformBufferUnbind(buffer *UniformBuffer)

	ShaderCreate(shader *Shader) error
	ShaderDestroy(shader *Shader)
	ShaderUse(shader *Shader) error
	ShaderRelease(shader *Shader)

	Draw(cmd DrawCommand) error
	Blit(src *RenderTarget, srcAttachment AttachmentType, dst *RenderTarget, dstAttachment AttachmentType) error
	ReadPixels(target *RenderTarget, attachment AttachmentType, rect image.Rectangle, out *PixelBuffer) error
	Present(target *RenderTarget, attachment AttachmentType) error
}
