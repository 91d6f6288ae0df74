package renderer

import (
	"fmt"

	"github.com/google/uuid"
)

/**
 * @brief The kinds of attachment a render target can own.
 */
type AttachmentType uint8

const (
	/** @brief The presentable colour attachment. */
	AttachmentColour AttachmentType = iota
	/** @brief Depth values. Never presented. */
	AttachmentDepth
	AttachmentAlbedo
	/** @brief Per pixel entity identifiers, read back by object picking. */
	AttachmentEntityID
	AttachmentNormal
	AttachmentSpecular
	AttachmentPosition
	AttachmentMetallic
	AttachmentRoughness
)

var attachmentNames = [...]string{
	AttachmentColour:    "colour",
	AttachmentDepth:     "depth",
	AttachmentAlbedo:    "albedo",
	AttachmentEntityID:  "entity_id",
	AttachmentNormal:    "normal",
	AttachmentSpecular:  "specular",
	AttachmentPosition:  "position",
	AttachmentMetallic:  "metallic",
	AttachmentRoughness: "roughness",
}

func (a AttachmentType) String() string {
	if int(a) < len(attachmentNames) {
		return attachmentNames[a]
	}
	return fmt.Sprintf("attachment(%d)", a)
}

// IsColour reports whether the attachment stores RGBA pixels.
func (a AttachmentType) IsColour() bool {
	return a != AttachmentDepth && a != AttachmentEntityID
}

// FrameAttachments is the layout of the viewport render target.
var FrameAttachments = []AttachmentType{AttachmentColour, AttachmentEntityID, AttachmentDepth}

// GBufferAttachments is the layout of the deferred geometry buffer.
var GBufferAttachments = []AttachmentType{
	AttachmentAlbedo,
	AttachmentNormal,
	AttachmentPosition,
	AttachmentSpecular,
	AttachmentMetallic,
	AttachmentRoughness,
	AttachmentEntityID,
	AttachmentDepth,
}

/**
 * @brief Represents a texture owned by a render target or loaded standalone.
 */
type Texture struct {
	/** @brief The unique texture identifier. */
	ID uuid.UUID
	/** @brief The texture Name. */
	Name string
	/** @brief The texture Width. */
	Width uint32
	/** @brief The texture Height. */
	Height uint32
	/** @brief What the texture stores when it belongs to a render target. */
	Attachment AttachmentType
	/** @brief Backend specific storage. */
	InternalData interface{}
}

type RenderTargetConfig struct {
	Name        string
	Width       uint32
	Height      uint32
	Attachments []AttachmentType
}

/**
 * @brief A set of attachments drawn into together.
 */
type RenderTarget struct {
	ID          uuid.UUID
	Name        string
	Width       uint32
	Height      uint32
	Attachments []*Texture
	/** @brief The backend framebuffer object. */
	InternalData interface{}
}

// Attachment returns the texture for the given attachment type.
func (t *RenderTarget) Attachment(a AttachmentType) (*Texture, bool) {
	for _, tex := range t.Attachments {
		if tex.Attachment == a {
			return tex, true
		}
	}
	return nil, false
}

/**
 * @brief CPU side copy of a region of an attachment. Colour attachments are
 * packed as 0xRRGGBBAA, entity id attachments are copied as is.
 */
type PixelBuffer struct {
	ID     uuid.UUID
	Name   string
	Width  uint32
	Height uint32
	Data   []int32
}

func NewPixelBuffer(name string, width, height uint32) *PixelBuffer {
	return &PixelBuffer{
		ID:     uuid.New(),
		Name:   name,
		Width:  width,
		Height: height,
		Data:   make([]int32, width*height),
	}
}

// At returns the value at x,y or 0 when out of range.
func (p *PixelBuffer) At(x, y int) int32 {
	if x < 0 || y < 0 || x >= int(p.Width) || y >= int(p.Height) {
		return 0
	}
	return p.Data[y*int(p.Width)+x]
}

type UniformBuffer struct {
	ID      uuid.UUID
	Name    string
	Binding uint32
	Data    []byte
}

func NewUniformBuffer(name string, binding uint32, size int) *UniformBuffer {
	return &UniformBuffer{
		ID:      uuid.New(),
		Name:    name,
		Binding: binding,
		Data:    make([]byte, size),
	}
}
