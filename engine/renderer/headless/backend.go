// Package headless is a software renderer backend. It rasterises the screen
// footprint of each draw command as a flat rectangle, which is enough to run
// the render graph without a GPU or a window.
package headless

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/spaghettifunk/framegraph/engine/core"
	"github.com/spaghettifunk/framegraph/engine/math"
	"github.com/spaghettifunk/framegraph/engine/renderer"
	xdraw "golang.org/x/image/draw"
)

var (
	ErrNoBoundTarget       = errors.New("no render target bound")
	ErrTargetNotBound      = errors.New("render target is not bound")
	ErrMissingAttachment   = errors.New("render target has no such attachment")
	ErrAttachmentMismatch  = errors.New("attachment formats do not match")
	ErrNotPresentable      = errors.New("attachment cannot be presented")
	ErrFrameAlreadyStarted = errors.New("frame already started")
)

// Stats counts the work submitted to the backend since Initialize.
type Stats struct {
	Frames   uint64
	Draws    uint64
	Binds    uint64
	Blits    uint64
	Reads    uint64
	Presents uint64
}

type idBuffer struct {
	width  int
	height int
	pix    []int32
}

func newIDBuffer(width, height int) *idBuffer {
	return &idBuffer{width: width, height: height, pix: make([]int32, width*height)}
}

func (b *idBuffer) bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

func (b *idBuffer) fill(r image.Rectangle, id int32) {
	r = r.Intersect(b.bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := b.pix[y*b.width : (y+1)*b.width]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] = id
		}
	}
}

type framebuffer struct {
	colour map[renderer.AttachmentType]*image.RGBA
	ids    *idBuffer
}

type program struct {
	uses uint64
}

type HeadlessRenderer struct {
	initialized bool
	inFrame     bool
	FrameNumber uint64

	screen  *image.RGBA
	bound   []*renderer.RenderTarget
	current *renderer.Shader
	slots   map[uint32]*renderer.Texture
	buffers map[uuid.UUID]*renderer.UniformBuffer
	stats   Stats
}

func New() *HeadlessRenderer {
	return &HeadlessRenderer{
		slots:   make(map[uint32]*renderer.Texture),
		buffers: make(map[uuid.UUID]*renderer.UniformBuffer),
	}
}

func (hr *HeadlessRenderer) Initialize(appName string, appWidth, appHeight uint32) error {
	hr.screen = image.NewRGBA(image.Rect(0, 0, int(appWidth), int(appHeight)))
	hr.initialized = true
	core.LogInfo("headless renderer initialized for %s (%dx%d)", appName, appWidth, appHeight)
	return nil
}

func (hr *HeadlessRenderer) Shutdown() error {
	if !hr.initialized {
		return core.ErrAlreadyShutdown
	}
	hr.initialized = false
	hr.bound = nil
	hr.current = nil
	clear(hr.slots)
	clear(hr.buffers)
	core.LogInfo("headless renderer shut down after %d frames", hr.stats.Frames)
	return nil
}

func (hr *HeadlessRenderer) Resized(width, height uint32) error {
	if !hr.initialized {
		return core.ErrNotInitialized
	}
	hr.screen = image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	return nil
}

func (hr *HeadlessRenderer) BeginFrame(deltaTime float64) error {
	if !hr.initialized {
		return core.ErrNotInitialized
	}
	if hr.inFrame {
		return ErrFrameAlreadyStarted
	}
	hr.inFrame = true
	return nil
}

func (hr *HeadlessRenderer) EndFrame(deltaTime float64) error {
	if !hr.inFrame {
		return core.ErrNotInitialized
	}
	if len(hr.bound) > 0 {
		core.LogWarn("%d render targets still bound at end of frame", len(hr.bound))
		hr.bound = hr.bound[:0]
	}
	hr.inFrame = false
	hr.FrameNumber++
	hr.stats.Frames++
	return nil
}

func (hr *HeadlessRenderer) RenderTargetCreate(config renderer.RenderTargetConfig) (*renderer.RenderTarget, error) {
	if config.Width == 0 || config.Height == 0 {
		return nil, fmt.Errorf("render target %s has an empty size %dx%d", config.Name, config.Width, config.Height)
	}
	if len(config.Attachments) == 0 {
		return nil, fmt.Errorf("render target %s has no attachments", config.Name)
	}
	target := &renderer.RenderTarget{
		ID:     uuid.New(),
		Name:   config.Name,
		Width:  config.Width,
		Height: config.Height,
	}
	for _, a := range config.Attachments {
		if _, ok := target.Attachment(a); ok {
			return nil, fmt.Errorf("render target %s declares attachment %s twice", config.Name, a)
		}
		target.Attachments = append(target.Attachments, &renderer.Texture{
			ID:         uuid.New(),
			Name:       fmt.Sprintf("%s.%s", config.Name, a),
			Width:      config.Width,
			Height:     config.Height,
			Attachment: a,
		})
	}
	hr.allocate(target)
	return target, nil
}

func (hr *HeadlessRenderer) allocate(target *renderer.RenderTarget) {
	fb := &framebuffer{colour: make(map[renderer.AttachmentType]*image.RGBA)}
	rect := image.Rect(0, 0, int(target.Width), int(target.Height))
	for _, tex := range target.Attachments {
		tex.Width, tex.Height = target.Width, target.Height
		switch {
		case tex.Attachment == renderer.AttachmentEntityID:
			fb.ids = newIDBuffer(rect.Dx(), rect.Dy())
			tex.InternalData = fb.ids
		case tex.Attachment.IsColour():
			img := image.NewRGBA(rect)
			fb.colour[tex.Attachment] = img
			tex.InternalData = img
		default:
			tex.InternalData = nil
		}
	}
	target.InternalData = fb
}

func (hr *HeadlessRenderer) RenderTargetResize(target *renderer.RenderTarget, width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("cannot resize render target %s to %dx%d", target.Name, width, height)
	}
	target.Width, target.Height = width, height
	hr.allocate(target)
	return nil
}

func (hr *HeadlessRenderer) RenderTargetDestroy(target *renderer.RenderTarget) {
	hr.bound = slices.DeleteFunc(hr.bound, func(t *renderer.RenderTarget) bool { return t == target })
	target.InternalData = nil
	for _, tex := range target.Attachments {
		tex.InternalData = nil
	}
}

func (hr *HeadlessRenderer) RenderTargetBind(target *renderer.RenderTarget) error {
	if _, ok := target.InternalData.(*framebuffer); !ok {
		return fmt.Errorf("render target %s was not created by this backend", target.Name)
	}
	hr.bound = append(hr.bound, target)
	hr.stats.Binds++
	return nil
}

func (hr *HeadlessRenderer) RenderTargetUnbind(target *renderer.RenderTarget) error {
	for i := len(hr.bound) - 1; i >= 0; i-- {
		if hr.bound[i] == target {
			hr.bound = slices.Delete(hr.bound, i, i+1)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrTargetNotBound, target.Name)
}

func (hr *HeadlessRenderer) RenderTargetClear(target *renderer.RenderTarget, colour mgl32.Vec4) error {
	fb, ok := target.InternalData.(*framebuffer)
	if !ok {
		return fmt.Errorf("render target %s was not created by this backend", target.Name)
	}
	c := toColour(colour)
	for _, img := range fb.colour {
		xdraw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, xdraw.Src)
	}
	if fb.ids != nil {
		clear(fb.ids.pix)
	}
	return nil
}

// BoundTargets returns how many render targets are currently bound.
func (hr *HeadlessRenderer) BoundTargets() int {
	return len(hr.bound)
}

func (hr *HeadlessRenderer) TextureBind(texture *renderer.Texture, slot uint32) error {
	hr.slots[slot] = texture
	return nil
}

func (hr *HeadlessRenderer) TextureUnbind(texture *renderer.Texture) {
	for slot, t := range hr.slots {
		if t == texture {
			delete(hr.slots, slot)
		}
	}
}

func (hr *HeadlessRenderer) UniformBufferBind(buffer *renderer.UniformBuffer) error {
	hr.buffers[buffer.ID] = buffer
	return nil
}

func (hr *HeadlessRenderer) UniformBufferUnbind(buffer *renderer.UniformBuffer) {
	delete(hr.buffers, buffer.ID)
}

func (hr *HeadlessRenderer) ShaderCreate(shader *renderer.Shader) error {
	if shader.Name == "" {
		return errors.New("shader name cannot be empty")
	}
	shader.InternalData = &program{}
	return nil
}

func (hr *HeadlessRenderer) ShaderDestroy(shader *renderer.Shader) {
	if hr.current == shader {
		hr.current = nil
	}
	shader.InternalData = nil
}

func (hr *HeadlessRenderer) ShaderUse(shader *renderer.Shader) error {
	p, ok := shader.InternalData.(*program)
	if !ok {
		return fmt.Errorf("shader %s was not created by this backend", shader.Name)
	}
	p.uses++
	hr.current = shader
	return nil
}

func (hr *HeadlessRenderer) ShaderRelease(shader *renderer.Shader) {
	if hr.current == shader {
		hr.current = nil
	}
}

// CurrentShader returns the shader in use, if any.
func (hr *HeadlessRenderer) CurrentShader() *renderer.Shader {
	return hr.current
}

func (hr *HeadlessRenderer) Draw(cmd renderer.DrawCommand) error {
	if len(hr.bound) == 0 {
		return ErrNoBoundTarget
	}
	target := hr.bound[len(hr.bound)-1]
	fb := target.InternalData.(*framebuffer)
	full := image.Rect(0, 0, int(target.Width), int(target.Height))

	rect := cmd.Bounds.Intersect(full)
	if cmd.Kind == renderer.DrawFullscreen || cmd.Kind == renderer.DrawSkybox {
		rect = full
	}
	hr.stats.Draws++
	if rect.Empty() {
		return nil
	}

	src := image.NewUniform(toColour(cmd.Colour))
	for _, img := range fb.colour {
		switch {
		case cmd.Kind == renderer.DrawOutline:
			for _, edge := range outline(rect) {
				xdraw.Draw(img, edge, src, image.Point{}, xdraw.Over)
			}
		case cmd.Additive:
			addRect(img, rect, toColour(cmd.Colour))
		default:
			xdraw.Draw(img, rect, src, image.Point{}, xdraw.Over)
		}
	}
	if fb.ids != nil && cmd.EntityID > 0 && cmd.Kind != renderer.DrawOutline {
		fb.ids.fill(rect, cmd.EntityID)
	}
	return nil
}

func (hr *HeadlessRenderer) Blit(src *renderer.RenderTarget, srcAttachment renderer.AttachmentType, dst *renderer.RenderTarget, dstAttachment renderer.AttachmentType) error {
	from, err := attachmentData(src, srcAttachment)
	if err != nil {
		return err
	}
	to, err := attachmentData(dst, dstAttachment)
	if err != nil {
		return err
	}
	hr.stats.Blits++

	switch s := from.(type) {
	case *image.RGBA:
		d, ok := to.(*image.RGBA)
		if !ok {
			return ErrAttachmentMismatch
		}
		xdraw.ApproxBiLinear.Scale(d, d.Bounds(), s, s.Bounds(), xdraw.Src, nil)
	case *idBuffer:
		d, ok := to.(*idBuffer)
		if !ok {
			return ErrAttachmentMismatch
		}
		// ids are never interpolated
		for y := 0; y < d.height; y++ {
			sy := y * s.height / d.height
			for x := 0; x < d.width; x++ {
				d.pix[y*d.width+x] = s.pix[sy*s.width+x*s.width/d.width]
			}
		}
	}
	return nil
}

func (hr *HeadlessRenderer) ReadPixels(target *renderer.RenderTarget, attachment renderer.AttachmentType, rect image.Rectangle, out *renderer.PixelBuffer) error {
	data, err := attachmentData(target, attachment)
	if err != nil {
		return err
	}
	rect = rect.Intersect(image.Rect(0, 0, int(target.Width), int(target.Height)))
	out.Width, out.Height = uint32(rect.Dx()), uint32(rect.Dy())
	if need := rect.Dx() * rect.Dy(); cap(out.Data) < need {
		out.Data = make([]int32, need)
	} else {
		out.Data = out.Data[:need]
	}
	hr.stats.Reads++

	i := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			switch d := data.(type) {
			case *idBuffer:
				out.Data[i] = d.pix[y*d.width+x]
			case *image.RGBA:
				c := d.RGBAAt(x, y)
				out.Data[i] = int32(uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A))
			}
			i++
		}
	}
	return nil
}

func (hr *HeadlessRenderer) Present(target *renderer.RenderTarget, attachment renderer.AttachmentType) error {
	if !hr.initialized {
		return core.ErrNotInitialized
	}
	data, err := attachmentData(target, attachment)
	if err != nil {
		return err
	}
	img, ok := data.(*image.RGBA)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotPresentable, attachment)
	}
	xdraw.ApproxBiLinear.Scale(hr.screen, hr.screen.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	hr.stats.Presents++
	return nil
}

// Screen returns the last presented image.
func (hr *HeadlessRenderer) Screen() *image.RGBA {
	return hr.screen
}

func (hr *HeadlessRenderer) Stats() Stats {
	return hr.stats
}

// Image returns the backing image of a colour attachment.
func Image(target *renderer.RenderTarget, attachment renderer.AttachmentType) (*image.RGBA, bool) {
	data, err := attachmentData(target, attachment)
	if err != nil {
		return nil, false
	}
	img, ok := data.(*image.RGBA)
	return img, ok
}

func attachmentData(target *renderer.RenderTarget, attachment renderer.AttachmentType) (interface{}, error) {
	fb, ok := target.InternalData.(*framebuffer)
	if !ok {
		return nil, fmt.Errorf("render target %s was not created by this backend", target.Name)
	}
	if attachment == renderer.AttachmentEntityID && fb.ids != nil {
		return fb.ids, nil
	}
	if img, ok := fb.colour[attachment]; ok {
		return img, nil
	}
	return nil, fmt.Errorf("%w: %s has no %s", ErrMissingAttachment, target.Name, attachment)
}

func toColour(v mgl32.Vec4) color.NRGBA {
	channel := func(f float32) uint8 {
		return uint8(math.Clamp(f, 0, 1)*255 + 0.5)
	}
	return color.NRGBA{R: channel(v.X()), G: channel(v.Y()), B: channel(v.Z()), A: channel(v.W())}
}

func outline(r image.Rectangle) []image.Rectangle {
	return []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	}
}

func addRect(img *image.RGBA, r image.Rectangle, c color.NRGBA) {
	add := func(a, b uint8) uint8 {
		return uint8(min(int(a)+int(b), 255))
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			p := img.RGBAAt(x, y)
			img.SetRGBA(x, y, color.RGBA{R: add(p.R, c.R), G: add(p.G, c.G), B: add(p.B, c.B), A: add(p.A, c.A)})
		}
	}
}
