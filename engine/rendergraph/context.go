package rendergraph

import (
	"errors"

	"github.com/spaghettifunk/framegraph/engine/containers"
	"github.com/spaghettifunk/framegraph/engine/core"
	"github.com/spaghettifunk/framegraph/engine/renderer"
)

const DefaultDrawQueueSize = 1024

// Context carries what passes share during a frame. The orchestrator owns
// it and keeps it alive for as long as the graph.
type Context struct {
	Backend   renderer.Backend
	Shaders   *renderer.ShaderLibrary
	DrawQueue *containers.RingQueue[renderer.DrawCommand]
	Events    *core.EventSystem
	// FrameNumber is the frame being executed.
	FrameNumber uint64
}

func NewContext(backend renderer.Backend, events *core.EventSystem, queueSize int) *Context {
	if queueSize <= 0 {
		queueSize = DefaultDrawQueueSize
	}
	return &Context{
		Backend:   backend,
		Shaders:   renderer.NewShaderLibrary(backend),
		DrawQueue: containers.NewRingQueue[renderer.DrawCommand](queueSize),
		Events:    events,
	}
}

// Submit queues a draw, flushing first when the queue is full.
func (c *Context) Submit(cmd renderer.DrawCommand) error {
	if c.DrawQueue.IsFull() {
		if err := c.Flush(); err != nil {
			return err
		}
	}
	return c.DrawQueue.Enqueue(cmd)
}

// Flush hands every queued draw to the backend in submission order.
func (c *Context) Flush() error {
	var errs []error
	c.DrawQueue.Drain(func(cmd renderer.DrawCommand) {
		if err := c.Backend.Draw(cmd); err != nil {
			errs = append(errs, err)
		}
	})
	return errors.Join(errs...)
}

// Reset drops draws that were never flushed.
func (c *Context) Reset() {
	c.DrawQueue.Clear()
}

func (c *Context) Shutdown() {
	c.Reset()
	c.Shaders.DestroyAll()
}
