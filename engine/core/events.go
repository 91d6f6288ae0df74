package core

// EventContext carries the payload of a fired event. Type mirrors the code the
// event was fired with so listeners registered on several codes can switch on it.
type EventContext struct {
	Type SystemEventCode
	Data interface{}
}

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode uint16

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// Resized/resolution changed from the OS.
	/* Context usage:
	 * data := context.Data.(*ResizeEvent)
	 */
	EVENT_CODE_RESIZED SystemEventCode = 0x08

	// Mouse moved over the viewport.
	/* Context usage:
	 * data := context.Data.(*MouseEvent)
	 */
	EVENT_CODE_MOUSE_MOVED SystemEventCode = 0x06

	// A render pass was skipped because at least one sink did not resolve.
	/* Context usage:
	 * data := context.Data.(*PassSkippedEvent)
	 */
	EVENT_CODE_PASS_SKIPPED SystemEventCode = 0x10

	// The render graph was rebuilt from a new configuration.
	EVENT_CODE_GRAPH_RELOADED SystemEventCode = 0x11

	// Viewport sized targets were recreated and must be re-registered.
	EVENT_CODE_DEFAULT_RENDERTARGET_REFRESH_REQUIRED SystemEventCode = 0x12

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

type ResizeEvent struct {
	Width  uint32
	Height uint32
}

type MouseEvent struct {
	PosX int
	PosY int
}

type PassSkippedEvent struct {
	Frame      uint64
	Pass       string
	Unresolved []string
}

// Should return true if handled.
type FnOnEvent func(code SystemEventCode, sender interface{}, listener interface{}, data EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

// EventSystem dispatches events to listeners registered per code. It is owned
// by the engine and only used from the frame thread.
type EventSystem struct {
	registered map[SystemEventCode][]*registeredEvent
}

func NewEventSystem() *EventSystem {
	return &EventSystem{
		registered: make(map[SystemEventCode][]*registeredEvent),
	}
}

func (es *EventSystem) Shutdown() error {
	// Objects pointed to by listeners are destroyed by their owners.
	clear(es.registered)
	return nil
}

/**
 * Register to listen for when events are sent with the provided code. Events with duplicate
 * listener combos will not be registered again and will cause this to return false.
 * @param code The event code to listen for.
 * @param listener A pointer to a listener instance. Can be nil.
 * @param onEvent The callback to be invoked when the event code is fired.
 * @returns true if the event is successfully registered; otherwise false.
 */
func (es *EventSystem) Register(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if onEvent == nil {
		return false
	}
	for _, e := range es.registered[code] {
		if e.listener == listener {
			LogWarn("listener already registered for event code 0x%02x", code)
			return false
		}
	}
	es.registered[code] = append(es.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

/**
 * Unregister from listening for when events are sent with the provided code. If no matching
 * registration is found, this function returns false.
 */
func (es *EventSystem) Unregister(code SystemEventCode, listener interface{}) bool {
	events := es.registered[code]
	for i, e := range events {
		if e.listener == listener {
			es.registered[code] = append(events[:i], events[i+1:]...)
			return true
		}
	}
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 * @returns true if handled, otherwise false.
 */
func (es *EventSystem) Fire(code SystemEventCode, sender interface{}, data interface{}) bool {
	ctx := EventContext{Type: code, Data: data}
	for _, e := range es.registered[code] {
		if e.callback(code, sender, e.listener, ctx) {
			return true
		}
	}
	return false
}
