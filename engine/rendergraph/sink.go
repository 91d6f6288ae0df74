package rendergraph

// Sink is a named input of a pass. It names the source it wants and holds
// the resolved resource for the current frame only.
type Sink struct {
	name       string
	outputName string
	sourceName string
	resource   Resource
}

func newSink(passName, name, sourceName string) *Sink {
	return &Sink{
		name:       name,
		outputName: OutputName(passName, name),
		sourceName: sourceName,
	}
}

func (s *Sink) Name() string {
	return s.name
}

// OutputName is the name other passes use to chain off this sink.
func (s *Sink) OutputName() string {
	return s.outputName
}

func (s *Sink) SourceName() string {
	return s.sourceName
}

// Resource returns the resource resolved this frame, or nil.
func (s *Sink) Resource() Resource {
	return s.resource
}

func (s *Sink) Resolved() bool {
	return s.resource != nil
}

func (s *Sink) resolve(r Resource) {
	s.resource = r
}

func (s *Sink) reset() {
	s.resource = nil
}

// OutputName joins a pass name and a local name as "<pass>.<name>".
func OutputName(passName, name string) string {
	return passName + "." + name
}

// SinkAs returns the resource resolved on the named sink as a concrete kind.
func SinkAs[T Resource](p Pass, sinkName string) (T, bool) {
	var zero T
	s, ok := p.Sink(sinkName)
	if !ok || s.resource == nil {
		return zero, false
	}
	r, ok := s.resource.(T)
	return r, ok
}
