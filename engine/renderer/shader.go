package renderer

import (
	"fmt"
	"maps"

	"github.com/google/uuid"
)

type Shader struct {
	ID       uuid.UUID
	Name     string
	uniforms map[string]interface{}
	/** @brief Backend specific program object. */
	InternalData interface{}
}

func NewShader(name string) *Shader {
	return &Shader{
		ID:       uuid.New(),
		Name:     name,
		uniforms: make(map[string]interface{}),
	}
}

// Set stores a uniform value, applied the next time the shader is used.
func (s *Shader) Set(name string, value interface{}) {
	s.uniforms[name] = value
}

func (s *Shader) Uniform(name string) (interface{}, bool) {
	v, ok := s.uniforms[name]
	return v, ok
}

func (s *Shader) Uniforms() map[string]interface{} {
	return maps.Clone(s.uniforms)
}

/**
 * @brief Owns every shader created for the graph. Passes sharing a program
 * (geometry and lighting) acquire it by name and get the same instance.
 */
type ShaderLibrary struct {
	backend Backend
	shaders map[string]*Shader
}

func NewShaderLibrary(backend Backend) *ShaderLibrary {
	return &ShaderLibrary{
		backend: backend,
		shaders: make(map[string]*Shader),
	}
}

// Acquire returns the named shader, creating it on the backend the first time.
func (l *ShaderLibrary) Acquire(name string) (*Shader, error) {
	if s, ok := l.shaders[name]; ok {
		return s, nil
	}
	s := NewShader(name)
	if err := l.backend.ShaderCreate(s); err != nil {
		return nil, fmt.Errorf("failed to create shader %s: %w", name, err)
	}
	l.shaders[name] = s
	return s, nil
}

func (l *ShaderLibrary) Get(name string) (*Shader, bool) {
	s, ok := l.shaders[name]
	return s, ok
}

func (l *ShaderLibrary) Len() int {
	return len(l.shaders)
}

func (l *ShaderLibrary) DestroyAll() {
	for name, s := range l.shaders {
		l.backend.ShaderDestroy(s)
		delete(l.shaders, name)
	}
}
