package rendergraph

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type SinkLinkage struct {
	Sink   string `toml:"sink" validate:"required,excludes=."`
	Source string `toml:"source" validate:"required"`
}

// PassSpec is the data-only description of one pass.
type PassSpec struct {
	Name     string        `toml:"name" validate:"required,excludes=."`
	Type     PassType      `toml:"type" validate:"required"`
	Linkages []SinkLinkage `toml:"sinks,omitempty" validate:"dive"`
}

func NewPassSpec(name string, passType PassType) PassSpec {
	return PassSpec{Name: name, Type: passType}
}

// AddSinkLinkage returns a copy of the spec with one more linkage, so calls
// can be chained and specs shared between configs.
func (s PassSpec) AddSinkLinkage(sinkName, sourceName string) PassSpec {
	s.Linkages = append(slices.Clip(s.Linkages), SinkLinkage{Sink: sinkName, Source: sourceName})
	return s
}

// Config describes a whole graph. Global resources are live handles and are
// never serialised.
type Config struct {
	Passes    []PassSpec   `toml:"pass" validate:"dive"`
	FinalSink *SinkLinkage `toml:"final_sink,omitempty"`

	globals []Resource
}

func NewConfig() *Config {
	return &Config{}
}

func (c *Config) AddPass(spec PassSpec) *Config {
	c.Passes = append(c.Passes, spec)
	return c
}

func (c *Config) AddGlobalSource(r Resource) *Config {
	c.globals = append(c.globals, r)
	return c
}

func (c *Config) GlobalSources() []Resource {
	return c.globals
}

// SetFinalSink names the resource presented once every pass ran.
func (c *Config) SetFinalSink(sinkName, sourceName string) *Config {
	c.FinalSink = &SinkLinkage{Sink: sinkName, Source: sourceName}
	return c
}

func (c *Config) Pass(name string) (PassSpec, bool) {
	for _, p := range c.Passes {
		if p.Name == name {
			return p, true
		}
	}
	return PassSpec{}, false
}

// Validate checks the rules that make a config unusable: missing fields,
// duplicate pass names, duplicate sinks and self references.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("%w: %s", ErrInvalidConfig, verrs.Error())
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	seen := make(map[string]struct{}, len(c.Passes))
	for _, p := range c.Passes {
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicatePass, p.Name)
		}
		seen[p.Name] = struct{}{}

		sinks := make(map[string]struct{}, len(p.Linkages))
		for _, l := range p.Linkages {
			if _, dup := sinks[l.Sink]; dup {
				return &LinkageError{Pass: p.Name, Sink: l.Sink, Source: l.Source, Reason: "sink already linked"}
			}
			sinks[l.Sink] = struct{}{}
			if l.Source == OutputName(p.Name, l.Sink) {
				return &LinkageError{Pass: p.Name, Sink: l.Sink, Source: l.Source, Reason: "sink cannot resolve to its own output"}
			}
		}
	}
	return nil
}

// Clone returns a deep copy. Global resources are shared handles.
func (c *Config) Clone() *Config {
	out := &Config{
		Passes:  make([]PassSpec, len(c.Passes)),
		globals: slices.Clone(c.globals),
	}
	for i, p := range c.Passes {
		p.Linkages = slices.Clone(p.Linkages)
		out.Passes[i] = p
	}
	if c.FinalSink != nil {
		final := *c.FinalSink
		out.FinalSink = &final
	}
	return out
}
