package rendergraph

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownPassType       = errors.New("unknown pass type")
	ErrMissingEntityRegistry = errors.New("pass requires an entity registry")
	ErrMalformedLinkage      = errors.New("malformed sink linkage")
	ErrDuplicatePass         = errors.New("duplicate pass name")
	ErrInvalidConfig         = errors.New("invalid render graph config")
	ErrNoConfig              = errors.New("no config set")
	ErrInvalidOutput         = errors.New("invalid pass output")
	ErrNoBackend             = errors.New("context has no renderer backend")
	ErrGraphExecuting        = errors.New("cannot finalize while executing")
)

// ConstructionError is returned by Finalize when a pass cannot be built.
type ConstructionError struct {
	Pass string
	Type PassType
	Err  error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("failed to construct pass %q of type %s: %v", e.Pass, e.Type, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// LinkageError describes a sink linkage that can never be valid.
type LinkageError struct {
	Pass   string
	Sink   string
	Source string
	Reason string
}

func (e *LinkageError) Error() string {
	return fmt.Sprintf("pass %q sink %q -> %q: %s", e.Pass, e.Sink, e.Source, e.Reason)
}

func (e *LinkageError) Unwrap() error {
	return ErrMalformedLinkage
}
