// Package scene is the entity store render passes read from. Components are
// plain structs kept in one map per component type.
package scene

import (
	"maps"
	"reflect"
	"slices"
)

type Entity uint32

// InvalidEntity is never handed out by Create.
const InvalidEntity Entity = 0

type Registry struct {
	lastEntity Entity
	freeList   []Entity
	alive      map[Entity]struct{}
	storages   map[reflect.Type]any
	deleters   map[reflect.Type]func(Entity)
}

func NewRegistry() *Registry {
	return &Registry{
		alive:    make(map[Entity]struct{}),
		storages: make(map[reflect.Type]any),
		deleters: make(map[reflect.Type]func(Entity)),
	}
}

func (r *Registry) Create() Entity {
	var e Entity
	if len(r.freeList) > 0 {
		e = r.freeList[len(r.freeList)-1]
		r.freeList = r.freeList[:len(r.freeList)-1]
	} else {
		r.lastEntity++
		e = r.lastEntity
	}
	r.alive[e] = struct{}{}
	return e
}

// Destroy removes the entity and every component assigned to it.
func (r *Registry) Destroy(e Entity) {
	if _, ok := r.alive[e]; !ok {
		return
	}
	for _, deleteFn := range r.deleters {
		deleteFn(e)
	}
	delete(r.alive, e)
	r.freeList = append(r.freeList, e)
}

func (r *Registry) Alive(e Entity) bool {
	_, ok := r.alive[e]
	return ok
}

func (r *Registry) Len() int {
	return len(r.alive)
}

func storage[T any](r *Registry) map[Entity]*T {
	t := reflect.TypeFor[T]()
	if s, ok := r.storages[t]; ok {
		return s.(map[Entity]*T)
	}
	s := make(map[Entity]*T)
	r.storages[t] = s
	r.deleters[t] = func(e Entity) {
		delete(s, e)
	}
	return s
}

// Assign attaches (or replaces) a component on a live entity.
func Assign[T any](r *Registry, e Entity, component T) bool {
	if !r.Alive(e) {
		return false
	}
	c := component
	storage[T](r)[e] = &c
	return true
}

func Get[T any](r *Registry, e Entity) (*T, bool) {
	c, ok := storage[T](r)[e]
	return c, ok
}

func Has[T any](r *Registry, e Entity) bool {
	_, ok := storage[T](r)[e]
	return ok
}

func Remove[T any](r *Registry, e Entity) {
	delete(storage[T](r), e)
}

// Each visits every entity owning a T in ascending entity order.
func Each[T any](r *Registry, fn func(Entity, *T)) {
	s := storage[T](r)
	for _, e := range slices.Sorted(maps.Keys(s)) {
		fn(e, s[e])
	}
}

// Each2 visits every entity owning both an A and a B in ascending entity order.
func Each2[A, B any](r *Registry, fn func(Entity, *A, *B)) {
	sa := storage[A](r)
	sb := storage[B](r)
	for _, e := range slices.Sorted(maps.Keys(sa)) {
		if b, ok := sb[e]; ok {
			fn(e, sa[e], b)
		}
	}
}

// Count returns how many entities own a T.
func Count[T any](r *Registry) int {
	return len(storage[T](r))
}
