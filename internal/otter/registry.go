package otter

import (
	"strings"
	"sync"
)

// PathSeparator joins element local names into a tag path.
const PathSeparator = ":"

// TagHandler describes what happens when one element kind opens, carries text, and closes.
// Nil actions do nothing.
type TagHandler struct {
	FullName string // colon-joined path, e.g. otter:sequenceset:gene
	LeafName string // last path segment, e.g. gene

	Open  func(s *State) error
	Text  func(s *State, text string) error
	Close func(s *State) error
}

// Registry maps full tag paths to handlers.
type Registry struct {
	handlers map[string]*TagHandler
}

// NewRegistry builds a registry, refusing handlers whose leaf name is not the
// last segment of their full name, and duplicate paths.
func NewRegistry(handlers ...TagHandler) (*Registry, error) {
	r := &Registry{handlers: make(map[string]*TagHandler, len(handlers))}
	for i := range handlers {
		h := handlers[i]
		if err := checkTagNames(h.FullName, h.LeafName); err != nil {
			return nil, err
		}
		if _, dup := r.handlers[h.FullName]; dup {
			return nil, inconsistent(h.FullName, "duplicate tag path")
		}
		r.handlers[h.FullName] = &h
	}
	return r, nil
}

// Lookup returns the handler for a full tag path, or nil if the path is not recognized.
func (r *Registry) Lookup(path string) *TagHandler {
	return r.handlers[path]
}

// Len returns the number of registered paths.
func (r *Registry) Len() int {
	return len(r.handlers)
}

// Paths returns every registered path.
func (r *Registry) Paths() []string {
	paths := make([]string, 0, len(r.handlers))
	for p := range r.handlers {
		paths = append(paths, p)
	}
	return paths
}

func checkTagNames(fullName, leafName string) error {
	if fullName == "" || leafName == "" {
		return inconsistent(fullName, "empty tag name")
	}
	if leafOf(fullName) != leafName {
		return inconsistent(fullName, "inconsistent tag: leaf name "+leafName)
	}
	return nil
}

func leafOf(path string) string {
	if i := strings.LastIndex(path, PathSeparator); i >= 0 {
		return path[i+1:]
	}
	return path
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := NewRegistry(otterHandlers()...)
	if err != nil {
		panic(err)
	}
	return r
})

// DefaultRegistry returns the registry for the Otter dialect.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}
