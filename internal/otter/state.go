package otter

import (
	"fmt"

	"github.com/inodb/otterxml/internal/model"
)

// State is the parse engine: the path stack, the object-construction stack,
// the current-set slot and the completed results for one document.
// Feed it element events in document order; it is not safe for concurrent use.
type State struct {
	registry *Registry
	frames   []frame
	path     string
	objects  []any
	current  *model.AnnotationSet
	results  []*model.AnnotationSet
	skip     int // depth inside an unrecognized subtree
}

// frame is one open, recognized element.
type frame struct {
	handler *TagHandler
	parent  string // path before this element was pushed
	text    []byte
	hasText bool
}

// NewState creates an engine for one document.
func NewState(r *Registry) *State {
	return &State{registry: r}
}

// Path returns the currently open recognized path, "" at the document root.
func (s *State) Path() string { return s.path }

// Depth returns the number of open recognized elements.
func (s *State) Depth() int { return len(s.frames) }

// ObjectDepth returns the number of entities under construction.
func (s *State) ObjectDepth() int { return len(s.objects) }

// Results returns the annotation sets completed so far.
func (s *State) Results() []*model.AnnotationSet { return s.results }

// StartElement handles an element open. It reports whether the element was
// recognized; unrecognized elements and all their descendants are skipped.
func (s *State) StartElement(local string) (bool, error) {
	if s.skip > 0 {
		s.skip++
		return false, nil
	}

	candidate := local
	if s.path != "" {
		candidate = s.path + PathSeparator + local
	}
	h := s.registry.Lookup(candidate)
	if h == nil {
		s.skip = 1
		return false, nil
	}
	if err := checkTagNames(h.FullName, h.LeafName); err != nil {
		return true, err
	}

	s.frames = append(s.frames, frame{handler: h, parent: s.path})
	s.path = candidate

	if h.Open != nil {
		if err := h.Open(s); err != nil {
			return true, wrapHandlerError(candidate, err)
		}
	}
	return true, nil
}

// Characters accumulates text for the innermost open recognized element.
// Text inside skipped subtrees, or outside any recognized element, is dropped.
func (s *State) Characters(text []byte) {
	if s.skip > 0 || len(s.frames) == 0 {
		return
	}
	top := &s.frames[len(s.frames)-1]
	top.text = append(top.text, text...)
	top.hasText = true
}

// EndElement handles an element close. Closes that do not match the innermost
// open recognized element are ignored.
func (s *State) EndElement(local string) error {
	if s.skip > 0 {
		s.skip--
		return nil
	}
	if len(s.frames) == 0 {
		return nil
	}

	top := s.frames[len(s.frames)-1]
	if top.handler.LeafName != local {
		return nil
	}

	path := s.path
	s.frames = s.frames[:len(s.frames)-1]
	s.path = top.parent

	h := top.handler
	if top.hasText && h.Text != nil {
		if err := h.Text(s, string(top.text)); err != nil {
			return wrapHandlerError(path, err)
		}
	}
	if h.Close != nil {
		if err := h.Close(s); err != nil {
			return wrapHandlerError(path, err)
		}
	}
	return nil
}

// EndDocument finishes the parse and returns the completed sets.
// Elements or entities still open indicate unbalanced input.
func (s *State) EndDocument() ([]*model.AnnotationSet, error) {
	if len(s.frames) > 0 || len(s.objects) > 0 {
		return nil, inconsistent(s.path, fmt.Sprintf(
			"unbalanced document: %d open elements, %d open entities",
			len(s.frames), len(s.objects)))
	}
	return s.results, nil
}

// Push places an entity under construction on the object stack.
func (s *State) Push(v any) {
	s.objects = append(s.objects, v)
}

// Current returns the in-progress annotation set, or an error if none is open.
func (s *State) Current() (*model.AnnotationSet, error) {
	if s.current == nil {
		return nil, inconsistent(s.path, "no open sequence set")
	}
	return s.current, nil
}

func (s *State) setCurrent(set *model.AnnotationSet) {
	s.current = set
}

func (s *State) finishCurrent() error {
	set, err := s.Current()
	if err != nil {
		return err
	}
	s.results = append(s.results, set)
	s.current = nil
	return nil
}

func peek[T any](s *State) (T, error) {
	var zero T
	if len(s.objects) == 0 {
		return zero, inconsistent(s.path, fmt.Sprintf("expected %T, object stack is empty", zero))
	}
	v, ok := s.objects[len(s.objects)-1].(T)
	if !ok {
		return zero, inconsistent(s.path, fmt.Sprintf("expected %T, found %T", zero, s.objects[len(s.objects)-1]))
	}
	return v, nil
}

func pop[T any](s *State) (T, error) {
	v, err := peek[T](s)
	if err != nil {
		return v, err
	}
	s.objects = s.objects[:len(s.objects)-1]
	return v, nil
}

func wrapHandlerError(path string, err error) error {
	if e, ok := err.(*Error); ok {
		if e.Path == "" {
			e.Path = path
		}
		return e
	}
	return parseError(path, "invalid value", err)
}
