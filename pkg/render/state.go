package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// State is the explicit per-session value container. It tracks collected
// values and validation errors keyed by dotted paths; renderers receive it,
// mutate it through SetValue, and hand it back to the caller. Every leaf path
// corresponds to exactly one schema property reachable from the form root.
type State struct {
	values map[string]any
	errors map[string][]string
}

// NewState seeds the state with prefilled values and errors. Inputs are
// deep-copied so callers keep ownership of what they passed in.
func NewState(prefill map[string]any, errs map[string][]string) *State {
	return &State{
		values: cloneValues(prefill),
		errors: cloneErrors(errs),
	}
}

// Map returns the nested value map (mutable).
func (s *State) Map() map[string]any {
	if s == nil {
		return nil
	}
	return s.values
}

// Errors returns the error map (mutable).
func (s *State) Errors() map[string][]string {
	if s == nil {
		return nil
	}
	return s.errors
}

// ErrorsFor returns the errors attached to a dotted path.
func (s *State) ErrorsFor(path string) []string {
	if s == nil || len(s.errors) == 0 {
		return nil
	}
	return s.errors[path]
}

// SetErrors replaces the error map.
func (s *State) SetErrors(errs map[string][]string) {
	if s == nil {
		return
	}
	s.errors = cloneErrors(errs)
}

// GetValue resolves a dotted path into the value map.
func (s *State) GetValue(path string) (any, bool) {
	if s == nil {
		return nil, false
	}
	return getPath(s.values, path)
}

// SetValue writes a value at a dotted path, creating intermediate maps and
// slices as needed. Numeric segments index into slices.
func (s *State) SetValue(path string, value any) error {
	if s == nil {
		return fmt.Errorf("render: state is nil")
	}
	if s.values == nil {
		s.values = make(map[string]any)
	}
	return setPath(s.values, path, value)
}

// Delete removes the value stored at a dotted path, if any.
func (s *State) Delete(path string) {
	if s == nil || len(s.values) == 0 {
		return
	}
	segments := strings.Split(path, ".")
	container := s.values
	for _, segment := range segments[:len(segments)-1] {
		next, ok := container[segment].(map[string]any)
		if !ok {
			return
		}
		container = next
	}
	delete(container, segments[len(segments)-1])
}

// Leaves returns every leaf path currently stored, sorted. Collection indices
// appear as numeric segments.
func (s *State) Leaves() []string {
	if s == nil {
		return nil
	}
	var out []string
	collectLeaves("", s.values, &out)
	sort.Strings(out)
	return out
}

func collectLeaves(prefix string, value any, out *[]string) {
	switch v := value.(type) {
	case map[string]any:
		if len(v) == 0 && prefix != "" {
			*out = append(*out, prefix)
			return
		}
		for key, child := range v {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			collectLeaves(next, child, out)
		}
	case []any:
		if len(v) == 0 && prefix != "" {
			*out = append(*out, prefix)
			return
		}
		for idx, child := range v {
			collectLeaves(fmt.Sprintf("%s.%d", prefix, idx), child, out)
		}
	default:
		if prefix != "" {
			*out = append(*out, prefix)
		}
	}
}

func cloneValues(src map[string]any) map[string]any {
	if len(src) == 0 {
		return make(map[string]any)
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = deepCopy(v)
	}
	return out
}

func cloneErrors(src map[string][]string) map[string][]string {
	if len(src) == 0 {
		return make(map[string][]string)
	}
	out := make(map[string][]string, len(src))
	for k, v := range src {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	default:
		return typed
	}
}

func getPath(root map[string]any, path string) (any, bool) {
	if root == nil || path == "" {
		return nil, false
	}
	current := any(root)
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

func setPath(root map[string]any, path string, value any) error {
	segments := strings.Split(path, ".")
	if len(segments) == 0 || path == "" {
		return fmt.Errorf("render: empty path")
	}

	container := any(root)
	for i, segment := range segments {
		last := i == len(segments)-1

		switch node := container.(type) {
		case map[string]any:
			if last {
				node[segment] = value
				return nil
			}
			child := node[segment]
			next, err := prepareChild(child, segments[i+1])
			if err != nil {
				return fmt.Errorf("render: path %q: %w", path, err)
			}
			node[segment] = next
			container = next

		case []any:
			// prepareChild sized the slice for this index before descending,
			// so indexing is always in range here.
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return fmt.Errorf("render: path %q: segment %q is not a valid index", path, segment)
			}
			if last {
				node[idx] = value
				return nil
			}
			next, err := prepareChild(node[idx], segments[i+1])
			if err != nil {
				return fmt.Errorf("render: path %q: %w", path, err)
			}
			node[idx] = next
			container = next

		default:
			return fmt.Errorf("render: path %q: unexpected container for segment %q", path, segment)
		}
	}
	return nil
}

// prepareChild returns an existing container suited for the next segment, or
// builds a fresh one. Slices are sized up front so numeric segments index
// safely.
func prepareChild(current any, nextSegment string) (any, error) {
	if idx, err := strconv.Atoi(nextSegment); err == nil {
		slice, ok := current.([]any)
		if !ok {
			slice = make([]any, idx+1)
		} else if len(slice) <= idx {
			slice = append(slice, make([]any, idx+1-len(slice))...)
		}
		return slice, nil
	}
	if m, ok := current.(map[string]any); ok && m != nil {
		return m, nil
	}
	return make(map[string]any), nil
}
