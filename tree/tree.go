// Package tree provides the nested property-tree data model shared by all
// generation stages. A Tree is a recursively nested mapping from property
// name to a scalar, a nested Tree, or an ordered list of either. Property
// names are unique within any one mapping level.
//
// Trees are never shared between pipeline stages: every transforming stage
// clones its input and returns a new tree, so no stage's output aliases a
// prior stage's input.
package tree

import (
	"fmt"
	"sort"
)

// Tree is a nested property mapping. Values are scalars, nested Trees
// (as map[string]any), or []any of either.
type Tree map[string]any

// Clone returns a deep copy of the tree. Nested maps and slices are
// copied recursively; scalar values are copied by assignment.
func (t Tree) Clone() Tree {
	if t == nil {
		return nil
	}
	out := make(Tree, len(t))
	for k, v := range t {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Tree:
		return map[string]any(val.Clone())
	case map[string]any:
		return map[string]any(Tree(val).Clone())
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = cloneValue(elem)
		}
		return out
	default:
		return v
	}
}

// Paths returns the path of every property at every depth, sorted by
// dotted form for deterministic iteration. Array elements contribute
// their index as a path segment.
func (t Tree) Paths() []Path {
	var paths []Path
	walkValue(map[string]any(t), nil, func(p Path, _ any) {
		paths = append(paths, p)
	})
	sort.Slice(paths, func(i, j int) bool { return paths[i].String() < paths[j].String() })
	return paths
}

// Count returns the number of properties at every depth.
func (t Tree) Count() int {
	n := 0
	walkValue(map[string]any(t), nil, func(Path, any) { n++ })
	return n
}

// walkValue visits every property (key, not array index) in the nested
// structure, depth-first, calling fn with the property's full path and
// value.
func walkValue(v any, prefix Path, fn func(Path, any)) {
	switch val := v.(type) {
	case Tree:
		walkValue(map[string]any(val), prefix, fn)
	case map[string]any:
		for k, child := range val {
			p := prefix.Child(k)
			fn(p, child)
			walkValue(child, p, fn)
		}
	case []any:
		for i, elem := range val {
			walkValue(elem, prefix.Child(fmt.Sprintf("%d", i)), fn)
		}
	}
}

// Get returns the value at the given path, or false if any segment is
// missing or traverses a scalar.
func (t Tree) Get(p Path) (any, bool) {
	parent, key, ok := t.resolve(p)
	if !ok {
		return nil, false
	}
	v, ok := parent[key]
	return v, ok
}

// Delete removes the property at the given path from its containing
// mapping. Only the specific occurrence named by the path is removed;
// other properties with the same name elsewhere are untouched. Returns
// false if the path does not resolve.
func (t Tree) Delete(p Path) bool {
	parent, key, ok := t.resolve(p)
	if !ok {
		return false
	}
	if _, present := parent[key]; !present {
		return false
	}
	delete(parent, key)
	return true
}

// SetValue replaces the value at the given path. Returns false if the
// path does not resolve to an existing property.
func (t Tree) SetValue(p Path, v any) bool {
	parent, key, ok := t.resolve(p)
	if !ok {
		return false
	}
	if _, present := parent[key]; !present {
		return false
	}
	parent[key] = v
	return true
}

// Rename changes the final key of the given path to newName, keeping the
// value. Returns false if the path does not resolve or newName already
// exists at that level (names must stay unique within a level).
func (t Tree) Rename(p Path, newName string) bool {
	parent, key, ok := t.resolve(p)
	if !ok {
		return false
	}
	v, present := parent[key]
	if !present {
		return false
	}
	if _, clash := parent[newName]; clash {
		return false
	}
	delete(parent, key)
	parent[newName] = v
	return true
}

// resolve walks all but the last segment of p and returns the mapping
// that contains the final key.
func (t Tree) resolve(p Path) (map[string]any, string, bool) {
	if len(p) == 0 {
		return nil, "", false
	}
	var cur any = map[string]any(t)
	for _, seg := range p[:len(p)-1] {
		switch node := cur.(type) {
		case Tree:
			cur = node[seg]
		case map[string]any:
			cur = node[seg]
		case []any:
			idx, err := parseIndex(seg, len(node))
			if err != nil {
				return nil, "", false
			}
			cur = node[idx]
		default:
			return nil, "", false
		}
	}
	last := p[len(p)-1]
	switch node := cur.(type) {
	case Tree:
		return map[string]any(node), last, true
	case map[string]any:
		return node, last, true
	default:
		return nil, "", false
	}
}

func parseIndex(seg string, length int) (int, error) {
	var idx int
	if _, err := fmt.Sscanf(seg, "%d", &idx); err != nil {
		return 0, fmt.Errorf("not an array index: %q", seg)
	}
	if idx < 0 || idx >= length {
		return 0, fmt.Errorf("index %d out of range", idx)
	}
	return idx, nil
}
