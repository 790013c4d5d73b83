package document

import (
	"fmt"
	"strings"

	"github.com/arloliu/ptcloud/errs"
)

// StructureNode holds named children in insertion order. Each name can be set once.
type StructureNode struct {
	nodeBase
	names    []string
	children map[string]Node
}

var _ Node = (*StructureNode)(nil)

// NewStructureNode creates an empty, detached structure owned by f.
func NewStructureNode(f *ImageFile) *StructureNode {
	return &StructureNode{
		nodeBase: nodeBase{file: f},
		children: make(map[string]Node),
	}
}

func (s *StructureNode) Type() NodeType { return TypeStructure }

// Set attaches child under name.
//
// Returns:
//   - error: ErrPathDefined if name is already set, ErrAlreadyHasParent,
//     ErrDifferentImageFile, ErrWriterOpen or ErrImageFileClosed
func (s *StructureNode) Set(name string, child Node) error {
	if name == "" || strings.ContainsRune(name, '/') {
		return fmt.Errorf("%w: invalid child name %q", errs.ErrBadNodeValue, name)
	}
	if _, ok := s.children[name]; ok {
		return fmt.Errorf("%w: %s", errs.ErrPathDefined, name)
	}
	if err := adopt(s, child); err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}

	s.names = append(s.names, name)
	s.children[name] = child

	return nil
}

// Get returns the child called name.
func (s *StructureNode) Get(name string) (Node, bool) {
	n, ok := s.children[name]
	return n, ok
}

// Lookup resolves a slash separated path of child names relative to s.
// Vector elements are addressed by their decimal index.
func (s *StructureNode) Lookup(path string) (Node, error) {
	var cur Node = s
	for part := range strings.SplitSeq(strings.Trim(path, "/"), "/") {
		var next Node
		switch n := cur.(type) {
		case *StructureNode:
			next, _ = n.Get(part)
		case *VectorNode:
			var idx int
			if _, err := fmt.Sscanf(part, "%d", &idx); err == nil {
				next, _ = n.At(idx)
			}
		}
		if next == nil {
			return nil, fmt.Errorf("%w: %s", errs.ErrPathUndefined, path)
		}
		cur = next
	}

	return cur, nil
}

// Names returns the child names in insertion order.
func (s *StructureNode) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)

	return out
}

// Len returns the number of children.
func (s *StructureNode) Len() int {
	return len(s.names)
}

func (s *StructureNode) wire() (WireNode, error) {
	w := WireNode{Type: TypeStructure.String(), Children: make([]WireField, 0, len(s.names))}
	for _, name := range s.names {
		child, err := s.children[name].wire()
		if err != nil {
			return WireNode{}, fmt.Errorf("%s: %w", name, err)
		}
		w.Children = append(w.Children, WireField{Name: name, Node: child})
	}

	return w, nil
}
