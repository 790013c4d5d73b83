package document

import (
	"fmt"

	"github.com/arloliu/ptcloud/errs"
)

// VectorNode holds an ordered list of unnamed children.
type VectorNode struct {
	nodeBase
	items              []Node
	allowHeterogeneous bool
}

var _ Node = (*VectorNode)(nil)

// NewVectorNode creates an empty, detached vector owned by f.
//
// When allowHeterogeneous is false every element must have the type of the first one.
func NewVectorNode(f *ImageFile, allowHeterogeneous bool) *VectorNode {
	return &VectorNode{
		nodeBase:           nodeBase{file: f},
		allowHeterogeneous: allowHeterogeneous,
	}
}

func (v *VectorNode) Type() NodeType { return TypeVector }

// AllowHeterogeneous reports whether elements of different types may be mixed.
func (v *VectorNode) AllowHeterogeneous() bool { return v.allowHeterogeneous }

// Append attaches child as the last element.
func (v *VectorNode) Append(child Node) error {
	if child != nil && !v.allowHeterogeneous && len(v.items) > 0 && v.items[0].Type() != child.Type() {
		return fmt.Errorf("%w: vector holds %s, got %s", errs.ErrBadNodeValue, v.items[0].Type(), child.Type())
	}
	if err := adopt(v, child); err != nil {
		return fmt.Errorf("append: %w", err)
	}
	v.items = append(v.items, child)

	return nil
}

// At returns the element at index.
func (v *VectorNode) At(index int) (Node, bool) {
	if index < 0 || index >= len(v.items) {
		return nil, false
	}

	return v.items[index], true
}

// Len returns the number of elements.
func (v *VectorNode) Len() int {
	return len(v.items)
}

func (v *VectorNode) wire() (WireNode, error) {
	w := WireNode{
		Type:               TypeVector.String(),
		AllowHeterogeneous: v.allowHeterogeneous,
		Items:              make([]WireNode, 0, len(v.items)),
	}
	for i, item := range v.items {
		child, err := item.wire()
		if err != nil {
			return WireNode{}, fmt.Errorf("[%d]: %w", i, err)
		}
		w.Items = append(w.Items, child)
	}

	return w, nil
}
