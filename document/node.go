package document

import (
	"fmt"

	"github.com/arloliu/ptcloud/errs"
)

// NodeType identifies the concrete type of a Node.
type NodeType uint8

const (
	TypeStructure        NodeType = 0x1
	TypeVector           NodeType = 0x2
	TypeString           NodeType = 0x3
	TypeInteger          NodeType = 0x4
	TypeFloat            NodeType = 0x5
	TypeCompressedVector NodeType = 0x6
)

func (t NodeType) String() string {
	switch t {
	case TypeStructure:
		return "Structure"
	case TypeVector:
		return "Vector"
	case TypeString:
		return "String"
	case TypeInteger:
		return "Integer"
	case TypeFloat:
		return "Float"
	case TypeCompressedVector:
		return "CompressedVector"
	default:
		return "Unknown"
	}
}

// Node is an element of the document tree.
//
// Every node belongs to the ImageFile it was created with and can be attached to at
// most one parent.
type Node interface {
	// Type returns the concrete node type.
	Type() NodeType
	// File returns the owning ImageFile.
	File() *ImageFile
	// Parent returns the parent node, or nil for the root and detached nodes.
	Parent() Node

	base() *nodeBase
	wire() (WireNode, error)
}

type nodeBase struct {
	file   *ImageFile
	parent Node
}

func (b *nodeBase) File() *ImageFile { return b.file }
func (b *nodeBase) Parent() Node     { return b.parent }
func (b *nodeBase) base() *nodeBase  { return b }

// adopt validates that child may be attached under parent and attaches it.
func adopt(parent Node, child Node) error {
	if child == nil {
		return fmt.Errorf("%w: nil child", errs.ErrBadNodeValue)
	}

	f := parent.File()
	if err := f.checkMutable(); err != nil {
		return err
	}
	if child.File() != f {
		return errs.ErrDifferentImageFile
	}

	cb := child.base()
	if cb.parent != nil || child == Node(f.root) {
		return errs.ErrAlreadyHasParent
	}

	// an ancestor cannot become its own descendant
	for n := parent; n != nil; n = n.Parent() {
		if n == child {
			return fmt.Errorf("%w: cycle", errs.ErrAlreadyHasParent)
		}
	}
	cb.parent = parent

	return nil
}
