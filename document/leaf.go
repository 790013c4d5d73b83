package document

import (
	"fmt"
	"math"

	"github.com/arloliu/ptcloud/errs"
	"github.com/arloliu/ptcloud/format"
)

// StringNode holds a UTF-8 string.
type StringNode struct {
	nodeBase
	value string
}

var _ Node = (*StringNode)(nil)

// NewStringNode creates a detached string node owned by f.
func NewStringNode(f *ImageFile, value string) *StringNode {
	return &StringNode{nodeBase: nodeBase{file: f}, value: value}
}

func (n *StringNode) Type() NodeType { return TypeString }

// Value returns the string.
func (n *StringNode) Value() string { return n.value }

func (n *StringNode) wire() (WireNode, error) {
	v := n.value
	return WireNode{Type: TypeString.String(), String: &v}, nil
}

// IntegerNode holds an integer constrained to [Minimum, Maximum].
//
// Inside a compressed vector prototype the bounds declare the range of every record
// value and select the bit width of the packed column.
type IntegerNode struct {
	nodeBase
	value   int64
	minimum int64
	maximum int64
}

var _ Node = (*IntegerNode)(nil)

// NewIntegerNode creates an unbounded integer node.
func NewIntegerNode(f *ImageFile, value int64) *IntegerNode {
	n, _ := NewBoundedIntegerNode(f, value, math.MinInt64, math.MaxInt64)
	return n
}

// NewBoundedIntegerNode creates an integer node with explicit bounds.
//
// Returns:
//   - *IntegerNode: The new node
//   - error: ErrBadNodeValue if minimum > maximum, ErrValueOutOfBounds if value is outside the bounds
func NewBoundedIntegerNode(f *ImageFile, value, minimum, maximum int64) (*IntegerNode, error) {
	if minimum > maximum {
		return nil, fmt.Errorf("%w: minimum %d > maximum %d", errs.ErrBadNodeValue, minimum, maximum)
	}
	if value < minimum || value > maximum {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", errs.ErrValueOutOfBounds, value, minimum, maximum)
	}

	return &IntegerNode{nodeBase: nodeBase{file: f}, value: value, minimum: minimum, maximum: maximum}, nil
}

func (n *IntegerNode) Type() NodeType { return TypeInteger }
func (n *IntegerNode) Value() int64   { return n.value }
func (n *IntegerNode) Minimum() int64 { return n.minimum }
func (n *IntegerNode) Maximum() int64 { return n.maximum }

func (n *IntegerNode) wire() (WireNode, error) {
	return WireNode{
		Type:    TypeInteger.String(),
		Integer: &IntegerValue{Value: n.value, Minimum: n.minimum, Maximum: n.maximum},
	}, nil
}

// FloatNode holds a finite floating point value with a storage precision.
type FloatNode struct {
	nodeBase
	value     float64
	precision format.Precision
	minimum   float64
	maximum   float64
}

var _ Node = (*FloatNode)(nil)

// NewFloatNode creates a float node bounded only by its precision.
func NewFloatNode(f *ImageFile, value float64, precision format.Precision) (*FloatNode, error) {
	limit := math.MaxFloat64
	if precision == format.PrecisionSingle {
		limit = math.MaxFloat32
	}

	return NewBoundedFloatNode(f, value, precision, -limit, limit)
}

// NewDoubleNode creates a double precision float node. It fails only for non-finite values.
func NewDoubleNode(f *ImageFile, value float64) (*FloatNode, error) {
	return NewFloatNode(f, value, format.PrecisionDouble)
}

// NewBoundedFloatNode creates a float node with explicit bounds.
//
// Returns:
//   - *FloatNode: The new node
//   - error: ErrBadNodeValue for non-finite values, bad bounds or an unknown precision,
//     ErrValueOutOfBounds if value is outside the bounds
func NewBoundedFloatNode(f *ImageFile, value float64, precision format.Precision, minimum, maximum float64) (*FloatNode, error) {
	if precision != format.PrecisionSingle && precision != format.PrecisionDouble {
		return nil, fmt.Errorf("%w: precision %d", errs.ErrBadNodeValue, precision)
	}
	if !isFinite(value) || !isFinite(minimum) || !isFinite(maximum) {
		return nil, fmt.Errorf("%w: non-finite float", errs.ErrBadNodeValue)
	}
	if minimum > maximum {
		return nil, fmt.Errorf("%w: minimum %g > maximum %g", errs.ErrBadNodeValue, minimum, maximum)
	}
	if value < minimum || value > maximum {
		return nil, fmt.Errorf("%w: %g not in [%g, %g]", errs.ErrValueOutOfBounds, value, minimum, maximum)
	}

	return &FloatNode{
		nodeBase:  nodeBase{file: f},
		value:     value,
		precision: precision,
		minimum:   minimum,
		maximum:   maximum,
	}, nil
}

func (n *FloatNode) Type() NodeType              { return TypeFloat }
func (n *FloatNode) Value() float64              { return n.value }
func (n *FloatNode) Precision() format.Precision { return n.precision }
func (n *FloatNode) Minimum() float64            { return n.minimum }
func (n *FloatNode) Maximum() float64            { return n.maximum }

func (n *FloatNode) wire() (WireNode, error) {
	return WireNode{
		Type: TypeFloat.String(),
		Float: &FloatValue{
			Value:     n.value,
			Precision: n.precision.String(),
			Minimum:   n.minimum,
			Maximum:   n.maximum,
		},
	}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
