package document

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// WireNode is the JSON form of a node in the metadata section.
//
// Exactly one payload field is set, matching Type.
type WireNode struct {
	Type               string        `json:"type"`
	Children           []WireField   `json:"children,omitempty"`
	Items              []WireNode    `json:"items,omitempty"`
	AllowHeterogeneous bool          `json:"allowHeterogeneousChildren,omitempty"`
	String             *string       `json:"string,omitempty"`
	Integer            *IntegerValue `json:"integer,omitempty"`
	Float              *FloatValue   `json:"float,omitempty"`
	Points             *PointsValue  `json:"points,omitempty"`
}

// WireField is a named structure child.
type WireField struct {
	Name string   `json:"name"`
	Node WireNode `json:"node"`
}

// IntegerValue is the payload of an Integer node.
type IntegerValue struct {
	Value   int64 `json:"value"`
	Minimum int64 `json:"minimum"`
	Maximum int64 `json:"maximum"`
}

// FloatValue is the payload of a Float node.
type FloatValue struct {
	Value     float64 `json:"value"`
	Precision string  `json:"precision"`
	Minimum   float64 `json:"minimum"`
	Maximum   float64 `json:"maximum"`
}

// PointsValue is the payload of a CompressedVector node.
type PointsValue struct {
	// RecordCount is the number of records in the block stream.
	RecordCount uint64 `json:"recordCount"`
	// Packets is the number of packets in the block stream.
	Packets uint32 `json:"packets"`
	// FileOffset is the file offset of the first packet.
	FileOffset uint64 `json:"fileOffset"`
	// Length is the total size of the packets.
	Length uint64 `json:"length"`
	// Prototype describes one record.
	Prototype WireNode `json:"prototype"`
	// Codecs lists the column codec of every prototype field in order.
	Codecs []WireCodec `json:"codecs"`
}

// WireCodec names the encoding and compression of one column.
type WireCodec struct {
	Field string `json:"field"`
	// ID is the xxHash64 of Field, stable across files.
	ID          uint64 `json:"id"`
	Encoding    string `json:"encoding"`
	Compression string `json:"compression"`
}

// Child returns the structure child called name.
func (w *WireNode) Child(name string) (*WireNode, bool) {
	for i := range w.Children {
		if w.Children[i].Name == name {
			return &w.Children[i].Node, true
		}
	}

	return nil, false
}

// Lookup resolves a slash separated path, addressing vector items by index.
func (w *WireNode) Lookup(path string) (*WireNode, bool) {
	cur := w
	for part := range strings.SplitSeq(strings.Trim(path, "/"), "/") {
		if idx, err := strconv.Atoi(part); err == nil && cur.Items != nil {
			if idx < 0 || idx >= len(cur.Items) {
				return nil, false
			}
			cur = &cur.Items[idx]

			continue
		}

		next, ok := cur.Child(part)
		if !ok {
			return nil, false
		}
		cur = next
	}

	return cur, true
}

// MarshalTree serializes the tree rooted at n.
func MarshalTree(n Node) ([]byte, error) {
	w, err := n.wire()
	if err != nil {
		return nil, err
	}

	return json.Marshal(w)
}

// UnmarshalTree parses a serialized tree.
func UnmarshalTree(data []byte) (WireNode, error) {
	var w WireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return WireNode{}, err
	}

	return w, nil
}
