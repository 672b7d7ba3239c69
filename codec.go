package kdtree

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	_ json.Marshaler        = Tree[R2]{}
	_ json.Unmarshaler      = (*Tree[R2])(nil)
	_ msgpack.CustomEncoder = Tree[R2]{}
	_ msgpack.CustomDecoder = (*Tree[R2])(nil)
)

// wireNode is the encoded form of a node. A missing child encodes the empty
// tree, so the shape round-trips one-to-one.
type wireNode[P any] struct {
	Left      *wireNode[P] `json:"left,omitempty" msgpack:"left,omitempty"`
	Value     P            `json:"value" msgpack:"value"`
	Dimension int          `json:"dimension" msgpack:"dimension"`
	Right     *wireNode[P] `json:"right,omitempty" msgpack:"right,omitempty"`
}

func toWire[P Point[P]](n *node[P]) *wireNode[P] {
	if n == nil {
		return nil
	}
	return &wireNode[P]{
		Left:      toWire(n.left),
		Value:     n.value,
		Dimension: n.dim,
		Right:     toWire(n.right),
	}
}

func fromWire[P Point[P]](w *wireNode[P]) *node[P] {
	if w == nil {
		return nil
	}
	return &node[P]{
		left:  fromWire(w.Left),
		value: w.Value,
		dim:   w.Dimension,
		right: fromWire(w.Right),
	}
}

// adopt installs the decoded shape after checking that it is a valid tree.
func (t *Tree[P]) adopt(w *wireNode[P]) error {
	decoded := Tree[P]{root: fromWire(w), cfg: t.cfg}
	if err := decoded.Validate(); err != nil {
		return err
	}
	*t = decoded
	return nil
}

// MarshalJSON encodes the tree as nested {left, value, dimension, right}
// objects; the empty tree is null.
func (t Tree[P]) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWire(t.root))
}

// UnmarshalJSON decodes the form written by MarshalJSON. It fails with an
// error wrapping ErrInvalidTree when the data does not describe a valid tree.
func (t *Tree[P]) UnmarshalJSON(data []byte) error {
	var w *wireNode[P]
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("kdtree: decode json: %w", err)
	}
	return t.adopt(w)
}

// EncodeMsgpack encodes the tree with the same shape as MarshalJSON.
func (t Tree[P]) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(toWire(t.root))
}

// DecodeMsgpack decodes the form written by EncodeMsgpack. It fails with an
// error wrapping ErrInvalidTree when the data does not describe a valid tree.
func (t *Tree[P]) DecodeMsgpack(dec *msgpack.Decoder) error {
	var w *wireNode[P]
	if err := dec.Decode(&w); err != nil {
		return fmt.Errorf("kdtree: decode msgpack: %w", err)
	}
	return t.adopt(w)
}
