package nn

import (
	"fmt"

	"github.com/7blacky7/seqmask/ml"
)

// MaskByLength returns a copy of x (B, T, ...) where every position at or
// beyond lengths[b] along axis 1 is replaced by fill.
func MaskByLength(x *ml.Array, lengths ml.Lengths, fill float32) (*ml.Array, error) {
	if x.Rank() < 2 {
		return nil, fmt.Errorf("%w: input of rank %d has no time axis", ErrShapeMismatch, x.Rank())
	}
	if x.Dim(0) != lengths.Len() {
		return nil, fmt.Errorf("%w: batch size %d must match %d lengths", ErrShapeMismatch, x.Dim(0), lengths.Len())
	}

	steps := x.Dim(1)
	for b := range lengths.Len() {
		if l := lengths.At(b); l < 0 || l > steps {
			return nil, fmt.Errorf("%w: length %d of sample %d outside [0, %d]", ErrLengthBounds, l, b, steps)
		}
	}

	shape := x.Shape()
	frame := shape[2:].NumElements()
	data := x.Floats()
	for b := range lengths.Len() {
		row := data[b*steps*frame : (b+1)*steps*frame]
		for i := lengths.At(b) * frame; i < len(row); i++ {
			row[i] = fill
		}
	}

	return ml.New(x.DType(), data, shape...)
}
