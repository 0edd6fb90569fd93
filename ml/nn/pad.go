package nn

import (
	"fmt"

	"github.com/7blacky7/seqmask/ml"
)

// PadList right-pads sequences of shape (T_i, ...) into one array of shape
// (N, max T_i, ...) filled with padValue. The result takes the DType of the
// first sequence.
func PadList(xs []*ml.Array, padValue float32) (*ml.Array, error) {
	if len(xs) == 0 {
		return nil, fmt.Errorf("%w: no sequences to pad", ErrShapeMismatch)
	}

	trailing := xs[0].Shape()
	if len(trailing) == 0 {
		return nil, fmt.Errorf("%w: sequence 0 is a scalar", ErrShapeMismatch)
	}
	trailing = trailing[1:]

	maxLen := 0
	for i, x := range xs {
		shape := x.Shape()
		if len(shape) == 0 || !shape[1:].Equal(trailing) {
			return nil, fmt.Errorf("%w: sequence %d has shape %v, want (*, %v)", ErrShapeMismatch, i, []int(shape), []int(trailing))
		}
		maxLen = max(maxLen, shape[0])
	}

	out := ml.Full(xs[0].DType(), padValue, append([]int{len(xs), maxLen}, trailing...)...)
	data := out.Floats()

	row := maxLen * trailing.NumElements()
	for i, x := range xs {
		copy(data[i*row:], x.Floats())
	}

	return ml.New(out.DType(), data, out.Shape()...)
}
