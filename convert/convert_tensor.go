// convert_tensor.go - Austausch mit gorgonia-kompatiblen Tensoren
// Hauptfunktionen: ToDense, FromDense
package convert

import (
	"fmt"

	"github.com/pdevine/tensor"

	"github.com/7blacky7/seqmask/ml"
)

// ToDense kopiert a in einen float32 tensor.Dense gleicher Shape
func ToDense(a *ml.Array) *tensor.Dense {
	if a.Rank() == 0 {
		return tensor.New(tensor.FromScalar(a.At()))
	}
	return tensor.New(tensor.WithShape(a.Shape()...), tensor.WithBacking(a.Floats()))
}

// FromDense materialisiert t (z.B. nach einem Transpose) und kopiert die
// Werte in ein ml.Array. Unterstuetzt float32 und float64.
func FromDense(t tensor.Tensor) (*ml.Array, error) {
	t = tensor.Materialize(t)
	shape := []int(t.Shape())

	switch data := t.Data().(type) {
	case []float32:
		return ml.FromFloats(data, shape...)
	case float32:
		return ml.FromFloats([]float32{data}, shape...)
	case []float64:
		f32s := make([]float32, len(data))
		for i, v := range data {
			f32s[i] = float32(v)
		}
		return ml.New(ml.DTypeF64, f32s, shape...)
	case float64:
		return ml.New(ml.DTypeF64, []float32{float32(data)}, shape...)
	default:
		return nil, fmt.Errorf("convert: unsupported tensor data %T", data)
	}
}
