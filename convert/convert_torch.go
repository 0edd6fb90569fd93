// convert_torch.go - PyTorch state dicts (.pt / .pth) als Arrays laden
// Hauptfunktionen: FromTorch
package convert

import (
	"fmt"
	"slices"

	"github.com/nlpodyssey/gopickle/pytorch"
	"github.com/nlpodyssey/gopickle/types"

	"github.com/7blacky7/seqmask/ml"
)

// FromTorch laedt alle Tensoren eines gepickelten state dicts. Nur
// zusammenhaengende (row-major) Tensoren werden unterstuetzt.
func FromTorch(path string) (map[string]*ml.Array, error) {
	pt, err := pytorch.Load(path)
	if err != nil {
		return nil, err
	}

	dict, ok := pt.(*types.Dict)
	if !ok {
		return nil, fmt.Errorf("convert: %s: expected a state dict, got %T", path, pt)
	}

	arrays := make(map[string]*ml.Array)
	for _, k := range dict.Keys() {
		name, ok := k.(string)
		if !ok {
			return nil, fmt.Errorf("convert: %s: key %v is not a string", path, k)
		}

		t, ok := dict.MustGet(k).(*pytorch.Tensor)
		if !ok {
			continue
		}

		a, err := fromTorchTensor(t)
		if err != nil {
			return nil, fmt.Errorf("convert: %s: tensor %q: %w", path, name, err)
		}
		arrays[name] = a
	}
	return arrays, nil
}

func fromTorchTensor(t *pytorch.Tensor) (*ml.Array, error) {
	shape := ml.Shape(t.Size)
	if !contiguous(shape, t.Stride) {
		return nil, fmt.Errorf("non-contiguous strides %v for shape %v", t.Stride, t.Size)
	}

	begin, end := t.StorageOffset, t.StorageOffset+shape.NumElements()

	var dtype ml.DType
	var data []float32
	switch s := t.Source.(type) {
	case *pytorch.FloatStorage:
		dtype, data = ml.DTypeF32, window(s.Data, begin, end)
	case *pytorch.HalfStorage:
		dtype, data = ml.DTypeF16, window(s.Data, begin, end)
	case *pytorch.BFloat16Storage:
		dtype, data = ml.DTypeBF16, window(s.Data, begin, end)
	case *pytorch.DoubleStorage:
		dtype, data = ml.DTypeF64, widen(window(s.Data, begin, end))
	case *pytorch.IntStorage:
		dtype, data = ml.DTypeI32, widen(window(s.Data, begin, end))
	case *pytorch.LongStorage:
		dtype, data = ml.DTypeI64, widen(window(s.Data, begin, end))
	case *pytorch.BoolStorage:
		dtype = ml.DTypeBool
		for _, b := range window(s.Data, begin, end) {
			if b {
				data = append(data, 1)
			} else {
				data = append(data, 0)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported storage %T", t.Source)
	}

	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("storage holds %d of %d elements", len(data), shape.NumElements())
	}
	return ml.New(dtype, slices.Clone(data), shape...)
}

// contiguous prueft row-major Strides, Achsen der Groesse 1 sind beliebig
func contiguous(shape ml.Shape, stride []int) bool {
	if len(stride) != len(shape) {
		return len(stride) == 0
	}
	want := shape.Strides()
	for i, d := range shape {
		if d > 1 && stride[i] != want[i] {
			return false
		}
	}
	return true
}

// window schneidet [begin, end) aus s, soweit vorhanden
func window[S ~[]E, E any](s S, begin, end int) S {
	begin, end = min(begin, len(s)), min(end, len(s))
	return s[begin:end]
}

func widen[E float64 | int32 | int64](s []E) []float32 {
	out := make([]float32, len(s))
	for i, v := range s {
		out[i] = float32(v)
	}
	return out
}
