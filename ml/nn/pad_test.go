package nn

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/7blacky7/seqmask/ml"
)

func mustFloats(t *testing.T, s []float32, shape ...int) *ml.Array {
	t.Helper()
	a, err := ml.FromFloats(s, shape...)
	require.NoError(t, err)
	return a
}

func TestPadList(t *testing.T) {
	xs := []*ml.Array{
		mustFloats(t, []float32{1, 1, 1, 1}, 4),
		mustFloats(t, []float32{1, 1}, 2),
		mustFloats(t, []float32{1}, 1),
	}

	got, err := PadList(xs, 0)
	require.NoError(t, err)

	assert.Equal(t, ml.Shape{3, 4}, got.Shape())
	if diff := cmp.Diff([]float32{
		1, 1, 1, 1,
		1, 1, 0, 0,
		1, 0, 0, 0,
	}, got.Floats()); diff != "" {
		t.Errorf("PadList mismatch (-want +got):\n%s", diff)
	}
}

func TestPadListTrailingDims(t *testing.T) {
	xs := []*ml.Array{
		mustFloats(t, []float32{1, 2, 3, 4}, 2, 2),
		mustFloats(t, []float32{5, 6}, 1, 2),
	}

	got, err := PadList(xs, -1)
	require.NoError(t, err)

	assert.Equal(t, ml.Shape{2, 2, 2}, got.Shape())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6, -1, -1}, got.Floats())
}

func TestPadListKeepsDType(t *testing.T) {
	a, err := ml.FromInts([]int{3, 4}, 2)
	require.NoError(t, err)

	got, err := PadList([]*ml.Array{a}, 0)
	require.NoError(t, err)
	assert.Equal(t, ml.DTypeI64, got.DType())
}

func TestPadListRoundTrip(t *testing.T) {
	lengths := []int{3, 0, 5, 1}
	xs := make([]*ml.Array, len(lengths))
	for i, l := range lengths {
		data := make([]float32, l*2)
		for j := range data {
			data[j] = float32(i*100 + j + 1)
		}
		xs[i] = mustFloats(t, data, l, 2)
	}

	padded, err := PadList(xs, 0)
	require.NoError(t, err)
	require.Equal(t, ml.Shape{4, 5, 2}, padded.Shape())

	for i, l := range lengths {
		sample, err := padded.SliceAxis(0, i, i+1)
		require.NoError(t, err)
		valid, err := sample.SliceAxis(1, 0, l)
		require.NoError(t, err)
		assert.Equal(t, xs[i].Floats(), valid.Floats(), "sample %d", i)
	}
}

func TestPadListErrors(t *testing.T) {
	_, err := PadList(nil, 0)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	scalar := mustFloats(t, []float32{1})
	_, err = PadList([]*ml.Array{scalar}, 0)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = PadList([]*ml.Array{
		mustFloats(t, []float32{1, 2}, 1, 2),
		mustFloats(t, []float32{1, 2, 3}, 1, 3),
	}, 0)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}
