package safetensors

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/7blacky7/seqmask/ml"
)

func writeTemp(t *testing.T, tensors []Tensor, metadata map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.safetensors")
	require.NoError(t, WriteFile(path, tensors, metadata))
	return path
}

func TestWriteRead(t *testing.T) {
	h, err := ml.FromFloats([]float32{0.5, -1.25, 3, 4, 5, 6}, 1, 3, 2)
	require.NoError(t, err)
	lengths := ml.NewLengths(3).Array()
	mask, err := ml.MaskFromBools([]bool{true, true, false}, 1, 1, 3)
	require.NoError(t, err)

	path := writeTemp(t, []Tensor{
		{Name: "h", Array: h},
		{Name: "lengths", Array: lengths},
		{Name: "masks", Array: mask.Array()},
	}, map[string]string{"format": "pt"})

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	var names []string
	for _, ti := range f.Tensors() {
		names = append(names, ti.Name)
	}
	if diff := cmp.Diff([]string{"h", "lengths", "masks"}, names); diff != "" {
		t.Errorf("tensor order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, map[string]string{"format": "pt"}, f.Metadata())

	got, err := f.Read("h")
	require.NoError(t, err)
	assert.True(t, h.Equal(got))

	gotLengths, err := f.Read("lengths")
	require.NoError(t, err)
	assert.Equal(t, ml.DTypeI64, gotLengths.DType())
	assert.Equal(t, []int{3}, gotLengths.Ints())

	gotMask, err := f.ReadMask("masks")
	require.NoError(t, err)
	assert.True(t, mask.Equal(gotMask))

	_, err = f.Read("pos_emb")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDTypes(t *testing.T) {
	floating := []float32{0, 1, -2, 0.5, 1024}
	// Ganzzahlige Typen schneiden Nachkommastellen ab
	integral := []float32{0, 1, -2, 0, 1024}

	cases := []struct {
		dtype        ml.DType
		values, want []float32
	}{
		{ml.DTypeF32, floating, floating},
		{ml.DTypeF16, floating, floating},
		{ml.DTypeBF16, floating, floating},
		{ml.DTypeF64, floating, floating},
		{ml.DTypeI32, []float32{0, 1, -2, 3, 1024}, []float32{0, 1, -2, 3, 1024}},
		{ml.DTypeI64, floating, integral},
	}

	for _, tt := range cases {
		dtype, values := tt.dtype, tt.values
		t.Run(dtype.String(), func(t *testing.T) {
			a, err := ml.New(dtype, append([]float32(nil), values...), len(values))
			require.NoError(t, err)

			f, err := Open(writeTemp(t, []Tensor{{Name: "x", Array: a}}, nil))
			require.NoError(t, err)
			defer f.Close()

			info, ok := f.Tensor("x")
			require.True(t, ok)
			assert.Equal(t, int64(len(values)*elementSize(dtype)), info.NumBytes())

			got, err := f.Read("x")
			require.NoError(t, err)
			assert.Equal(t, dtype, got.DType())
			assert.Equal(t, tt.want, got.Floats())
		})
	}
}

func TestHeaderAlignment(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []Tensor{{Name: "a", Array: ml.Zeros(ml.DTypeF32, 3)}}, nil))

	n := binary.LittleEndian.Uint64(buf.Bytes()[:8])
	assert.Zero(t, n%8, "Header-Laenge %d", n)
	assert.Equal(t, int(8+n+12), buf.Len())
}

func TestScalar(t *testing.T) {
	f, err := Open(writeTemp(t, []Tensor{{Name: "s", Array: ml.Full(ml.DTypeF32, 7)}}, nil))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.Read("s")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Rank())
	assert.Equal(t, []float32{7}, got.Floats())
}

func TestWriteErrors(t *testing.T) {
	a := ml.Zeros(ml.DTypeF32, 1)

	err := Write(&bytes.Buffer{}, []Tensor{{Name: "a", Array: a}, {Name: "a", Array: a}}, nil)
	assert.ErrorIs(t, err, ErrUnsupported)

	err = Write(&bytes.Buffer{}, []Tensor{{Name: metadataKey, Array: a}}, nil)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestOpenCorrupt(t *testing.T) {
	cases := map[string][]byte{
		"zu kurz":            {1, 2, 3},
		"header zu lang":     append(binary.LittleEndian.AppendUint64(nil, 64), '{', '}'),
		"kein json":          append(binary.LittleEndian.AppendUint64(nil, 2), 'x', 'x'),
		"offsets":            header(`{"a":{"dtype":"F32","shape":[2],"data_offsets":[0,8]}}`),
		"groesse":            append(header(`{"a":{"dtype":"F32","shape":[3],"data_offsets":[0,8]}}`), make([]byte, 8)...),
		"negative shape":     append(header(`{"a":{"dtype":"F32","shape":[-2],"data_offsets":[0,8]}}`), make([]byte, 8)...),
		"unbekannter typ":    append(header(`{"a":{"dtype":"C64","shape":[1],"data_offsets":[0,8]}}`), make([]byte, 8)...),
		"metadata ungueltig": header(`{"__metadata__":{"a":1}}`),
	}

	for name, bts := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.safetensors")
			require.NoError(t, os.WriteFile(path, bts, 0o644))

			_, err := Open(path)
			require.Error(t, err)
			if !errors.Is(err, ErrCorrupt) && !errors.Is(err, ErrUnsupported) {
				t.Errorf("erwartet ErrCorrupt oder ErrUnsupported, bekommen %v", err)
			}
		})
	}
}

func header(s string) []byte {
	return append(binary.LittleEndian.AppendUint64(nil, uint64(len(s))), s...)
}

