package safetensors

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/d4l3k/go-bfloat16"
	"github.com/x448/float16"

	"github.com/7blacky7/seqmask/ml"
)

// elementSize gibt die Bytes pro Element zurueck, 0 fuer unbekannte Typen
func elementSize(dtype ml.DType) int {
	switch dtype {
	case ml.DTypeF64, ml.DTypeI64:
		return 8
	case ml.DTypeF32, ml.DTypeI32:
		return 4
	case ml.DTypeF16, ml.DTypeBF16:
		return 2
	case ml.DTypeBool:
		return 1
	default:
		return 0
	}
}

// decode wandelt little endian Rohdaten in float32 um
func decode(dtype ml.DType, bts []byte) ([]float32, error) {
	size := elementSize(dtype)
	if size == 0 {
		return nil, fmt.Errorf("%w: dtype %s", ErrUnsupported, dtype)
	}
	if len(bts)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes for %s", ErrCorrupt, len(bts), dtype)
	}

	if dtype == ml.DTypeBF16 {
		return bfloat16.DecodeFloat32(bts), nil
	}

	data := make([]float32, len(bts)/size)
	for i := range data {
		b := bts[i*size : (i+1)*size]
		switch dtype {
		case ml.DTypeF32:
			data[i] = math.Float32frombits(binary.LittleEndian.Uint32(b))
		case ml.DTypeF16:
			data[i] = float16.Frombits(binary.LittleEndian.Uint16(b)).Float32()
		case ml.DTypeF64:
			data[i] = float32(math.Float64frombits(binary.LittleEndian.Uint64(b)))
		case ml.DTypeI32:
			data[i] = float32(int32(binary.LittleEndian.Uint32(b)))
		case ml.DTypeI64:
			data[i] = float32(int64(binary.LittleEndian.Uint64(b)))
		case ml.DTypeBool:
			if b[0] != 0 {
				data[i] = 1
			}
		}
	}
	return data, nil
}

// encode schreibt float32 Werte im Format von dtype
func encode(dtype ml.DType, data []float32) ([]byte, error) {
	size := elementSize(dtype)
	if size == 0 {
		return nil, fmt.Errorf("%w: dtype %s", ErrUnsupported, dtype)
	}

	if dtype == ml.DTypeBF16 {
		return bfloat16.EncodeFloat32(data), nil
	}

	bts := make([]byte, len(data)*size)
	for i, v := range data {
		b := bts[i*size : (i+1)*size]
		switch dtype {
		case ml.DTypeF32:
			binary.LittleEndian.PutUint32(b, math.Float32bits(v))
		case ml.DTypeF16:
			binary.LittleEndian.PutUint16(b, float16.Fromfloat32(v).Bits())
		case ml.DTypeF64:
			binary.LittleEndian.PutUint64(b, math.Float64bits(float64(v)))
		case ml.DTypeI32:
			binary.LittleEndian.PutUint32(b, uint32(int32(v)))
		case ml.DTypeI64:
			binary.LittleEndian.PutUint64(b, uint64(int64(v)))
		case ml.DTypeBool:
			if v != 0 {
				b[0] = 1
			}
		}
	}
	return bts, nil
}
