package safetensors

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/7blacky7/seqmask/ml"
)

// Tensor ist ein benannter Eintrag fuer Write
type Tensor struct {
	Name  string
	Array *ml.Array
}

// Write schreibt tensors in der gegebenen Reihenfolge. Jeder Tensor wird im
// Format seines DType kodiert, DTypeOther wird als F32 geschrieben.
// Der Header wird mit Leerzeichen auf ein Vielfaches von 8 Byte aufgefuellt.
func Write(w io.Writer, tensors []Tensor, metadata map[string]string) error {
	header := orderedmap.New[string, any]()
	if len(metadata) > 0 {
		header.Set(metadataKey, metadata)
	}

	blobs := make([][]byte, len(tensors))
	var offset int64
	for i, t := range tensors {
		if t.Name == metadataKey {
			return fmt.Errorf("%w: reserved tensor name %q", ErrUnsupported, t.Name)
		}
		if _, ok := header.Get(t.Name); ok {
			return fmt.Errorf("%w: duplicate tensor name %q", ErrUnsupported, t.Name)
		}

		dtype := t.Array.DType()
		if dtype == ml.DTypeOther {
			dtype = ml.DTypeF32
		}

		bts, err := encode(dtype, t.Array.Floats())
		if err != nil {
			return fmt.Errorf("tensor %q: %w", t.Name, err)
		}
		blobs[i] = bts

		header.Set(t.Name, headerEntry{
			DType:       dtype.String(),
			Shape:       append([]int{}, t.Array.Shape()...),
			DataOffsets: [2]int64{offset, offset + int64(len(bts))},
		})
		offset += int64(len(bts))
	}

	bts, err := json.Marshal(header)
	if err != nil {
		return err
	}
	if pad := (8 - len(bts)%8) % 8; pad > 0 {
		bts = append(bts, bytes.Repeat([]byte{' '}, pad)...)
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(len(bts))); err != nil {
		return err
	}
	if _, err := w.Write(bts); err != nil {
		return err
	}
	for _, blob := range blobs {
		if _, err := w.Write(blob); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile schreibt tensors nach path
func WriteFile(path string, tensors []Tensor, metadata map[string]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := Write(bw, tensors, metadata); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return f.Close()
}
