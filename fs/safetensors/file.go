// Package safetensors - Lesen und Schreiben von Batches im safetensors-Format
//
// Dieses Modul enthaelt die File-Hauptstruktur fuer safetensors-Dateien:
// - File: Repraesentiert eine geoeffnete safetensors-Datei
// - Open: Oeffnet die Datei und parst den JSON-Header
// - Read / ReadMask: Laedt einen Tensor als ml.Array bzw. ml.Mask
// - Close: Schliesst die Datei
//
// Layout: 8 Byte Header-Laenge (little endian), JSON-Header, Datenbereich.
package safetensors

import (
	"cmp"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/7blacky7/seqmask/ml"
)

// maxHeaderSize begrenzt den JSON-Header
const maxHeaderSize = 100_000_000

const metadataKey = "__metadata__"

var (
	// ErrUnsupported wird bei nicht unterstuetzten Datentypen zurueckgegeben
	ErrUnsupported = errors.New("safetensors: unsupported")

	// ErrNotFound wird zurueckgegeben wenn ein Tensor nicht in der Datei existiert
	ErrNotFound = errors.New("safetensors: tensor not found")

	// ErrCorrupt wird bei inkonsistentem Header oder zu kurzen Daten zurueckgegeben
	ErrCorrupt = errors.New("safetensors: corrupt file")
)

// TensorInfo beschreibt einen Tensor im Header
type TensorInfo struct {
	Name  string
	DType ml.DType
	Shape ml.Shape

	// Offsets [begin, end) relativ zum Datenbereich
	Offsets [2]int64
}

// NumBytes gibt die Groesse der Tensor-Daten zurueck
func (t TensorInfo) NumBytes() int64 {
	return t.Offsets[1] - t.Offsets[0]
}

type headerEntry struct {
	DType       string   `json:"dtype"`
	Shape       []int    `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// File repraesentiert eine geoeffnete safetensors-Datei
type File struct {
	file       *os.File
	dataOffset int64

	tensors  []TensorInfo
	index    map[string]int
	metadata map[string]string
}

// Open oeffnet eine safetensors-Datei und parst den Header
func Open(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	f, err := newFile(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func newFile(file *os.File) (*File, error) {
	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	var n uint64
	if err := binary.Read(file, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("%w: header length: %w", ErrCorrupt, err)
	}
	if n > maxHeaderSize || int64(n) > info.Size()-8 {
		return nil, fmt.Errorf("%w: header length %d for file of %d bytes", ErrCorrupt, n, info.Size())
	}

	bts := make([]byte, n)
	if _, err := io.ReadFull(file, bts); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrCorrupt, err)
	}

	f := &File{
		file:       file,
		dataOffset: 8 + int64(n),
		index:      make(map[string]int),
	}
	if err := f.parseHeader(bts, info.Size()-f.dataOffset); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) parseHeader(bts []byte, dataSize int64) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(bts, &raw); err != nil {
		return fmt.Errorf("%w: header: %w", ErrCorrupt, err)
	}

	for name, msg := range raw {
		if name == metadataKey {
			if err := json.Unmarshal(msg, &f.metadata); err != nil {
				return fmt.Errorf("%w: metadata: %w", ErrCorrupt, err)
			}
			continue
		}

		var entry headerEntry
		if err := json.Unmarshal(msg, &entry); err != nil {
			return fmt.Errorf("%w: tensor %q: %w", ErrCorrupt, name, err)
		}

		dtype, err := ml.ParseDType(entry.DType)
		if err != nil {
			return fmt.Errorf("%w: tensor %q: %w", ErrUnsupported, name, err)
		}

		t := TensorInfo{Name: name, DType: dtype, Shape: entry.Shape, Offsets: entry.DataOffsets}
		if slices.ContainsFunc(t.Shape, func(d int) bool { return d < 0 }) {
			return fmt.Errorf("%w: tensor %q has shape %v", ErrCorrupt, name, entry.Shape)
		}

		begin, end := t.Offsets[0], t.Offsets[1]
		if begin < 0 || end < begin || end > dataSize {
			return fmt.Errorf("%w: tensor %q offsets %v outside data of %d bytes", ErrCorrupt, name, t.Offsets, dataSize)
		}
		if want := int64(t.Shape.NumElements() * elementSize(dtype)); t.NumBytes() != want {
			return fmt.Errorf("%w: tensor %q has %d bytes, shape %v %s needs %d", ErrCorrupt, name, t.NumBytes(), entry.Shape, dtype, want)
		}

		f.tensors = append(f.tensors, t)
	}

	slices.SortFunc(f.tensors, func(a, b TensorInfo) int {
		return cmp.Or(cmp.Compare(a.Offsets[0], b.Offsets[0]), cmp.Compare(a.Name, b.Name))
	})
	for i, t := range f.tensors {
		f.index[t.Name] = i
	}
	return nil
}

// Close schliesst die Datei
func (f *File) Close() error {
	return f.file.Close()
}

// Tensors gibt alle Tensoren in Reihenfolge ihrer Daten zurueck
func (f *File) Tensors() []TensorInfo {
	return slices.Clone(f.tensors)
}

// Tensor sucht einen Tensor nach Name
func (f *File) Tensor(name string) (TensorInfo, bool) {
	i, ok := f.index[name]
	if !ok {
		return TensorInfo{}, false
	}
	return f.tensors[i], true
}

// Metadata gibt den __metadata__ Eintrag zurueck. Kann nil sein.
func (f *File) Metadata() map[string]string {
	return f.metadata
}

// Read laedt einen Tensor als ml.Array mit dem DType der Datei
func (f *File) Read(name string) (*ml.Array, error) {
	t, ok := f.Tensor(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	bts := make([]byte, t.NumBytes())
	if _, err := f.file.ReadAt(bts, f.dataOffset+t.Offsets[0]); err != nil {
		return nil, fmt.Errorf("%w: tensor %q: %w", ErrCorrupt, name, err)
	}

	data, err := decode(t.DType, bts)
	if err != nil {
		return nil, fmt.Errorf("tensor %q: %w", name, err)
	}
	return ml.New(t.DType, data, t.Shape...)
}

// ReadMask laedt einen Tensor als Maske, Werte ungleich 0 sind true
func (f *File) ReadMask(name string) (*ml.Mask, error) {
	a, err := f.Read(name)
	if err != nil {
		return nil, err
	}
	return ml.MaskFromArray(a), nil
}
