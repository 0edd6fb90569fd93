// array.go - Dichtes N-dimensionales Array fuer Batch-Daten
// Dieses Modul enthaelt:
// - Array: row-major float32 Speicher mit Shape und DType-Tag
// - Konstruktoren: Zeros, Full, FromFloats, FromInts, Arange
// - Zugriff: At, Set, Floats, Ints, Dim, Rank
// - Transformationen ohne Mutation: Clone, Reshape, SliceAxis, AsType
package ml

import (
	"fmt"
	"math"
	"slices"
)

// Array is a dense row-major array. Arrays returned by this package are
// never aliased with caller-owned slices.
type Array struct {
	shape Shape
	data  []float32
	dtype DType
}

// Zeros erzeugt ein mit 0 gefuelltes Array. Negative Dimensionen fuehren zu panic.
func Zeros(dtype DType, shape ...int) *Array {
	return Full(dtype, 0, shape...)
}

// Full erzeugt ein mit v gefuelltes Array
func Full(dtype DType, v float32, shape ...int) *Array {
	s := Shape(shape).Clone()
	if err := s.validate(); err != nil {
		panic(err)
	}

	data := make([]float32, s.NumElements())
	if v != 0 {
		for i := range data {
			data[i] = v
		}
	}
	return &Array{shape: s, data: data, dtype: dtype}
}

// FromFloats kopiert s in ein neues F32-Array der gegebenen Shape
func FromFloats(s []float32, shape ...int) (*Array, error) {
	return New(DTypeF32, slices.Clone(s), shape...)
}

// FromInts erzeugt ein I64-Array aus Ganzzahlen
func FromInts(s []int, shape ...int) (*Array, error) {
	data := make([]float32, len(s))
	for i, v := range s {
		data[i] = float32(v)
	}
	return New(DTypeI64, data, shape...)
}

// New uebernimmt data ohne Kopie. Nur fuer frisch allozierte Slices verwenden.
func New(dtype DType, data []float32, shape ...int) (*Array, error) {
	s := Shape(shape).Clone()
	if err := s.validate(); err != nil {
		return nil, err
	}
	if s.NumElements() != len(data) {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrInvalidShape, len(data), shape)
	}
	return &Array{shape: s, data: data, dtype: dtype}, nil
}

// Arange creates a 1D array with values within the interval [start, stop) increased by step.
func Arange(start, stop, step float32) *Array {
	if step == 0 || (stop-start)/step <= 0 {
		return Zeros(DTypeF32, 0)
	}

	n := int(math.Ceil(float64((stop - start) / step)))
	data := make([]float32, n)
	for i := range data {
		data[i] = start + float32(i)*step
	}
	return &Array{shape: Shape{n}, data: data, dtype: DTypeF32}
}

// Shape gibt eine Kopie der Dimensionen zurueck
func (a *Array) Shape() Shape {
	return a.shape.Clone()
}

// Rank gibt die Anzahl der Achsen zurueck
func (a *Array) Rank() int {
	return len(a.shape)
}

// Dim gibt die Groesse der Achse n zurueck, negative Werte zaehlen von hinten
func (a *Array) Dim(n int) int {
	axis, err := a.shape.Axis(n)
	if err != nil {
		panic(err)
	}
	return a.shape[axis]
}

// DType gibt den urspruenglichen Datentyp zurueck
func (a *Array) DType() DType {
	return a.dtype
}

// Len gibt die Anzahl der Elemente zurueck
func (a *Array) Len() int {
	return len(a.data)
}

// Floats gibt eine Kopie der Werte in row-major Reihenfolge zurueck
func (a *Array) Floats() []float32 {
	return slices.Clone(a.data)
}

// Ints gibt die Werte auf Ganzzahlen abgeschnitten zurueck
func (a *Array) Ints() []int {
	out := make([]int, len(a.data))
	for i, v := range a.data {
		out[i] = int(v)
	}
	return out
}

// At liest ein Element. Ungueltige Indizes fuehren zu panic wie bei Slices.
func (a *Array) At(idx ...int) float32 {
	off, err := a.shape.offset(idx)
	if err != nil {
		panic(err)
	}
	return a.data[off]
}

// Set schreibt ein Element. Nur auf selbst erzeugten Arrays verwenden.
func (a *Array) Set(v float32, idx ...int) {
	off, err := a.shape.offset(idx)
	if err != nil {
		panic(err)
	}
	a.data[off] = v
}

// Clone gibt eine tiefe Kopie zurueck
func (a *Array) Clone() *Array {
	return &Array{shape: a.shape.Clone(), data: slices.Clone(a.data), dtype: a.dtype}
}

// AsType gibt eine Kopie mit anderem DType-Tag zurueck.
// Ganzzahlige Ziele schneiden die Werte ab.
func (a *Array) AsType(dtype DType) *Array {
	b := a.Clone()
	b.dtype = dtype
	if dtype.IsInteger() || dtype == DTypeBool {
		for i, v := range b.data {
			if dtype == DTypeBool {
				if v != 0 {
					b.data[i] = 1
				}
				continue
			}
			b.data[i] = float32(math.Trunc(float64(v)))
		}
	}
	return b
}

// Reshape gibt eine Kopie mit neuer Shape gleicher Elementanzahl zurueck
func (a *Array) Reshape(shape ...int) (*Array, error) {
	return New(a.dtype, slices.Clone(a.data), shape...)
}

// SliceAxis schneidet [start, end) entlang einer Achse aus
func (a *Array) SliceAxis(axis, start, end int) (*Array, error) {
	axis, err := a.shape.Axis(axis)
	if err != nil {
		return nil, err
	}
	if start < 0 || end < start || end > a.shape[axis] {
		return nil, fmt.Errorf("%w: slice [%d:%d] of axis %d with size %d", ErrIndexOutOfRange, start, end, axis, a.shape[axis])
	}

	outer := a.shape[:axis].NumElements()
	inner := a.shape[axis+1:].NumElements()
	width := end - start

	out := make([]float32, 0, outer*width*inner)
	for o := range outer {
		base := o * a.shape[axis] * inner
		out = append(out, a.data[base+start*inner:base+end*inner]...)
	}

	shape := a.shape.Clone()
	shape[axis] = width
	return &Array{shape: shape, data: out, dtype: a.dtype}, nil
}

// Equal vergleicht Shape, DType und Werte exakt
func (a *Array) Equal(b *Array) bool {
	return a.dtype == b.dtype && a.shape.Equal(b.shape) && slices.Equal(a.data, b.data)
}

// String gibt eine kompakte Darstellung zurueck
func (a *Array) String() string {
	return fmt.Sprintf("Array(%s, %v)", a.dtype, []int(a.shape))
}
