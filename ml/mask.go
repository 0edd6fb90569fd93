// mask.go - Boolesche Masken mit Shape
// Dieses Modul enthaelt:
// - Mask: row-major bool Speicher mit Shape
// - Not: elementweise Negation (Pad- <-> Non-Pad-Maske)
// - Transpose, Reshape, SliceAxis: Layout-Transformationen ohne Mutation
// - Count: Anzahl gesetzter Elemente entlang der letzten Achse
package ml

import (
	"fmt"
	"slices"
)

// Mask is a dense boolean array.
type Mask struct {
	shape Shape
	data  []bool
}

// NewMask erzeugt eine Maske mit allen Elementen auf false
func NewMask(shape ...int) *Mask {
	s := Shape(shape).Clone()
	if err := s.validate(); err != nil {
		panic(err)
	}
	return &Mask{shape: s, data: make([]bool, s.NumElements())}
}

// MaskFromBools kopiert b in eine neue Maske
func MaskFromBools(b []bool, shape ...int) (*Mask, error) {
	s := Shape(shape).Clone()
	if err := s.validate(); err != nil {
		return nil, err
	}
	if s.NumElements() != len(b) {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrInvalidShape, len(b), shape)
	}
	return &Mask{shape: s, data: slices.Clone(b)}, nil
}

// MaskFromArray setzt jedes Element ungleich 0 auf true
func MaskFromArray(a *Array) *Mask {
	out := make([]bool, len(a.data))
	for i, v := range a.data {
		out[i] = v != 0
	}
	return &Mask{shape: a.shape.Clone(), data: out}
}

// Array gibt die Maske als BOOL-Array mit Werten 0 und 1 zurueck
func (m *Mask) Array() *Array {
	data := make([]float32, len(m.data))
	for i, v := range m.data {
		if v {
			data[i] = 1
		}
	}
	return &Array{shape: m.shape.Clone(), data: data, dtype: DTypeBool}
}

// Shape gibt eine Kopie der Dimensionen zurueck
func (m *Mask) Shape() Shape {
	return m.shape.Clone()
}

// Rank gibt die Anzahl der Achsen zurueck
func (m *Mask) Rank() int {
	return len(m.shape)
}

// Dim gibt die Groesse der Achse n zurueck, negative Werte zaehlen von hinten
func (m *Mask) Dim(n int) int {
	axis, err := m.shape.Axis(n)
	if err != nil {
		panic(err)
	}
	return m.shape[axis]
}

// Bools gibt eine Kopie der Werte in row-major Reihenfolge zurueck
func (m *Mask) Bools() []bool {
	return slices.Clone(m.data)
}

// At liest ein Element
func (m *Mask) At(idx ...int) bool {
	off, err := m.shape.offset(idx)
	if err != nil {
		panic(err)
	}
	return m.data[off]
}

// Not invertiert jedes Element
func (m *Mask) Not() *Mask {
	out := make([]bool, len(m.data))
	for i, v := range m.data {
		out[i] = !v
	}
	return &Mask{shape: m.shape.Clone(), data: out}
}

// Equal vergleicht Shape und Werte exakt
func (m *Mask) Equal(o *Mask) bool {
	return m.shape.Equal(o.shape) && slices.Equal(m.data, o.data)
}

// Reshape gibt eine Kopie mit neuer Shape gleicher Elementanzahl zurueck
func (m *Mask) Reshape(shape ...int) (*Mask, error) {
	return MaskFromBools(m.data, shape...)
}

// Transpose vertauscht zwei Achsen
func (m *Mask) Transpose(a1, a2 int) (*Mask, error) {
	a1, err := m.shape.Axis(a1)
	if err != nil {
		return nil, err
	}
	a2, err = m.shape.Axis(a2)
	if err != nil {
		return nil, err
	}

	shape := m.shape.Clone()
	shape[a1], shape[a2] = shape[a2], shape[a1]
	out := &Mask{shape: shape, data: make([]bool, len(m.data))}

	strides := shape.Strides()
	idx := make([]int, len(m.shape))
	for flat, v := range m.data {
		idx = m.shape.unravel(flat, idx)
		idx[a1], idx[a2] = idx[a2], idx[a1]

		off := 0
		for i, x := range idx {
			off += x * strides[i]
		}
		out.data[off] = v
	}
	return out, nil
}

// SliceAxis schneidet [start, end) entlang einer Achse aus
func (m *Mask) SliceAxis(axis, start, end int) (*Mask, error) {
	axis, err := m.shape.Axis(axis)
	if err != nil {
		return nil, err
	}
	if start < 0 || end < start || end > m.shape[axis] {
		return nil, fmt.Errorf("%w: slice [%d:%d] of axis %d with size %d", ErrIndexOutOfRange, start, end, axis, m.shape[axis])
	}

	outer := m.shape[:axis].NumElements()
	inner := m.shape[axis+1:].NumElements()

	out := make([]bool, 0, outer*(end-start)*inner)
	for o := range outer {
		base := o * m.shape[axis] * inner
		out = append(out, m.data[base+start*inner:base+end*inner]...)
	}

	shape := m.shape.Clone()
	shape[axis] = end - start
	return &Mask{shape: shape, data: out}, nil
}

// Count zaehlt gesetzte Elemente entlang der letzten Achse.
// Das Ergebnis hat die Shape m.Shape()[:rank-1] in row-major Reihenfolge.
func (m *Mask) Count() []int {
	if len(m.shape) == 0 {
		if len(m.data) > 0 && m.data[0] {
			return []int{1}
		}
		return []int{0}
	}

	last := m.shape[len(m.shape)-1]
	rows := m.shape[:len(m.shape)-1].NumElements()
	counts := make([]int, rows)
	for r := range rows {
		for _, v := range m.data[r*last : (r+1)*last] {
			if v {
				counts[r]++
			}
		}
	}
	return counts
}

// String gibt eine kompakte Darstellung zurueck
func (m *Mask) String() string {
	return fmt.Sprintf("Mask(%v)", []int(m.shape))
}
