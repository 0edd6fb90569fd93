// shape.go - Shape-Hilfsfunktionen fuer zeilenweise (row-major) Arrays
// Dieses Modul enthaelt:
// - Shape: Dimensionsgroessen eines Arrays, z.B. [B, T, D]
// - Strides: Element-Abstaende pro Achse
// - Axis: Aufloesung negativer Achsen-Indizes
package ml

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidShape wird bei negativen Dimensionen oder falscher Datenlaenge zurueckgegeben
	ErrInvalidShape = errors.New("ml: invalid shape")

	// ErrAxisOutOfRange wird zurueckgegeben wenn eine Achse nicht existiert
	ErrAxisOutOfRange = errors.New("ml: axis out of range")

	// ErrIndexOutOfRange wird bei ungueltigen Element-Indizes zurueckgegeben
	ErrIndexOutOfRange = errors.New("ml: index out of range")
)

// Shape is the dimension sizes of an array, e.g. [3, 2, 4].
type Shape []int

// NumElements gibt das Produkt aller Dimensionen zurueck (1 fuer Skalare)
func (s Shape) NumElements() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// Strides berechnet row-major Element-Abstaende.
// Letzte Achse hat Abstand 1, strides[i] = strides[i+1] * shape[i+1].
func (s Shape) Strides() []int {
	strides := make([]int, len(s))
	acc := 1
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= s[i]
	}
	return strides
}

// Equal vergleicht zwei Shapes elementweise
func (s Shape) Equal(o Shape) bool {
	return slices.Equal(s, o)
}

// Clone gibt eine unabhaengige Kopie zurueck
func (s Shape) Clone() Shape {
	return slices.Clone(s)
}

// Axis loest einen (moeglicherweise negativen) Achsen-Index auf
func (s Shape) Axis(axis int) (int, error) {
	if axis < 0 {
		axis += len(s)
	}
	if axis < 0 || axis >= len(s) {
		return 0, fmt.Errorf("%w: axis %d for rank %d", ErrAxisOutOfRange, axis, len(s))
	}
	return axis, nil
}

func (s Shape) validate() error {
	for _, d := range s {
		if d < 0 {
			return fmt.Errorf("%w: %v", ErrInvalidShape, []int(s))
		}
	}
	return nil
}

// offset berechnet den flachen Index fuer einen Multi-Index
func (s Shape) offset(idx []int) (int, error) {
	if len(idx) != len(s) {
		return 0, fmt.Errorf("%w: %d indices for rank %d", ErrIndexOutOfRange, len(idx), len(s))
	}

	off := 0
	for i, v := range idx {
		if v < 0 || v >= s[i] {
			return 0, fmt.Errorf("%w: index %v for shape %v", ErrIndexOutOfRange, idx, []int(s))
		}
		off = off*s[i] + v
	}
	return off, nil
}

// unravel zerlegt einen flachen Index in einen Multi-Index (dst wird wiederverwendet)
func (s Shape) unravel(flat int, dst []int) []int {
	if cap(dst) < len(s) {
		dst = make([]int, len(s))
	}
	dst = dst[:len(s)]
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == 0 {
			dst[i] = 0
			continue
		}
		dst[i] = flat % s[i]
		flat /= s[i]
	}
	return dst
}
