// lengths.go - Laengenvektor eines Batches
// Dieses Modul enthaelt:
// - Lengths: 1-D Vektor der gueltigen Laengen pro Sample (B,)
// - NewLengths: Tensor-Form (exportierbar)
// - LengthList: einfache Liste (nicht exportierbar, erzwingt den allgemeinen Pfad)
package ml

import (
	"fmt"
	"slices"
)

// Lengths holds the valid length of every sample in a batch. The zero
// value is an empty tensor-form vector.
type Lengths struct {
	values []int
	list   bool
}

// NewLengths erzeugt einen Laengenvektor in Tensor-Form
func NewLengths(values ...int) Lengths {
	return Lengths{values: slices.Clone(values)}
}

// LengthList erzeugt einen Laengenvektor aus einer einfachen Liste
func LengthList(values ...int) Lengths {
	return Lengths{values: slices.Clone(values), list: true}
}

// LengthsFromArray liest einen 1-D Array als Laengenvektor (Tensor-Form)
func LengthsFromArray(a *Array) (Lengths, error) {
	if a.Rank() != 1 {
		return Lengths{}, fmt.Errorf("%w: lengths must be 1-D, got %v", ErrInvalidShape, []int(a.shape))
	}
	return Lengths{values: a.Ints()}, nil
}

// IsList meldet ob der Vektor aus einer einfachen Liste stammt
func (l Lengths) IsList() bool {
	return l.list
}

// Len gibt die Batch-Groesse zurueck
func (l Lengths) Len() int {
	return len(l.values)
}

// At gibt die Laenge von Sample b zurueck
func (l Lengths) At(b int) int {
	return l.values[b]
}

// Values gibt eine Kopie der Laengen zurueck
func (l Lengths) Values() []int {
	return slices.Clone(l.values)
}

// Max gibt die groesste Laenge zurueck, 0 fuer einen leeren Vektor
func (l Lengths) Max() int {
	if len(l.values) == 0 {
		return 0
	}
	return slices.Max(l.values)
}

// Clamp begrenzt jede Laenge auf maxLen, die Form bleibt erhalten
func (l Lengths) Clamp(maxLen int) Lengths {
	out := Lengths{values: make([]int, len(l.values)), list: l.list}
	for i, v := range l.values {
		out.values[i] = min(v, maxLen)
	}
	return out
}

// Array gibt die Laengen als I64-Array der Shape (B,) zurueck
func (l Lengths) Array() *Array {
	a, _ := FromInts(l.values, len(l.values))
	return a
}

// String gibt die Laengen aus
func (l Lengths) String() string {
	return fmt.Sprint(l.values)
}
