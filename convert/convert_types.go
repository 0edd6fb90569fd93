// convert_types.go - Eingabe-Typen an der Ingestion-Grenze
// Haupttypen: Input, RealInput, ComplexInput
//
// Ein Array unter Name x ist reell, ein Paar x.real / x.imag ist komplex.
// Die Masken-Primitive in ml/nn sehen immer nur reelle Arrays.
package convert

import (
	"errors"
	"fmt"

	"github.com/7blacky7/seqmask/ml"
)

var (
	// ErrMissingPart wird zurueckgegeben wenn weder x noch beide Teile x.real / x.imag vorliegen
	ErrMissingPart = errors.New("convert: missing input part")

	// ErrNotReal wird zurueckgegeben wenn eine reelle Eingabe erwartet wird
	ErrNotReal = errors.New("convert: input is not real")
)

// Suffixe der komplexen Teile
const (
	RealSuffix = ".real"
	ImagSuffix = ".imag"
)

// Input - reelle oder komplexe Batch-Eingabe
type Input interface {
	// Shape gibt die gemeinsame Shape aller Teile zurueck
	Shape() ml.Shape

	// Parts gibt die Teile mit Namens-Suffix zurueck ("" fuer reell)
	Parts() []Part

	isInput()
}

// Part - ein Teil einer Eingabe
type Part struct {
	Suffix string
	Array  *ml.Array
}

// RealInput - ein einzelnes reelles Array
type RealInput struct {
	X *ml.Array
}

func (RealInput) isInput() {}

func (r RealInput) Shape() ml.Shape {
	return r.X.Shape()
}

func (r RealInput) Parts() []Part {
	return []Part{{Array: r.X}}
}

// ComplexInput - Real- und Imaginaerteil gleicher Shape
type ComplexInput struct {
	Real, Imag *ml.Array
}

func (ComplexInput) isInput() {}

func (c ComplexInput) Shape() ml.Shape {
	return c.Real.Shape()
}

func (c ComplexInput) Parts() []Part {
	return []Part{{Suffix: RealSuffix, Array: c.Real}, {Suffix: ImagSuffix, Array: c.Imag}}
}

// NewComplex prueft, dass beide Teile dieselbe Shape haben
func NewComplex(re, im *ml.Array) (ComplexInput, error) {
	if !re.Shape().Equal(im.Shape()) {
		return ComplexInput{}, fmt.Errorf("convert: real part %v and imaginary part %v differ in shape", []int(re.Shape()), []int(im.Shape()))
	}
	return ComplexInput{Real: re, Imag: im}, nil
}

func newComplexInput(re, im *ml.Array) (Input, error) {
	c, err := NewComplex(re, im)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Real gibt das Array einer reellen Eingabe zurueck
func Real(in Input) (*ml.Array, error) {
	r, ok := in.(RealInput)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotReal, in)
	}
	return r.X, nil
}

// Apply wendet fn auf jeden Teil an. Bei komplexen Eingaben erhalten beide
// Teile dieselbe Transformation, fn muss also deterministisch sein.
func Apply(in Input, fn func(*ml.Array) (*ml.Array, error)) (Input, error) {
	switch in := in.(type) {
	case RealInput:
		x, err := fn(in.X)
		if err != nil {
			return nil, err
		}
		return RealInput{X: x}, nil
	case ComplexInput:
		re, err := fn(in.Real)
		if err != nil {
			return nil, fmt.Errorf("real part: %w", err)
		}
		im, err := fn(in.Imag)
		if err != nil {
			return nil, fmt.Errorf("imaginary part: %w", err)
		}
		return newComplexInput(re, im)
	default:
		return nil, fmt.Errorf("convert: unknown input %T", in)
	}
}

// FromMap loest name in arrays auf
func FromMap(arrays map[string]*ml.Array, name string) (Input, error) {
	if x, ok := arrays[name]; ok {
		return RealInput{X: x}, nil
	}

	re, hasReal := arrays[name+RealSuffix]
	im, hasImag := arrays[name+ImagSuffix]
	switch {
	case hasReal && hasImag:
		return newComplexInput(re, im)
	case hasReal:
		return nil, fmt.Errorf("%w: %s without %s", ErrMissingPart, name+RealSuffix, name+ImagSuffix)
	case hasImag:
		return nil, fmt.Errorf("%w: %s without %s", ErrMissingPart, name+ImagSuffix, name+RealSuffix)
	default:
		return nil, fmt.Errorf("%w: neither %s nor %s/%s", ErrMissingPart, name, name+RealSuffix, name+ImagSuffix)
	}
}
