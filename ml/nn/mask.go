// MODUL: mask
// ZWECK: Pad-/Non-Pad-Masken aus einem Laengenvektor ableiten
// INPUT: ml.Lengths, optionale Referenz-Shape, Laengen-Achse, Maximal-Laenge
// OUTPUT: *ml.Mask (true = Padding bei Pad-Masken)
// NEBENEFFEKTE: Warn-Log bei Achsen-Fallback, Trace-Log der Strategie-Wahl
// ABHAENGIGKEITEN: ml, logutil
// HINWEISE: Zwei Strategien (general, traceable), bitidentisch auf ihrem gemeinsamen Definitionsbereich

package nn

import (
	"fmt"

	"github.com/7blacky7/seqmask/logutil"
	"github.com/7blacky7/seqmask/ml"
)

// ============================================================================
// Strategy - Auswahl des Masken-Algorithmus
// ============================================================================

// Strategy selects the mask construction algorithm.
type Strategy int

const (
	// StrategyAuto waehlt per SelectStrategy
	StrategyAuto Strategy = iota
	// StrategyGeneral unterstuetzt beliebige Ranks und Achsen
	StrategyGeneral
	// StrategyTraceable baut die Maske aus einem Dreiecksmuster ohne datenabhaengige Verzweigungen
	StrategyTraceable
)

func (s Strategy) String() string {
	switch s {
	case StrategyAuto:
		return "auto"
	case StrategyGeneral:
		return "general"
	case StrategyTraceable:
		return "traceable"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy liest "auto", "general" oder "traceable"
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "auto":
		return StrategyAuto, nil
	case "general":
		return StrategyGeneral, nil
	case "traceable":
		return StrategyTraceable, nil
	default:
		return StrategyAuto, fmt.Errorf("nn: unknown strategy %q", s)
	}
}

// SelectStrategy reports which strategy covers a mask request. refRank is 0
// when no reference is given. The traceable strategy handles references of
// rank 2 or 3, length axes up to 2 and lengths in tensor form.
func SelectStrategy(refRank, lengthAxis int, lengths ml.Lengths) Strategy {
	if (refRank == 0 || refRank == 2 || refRank == 3) && lengthAxis <= 2 && !lengths.IsList() {
		return StrategyTraceable
	}
	return StrategyGeneral
}

// ============================================================================
// MaskOption - Functional Options
// ============================================================================

type maskOptions struct {
	reference  ml.Shape
	lengthAxis int
	maxLen     int
	hasMaxLen  bool
	strategy   Strategy
}

// MaskOption ist eine funktionale Option fuer MakePadMask.
type MaskOption func(*maskOptions)

// WithReference broadcastet die Maske auf die Shape von ref
func WithReference(ref *ml.Array) MaskOption {
	return WithReferenceShape(ref.Shape()...)
}

// WithReferenceShape broadcastet die Maske auf shape, ohne Daten zu benoetigen
func WithReferenceShape(shape ...int) MaskOption {
	return func(o *maskOptions) {
		o.reference = ml.Shape(shape).Clone()
	}
}

// WithLengthAxis setzt die Laengen-Achse der Referenz (Default: -1)
func WithLengthAxis(axis int) MaskOption {
	return func(o *maskOptions) {
		o.lengthAxis = axis
	}
}

// WithMaxLen setzt die Breite der Maske. Schliesst WithReference aus.
func WithMaxLen(n int) MaskOption {
	return func(o *maskOptions) {
		o.maxLen = n
		o.hasMaxLen = true
	}
}

// WithStrategy erzwingt eine Strategie. StrategyTraceable schlaegt fehl,
// wenn SelectStrategy sie fuer die Anfrage nicht waehlen wuerde.
func WithStrategy(s Strategy) MaskOption {
	return func(o *maskOptions) {
		o.strategy = s
	}
}

// ============================================================================
// MakePadMask / MakeNonPadMask
// ============================================================================

// MakePadMask returns a mask that is true at padded positions, i.e. where the
// index along the length axis is >= the sample's length.
//
// Without a reference the mask has shape (B, maxLen). With a reference the
// mask has exactly the reference's shape and is replicated across every axis
// other than the batch and length axes.
func MakePadMask(lengths ml.Lengths, opts ...MaskOption) (*ml.Mask, error) {
	o := maskOptions{lengthAxis: -1}
	for _, opt := range opts {
		opt(&o)
	}

	if err := validateMaskRequest(lengths, &o); err != nil {
		return nil, err
	}

	eligible := SelectStrategy(len(o.reference), o.lengthAxis, lengths)
	strategy := o.strategy
	switch strategy {
	case StrategyAuto:
		strategy = eligible
	case StrategyTraceable:
		if eligible != StrategyTraceable {
			return nil, fmt.Errorf("%w: traceable strategy needs tensor lengths, a reference of rank 2 or 3 and axis <= 2, got rank %d axis %d", ErrUnsupportedRank, len(o.reference), o.lengthAxis)
		}
	case StrategyGeneral:
	default:
		return nil, fmt.Errorf("%w: unknown strategy %s", ErrUnsupportedRank, strategy)
	}

	logutil.Trace("make pad mask", "strategy", strategy, "batch", lengths.Len(), "reference", []int(o.reference), "axis", o.lengthAxis)

	if strategy == StrategyTraceable {
		return makePadMaskTraceable(lengths, o)
	}
	return makePadMaskGeneral(lengths, o)
}

// MakeNonPadMask returns the element-wise negation of MakePadMask.
func MakeNonPadMask(lengths ml.Lengths, opts ...MaskOption) (*ml.Mask, error) {
	m, err := MakePadMask(lengths, opts...)
	if err != nil {
		return nil, err
	}
	return m.Not(), nil
}

// validateMaskRequest prueft alle Vorbedingungen, die beide Strategien teilen
func validateMaskRequest(lengths ml.Lengths, o *maskOptions) error {
	if o.lengthAxis == 0 {
		return fmt.Errorf("%w: length axis cannot be 0", ErrInvalidAxis)
	}

	if lengths.Len() == 0 {
		return fmt.Errorf("%w: empty length vector", ErrShapeMismatch)
	}

	for b := range lengths.Len() {
		if lengths.At(b) < 0 {
			return fmt.Errorf("%w: negative length %d at sample %d", ErrLengthBounds, lengths.At(b), b)
		}
	}

	if o.hasMaxLen {
		if o.reference != nil {
			return fmt.Errorf("%w: max length and reference are mutually exclusive", ErrLengthBounds)
		}
		if o.maxLen < lengths.Max() {
			return fmt.Errorf("%w: max length %d must be >= max(lengths) %d", ErrLengthBounds, o.maxLen, lengths.Max())
		}
	}

	if o.reference != nil {
		if len(o.reference) < 2 {
			return fmt.Errorf("%w: reference of rank %d has no length axis", ErrInvalidAxis, len(o.reference))
		}
		if o.reference[0] != lengths.Len() {
			return fmt.Errorf("%w: reference batch size %d must match %d lengths", ErrShapeMismatch, o.reference[0], lengths.Len())
		}
	}

	return nil
}
