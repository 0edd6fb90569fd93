package nn

import (
	"fmt"
	"math/rand/v2"

	"github.com/7blacky7/seqmask/ml"
)

// ============================================================================
// RollOption - Functional Options
// ============================================================================

type rollOptions struct {
	amounts        []int
	fixedIntervals int
	rng            *rand.Rand
}

// RollOption ist eine funktionale Option fuer RollTensor.
type RollOption func(*rollOptions)

// WithRollAmounts setzt die Verschiebung pro Sample explizit
func WithRollAmounts(amounts ...int) RollOption {
	return func(o *rollOptions) {
		o.amounts = append([]int(nil), amounts...)
	}
}

// WithFixedIntervals quantisiert die Verschiebungen auf Vielfache von n.
// Werte <= 0 werden ignoriert.
func WithFixedIntervals(n int) RollOption {
	return func(o *rollOptions) {
		if n > 0 {
			o.fixedIntervals = n
		}
	}
}

// WithRand setzt den Zufallsgenerator fuer nicht gesetzte Verschiebungen.
// Ohne Generator wird pro Aufruf ein frisch geseedeter erzeugt.
func WithRand(r *rand.Rand) RollOption {
	return func(o *rollOptions) {
		o.rng = r
	}
}

// ============================================================================
// RollTensor
// ============================================================================

// DrawRollAmounts draws one shift per sample uniformly from [0, max(lengths)).
// The bound is the batch maximum for every sample; shifts beyond a sample's own
// length wrap through the per-sample modulo in RollTensor.
func DrawRollAmounts(r *rand.Rand, lengths ml.Lengths) ([]int, error) {
	maxLen := lengths.Max()
	if maxLen <= 0 {
		return nil, fmt.Errorf("%w: cannot draw roll amounts for max length %d", ErrLengthBounds, maxLen)
	}

	amounts := make([]int, lengths.Len())
	for b := range amounts {
		amounts[b] = r.IntN(maxLen)
	}
	return amounts, nil
}

// RollTensor circularly shifts the valid region of every sequence in x
// (B, T, D): position t < lengths[b] takes x[b, (t - amount[b]) mod lengths[b]],
// padded positions keep their values. The result has the shape and DType of x.
func RollTensor(x *ml.Array, lengths ml.Lengths, opts ...RollOption) (*ml.Array, error) {
	var o rollOptions
	for _, opt := range opts {
		opt(&o)
	}

	if x.Rank() != 3 {
		return nil, fmt.Errorf("%w: input must be (B, T, D), got %v", ErrShapeMismatch, []int(x.Shape()))
	}

	batch, steps, dims := x.Dim(0), x.Dim(1), x.Dim(2)
	if lengths.Len() != batch {
		return nil, fmt.Errorf("%w: batch size %d must match %d lengths", ErrShapeMismatch, batch, lengths.Len())
	}
	for b := range batch {
		if l := lengths.At(b); l < 0 || l > steps {
			return nil, fmt.Errorf("%w: length %d of sample %d outside [0, %d]", ErrLengthBounds, l, b, steps)
		}
	}

	amounts := o.amounts
	if amounts == nil {
		r := o.rng
		if r == nil {
			r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}

		var err error
		if amounts, err = DrawRollAmounts(r, lengths); err != nil {
			return nil, err
		}
	}
	if len(amounts) != batch {
		return nil, fmt.Errorf("%w: %d roll amounts for batch size %d", ErrShapeMismatch, len(amounts), batch)
	}

	if o.fixedIntervals > 0 {
		quantized := make([]int, batch)
		for b, a := range amounts {
			quantized[b] = floorDiv(a, o.fixedIntervals) * o.fixedIntervals
		}
		amounts = quantized
	}

	src := x.Floats()
	out := x.Floats()
	for b := range batch {
		l := lengths.At(b)
		base := b * steps * dims
		for t := range l {
			from := mod(t-amounts[b], l)
			copy(out[base+t*dims:base+(t+1)*dims], src[base+from*dims:base+(from+1)*dims])
		}
	}

	return ml.New(x.DType(), out, x.Shape()...)
}

// floorDiv rundet Richtung minus unendlich
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// mod liefert ein nicht-negatives Ergebnis fuer positive Divisoren
func mod(a, n int) int {
	return ((a % n) + n) % n
}
