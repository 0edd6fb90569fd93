package nn

import (
	"fmt"

	"github.com/7blacky7/seqmask/ml"
)

// makePadMaskGeneral vergleicht jeden Index entlang der Laengen-Achse mit der
// Laenge seines Samples. Funktioniert fuer jeden Rank >= 2.
func makePadMaskGeneral(lengths ml.Lengths, o maskOptions) (*ml.Mask, error) {
	if o.reference == nil {
		maxLen := lengths.Max()
		if o.hasMaxLen {
			maxLen = o.maxLen
		}

		bools := make([]bool, lengths.Len()*maxLen)
		for b := range lengths.Len() {
			row := bools[b*maxLen : (b+1)*maxLen]
			for t := range row {
				row[t] = t >= lengths.At(b)
			}
		}
		return ml.MaskFromBools(bools, lengths.Len(), maxLen)
	}

	axis, err := o.reference.Axis(o.lengthAxis)
	if err != nil || axis == 0 {
		return nil, fmt.Errorf("%w: axis %d for reference %v", ErrInvalidAxis, o.lengthAxis, []int(o.reference))
	}

	// Layout als (B, outer, T, inner) betrachten
	batch := o.reference[0]
	outer := o.reference[1:axis].NumElements()
	maxLen := o.reference[axis]
	inner := o.reference[axis+1:].NumElements()

	bools := make([]bool, o.reference.NumElements())
	i := 0
	for b := range batch {
		for range outer {
			for t := range maxLen {
				padded := t >= lengths.At(b)
				for range inner {
					bools[i] = padded
					i++
				}
			}
		}
	}
	return ml.MaskFromBools(bools, o.reference...)
}
