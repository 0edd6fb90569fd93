package nn

import (
	"fmt"
	"log/slog"

	"github.com/7blacky7/seqmask/ml"
)

// makePadMaskTraceable waehlt pro Sample eine Zeile aus einem oberen
// Dreiecksmuster. Es gibt keine Verzweigung auf den Laengenwerten, nur auf
// Shapes, daher bleibt die Konstruktion als statischer Graph exportierbar.
// Referenzen duerfen Rank 2 oder 3 haben.
func makePadMaskTraceable(lengths ml.Lengths, o maskOptions) (*ml.Mask, error) {
	// grid ist die Anzahl der Wiederholungen jeder Samplezeile (Broadcast ueber die dritte Achse)
	grid := 1
	broadcast := len(o.reference) == 3
	transpose := false
	axis := o.lengthAxis

	switch len(o.reference) {
	case 3:
		if axis == 1 {
			transpose = true
			grid = o.reference[2]
		} else {
			if axis != -1 && axis != 2 {
				slog.Warn("invalid length axis, using default", "axis", axis, "default", -1)
				axis = -1
			}
			grid = o.reference[1]
		}
	case 2:
		if resolved, err := o.reference.Axis(axis); err != nil || resolved != 1 {
			return nil, fmt.Errorf("%w: axis %d for reference %v", ErrInvalidAxis, axis, []int(o.reference))
		}
	}

	var maxLen int
	switch {
	case o.hasMaxLen:
		maxLen = o.maxLen
	case o.reference != nil:
		resolved, err := o.reference.Axis(axis)
		if err != nil {
			return nil, fmt.Errorf("%w: axis %d for reference %v", ErrInvalidAxis, axis, []int(o.reference))
		}
		maxLen = o.reference[resolved]
	default:
		maxLen = lengths.Max()
	}

	clamped := lengths.Clamp(maxLen)
	pattern := triu(maxLen + 1)

	// Zeile k der beschnittenen Sicht pattern[1:, :-1] markiert Positionen >= k+1
	// und liegt in pattern bei Zeile k+1. Laenge l waehlt also pattern-Zeile l;
	// l == 0 trifft die fuehrende Zeile, die die Sicht verwirft, und maskiert alles.
	stride := maxLen + 1
	row := func(l int) []bool {
		return pattern[l*stride : l*stride+maxLen]
	}

	bools := make([]bool, 0, clamped.Len()*grid*maxLen)
	for b := range clamped.Len() {
		r := row(clamped.At(b))
		for range grid {
			bools = append(bools, r...)
		}
	}

	var mask *ml.Mask
	var err error
	if broadcast {
		mask, err = ml.MaskFromBools(bools, clamped.Len(), grid, maxLen)
	} else {
		mask, err = ml.MaskFromBools(bools, clamped.Len(), maxLen)
	}
	if err != nil {
		return nil, err
	}

	if transpose {
		return mask.Transpose(1, 2)
	}
	return mask, nil
}

// triu baut eine (n, n) obere Dreiecksmatrix inklusive Diagonale ueber einen
// Index-Vergleich statt einer Dreiecks-Primitive: pattern[i][j] = i <= j.
func triu(n int) []bool {
	idx := ml.Arange(0, float32(n), 1).Floats()
	pattern := make([]bool, n*n)
	for i, ri := range idx {
		for j, cj := range idx {
			pattern[i*n+j] = ri <= cj
		}
	}
	return pattern
}
