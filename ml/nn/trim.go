package nn

import (
	"fmt"

	"github.com/7blacky7/seqmask/logutil"
	"github.com/7blacky7/seqmask/ml"
)

// Empirical settings for TrimByCTCPosterior.
const (
	TrimFrameTolerance = 5
	TrimConfTolerance  = 0.95
	TrimBlankID        = 0
)

// TrimLengths returns the length of every sample after dropping the tail of
// frames that are confidently blank or already outside the valid mask.
//
// ctcProbs has shape (B, T, V) and masks (B, 1, T) with true at valid frames.
// The new length is min(last + TrimFrameTolerance + 1, original) where last is
// the index of the last kept frame, or -1 when every frame is dropped.
func TrimLengths(ctcProbs *ml.Array, masks *ml.Mask) (before, after ml.Lengths, err error) {
	if ctcProbs.Rank() != 3 {
		return before, after, fmt.Errorf("%w: ctc posteriors must be (B, T, V), got %v", ErrShapeMismatch, []int(ctcProbs.Shape()))
	}
	if masks.Rank() != 3 || masks.Dim(1) != 1 {
		return before, after, fmt.Errorf("%w: masks must be (B, 1, T), got %v", ErrShapeMismatch, []int(masks.Shape()))
	}

	batch, steps, vocab := ctcProbs.Dim(0), ctcProbs.Dim(1), ctcProbs.Dim(2)
	if masks.Dim(0) != batch || masks.Dim(2) != steps {
		return before, after, fmt.Errorf("%w: masks %v do not match posteriors %v", ErrShapeMismatch, []int(masks.Shape()), []int(ctcProbs.Shape()))
	}
	if vocab == 0 {
		return before, after, fmt.Errorf("%w: posteriors have no classes", ErrShapeMismatch)
	}

	valid, err := masks.Reshape(batch, steps)
	if err != nil {
		return before, after, err
	}
	hlens := valid.Count()
	validBools := valid.Bools()
	probs := ctcProbs.Floats()

	afterLens := make([]int, batch)
	for b := range batch {
		last := -1
		for t := range steps {
			maxValue, maxIndex := argmax(probs[(b*steps+t)*vocab : (b*steps+t+1)*vocab])
			blank := maxValue > TrimConfTolerance && maxIndex == TrimBlankID
			if !blank && validBools[b*steps+t] {
				last = t
			}
		}
		afterLens[b] = min(last+TrimFrameTolerance+1, hlens[b])
	}

	return ml.NewLengths(hlens...), ml.NewLengths(afterLens...), nil
}

// TrimByCTCPosterior trims the encoder output h (B, T, D) using the CTC
// posterior. Continuous frames in the tail that confidently represent blank
// symbols are cut, all samples to the same new maximum length.
//
// masks (B, 1, T) is true at valid frames; the returned masks follow the same
// convention for the trimmed width. posEmb may be nil. A relative position
// embedding (extent 2*maxlen-1 on axis 1) is sliced around its centre, any
// other embedding keeps its leading positions.
func TrimByCTCPosterior(h, ctcProbs *ml.Array, masks *ml.Mask, posEmb *ml.Array) (*ml.Array, *ml.Mask, *ml.Array, error) {
	if h.Rank() != 3 {
		return nil, nil, nil, fmt.Errorf("%w: hidden states must be (B, T, D), got %v", ErrShapeMismatch, []int(h.Shape()))
	}
	if ctcProbs.Rank() != 3 || !h.Shape()[:2].Equal(ctcProbs.Shape()[:2]) {
		return nil, nil, nil, fmt.Errorf("%w: hidden states %v and posteriors %v", ErrShapeMismatch, []int(h.Shape()), []int(ctcProbs.Shape()))
	}

	hlens, afterLens, err := TrimLengths(ctcProbs, masks)
	if err != nil {
		return nil, nil, nil, err
	}

	width := afterLens.Max()
	trimmed, err := h.SliceAxis(1, 0, width)
	if err != nil {
		return nil, nil, nil, err
	}

	padMask, err := MakePadMask(afterLens, WithMaxLen(width))
	if err != nil {
		return nil, nil, nil, err
	}
	newMasks, err := padMask.Not().Reshape(h.Dim(0), 1, width)
	if err != nil {
		return nil, nil, nil, err
	}

	logutil.Trace("trim by ctc posterior", "before", hlens, "after", afterLens, "width", width)

	if posEmb == nil {
		return trimmed, newMasks, nil, nil
	}
	if posEmb.Rank() < 2 {
		return nil, nil, nil, fmt.Errorf("%w: position embedding of rank %d", ErrShapeMismatch, posEmb.Rank())
	}

	var newPosEmb *ml.Array
	if extent := posEmb.Dim(1); hlens.Max()*2-1 == extent {
		center := extent / 2
		newPosEmb, err = posEmb.SliceAxis(1, center-width+1, center+width)
	} else {
		newPosEmb, err = posEmb.SliceAxis(1, 0, width)
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: position embedding %v for width %d: %w", ErrShapeMismatch, []int(posEmb.Shape()), width, err)
	}

	return trimmed, newMasks, newPosEmb, nil
}

// argmax gibt Maximum und ersten Index des Maximums zurueck
func argmax(s []float32) (float32, int) {
	best, idx := s[0], 0
	for i, v := range s[1:] {
		if v > best {
			best, idx = v, i+1
		}
	}
	return best, idx
}
