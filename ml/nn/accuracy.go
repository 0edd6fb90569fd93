package nn

import (
	"fmt"

	"github.com/7blacky7/seqmask/ml"
)

// Accuracy computes the share of correct argmax predictions.
//
// outputs has shape (B*L, D), targets (B, L) with integer labels. Targets
// equal to ignoreLabel are excluded from numerator and denominator.
func Accuracy(outputs, targets *ml.Array, ignoreLabel int) (float64, error) {
	if outputs.Rank() != 2 || targets.Rank() != 2 {
		return 0, fmt.Errorf("%w: outputs %v and targets %v must both be 2-D", ErrShapeMismatch, []int(outputs.Shape()), []int(targets.Shape()))
	}
	if outputs.Dim(0) != targets.Dim(0)*targets.Dim(1) {
		return 0, fmt.Errorf("%w: %d output rows for targets %v", ErrShapeMismatch, outputs.Dim(0), []int(targets.Shape()))
	}

	classes := outputs.Dim(1)
	if classes == 0 {
		return 0, fmt.Errorf("%w: outputs have no classes", ErrShapeMismatch)
	}

	scores := outputs.Floats()
	var numerator, denominator int
	for i, label := range targets.Ints() {
		if label == ignoreLabel {
			continue
		}

		denominator++
		if _, pred := argmax(scores[i*classes : (i+1)*classes]); pred == label {
			numerator++
		}
	}

	if denominator == 0 {
		return 0, ErrNoTargets
	}
	return float64(numerator) / float64(denominator), nil
}
