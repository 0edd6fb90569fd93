// MODUL: evaluate
// ZWECK: Frame-weise Klassifikation gegen Referenz-Labels bewerten
// INPUT: Vorhersage- und Referenz-Labels, Klassen-Namen
// OUTPUT: Result mit Accuracy, Metriken pro Klasse, Mittelwerten und Konfusionsmatrix
// NEBENEFFEKTE: keine
// ABHAENGIGKEITEN: gods/v2 treeset, go-ordered-map/v2, gonum mat und floats
// HINWEISE: Nur gemeinsame IDs zaehlen, jedes Paar wird auf die kuerzere Laenge gekuerzt.
//           Division durch 0 ergibt 0.

package score

import (
	"errors"
	"fmt"

	"github.com/emirpasic/gods/v2/sets/treeset"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrNoCommonIDs wird zurueckgegeben wenn Vorhersage und Referenz keine ID teilen
var ErrNoCommonIDs = errors.New("score: no common utterance ids")

// DisfluencyClasses sind die Klassen der Disfluenz-Erkennung, Label i ist DisfluencyClasses[i]
var DisfluencyClasses = []string{"Others", "Interjection", "Repair", "Filler"}

// Metrics - Precision, Recall und F1 einer Klasse oder eines Mittelwerts
type Metrics struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Result - Ergebnis von Evaluate
type Result struct {
	// IDs sind die gemeinsamen Utterance-IDs in sortierter Reihenfolge
	IDs []string

	// Frames ist die Anzahl bewerteter Frames
	Frames int

	Accuracy float64

	// Classes in Reihenfolge der Labels
	Classes *orderedmap.OrderedMap[string, Metrics]

	MacroAvg    Metrics
	WeightedAvg Metrics

	// Confusion[i][j] zaehlt Frames mit Referenz i und Vorhersage j
	Confusion *mat.Dense
}

// Evaluate vergleicht pred mit ref. Label i gehoert zu classes[i], Labels
// ausserhalb von [0, len(classes)) zaehlen nur fuer die Accuracy.
func Evaluate(pred, ref Labels, classes []string) (*Result, error) {
	if len(classes) == 0 {
		return nil, errors.New("score: no classes")
	}

	predIDs := treeset.New[string]()
	for id := range pred {
		predIDs.Add(id)
	}

	common := treeset.New[string]()
	for id := range ref {
		if predIDs.Contains(id) {
			common.Add(id)
		}
	}
	if common.Empty() {
		return nil, fmt.Errorf("%w: %d predictions, %d references", ErrNoCommonIDs, len(pred), len(ref))
	}

	n := len(classes)
	confusion := mat.NewDense(n, n, nil)
	result := &Result{IDs: common.Values(), Confusion: confusion}

	var correct int
	for _, id := range result.IDs {
		p, r := pred[id], ref[id]
		frames := min(len(p), len(r))
		for i := range frames {
			if p[i] == r[i] {
				correct++
			}
			if inRange(r[i], n) && inRange(p[i], n) {
				confusion.Set(r[i], p[i], confusion.At(r[i], p[i])+1)
			}
		}
		result.Frames += frames
	}
	result.Accuracy = divide(float64(correct), float64(result.Frames))

	// support zaehlt Referenz-Labels, predicted alle Vorhersagen einer Klasse unabhaengig von der Referenz
	support := make([]float64, n)
	predicted := make([]float64, n)
	for _, id := range result.IDs {
		p, r := pred[id], ref[id]
		for i := range min(len(p), len(r)) {
			if inRange(r[i], n) {
				support[r[i]]++
			}
			if inRange(p[i], n) {
				predicted[p[i]]++
			}
		}
	}

	result.Classes = orderedmap.New[string, Metrics]()
	precision := make([]float64, n)
	recall := make([]float64, n)
	f1 := make([]float64, n)
	for i, name := range classes {
		tp := confusion.At(i, i)
		precision[i] = divide(tp, predicted[i])
		recall[i] = divide(tp, support[i])
		f1[i] = divide(2*precision[i]*recall[i], precision[i]+recall[i])

		result.Classes.Set(name, Metrics{
			Precision: precision[i],
			Recall:    recall[i],
			F1:        f1[i],
			Support:   int(support[i]),
		})
	}

	total := floats.Sum(support)
	result.MacroAvg = Metrics{
		Precision: floats.Sum(precision) / float64(n),
		Recall:    floats.Sum(recall) / float64(n),
		F1:        floats.Sum(f1) / float64(n),
		Support:   int(total),
	}
	result.WeightedAvg = Metrics{
		Precision: divide(floats.Dot(precision, support), total),
		Recall:    divide(floats.Dot(recall, support), total),
		F1:        divide(floats.Dot(f1, support), total),
		Support:   int(total),
	}

	return result, nil
}

// ConfusionRow gibt Zeile i der Konfusionsmatrix als Ganzzahlen zurueck
func (r *Result) ConfusionRow(i int) []int {
	row := mat.Row(nil, i, r.Confusion)
	out := make([]int, len(row))
	for j, v := range row {
		out[j] = int(v)
	}
	return out
}

func inRange(label, n int) bool {
	return label >= 0 && label < n
}

func divide(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
