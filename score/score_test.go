package score

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLabels(t *testing.T) {
	input := strings.Join([]string{
		"utt1 0 1 1.0 2.7",
		"",
		"utt2",
		"utt3 -0.5 3",
	}, "\n")

	got, err := ReadLabels(strings.NewReader(input))
	require.NoError(t, err)

	want := Labels{
		"utt1": {0, 1, 1, 2},
		"utt3": {0, 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}

	_, err = ReadLabels(strings.NewReader("utt1 0 x"))
	assert.Error(t, err)

	_, err = ReadLabels(strings.NewReader("utt1 NaN"))
	assert.Error(t, err)
}

func TestEvaluate(t *testing.T) {
	pred := Labels{
		"a": {0, 1, 1, 3, 9},
		"b": {2, 2},
		"c": {0},
	}
	ref := Labels{
		"a": {0, 1, 2, 3},
		"b": {2, 0, 1},
		"d": {1},
	}

	r, err := Evaluate(pred, ref, DisfluencyClasses)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, r.IDs)
	assert.Equal(t, 6, r.Frames)
	// korrekt: a[0], a[1], a[3], b[0]
	assert.InDelta(t, 4.0/6.0, r.Accuracy, 1e-9)

	assert.Equal(t, []int{1, 0, 1, 0}, r.ConfusionRow(0))
	assert.Equal(t, []int{0, 1, 0, 0}, r.ConfusionRow(1))
	assert.Equal(t, []int{0, 1, 1, 0}, r.ConfusionRow(2))
	assert.Equal(t, []int{0, 0, 0, 1}, r.ConfusionRow(3))

	// Interjection: tp=1, 2 Vorhersagen, Support 1
	m, ok := r.Classes.Get("Interjection")
	require.True(t, ok)
	assert.InDelta(t, 0.5, m.Precision, 1e-9)
	assert.InDelta(t, 1.0, m.Recall, 1e-9)
	assert.InDelta(t, 2.0/3.0, m.F1, 1e-9)
	assert.Equal(t, 1, m.Support)

	// Repair: tp=1, 2 Vorhersagen, Support 2
	m, _ = r.Classes.Get("Repair")
	assert.InDelta(t, 0.5, m.Precision, 1e-9)
	assert.InDelta(t, 0.5, m.Recall, 1e-9)
	assert.Equal(t, 2, m.Support)

	var names []string
	for pair := r.Classes.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	assert.Equal(t, DisfluencyClasses, names)

	assert.Equal(t, 6, r.MacroAvg.Support)
	assert.InDelta(t, (1+0.5+0.5+1)/4.0, r.MacroAvg.Precision, 1e-9)
	assert.InDelta(t, (1*2+0.5*1+0.5*2+1*1)/6.0, r.WeightedAvg.Precision, 1e-9)
}

func TestEvaluateZeroDivision(t *testing.T) {
	r, err := Evaluate(Labels{"a": {0, 0}}, Labels{"a": {0, 0}}, DisfluencyClasses)
	require.NoError(t, err)

	m, _ := r.Classes.Get("Filler")
	assert.Equal(t, Metrics{}, m)
	assert.InDelta(t, 1.0, r.Accuracy, 1e-9)
	assert.InDelta(t, 0.25, r.MacroAvg.F1, 1e-9)
	assert.InDelta(t, 1.0, r.WeightedAvg.F1, 1e-9)
}

func TestEvaluateNoCommonIDs(t *testing.T) {
	_, err := Evaluate(Labels{"a": {0}}, Labels{"b": {0}}, DisfluencyClasses)
	assert.ErrorIs(t, err, ErrNoCommonIDs)
}

func TestWriteReport(t *testing.T) {
	r, err := Evaluate(Labels{"a": {0, 1, 3}}, Labels{"a": {0, 1, 2}}, DisfluencyClasses)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, r))

	out := buf.String()
	for _, want := range []string{"accuracy: 0.6667", "Interjection", "Interj", "macro avg", "weighted avg", "Confusion matrix"} {
		assert.Contains(t, out, want)
	}
}

func TestLoadPair(t *testing.T) {
	dir := t.TempDir()
	predPath := filepath.Join(dir, "pred")
	refPath := filepath.Join(dir, "ref")
	require.NoError(t, os.WriteFile(predPath, []byte("u1 0 1\n"), 0o644))
	require.NoError(t, os.WriteFile(refPath, []byte("u1 0 0\n"), 0o644))

	pred, ref, err := LoadPair(t.Context(), predPath, refPath)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, pred["u1"])
	assert.Equal(t, []int{0, 0}, ref["u1"])

	_, _, err = LoadPair(t.Context(), predPath, filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
