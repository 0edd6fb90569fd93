package cmd

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/7blacky7/seqmask/fs/safetensors"
	"github.com/7blacky7/seqmask/ml"
	"github.com/7blacky7/seqmask/ml/nn"
)

// run fuehrt das CLI mit args aus und gibt stdout zurueck
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var stdout bytes.Buffer
	root := NewCLI()
	root.SetOut(&stdout)
	root.SetErr(io.Discard)
	root.SetArgs(args)

	err := root.ExecuteContext(t.Context())
	return stdout.String(), err
}

func writeBatch(t *testing.T, tensors map[string]*ml.Array) string {
	t.Helper()

	var list []safetensors.Tensor
	for _, name := range []string{"h", "x", "x.real", "x.imag", "ctc_probs", "masks", "lengths", "pos_emb", "roll_amounts"} {
		if a, ok := tensors[name]; ok {
			list = append(list, safetensors.Tensor{Name: name, Array: a})
		}
	}

	path := filepath.Join(t.TempDir(), "in.safetensors")
	require.NoError(t, safetensors.WriteFile(path, list, map[string]string{"source": "test"}))
	return path
}

func floats(t *testing.T, s []float32, shape ...int) *ml.Array {
	t.Helper()
	a, err := ml.FromFloats(s, shape...)
	require.NoError(t, err)
	return a
}

func TestMaskCommand(t *testing.T) {
	out, err := run(t, "mask", "--lengths", "5,3,2", "--dump")
	require.NoError(t, err)
	assert.Equal(t, "[[ F,  F,  F,  F,  F],\n [ F,  F,  F,  T,  T],\n [ F,  F,  T,  T,  T]]\n", out)

	out, err = run(t, "mask", "--lengths", "2,1", "--nonpad", "--dump")
	require.NoError(t, err)
	assert.Equal(t, "[[ T,  T],\n [ T,  F]]\n", out)

	out, err = run(t, "mask", "--lengths", "5,3,2", "--shape", "3,2,4", "--strategy", "general")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "[[[ F,  F,  F,  F],"), out)
}

func TestMaskCommandTable(t *testing.T) {
	out, err := run(t, "mask", "--lengths", "3,1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "SAMPLE")
	assert.Equal(t, []string{"1", "1", "F", "T", "T"}, strings.Fields(lines[2]))
}

func TestMaskCommandEnvironment(t *testing.T) {
	t.Setenv("SEQMASK_NONPAD", "1")
	t.Setenv("SEQMASK_MASK_STRATEGY", "traceable")

	out, err := run(t, "mask", "--lengths", "1,2", "--dump")
	require.NoError(t, err)
	assert.Equal(t, "[[ T,  F],\n [ T,  T]]\n", out)

	_, err = run(t, "mask", "--lengths", "1,2", "--list")
	assert.ErrorIs(t, err, nn.ErrUnsupportedRank)
}

func TestMaskCommandErrors(t *testing.T) {
	_, err := run(t, "mask", "--lengths", "5,3", "--maxlen", "4")
	assert.ErrorIs(t, err, nn.ErrLengthBounds)

	_, err = run(t, "mask", "--lengths", "5,3", "--axis", "0")
	assert.ErrorIs(t, err, nn.ErrInvalidAxis)

	_, err = run(t, "mask", "--lengths", "5,3", "--strategy", "fast")
	assert.Error(t, err)
}

func TestTrimCommand(t *testing.T) {
	// Sample 0: 3 Sprach-Frames, Sample 1: nur Blank
	probs := make([]float32, 0, 2*10*2)
	for b := range 2 {
		for i := range 10 {
			if b == 0 && i < 3 {
				probs = append(probs, 0.1, 0.9)
			} else {
				probs = append(probs, 0.99, 0.01)
			}
		}
	}

	in := writeBatch(t, map[string]*ml.Array{
		"h":         ml.Full(ml.DTypeF32, 1, 2, 10, 4),
		"ctc_probs": floats(t, probs, 2, 10, 2),
		"lengths":   ml.NewLengths(10, 10).Array(),
		"pos_emb":   ml.Zeros(ml.DTypeF32, 1, 19, 4),
	})
	outPath := filepath.Join(t.TempDir(), "out.safetensors")

	out, err := run(t, "trim", in, "-o", outPath)
	require.NoError(t, err)
	assert.Equal(t, "10 -> 8 frames\n", out)

	f, err := safetensors.Open(outPath)
	require.NoError(t, err)
	defer f.Close()

	h, err := f.Read("h")
	require.NoError(t, err)
	assert.Equal(t, ml.Shape{2, 8, 4}, h.Shape())

	lengths, err := f.Read("lengths")
	require.NoError(t, err)
	assert.Equal(t, []int{8, 5}, lengths.Ints())

	masks, err := f.ReadMask("masks")
	require.NoError(t, err)
	assert.Equal(t, []int{8, 5}, masks.Count())

	posEmb, err := f.Read("pos_emb")
	require.NoError(t, err)
	assert.Equal(t, ml.Shape{1, 15, 4}, posEmb.Shape())

	assert.Equal(t, map[string]string{"source": "test"}, f.Metadata())
}

func TestTrimCommandMasks(t *testing.T) {
	// Sample 0: nur Blank, Sample 1: Sprache, aber nur 4 gueltige Frames
	probs := make([]float32, 0, 2*10*2)
	valid := make([]bool, 0, 2*10)
	for b := range 2 {
		for i := range 10 {
			if b == 0 {
				probs = append(probs, 0.99, 0.01)
			} else {
				probs = append(probs, 0.1, 0.9)
			}
			valid = append(valid, b == 0 || i < 4)
		}
	}
	masks, err := ml.MaskFromBools(valid, 2, 1, 10)
	require.NoError(t, err)

	in := writeBatch(t, map[string]*ml.Array{
		"h":         ml.Zeros(ml.DTypeF32, 2, 10, 3),
		"ctc_probs": floats(t, probs, 2, 10, 2),
		"masks":     masks.Array(),
	})
	outPath := filepath.Join(t.TempDir(), "out.safetensors")

	out, err := run(t, "trim", in, "-o", outPath)
	require.NoError(t, err)
	assert.Equal(t, "10 -> 5 frames\n", out)

	f, err := safetensors.Open(outPath)
	require.NoError(t, err)
	defer f.Close()

	lengths, err := f.Read("lengths")
	require.NoError(t, err)
	gotMasks, err := f.ReadMask("masks")
	require.NoError(t, err)
	assert.Equal(t, []int{5, 4}, lengths.Ints())
	assert.Equal(t, lengths.Ints(), gotMasks.Count())
}

func TestTrimCommandMissingInput(t *testing.T) {
	in := writeBatch(t, map[string]*ml.Array{"h": ml.Zeros(ml.DTypeF32, 1, 2, 2)})

	_, err := run(t, "trim", in, "-o", filepath.Join(t.TempDir(), "out.safetensors"))
	assert.ErrorIs(t, err, safetensors.ErrNotFound)
}

func TestRollCommand(t *testing.T) {
	in := writeBatch(t, map[string]*ml.Array{
		"x.real":       floats(t, []float32{1, 2, 3, 4, 99}, 1, 5, 1),
		"x.imag":       floats(t, []float32{10, 20, 30, 40, 99}, 1, 5, 1),
		"lengths":      ml.NewLengths(4).Array(),
		"roll_amounts": ml.NewLengths(1).Array(),
	})
	outPath := filepath.Join(t.TempDir(), "out.safetensors")

	out, err := run(t, "roll", in, "-o", outPath)
	require.NoError(t, err)
	assert.Equal(t, "roll amounts: 1\n", out)

	f, err := safetensors.Open(outPath)
	require.NoError(t, err)
	defer f.Close()

	re, err := f.Read("x.real")
	require.NoError(t, err)
	assert.Equal(t, []float32{4, 1, 2, 3, 99}, re.Floats())

	im, err := f.Read("x.imag")
	require.NoError(t, err)
	assert.Equal(t, []float32{40, 10, 20, 30, 99}, im.Floats())
}

func TestRollCommandSeeded(t *testing.T) {
	in := writeBatch(t, map[string]*ml.Array{
		"x":       floats(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, 2, 4, 1),
		"lengths": ml.NewLengths(4, 2).Array(),
	})

	first, err := run(t, "roll", in, "-o", filepath.Join(t.TempDir(), "a.safetensors"), "--seed", "42")
	require.NoError(t, err)

	t.Setenv("SEQMASK_ROLL_SEED", "42")
	second, err := run(t, "roll", in, "-o", filepath.Join(t.TempDir(), "b.safetensors"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestScoreCommand(t *testing.T) {
	dir := t.TempDir()
	predPath := filepath.Join(dir, "pred")
	refPath := filepath.Join(dir, "ref")
	reportPath := filepath.Join(dir, "report")
	require.NoError(t, os.WriteFile(predPath, []byte("u1 0 1 2 3\nu2 1 1\n"), 0o644))
	require.NoError(t, os.WriteFile(refPath, []byte("u1 0 1 2 3\nu3 0\n"), 0o644))

	_, err := run(t, "score", "--pred", predPath, "--ref", refPath, "--output", reportPath)
	require.NoError(t, err)

	report, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(report), "accuracy: 1.0000")
	assert.Contains(t, string(report), "Filler")

	require.NoError(t, os.WriteFile(refPath, []byte("u9 0\n"), 0o644))
	_, err = run(t, "score", "--pred", predPath, "--ref", refPath)
	assert.Error(t, err)
}

func TestEnvCommand(t *testing.T) {
	t.Setenv("SEQMASK_ROLL_INTERVAL", "3")

	out, err := run(t, "env")
	require.NoError(t, err)

	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "SEQMASK_ROLL_INTERVAL") {
			assert.Equal(t, "3", strings.Fields(line)[1])
			return
		}
	}
	t.Errorf("SEQMASK_ROLL_INTERVAL fehlt in:\n%s", out)
}

func TestImportCommandMissingFile(t *testing.T) {
	_, err := run(t, "import", filepath.Join(t.TempDir(), "missing.pt"), "-o", filepath.Join(t.TempDir(), "out.safetensors"))
	assert.Error(t, err)
}
