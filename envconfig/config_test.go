package envconfig

import (
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/7blacky7/seqmask/logutil"
)

func TestLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"false": slog.LevelInfo,
		"0":     slog.LevelInfo,
		"1":     slog.LevelDebug,
		"true":  slog.LevelDebug,
		"2":     logutil.LevelTrace,
	}

	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv("SEQMASK_DEBUG", k)
			if i := LogLevel(); i != v {
				t.Errorf("%s: expected %s, got %s", k, v, i)
			}
		})
	}
}

func TestMaskStrategy(t *testing.T) {
	cases := map[string]string{
		"":          "auto",
		"AUTO":      "auto",
		"general":   "general",
		"Traceable": "traceable",
		"onnx":      "auto",
	}

	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv("SEQMASK_MASK_STRATEGY", k)
			if s := MaskStrategy(); s != v {
				t.Errorf("%s: expected %s, got %s", k, v, s)
			}
		})
	}
}

func TestRollSettings(t *testing.T) {
	t.Setenv("SEQMASK_ROLL_SEED", "42")
	t.Setenv("SEQMASK_ROLL_INTERVAL", "\"4\"")
	if got := RollSeed(); got != 42 {
		t.Errorf("RollSeed: expected 42, got %d", got)
	}
	if got := RollInterval(); got != 4 {
		t.Errorf("RollInterval: expected 4, got %d", got)
	}

	t.Setenv("SEQMASK_ROLL_SEED", "minus eins")
	if got := RollSeed(); got != 0 {
		t.Errorf("RollSeed: expected default 0, got %d", got)
	}
}

func TestBool(t *testing.T) {
	cases := map[string]bool{
		"":      false,
		"true":  true,
		"false": false,
		"1":     true,
		"0":     false,
		// invalid values
		"random":    true,
		"something": true,
	}

	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv("SEQMASK_BOOL", k)
			if b := Bool("SEQMASK_BOOL")(); b != v {
				t.Errorf("%s: expected %t, got %t", k, v, b)
			}
		})
	}
}

func TestValues(t *testing.T) {
	t.Setenv("SEQMASK_NONPAD", "1")
	t.Setenv("SEQMASK_ROLL_SEED", "")
	t.Setenv("SEQMASK_ROLL_INTERVAL", "")
	t.Setenv("SEQMASK_MASK_STRATEGY", "")
	t.Setenv("SEQMASK_DEBUG", "")

	want := map[string]string{
		"SEQMASK_DEBUG":         "INFO",
		"SEQMASK_MASK_STRATEGY": "auto",
		"SEQMASK_ROLL_SEED":     "0",
		"SEQMASK_ROLL_INTERVAL": "0",
		"SEQMASK_NONPAD":        "true",
	}
	if diff := cmp.Diff(want, Values()); diff != "" {
		t.Errorf("Values mismatch (-want +got):\n%s", diff)
	}
}
