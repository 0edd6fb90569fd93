// cmd_builders.go - Command-Builder Funktionen
// Hauptfunktionen: newMaskCmd, newTrimCmd, newRollCmd, newScoreCmd, newImportCmd, newEnvCmd
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/7blacky7/seqmask/envconfig"
)

// newMaskCmd - Erstellt den mask Command
func newMaskCmd() *cobra.Command {
	maskCmd := &cobra.Command{
		Use:   "mask",
		Short: "Print the pad mask for a length vector",
		Args:  cobra.NoArgs,
		RunE:  MaskHandler,
	}

	maskCmd.Flags().IntSlice("lengths", nil, "Valid length of every sample (e.g. 5,3,2)")
	maskCmd.Flags().IntSlice("shape", nil, "Reference shape the mask is broadcast to (e.g. 3,2,4)")
	maskCmd.Flags().Int("axis", -1, "Length axis of the reference shape")
	maskCmd.Flags().Int("maxlen", 0, "Mask width without a reference shape (default: max of lengths)")
	maskCmd.Flags().Bool("nonpad", envconfig.NonPad(), "Print the non-pad mask (true at valid positions)")
	maskCmd.Flags().String("strategy", envconfig.MaskStrategy(), "Mask strategy: auto, general or traceable")
	maskCmd.Flags().Bool("list", false, "Treat lengths as a plain list (forces the general strategy)")
	maskCmd.Flags().Bool("dump", false, "Print the nested array instead of a table")
	_ = maskCmd.MarkFlagRequired("lengths")

	return maskCmd
}

// newTrimCmd - Erstellt den trim Command
func newTrimCmd() *cobra.Command {
	trimCmd := &cobra.Command{
		Use:   "trim INPUT",
		Short: "Trim trailing blank frames using CTC posteriors",
		Long: `Trim trailing blank frames using CTC posteriors.

INPUT is a safetensors file with the tensors h (B, T, D), ctc_probs (B, T, V)
and either masks (B, 1, T) or lengths (B,). An optional pos_emb is sliced to
the trimmed width.`,
		Args: cobra.ExactArgs(1),
		RunE: TrimHandler,
	}

	trimCmd.Flags().StringP("output", "o", "", "Output safetensors file")
	_ = trimCmd.MarkFlagRequired("output")

	return trimCmd
}

// newRollCmd - Erstellt den roll Command
func newRollCmd() *cobra.Command {
	rollCmd := &cobra.Command{
		Use:   "roll INPUT",
		Short: "Circularly shift the valid region of every sequence",
		Long: `Circularly shift the valid region of every sequence.

INPUT is a safetensors file with the tensor NAME (B, T, D), or the pair
NAME.real / NAME.imag, and lengths (B,). Optional roll_amounts (B,) fixes the
shifts, otherwise they are drawn from [0, max(lengths)).`,
		Args: cobra.ExactArgs(1),
		RunE: RollHandler,
	}

	rollCmd.Flags().StringP("output", "o", "", "Output safetensors file")
	rollCmd.Flags().String("name", "x", "Name of the tensor to roll")
	rollCmd.Flags().Uint64("seed", envconfig.RollSeed(), "Seed for random roll amounts (0 = random)")
	rollCmd.Flags().Uint("interval", envconfig.RollInterval(), "Quantize roll amounts to multiples of this value (0 = off)")
	_ = rollCmd.MarkFlagRequired("output")

	return rollCmd
}

// newScoreCmd - Erstellt den score Command
func newScoreCmd() *cobra.Command {
	scoreCmd := &cobra.Command{
		Use:   "score",
		Short: "Score frame label predictions against references",
		Args:  cobra.NoArgs,
		RunE:  ScoreHandler,
	}

	scoreCmd.Flags().String("pred", "", "Prediction file (utt_id v1 v2 ...)")
	scoreCmd.Flags().String("ref", "", "Reference file (utt_id v1 v2 ...)")
	scoreCmd.Flags().String("output", "", "Report file (default: stdout)")
	scoreCmd.Flags().StringSlice("classes", nil, "Class names in label order (default: Others,Interjection,Repair,Filler)")
	_ = scoreCmd.MarkFlagRequired("pred")
	_ = scoreCmd.MarkFlagRequired("ref")

	return scoreCmd
}

// newImportCmd - Erstellt den import Command
func newImportCmd() *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import INPUT",
		Short: "Convert a PyTorch state dict (.pt) into a safetensors file",
		Args:  cobra.ExactArgs(1),
		RunE:  ImportHandler,
	}

	importCmd.Flags().StringP("output", "o", "", "Output safetensors file")
	_ = importCmd.MarkFlagRequired("output")

	return importCmd
}

// newEnvCmd - Erstellt den env Command
func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Print the SEQMASK_* environment configuration",
		Args:  cobra.NoArgs,
		RunE:  EnvHandler,
	}
}
