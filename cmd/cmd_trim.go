// cmd_trim.go - Handler fuer den trim Command
// Hauptfunktionen: TrimHandler, readValidMasks
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/7blacky7/seqmask/fs/safetensors"
	"github.com/7blacky7/seqmask/ml"
	"github.com/7blacky7/seqmask/ml/nn"
)

// TrimHandler - Kuerzt h um das Blank-Ende laut CTC-Posterior
func TrimHandler(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	f, err := safetensors.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	h, err := f.Read("h")
	if err != nil {
		return err
	}
	ctcProbs, err := f.Read("ctc_probs")
	if err != nil {
		return err
	}
	masks, err := readValidMasks(f, h.Dim(1))
	if err != nil {
		return err
	}

	var posEmb *ml.Array
	if _, ok := f.Tensor("pos_emb"); ok {
		if posEmb, err = f.Read("pos_emb"); err != nil {
			return err
		}
	}

	trimmed, newMasks, newPosEmb, err := nn.TrimByCTCPosterior(h, ctcProbs, masks, posEmb)
	if err != nil {
		return err
	}

	before, after := masks.Count(), ml.NewLengths(newMasks.Count()...)

	tensors := []safetensors.Tensor{
		{Name: "h", Array: trimmed},
		{Name: "masks", Array: newMasks.Array()},
		{Name: "lengths", Array: after.Array()},
	}
	if newPosEmb != nil {
		tensors = append(tensors, safetensors.Tensor{Name: "pos_emb", Array: newPosEmb})
	}

	if err := safetensors.WriteFile(output, tensors, f.Metadata()); err != nil {
		return err
	}

	slog.Info("trimmed", "input", args[0], "output", output, "before", formatInts(before), "after", formatInts(after.Values()))
	fmt.Fprintf(cmd.OutOrStdout(), "%d -> %d frames\n", h.Dim(1), trimmed.Dim(1))
	return nil
}

// readValidMasks - Liest masks (B, 1, T) oder baut sie aus lengths (B,)
func readValidMasks(f *safetensors.File, steps int) (*ml.Mask, error) {
	if _, ok := f.Tensor("masks"); ok {
		return f.ReadMask("masks")
	}

	a, err := f.Read("lengths")
	if err != nil {
		return nil, fmt.Errorf("need masks or lengths: %w", err)
	}
	lengths, err := ml.LengthsFromArray(a)
	if err != nil {
		return nil, err
	}

	valid, err := nn.MakeNonPadMask(lengths, nn.WithMaxLen(steps))
	if err != nil {
		return nil, err
	}
	return valid.Reshape(lengths.Len(), 1, steps)
}
