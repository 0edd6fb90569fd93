// cmd_import.go - Handler fuer den import Command
// Hauptfunktionen: ImportHandler
package cmd

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/7blacky7/seqmask/convert"
	"github.com/7blacky7/seqmask/fs/safetensors"
)

// ImportHandler - Wandelt ein PyTorch state dict in eine safetensors-Datei um
func ImportHandler(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	arrays, err := convert.FromTorch(args[0])
	if err != nil {
		return err
	}
	if len(arrays) == 0 {
		return fmt.Errorf("%s: no tensors", args[0])
	}

	names := make([]string, 0, len(arrays))
	for name := range arrays {
		names = append(names, name)
	}
	slices.Sort(names)

	tensors := make([]safetensors.Tensor, len(names))
	for i, name := range names {
		tensors[i] = safetensors.Tensor{Name: name, Array: arrays[name]}
	}

	if err := safetensors.WriteFile(output, tensors, map[string]string{"format": "pt"}); err != nil {
		return err
	}

	slog.Info("imported", "input", args[0], "output", output, "tensors", len(tensors))
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, "\n"))
	return nil
}
