// cmd_roll.go - Handler fuer den roll Command
// Hauptfunktionen: RollHandler, rollAmounts
package cmd

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/7blacky7/seqmask/convert"
	"github.com/7blacky7/seqmask/fs/safetensors"
	"github.com/7blacky7/seqmask/ml"
	"github.com/7blacky7/seqmask/ml/nn"
)

// RollHandler - Verschiebt reelle oder komplexe Eingaben zyklisch
func RollHandler(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	output, _ := flags.GetString("output")
	name, _ := flags.GetString("name")
	seed, _ := flags.GetUint64("seed")
	interval, _ := flags.GetUint("interval")

	f, err := safetensors.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	in, err := convert.FromFile(f, name)
	if err != nil {
		return err
	}

	a, err := f.Read("lengths")
	if err != nil {
		return err
	}
	lengths, err := ml.LengthsFromArray(a)
	if err != nil {
		return err
	}

	// Beide Teile komplexer Eingaben brauchen dieselben Verschiebungen
	amounts, err := rollAmounts(f, lengths, seed)
	if err != nil {
		return err
	}

	out, err := convert.Apply(in, func(x *ml.Array) (*ml.Array, error) {
		return nn.RollTensor(x, lengths, nn.WithRollAmounts(amounts...), nn.WithFixedIntervals(int(interval)))
	})
	if err != nil {
		return err
	}

	tensors := append(convert.Tensors(name, out),
		safetensors.Tensor{Name: "lengths", Array: lengths.Array()},
		safetensors.Tensor{Name: "roll_amounts", Array: ml.NewLengths(amounts...).Array()},
	)
	if err := safetensors.WriteFile(output, tensors, f.Metadata()); err != nil {
		return err
	}

	slog.Info("rolled", "input", args[0], "output", output, "name", name, "parts", len(out.Parts()), "amounts", formatInts(amounts), "interval", interval)
	fmt.Fprintf(cmd.OutOrStdout(), "roll amounts: %s\n", formatInts(amounts))
	return nil
}

// rollAmounts - Liest roll_amounts oder zieht sie mit dem Seed
func rollAmounts(f *safetensors.File, lengths ml.Lengths, seed uint64) ([]int, error) {
	if _, ok := f.Tensor("roll_amounts"); ok {
		a, err := f.Read("roll_amounts")
		if err != nil {
			return nil, err
		}
		return a.Ints(), nil
	}

	if seed == 0 {
		seed = rand.Uint64()
	}
	slog.Debug("drawing roll amounts", "seed", seed)
	return nn.DrawRollAmounts(rand.New(rand.NewPCG(seed, seed)), lengths)
}
