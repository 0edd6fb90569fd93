// cmd_mask.go - Handler fuer den mask Command
// Hauptfunktionen: MaskHandler, renderMaskTable
package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/7blacky7/seqmask/ml"
	"github.com/7blacky7/seqmask/ml/nn"
)

// MaskHandler - Baut eine Pad- oder Non-Pad-Maske und gibt sie aus
func MaskHandler(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	values, err := flags.GetIntSlice("lengths")
	if err != nil {
		return err
	}
	list, _ := flags.GetBool("list")

	lengths := ml.NewLengths(values...)
	if list {
		lengths = ml.LengthList(values...)
	}

	strategyName, _ := flags.GetString("strategy")
	strategy, err := nn.ParseStrategy(strategyName)
	if err != nil {
		return err
	}

	axis, _ := flags.GetInt("axis")
	opts := []nn.MaskOption{nn.WithStrategy(strategy), nn.WithLengthAxis(axis)}
	if shape, _ := flags.GetIntSlice("shape"); len(shape) > 0 {
		opts = append(opts, nn.WithReferenceShape(shape...))
	}
	if maxLen, _ := flags.GetInt("maxlen"); flags.Changed("maxlen") {
		opts = append(opts, nn.WithMaxLen(maxLen))
	}

	build := nn.MakePadMask
	if nonPad, _ := flags.GetBool("nonpad"); nonPad {
		build = nn.MakeNonPadMask
	}

	mask, err := build(lengths, opts...)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if dump, _ := flags.GetBool("dump"); dump || mask.Rank() != 2 {
		_, err := fmt.Fprintln(w, ml.DumpMask(mask))
		return err
	}

	renderMaskTable(w, lengths, mask)
	return nil
}

// renderMaskTable - Eine Zeile pro Sample, T/F pro Position
func renderMaskTable(w io.Writer, lengths ml.Lengths, mask *ml.Mask) {
	width := mask.Dim(1)

	header := []string{"SAMPLE", "LENGTH"}
	for t := range width {
		header = append(header, strconv.Itoa(t))
	}

	var data [][]string
	for b := range mask.Dim(0) {
		row := []string{strconv.Itoa(b), strconv.Itoa(lengths.At(b))}
		for t := range width {
			if mask.At(b, t) {
				row = append(row, "T")
			} else {
				row = append(row, "F")
			}
		}
		data = append(data, row)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("  ")
	table.AppendBulk(data)
	table.Render()
}

// formatInts - Formatiert Ganzzahlen als kommagetrennte Liste
func formatInts(s []int) string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
