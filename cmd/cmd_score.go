// cmd_score.go - Handler fuer score und env
// Hauptfunktionen: ScoreHandler, EnvHandler
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/7blacky7/seqmask/envconfig"
	"github.com/7blacky7/seqmask/score"
)

// ScoreHandler - Bewertet Vorhersagen und schreibt den Report
func ScoreHandler(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	predPath, _ := flags.GetString("pred")
	refPath, _ := flags.GetString("ref")
	output, _ := flags.GetString("output")

	classes, _ := flags.GetStringSlice("classes")
	if len(classes) == 0 {
		classes = score.DisfluencyClasses
	}

	pred, ref, err := score.LoadPair(cmd.Context(), predPath, refPath)
	if err != nil {
		return err
	}

	result, err := score.Evaluate(pred, ref, classes)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()

		bw := bufio.NewWriter(f)
		defer bw.Flush()
		w = bw
	}

	if err := score.WriteReport(w, result); err != nil {
		return err
	}

	score.LogSummary(result)
	return nil
}

// EnvHandler - Gibt alle SEQMASK_* Variablen mit aktuellem Wert aus
func EnvHandler(cmd *cobra.Command, args []string) error {
	envs := envconfig.AsMap()
	names := make([]string, 0, len(envs))
	for name := range envs {
		names = append(names, name)
	}
	slices.Sort(names)

	var data [][]string
	for _, name := range names {
		e := envs[name]
		data = append(data, []string{e.Name, fmt.Sprintf("%v", e.Value), e.Description})
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"NAME", "VALUE", "DESCRIPTION"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.SetAutoWrapText(false)
	table.AppendBulk(data)
	table.Render()

	return nil
}
