package score

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
)

// WriteReport schreibt einen Text-Report: Accuracy, Metriken pro Klasse,
// Konfusionsmatrix und Mittelwerte.
func WriteReport(w io.Writer, r *Result) error {
	tableRender := func(header string, columns []string, rows [][]string) {
		fmt.Fprintln(w, header)
		table := tablewriter.NewWriter(w)
		if columns != nil {
			table.SetHeader(columns)
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAutoFormatHeaders(false)
		}
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetBorder(false)
		table.SetHeaderLine(false)
		table.SetNoWhiteSpace(true)
		table.SetTablePadding("    ")
		table.AppendBulk(rows)
		table.Render()
		fmt.Fprintln(w)
	}

	if _, err := fmt.Fprintf(w, "Frame classification results (%d classes)\n", r.Classes.Len()); err != nil {
		return err
	}
	fmt.Fprintf(w, "utterances: %d, frames: %d\n", len(r.IDs), r.Frames)
	fmt.Fprintf(w, "accuracy: %.4f\n\n", r.Accuracy)

	var classRows [][]string
	var names []string
	i := 0
	for pair := r.Classes.Oldest(); pair != nil; pair = pair.Next() {
		classRows = append(classRows, append([]string{pair.Key, strconv.Itoa(i)}, metricCells(pair.Value)...))
		names = append(names, pair.Key)
		i++
	}
	tableRender("Per class", []string{"CLASS", "LABEL", "PRECISION", "RECALL", "F1", "SUPPORT"}, classRows)

	columns := []string{"REF \\ PRED"}
	for _, name := range names {
		columns = append(columns, runewidth.Truncate(name, 6, ""))
	}
	var confusionRows [][]string
	for i, name := range names {
		row := []string{name}
		for _, v := range r.ConfusionRow(i) {
			row = append(row, strconv.Itoa(v))
		}
		confusionRows = append(confusionRows, row)
	}
	tableRender("Confusion matrix", columns, confusionRows)

	tableRender("Averages", []string{"", "PRECISION", "RECALL", "F1", "SUPPORT"}, [][]string{
		append([]string{"macro avg"}, metricCells(r.MacroAvg)...),
		append([]string{"weighted avg"}, metricCells(r.WeightedAvg)...),
	})

	return nil
}

// LogSummary gibt Accuracy und F1/P/R pro Klasse auf Info-Level aus
func LogSummary(r *Result) {
	slog.Info("score", "accuracy", fmt.Sprintf("%.4f", r.Accuracy), "utterances", len(r.IDs), "frames", r.Frames)
	for pair := r.Classes.Oldest(); pair != nil; pair = pair.Next() {
		slog.Info("score", "class", pair.Key,
			"f1", fmt.Sprintf("%.4f", pair.Value.F1),
			"precision", fmt.Sprintf("%.4f", pair.Value.Precision),
			"recall", fmt.Sprintf("%.4f", pair.Value.Recall))
	}
}

func metricCells(m Metrics) []string {
	return []string{
		strconv.FormatFloat(m.Precision, 'f', 4, 64),
		strconv.FormatFloat(m.Recall, 'f', 4, 64),
		strconv.FormatFloat(m.F1, 'f', 4, 64),
		strconv.Itoa(m.Support),
	}
}
