// MODUL: labels
// ZWECK: Frame-Label-Dateien im Format "utt_id v1 v2 ..." einlesen
// INPUT: io.Reader bzw. Dateipfade
// OUTPUT: Labels (utt_id -> Label-Sequenz)
// NEBENEFFEKTE: Dateizugriffe in LoadPair
// ABHAENGIGKEITEN: golang.org/x/sync/errgroup
// HINWEISE: Werte werden als Gleitkommazahl gelesen und Richtung 0 abgeschnitten,
//           Zeilen ohne Werte werden uebersprungen

package score

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Labels bildet Utterance-IDs auf ihre Label-Sequenz ab
type Labels map[string][]int

// ReadLabels liest eine Label-Datei. Spaetere Zeilen mit gleicher ID ueberschreiben fruehere.
func ReadLabels(r io.Reader) (Labels, error) {
	labels := make(Labels)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), 16<<20)
	for n := 1; scanner.Scan(); n++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}

		values := make([]int, len(fields)-1)
		for i, field := range fields[1:] {
			f, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, fmt.Errorf("line %d: label %q is not finite", n, field)
			}
			values[i] = int(f)
		}
		labels[fields[0]] = values
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return labels, nil
}

// LoadLabels liest die Label-Datei unter path
func LoadLabels(path string) (Labels, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	labels, err := ReadLabels(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return labels, nil
}

// LoadPair liest Vorhersage- und Referenzdatei parallel
func LoadPair(ctx context.Context, predPath, refPath string) (pred, ref Labels, err error) {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		pred, err = LoadLabels(predPath)
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		ref, err = LoadLabels(refPath)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return pred, ref, nil
}
