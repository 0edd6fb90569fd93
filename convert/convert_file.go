// convert_file.go - Eingaben aus safetensors-Dateien lesen und zurueckschreiben
// Hauptfunktionen: FromFile, Tensors
package convert

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/7blacky7/seqmask/fs/safetensors"
	"github.com/7blacky7/seqmask/ml"
)

// FromFile liest name als reelle oder komplexe Eingabe aus f.
// Die beiden komplexen Teile werden parallel geladen.
func FromFile(f *safetensors.File, name string) (Input, error) {
	if _, ok := f.Tensor(name); ok {
		x, err := f.Read(name)
		if err != nil {
			return nil, err
		}
		return RealInput{X: x}, nil
	}

	names := []string{name + RealSuffix, name + ImagSuffix}
	for _, n := range names {
		if _, ok := f.Tensor(n); !ok {
			return nil, fmt.Errorf("%w: %s not found", ErrMissingPart, n)
		}
	}

	parts := make([]*ml.Array, len(names))
	var g errgroup.Group
	for i, n := range names {
		g.Go(func() error {
			a, err := f.Read(n)
			if err != nil {
				return err
			}
			parts[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return newComplexInput(parts[0], parts[1])
}

// Tensors gibt die Teile von in als benannte Tensoren zum Schreiben zurueck
func Tensors(name string, in Input) []safetensors.Tensor {
	parts := in.Parts()
	tensors := make([]safetensors.Tensor, len(parts))
	for i, p := range parts {
		tensors[i] = safetensors.Tensor{Name: name + p.Suffix, Array: p.Array}
	}
	return tensors
}
