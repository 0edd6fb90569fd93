// dump.go - Dump-Funktionen fuer Array- und Masken-Debugging
// Dieses Modul stellt Hilfsfunktionen zum Ausgeben von Array-Inhalten bereit.
package ml

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DumpOptions configures array dump output format.
type DumpOptions func(*dumpOptions)

// DumpWithPrecision sets the number of decimal places to print. Applies to float arrays.
func DumpWithPrecision(n int) DumpOptions {
	return func(opts *dumpOptions) {
		opts.Precision = n
	}
}

// DumpWithThreshold sets the threshold for printing the entire array. If the number of elements
// is less than or equal to this value, the entire array will be printed. Otherwise, only the
// beginning and end of each dimension will be printed.
func DumpWithThreshold(n int) DumpOptions {
	return func(opts *dumpOptions) {
		opts.Threshold = n
	}
}

// DumpWithEdgeItems sets the number of elements to print at the beginning and end of each dimension.
func DumpWithEdgeItems(n int) DumpOptions {
	return func(opts *dumpOptions) {
		opts.EdgeItems = n
	}
}

type dumpOptions struct {
	Precision, Threshold, EdgeItems int
}

func newDumpOptions(shape Shape, optsFuncs []DumpOptions) dumpOptions {
	opts := dumpOptions{Precision: 4, Threshold: 1000, EdgeItems: 3}
	for _, optsFunc := range optsFuncs {
		optsFunc(&opts)
	}

	if shape.NumElements() <= opts.Threshold {
		opts.EdgeItems = math.MaxInt
	}
	return opts
}

// Dump converts an array to a human-readable string representation.
func Dump(a *Array, optsFuncs ...DumpOptions) string {
	opts := newDumpOptions(a.shape, optsFuncs)

	switch {
	case a.dtype.IsInteger():
		return dump(a.data, a.shape, opts.EdgeItems, func(f float32) string {
			return strconv.FormatInt(int64(f), 10)
		})
	case a.dtype == DTypeBool:
		return dump(a.data, a.shape, opts.EdgeItems, func(f float32) string {
			return strconv.FormatBool(f != 0)
		})
	default:
		return dump(a.data, a.shape, opts.EdgeItems, func(f float32) string {
			return strconv.FormatFloat(float64(f), 'f', opts.Precision, 32)
		})
	}
}

// DumpMask converts a mask to a human-readable string representation using T/F cells.
func DumpMask(m *Mask, optsFuncs ...DumpOptions) string {
	opts := newDumpOptions(m.shape, optsFuncs)
	return dump(m.data, m.shape, opts.EdgeItems, func(b bool) string {
		if b {
			return "T"
		}
		return "F"
	})
}

func dump[S ~[]E, E any](s S, shape Shape, items int, fn func(E) string) string {
	if len(shape) == 0 {
		if len(s) == 0 {
			return "[]"
		}
		return fn(s[0])
	}

	var sb strings.Builder
	var f func([]int, int)
	f = func(dims []int, stride int) {
		prefix := strings.Repeat(" ", len(shape)-len(dims)+1)
		sb.WriteString("[")
		defer func() { sb.WriteString("]") }()
		for i := 0; i < dims[0]; i++ {
			if i >= items && i < dims[0]-items {
				sb.WriteString("..., ")
				// skip to next printable element
				skip := dims[0] - 2*items
				if len(dims) > 1 {
					stride += Shape(append([]int{skip}, dims[1:]...)).NumElements()
					fmt.Fprint(&sb, strings.Repeat("\n", len(dims)-1), prefix)
				}
				i += skip - 1
			} else if len(dims) > 1 {
				f(dims[1:], stride)
				stride += Shape(dims[1:]).NumElements()
				if i < dims[0]-1 {
					fmt.Fprint(&sb, ",", strings.Repeat("\n", len(dims)-1), prefix)
				}
			} else {
				text := fn(s[stride+i])
				if len(text) > 0 && text[0] != '-' {
					sb.WriteString(" ")
				}

				sb.WriteString(text)
				if i < dims[0]-1 {
					sb.WriteString(", ")
				}
			}
		}
	}
	f(shape, 0)

	return sb.String()
}
