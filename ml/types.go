// types.go - Datentypen fuer Arrays und Masken
// Dieses Modul definiert den DType, mit dem ein Array seine urspruengliche
// Element-Repraesentation mitfuehrt. Gerechnet wird intern immer in float32.
package ml

import "fmt"

// DType represents the data type an array was created from.
type DType int

const (
	DTypeOther DType = iota
	DTypeF32
	DTypeF16
	DTypeBF16
	DTypeF64
	DTypeI32
	DTypeI64
	DTypeBool
)

// String gibt den safetensors-Namen des Datentyps zurueck
func (d DType) String() string {
	switch d {
	case DTypeF32:
		return "F32"
	case DTypeF16:
		return "F16"
	case DTypeBF16:
		return "BF16"
	case DTypeF64:
		return "F64"
	case DTypeI32:
		return "I32"
	case DTypeI64:
		return "I64"
	case DTypeBool:
		return "BOOL"
	default:
		return fmt.Sprintf("DType(%d)", int(d))
	}
}

// IsInteger meldet ob der Datentyp ganzzahlig ist
func (d DType) IsInteger() bool {
	return d == DTypeI32 || d == DTypeI64
}

// ParseDType liest einen safetensors-Datentyp-Namen
func ParseDType(s string) (DType, error) {
	switch s {
	case "F32":
		return DTypeF32, nil
	case "F16":
		return DTypeF16, nil
	case "BF16":
		return DTypeBF16, nil
	case "F64":
		return DTypeF64, nil
	case "I32":
		return DTypeI32, nil
	case "I64":
		return DTypeI64, nil
	case "BOOL":
		return DTypeBool, nil
	default:
		return DTypeOther, fmt.Errorf("ml: unknown dtype %q", s)
	}
}
