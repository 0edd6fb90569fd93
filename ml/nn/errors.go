// MODUL: errors
// ZWECK: Fehler-Definitionen fuer Masken-, Pad-, Trim- und Roll-Operationen
// INPUT: keine
// OUTPUT: Sentinel-Fehler fuer errors.Is
// NEBENEFFEKTE: keine
// ABHAENGIGKEITEN: errors (stdlib)
// HINWEISE: Alle Fehler sind Vertragsverletzungen und werden nie automatisch behoben

package nn

import "errors"

var (
	// ErrShapeMismatch wird bei inkompatiblen Batch- oder Trailing-Dimensionen zurueckgegeben
	ErrShapeMismatch = errors.New("nn: shape mismatch")

	// ErrInvalidAxis wird zurueckgegeben wenn die Laengen-Achse die Batch-Achse ist oder nicht existiert
	ErrInvalidAxis = errors.New("nn: invalid length axis")

	// ErrLengthBounds wird zurueckgegeben wenn Laengen die erlaubte Maximal-Laenge verletzen
	ErrLengthBounds = errors.New("nn: length bounds violation")

	// ErrUnsupportedRank wird zurueckgegeben wenn die gewaehlte Strategie die Konfiguration nicht abdeckt
	ErrUnsupportedRank = errors.New("nn: unsupported rank")

	// ErrNoTargets wird zurueckgegeben wenn alle Ziel-Labels ignoriert werden
	ErrNoTargets = errors.New("nn: no targets to score")
)
