// config_features.go - Feature-Flags und CLI-Defaults
//
// Dieses Modul enthaelt:
// - Roll-Augmentation (Seed, Quantisierungs-Intervall)
// - Ausgabe-Flags fuer die Masken-Anzeige
package envconfig

// =============================================================================
// Roll-Augmentation
// =============================================================================

var (
	// RollSeed setzt den Seed fuer zufaellige Roll-Betraege (0 = zufaellig pro Aufruf)
	RollSeed = Uint64("SEQMASK_ROLL_SEED", 0)

	// RollInterval quantisiert Roll-Betraege auf Vielfache dieses Werts (0 = aus)
	RollInterval = Uint("SEQMASK_ROLL_INTERVAL", 0)
)

// =============================================================================
// Ausgabe-Flags
// =============================================================================

var (
	// NonPad gibt Non-Pad-Masken statt Pad-Masken aus
	NonPad = Bool("SEQMASK_NONPAD")
)
