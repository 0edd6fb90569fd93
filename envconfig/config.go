// config.go - Haupt-Konfigurationsfunktionen fuer seqmask
//
// Dieses Modul enthaelt:
// - LogLevel: Gibt Log-Level zurueck (SEQMASK_DEBUG)
// - RollSeed: Seed fuer Roll-Augmentation (SEQMASK_ROLL_SEED)
// - MaskStrategy: Erzwungene Masken-Strategie (SEQMASK_MASK_STRATEGY)
// - Var: Liest eine Environment-Variable ohne Quotes
//
// Weitere Konfigurationen sind ausgelagert:
// - config_features.go: Feature-Flags und Defaults fuer die CLI
// - config_utils.go: Utility-Funktionen und AsMap/Values
package envconfig

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// LogLevel gibt das Log-Level zurueck
// Konfigurierbar via SEQMASK_DEBUG
// Werte: 0/false = INFO (Default), 1/true = DEBUG, 2 = TRACE
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("SEQMASK_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

// MaskStrategy gibt die erzwungene Masken-Strategie zurueck
// Konfigurierbar via SEQMASK_MASK_STRATEGY
// Werte: auto (Default), general, traceable
func MaskStrategy() string {
	s := strings.ToLower(Var("SEQMASK_MASK_STRATEGY"))
	switch s {
	case "", "auto":
		return "auto"
	case "general", "traceable":
		return s
	default:
		slog.Warn("invalid mask strategy, using default", "value", s, "default", "auto")
		return "auto"
	}
}

// Var gibt eine Environment-Variable zurueck
// Entfernt fuehrende/trailing Quotes und Leerzeichen
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}
