// cmd.go - Haupt-CLI Setup und Root Command
// Hauptfunktionen: NewCLI, appendEnvDocs
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/7blacky7/seqmask/envconfig"
	"github.com/7blacky7/seqmask/logutil"
)

// appendEnvDocs - Fuegt Umgebungsvariablen-Dokumentation zum Command hinzu
func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// NewCLI - Erstellt das Haupt-CLI mit allen Commands
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "seqmask",
		Short:         "Masking, padding and augmentation for batched variable-length sequences",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(logutil.NewLogger(cmd.ErrOrStderr(), envconfig.LogLevel()))
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(cmd.UsageString())
		},
	}

	// Commands erstellen
	maskCmd := newMaskCmd()
	trimCmd := newTrimCmd()
	rollCmd := newRollCmd()
	scoreCmd := newScoreCmd()
	importCmd := newImportCmd()
	envCmd := newEnvCmd()

	// Environment-Dokumentation hinzufuegen
	envVars := envconfig.AsMap()
	envs := []envconfig.EnvVar{envVars["SEQMASK_DEBUG"]}

	for _, cmd := range []*cobra.Command{
		maskCmd,
		trimCmd,
		rollCmd,
		scoreCmd,
		importCmd,
	} {
		switch cmd {
		case maskCmd:
			appendEnvDocs(cmd, []envconfig.EnvVar{
				envVars["SEQMASK_DEBUG"],
				envVars["SEQMASK_MASK_STRATEGY"],
				envVars["SEQMASK_NONPAD"],
			})
		case rollCmd:
			appendEnvDocs(cmd, []envconfig.EnvVar{
				envVars["SEQMASK_DEBUG"],
				envVars["SEQMASK_ROLL_SEED"],
				envVars["SEQMASK_ROLL_INTERVAL"],
			})
		default:
			appendEnvDocs(cmd, envs)
		}
	}

	rootCmd.AddCommand(
		maskCmd,
		trimCmd,
		rollCmd,
		scoreCmd,
		importCmd,
		envCmd,
	)

	return rootCmd
}
